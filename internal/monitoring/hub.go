package monitoring

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"lpg-backend/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const maxAlerts = 200

// Alert is one operational event pushed to connected dashboards: a failed
// compensation drain, a reconciliation discrepancy spike, a database hiccup.
type Alert struct {
	ID        int       `json:"id"`
	Severity  string    `json:"severity"` // info, warning, critical
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans alerts out to websocket dashboard clients and serves system stats
type Hub struct {
	db         *pgxpool.Pool
	startedAt  time.Time
	alerts     []Alert
	alertsMux  sync.RWMutex
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Alert
	nextID     int
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard is same-origin behind the CORS middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewHub(db *pgxpool.Pool) *Hub {
	return &Hub{
		db:        db,
		startedAt: time.Now(),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Alert, 64),
	}
}

// Run pumps alerts to connected clients. Call in a goroutine.
func (h *Hub) Run() {
	for alert := range h.broadcast {
		h.clientsMux.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(alert); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.clientsMux.Unlock()
	}
}

// Publish records an alert and pushes it to all connected dashboards
func (h *Hub) Publish(severity, alertType, message string) {
	h.alertsMux.Lock()
	h.nextID++
	alert := Alert{
		ID:        h.nextID,
		Severity:  severity,
		Type:      alertType,
		Message:   message,
		Timestamp: time.Now(),
	}
	h.alerts = append(h.alerts, alert)
	if len(h.alerts) > maxAlerts {
		h.alerts = h.alerts[len(h.alerts)-maxAlerts:]
	}
	h.alertsMux.Unlock()

	select {
	case h.broadcast <- alert:
	default:
		log.Printf("[Monitoring] Alert channel full, dropping broadcast: %s", message)
	}
}

// ServeWS upgrades a dashboard connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] Websocket upgrade failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	// Reader loop only to detect close
	go func() {
		defer func() {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Alerts returns the recent alert history
func (h *Hub) Alerts(w http.ResponseWriter, r *http.Request) {
	h.alertsMux.RLock()
	alerts := make([]Alert, len(h.alerts))
	copy(alerts, h.alerts)
	h.alertsMux.RUnlock()
	utils.JSON(w, http.StatusOK, alerts)
}

// SystemStats is the dashboard's resource snapshot
type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	DBConnections int32   `json:"db_connections"`
	DBIdle        int32   `json:"db_idle"`
	DBStatus      string  `json:"db_status"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}

// Stats serves a point-in-time system snapshot
func (h *Hub) Stats(w http.ResponseWriter, r *http.Request) {
	stats := SystemStats{
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		DBStatus:      "healthy",
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	}

	poolStat := h.db.Stat()
	stats.DBConnections = poolStat.TotalConns()
	stats.DBIdle = poolStat.IdleConns()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		stats.DBStatus = "unhealthy"
	}

	utils.JSON(w, http.StatusOK, stats)
}
