package http

import (
	"net/http"

	"lpg-backend/internal/handlers"
	"lpg-backend/internal/middleware"
	"lpg-backend/internal/monitoring"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	reconciliationHandler *handlers.ReconciliationHandler,
	cylinderHandler *handlers.CylinderHandler,
	handoverHandler *handlers.HandoverHandler,
	orderHandler *handlers.OrderHandler,
	paymentHandler *handlers.PaymentHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	hub *monitoring.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Probes and metrics
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/ready", healthHandler.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Account management
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	authAPI.HandleFunc("/totp/setup", authHandler.SetupTOTP).Methods("POST")
	authAPI.HandleFunc("/totp/verify", authHandler.VerifyTOTP).Methods("POST")

	// Staff accounts (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.RequireRole("admin", "manager"))
	usersAPI.HandleFunc("", authHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", authHandler.Signup).Methods("POST")

	// Customers and ledgers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.List).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.Create).Methods("POST")
	customersAPI.HandleFunc("/{id}", customerHandler.Get).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.Update).Methods("PUT")
	customersAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin", "manager")(http.HandlerFunc(customerHandler.Delete)).ServeHTTP).Methods("DELETE")
	customersAPI.HandleFunc("/{id}/ledger", customerHandler.Statement).Methods("GET")
	customersAPI.HandleFunc("/{id}/ledger", authMiddleware.RequireRole("admin", "manager", "accountant")(http.HandlerFunc(customerHandler.PostLedgerEntry)).ServeHTTP).Methods("POST")
	customersAPI.HandleFunc("/{id}/payments", paymentHandler.ListByCustomer).Methods("GET")

	// Tenant-wide ledger audit view
	ledgerAPI := r.PathPrefix("/api/ledger").Subrouter()
	ledgerAPI.Use(authMiddleware.RequireRole("admin", "manager", "accountant"))
	ledgerAPI.HandleFunc("", customerHandler.LedgerEntries).Methods("GET")

	// Reconciliation (accountant tooling)
	reconAPI := r.PathPrefix("/api/reconciliation").Subrouter()
	reconAPI.Use(authMiddleware.RequireRole("admin", "manager", "accountant"))
	reconAPI.HandleFunc("", reconciliationHandler.Report).Methods("GET")
	reconAPI.HandleFunc("/repair", reconciliationHandler.Repair).Methods("POST")

	// Cylinder inventory
	cylindersAPI := r.PathPrefix("/api/cylinders").Subrouter()
	cylindersAPI.Use(authMiddleware.Authenticate)
	cylindersAPI.HandleFunc("", cylinderHandler.List).Methods("GET")
	cylindersAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(cylinderHandler.Register)).ServeHTTP).Methods("POST")
	cylindersAPI.HandleFunc("/mine", cylinderHandler.MyCylinders).Methods("GET")
	cylindersAPI.HandleFunc("/dispatch", authMiddleware.RequireAdmin(http.HandlerFunc(cylinderHandler.Dispatch)).ServeHTTP).Methods("POST")
	cylindersAPI.HandleFunc("/return", authMiddleware.RequireAdmin(http.HandlerFunc(cylinderHandler.ReturnToWarehouse)).ServeHTTP).Methods("POST")
	cylindersAPI.HandleFunc("/{serial}", cylinderHandler.Get).Methods("GET")
	cylindersAPI.HandleFunc("/{serial}/status", authMiddleware.RequireAdmin(http.HandlerFunc(cylinderHandler.SetStatus)).ServeHTTP).Methods("PATCH")

	// Handovers: drivers submit, admins settle
	handoversAPI := r.PathPrefix("/api/handovers").Subrouter()
	handoversAPI.Use(authMiddleware.Authenticate)
	handoversAPI.HandleFunc("", authMiddleware.RequireRole("driver")(http.HandlerFunc(handoverHandler.Submit)).ServeHTTP).Methods("POST")
	handoversAPI.HandleFunc("/mine", handoverHandler.MyHandovers).Methods("GET")
	handoversAPI.HandleFunc("/pending", authMiddleware.RequireAdmin(http.HandlerFunc(handoverHandler.ListPending)).ServeHTTP).Methods("GET")
	handoversAPI.HandleFunc("/{id}/approve", authMiddleware.RequireAdmin(http.HandlerFunc(handoverHandler.Approve)).ServeHTTP).Methods("POST")
	handoversAPI.HandleFunc("/{id}/reject", authMiddleware.RequireAdmin(http.HandlerFunc(handoverHandler.Reject)).ServeHTTP).Methods("POST")

	// Driver wallets
	walletsAPI := r.PathPrefix("/api/wallets").Subrouter()
	walletsAPI.Use(authMiddleware.Authenticate)
	walletsAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(handoverHandler.ListWallets)).ServeHTTP).Methods("GET")
	walletsAPI.HandleFunc("/mine", handoverHandler.MyWallet).Methods("GET")

	// Orders and deliveries
	ordersAPI := r.PathPrefix("/api/orders").Subrouter()
	ordersAPI.Use(authMiddleware.Authenticate)
	ordersAPI.HandleFunc("", orderHandler.List).Methods("GET")
	ordersAPI.HandleFunc("", orderHandler.Create).Methods("POST")
	ordersAPI.HandleFunc("/mine", orderHandler.MyOrders).Methods("GET")
	ordersAPI.HandleFunc("/bulk-assign", authMiddleware.RequireAdmin(http.HandlerFunc(orderHandler.BulkAssign)).ServeHTTP).Methods("POST")
	ordersAPI.HandleFunc("/{id}", orderHandler.Get).Methods("GET")
	ordersAPI.HandleFunc("/{id}/complete", authMiddleware.RequireRole("driver")(http.HandlerFunc(orderHandler.Complete)).ServeHTTP).Methods("POST")
	ordersAPI.HandleFunc("/{id}/cancel", authMiddleware.RequireAdmin(http.HandlerFunc(orderHandler.Cancel)).ServeHTTP).Methods("POST")

	// Online payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/status", paymentHandler.Status).Methods("GET")
	paymentsAPI.HandleFunc("/order", paymentHandler.CreateOrder).Methods("POST")
	paymentsAPI.HandleFunc("/verify", paymentHandler.Verify).Methods("POST")

	// Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.RequireRole("admin", "manager", "accountant"))
	reportsAPI.HandleFunc("/daybook", reportHandler.DayBook).Methods("GET")
	reportsAPI.HandleFunc("/reconciliation", reportHandler.Reconciliation).Methods("GET")

	// Operational dashboard
	monitoringAPI := r.PathPrefix("/api/monitoring").Subrouter()
	monitoringAPI.Use(authMiddleware.RequireAdmin)
	monitoringAPI.HandleFunc("/stats", hub.Stats).Methods("GET")
	monitoringAPI.HandleFunc("/alerts", hub.Alerts).Methods("GET")
	r.HandleFunc("/ws/monitoring", hub.ServeWS)

	return r
}
