package repositories

import (
	"context"
	"fmt"

	"lpg-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	DB DB
}

func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// Create books a new order with its line items in one transaction
func (r *OrderRepository) Create(ctx context.Context, tenantID int, req *models.CreateOrderRequest) (*models.Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	total := 0.0
	for _, item := range req.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}

	order := &models.Order{
		TenantID:    tenantID,
		CustomerID:  req.CustomerID,
		Status:      models.OrderStatusPending,
		TotalAmount: total,
		Notes:       req.Notes,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (tenant_id, customer_id, status, total_amount, notes)
		VALUES ($1, $2, 'pending', $3, $4)
		RETURNING id, created_at, updated_at
	`, tenantID, req.CustomerID, total, req.Notes).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range req.Items {
		var itemID int
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, capacity_kg, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, order.ID, item.CapacityKg, item.Quantity, item.UnitPrice).Scan(&itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:         itemID,
			OrderID:    order.ID,
			CapacityKg: item.CapacityKg,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}
	return order, nil
}

// Get returns one order scoped by tenant
func (r *OrderRepository) Get(ctx context.Context, tenantID, id int) (*models.Order, error) {
	query := `
		SELECT id, tenant_id, customer_id, driver_id, status, total_amount,
			COALESCE(proof_url, '') as proof_url, COALESCE(notes, '') as notes,
			created_at, updated_at
		FROM orders
		WHERE id = $1 AND tenant_id = $2
	`
	var o models.Order
	err := r.DB.QueryRow(ctx, query, id, tenantID).Scan(
		&o.ID, &o.TenantID, &o.CustomerID, &o.DriverID, &o.Status,
		&o.TotalAmount, &o.ProofURL, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// GetForDriver returns an order only when it is assigned to the given driver
func (r *OrderRepository) GetForDriver(ctx context.Context, tenantID, orderID, driverID int) (*models.Order, error) {
	query := `
		SELECT id, tenant_id, customer_id, driver_id, status, total_amount,
			COALESCE(proof_url, '') as proof_url, COALESCE(notes, '') as notes,
			created_at, updated_at
		FROM orders
		WHERE id = $1 AND tenant_id = $2 AND driver_id = $3
	`
	var o models.Order
	err := r.DB.QueryRow(ctx, query, orderID, tenantID, driverID).Scan(
		&o.ID, &o.TenantID, &o.CustomerID, &o.DriverID, &o.Status,
		&o.TotalAmount, &o.ProofURL, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order for driver: %w", err)
	}
	return &o, nil
}

// RequiredQuantity sums line-item quantities for an order
func (r *OrderRepository) RequiredQuantity(ctx context.Context, orderID int) (int, error) {
	var qty int
	err := r.DB.QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity), 0) FROM order_items WHERE order_id = $1",
		orderID).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("failed to sum order items: %w", err)
	}
	return qty, nil
}

// SetProofURL attaches a proof-of-delivery image URL to an order
func (r *OrderRepository) SetProofURL(ctx context.Context, tenantID, orderID int, url string) error {
	_, err := r.DB.Exec(ctx,
		"UPDATE orders SET proof_url = $1, updated_at = NOW() WHERE id = $2 AND tenant_id = $3",
		url, orderID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to set proof url: %w", err)
	}
	return nil
}

// List returns a tenant's orders, optionally filtered by status
func (r *OrderRepository) List(ctx context.Context, tenantID int, status models.OrderStatus, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, tenant_id, customer_id, driver_id, status, total_amount,
			COALESCE(proof_url, '') as proof_url, COALESCE(notes, '') as notes,
			created_at, updated_at
		FROM orders
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.Query(ctx, query, tenantID, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListByDriver returns a driver's open orders
func (r *OrderRepository) ListByDriver(ctx context.Context, tenantID, driverID int) ([]models.Order, error) {
	query := `
		SELECT id, tenant_id, customer_id, driver_id, status, total_amount,
			COALESCE(proof_url, '') as proof_url, COALESCE(notes, '') as notes,
			created_at, updated_at
		FROM orders
		WHERE tenant_id = $1 AND driver_id = $2
			AND status IN ('assigned', 'out_for_delivery')
		ORDER BY created_at
	`
	rows, err := r.DB.Query(ctx, query, tenantID, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list driver orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.TenantID, &o.CustomerID, &o.DriverID, &o.Status,
			&o.TotalAmount, &o.ProofURL, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
