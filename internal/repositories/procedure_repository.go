package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"lpg-backend/internal/metrics"
	"lpg-backend/internal/models"
)

// ProcedureRepository wraps the stored procedures that carry multi-table
// transitions. Each procedure runs as one database transaction and returns
// a jsonb {success, message} envelope; a false success is a domain rejection,
// not a query error.
type ProcedureRepository struct {
	DB DB
}

func NewProcedureRepository(db DB) *ProcedureRepository {
	return &ProcedureRepository{DB: db}
}

func (r *ProcedureRepository) call(ctx context.Context, name, query string, args ...any) (*models.ProcedureResult, error) {
	var raw []byte
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		metrics.ProcedureCallsTotal.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("failed to call %s: %w", name, err)
	}

	var result models.ProcedureResult
	if err := json.Unmarshal(raw, &result); err != nil {
		metrics.ProcedureCallsTotal.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("failed to decode %s result: %w", name, err)
	}

	outcome := "rejected"
	if result.Success {
		outcome = "success"
	}
	metrics.ProcedureCallsTotal.WithLabelValues(name, outcome).Inc()
	return &result, nil
}

// ApproveDriverHandover settles a pending handover: debits the driver wallet,
// transfers the locked cylinders to the warehouse and closes the request,
// atomically.
func (r *ProcedureRepository) ApproveDriverHandover(ctx context.Context, tenantID, requestID, adminID int) (*models.ProcedureResult, error) {
	return r.call(ctx, "approve_driver_handover",
		"SELECT approve_driver_handover($1, $2, $3)",
		tenantID, requestID, adminID)
}

// CompleteOrderTransaction marks an order delivered, moves cylinders to the
// customer, returns the named empties to the driver, posts the sale and
// payment ledger entries and credits the driver's wallet with the collected
// cash.
func (r *ProcedureRepository) CompleteOrderTransaction(ctx context.Context, tenantID, orderID, driverID int, receivedAmount float64, paymentMethod string, returnedSerials []string, notes string) (*models.ProcedureResult, error) {
	return r.call(ctx, "complete_order_transaction",
		"SELECT complete_order_transaction($1, $2, $3, $4, $5, $6, $7)",
		tenantID, orderID, driverID, receivedAmount, paymentMethod, returnedSerials, notes)
}

// CancelOrderTransaction cancels an order and returns any dispatched
// cylinders to warehouse stock.
func (r *ProcedureRepository) CancelOrderTransaction(ctx context.Context, tenantID, orderID, userID int, reason string) (*models.ProcedureResult, error) {
	return r.call(ctx, "cancel_order_transaction",
		"SELECT cancel_order_transaction($1, $2, $3, $4)",
		tenantID, orderID, userID, reason)
}

// BulkAssignOrders assigns a batch of pending orders to a driver in one shot
func (r *ProcedureRepository) BulkAssignOrders(ctx context.Context, tenantID, driverID int, orderIDs []int) (*models.ProcedureResult, error) {
	return r.call(ctx, "bulk_assign_orders",
		"SELECT bulk_assign_orders($1, $2, $3)",
		tenantID, driverID, orderIDs)
}
