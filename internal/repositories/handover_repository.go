package repositories

import (
	"context"
	"fmt"

	"lpg-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type HandoverRepository struct {
	DB DB
}

func NewHandoverRepository(db DB) *HandoverRepository {
	return &HandoverRepository{DB: db}
}

// Create inserts a pending handover request
func (r *HandoverRepository) Create(ctx context.Context, req *models.HandoverRequest) error {
	query := `
		INSERT INTO handover_requests (
			tenant_id, reference, driver_id, receiver_id,
			cash_amount, cylinder_serials, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query,
		req.TenantID, req.Reference, req.DriverID, req.ReceiverID,
		req.CashAmount, req.CylinderSerials, req.Notes,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create handover request: %w", err)
	}
	req.Status = models.HandoverStatusPending
	return nil
}

// Get returns one handover request scoped by tenant
func (r *HandoverRepository) Get(ctx context.Context, tenantID, id int) (*models.HandoverRequest, error) {
	query := `
		SELECT id, tenant_id, reference, driver_id, receiver_id,
			cash_amount, cylinder_serials, status, COALESCE(notes, '') as notes,
			created_at, resolved_at, resolved_by
		FROM handover_requests
		WHERE id = $1 AND tenant_id = $2
	`
	var h models.HandoverRequest
	err := r.DB.QueryRow(ctx, query, id, tenantID).Scan(
		&h.ID, &h.TenantID, &h.Reference, &h.DriverID, &h.ReceiverID,
		&h.CashAmount, &h.CylinderSerials, &h.Status, &h.Notes,
		&h.CreatedAt, &h.ResolvedAt, &h.ResolvedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get handover request: %w", err)
	}
	return &h, nil
}

// ListPending returns a tenant's handover requests awaiting approval
func (r *HandoverRepository) ListPending(ctx context.Context, tenantID int) ([]models.HandoverRequest, error) {
	return r.list(ctx, tenantID, "tenant_id = $1 AND status = 'pending'", tenantID)
}

// ListByDriver returns a driver's handover history, newest first
func (r *HandoverRepository) ListByDriver(ctx context.Context, tenantID, driverID int) ([]models.HandoverRequest, error) {
	return r.list(ctx, tenantID, "tenant_id = $1 AND driver_id = $2", tenantID, driverID)
}

func (r *HandoverRepository) list(ctx context.Context, tenantID int, where string, args ...any) ([]models.HandoverRequest, error) {
	query := `
		SELECT id, tenant_id, reference, driver_id, receiver_id,
			cash_amount, cylinder_serials, status, COALESCE(notes, '') as notes,
			created_at, resolved_at, resolved_by
		FROM handover_requests
		WHERE ` + where + `
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list handover requests: %w", err)
	}
	defer rows.Close()

	var requests []models.HandoverRequest
	for rows.Next() {
		var h models.HandoverRequest
		if err := rows.Scan(
			&h.ID, &h.TenantID, &h.Reference, &h.DriverID, &h.ReceiverID,
			&h.CashAmount, &h.CylinderSerials, &h.Status, &h.Notes,
			&h.CreatedAt, &h.ResolvedAt, &h.ResolvedBy,
		); err != nil {
			return nil, err
		}
		requests = append(requests, h)
	}
	return requests, rows.Err()
}

// MarkRejected closes a pending request. Conditional on status so a request
// approved or rejected by another admin in the meantime is left alone;
// returns false in that case. The rejection reason is appended below the
// driver's own submission notes.
func (r *HandoverRepository) MarkRejected(ctx context.Context, tenantID, id, adminID int, reason string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE handover_requests
		SET status = 'rejected',
			notes = COALESCE(notes || E'\n', '') || 'Rejected: ' || COALESCE($1, ''),
			resolved_at = NOW(), resolved_by = $2
		WHERE id = $3 AND tenant_id = $4 AND status = 'pending'
	`, reason, adminID, id, tenantID)
	if err != nil {
		return false, fmt.Errorf("failed to reject handover request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountPending feeds the pending-handovers gauge
func (r *HandoverRepository) CountPending(ctx context.Context, tenantID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM handover_requests WHERE tenant_id = $1 AND status = 'pending'",
		tenantID).Scan(&count)
	return count, err
}
