package repositories

import (
	"context"
	"fmt"

	"lpg-backend/internal/models"
)

type CompensationRepository struct {
	DB DB
}

func NewCompensationRepository(db DB) *CompensationRepository {
	return &CompensationRepository{DB: db}
}

// Enqueue records a compensation to be applied later by the drain job
func (r *CompensationRepository) Enqueue(ctx context.Context, tenantID int, kind string, payload []byte) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO handover_compensations (tenant_id, kind, payload, status)
		VALUES ($1, $2, $3, 'pending')
	`, tenantID, kind, payload)
	if err != nil {
		return fmt.Errorf("failed to enqueue compensation: %w", err)
	}
	return nil
}

// ListPending returns unapplied compensations across all tenants, oldest first
func (r *CompensationRepository) ListPending(ctx context.Context, limit int) ([]models.Compensation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, tenant_id, kind, payload, status, attempts,
			COALESCE(last_error, '') as last_error, created_at, resolved_at
		FROM handover_compensations
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending compensations: %w", err)
	}
	defer rows.Close()

	var comps []models.Compensation
	for rows.Next() {
		var c models.Compensation
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.Kind, &c.Payload, &c.Status,
			&c.Attempts, &c.LastError, &c.CreatedAt, &c.ResolvedAt,
		); err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return comps, rows.Err()
}

// MarkDone closes a compensation after the drain job applied it
func (r *CompensationRepository) MarkDone(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE handover_compensations
		SET status = 'done', resolved_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark compensation done: %w", err)
	}
	return nil
}

// RecordFailure bumps the attempt counter and keeps the row pending for the
// next drain cycle
func (r *CompensationRepository) RecordFailure(ctx context.Context, id int, reason string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE handover_compensations
		SET attempts = attempts + 1, last_error = $1
		WHERE id = $2
	`, reason, id)
	if err != nil {
		return fmt.Errorf("failed to record compensation failure: %w", err)
	}
	return nil
}

// CountPending feeds the pending-compensations gauge
func (r *CompensationRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM handover_compensations WHERE status = 'pending'").Scan(&count)
	return count, err
}
