package repositories

import (
	"context"
	"fmt"

	"lpg-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type CylinderRepository struct {
	DB DB
}

func NewCylinderRepository(db DB) *CylinderRepository {
	return &CylinderRepository{DB: db}
}

// RegisterBatch creates new cylinders as full warehouse stock
func (r *CylinderRepository) RegisterBatch(ctx context.Context, tenantID int, req *models.RegisterCylindersRequest) (int, error) {
	created := 0
	for _, serial := range req.SerialNumbers {
		_, err := r.DB.Exec(ctx, `
			INSERT INTO cylinders (tenant_id, serial_number, capacity_kg, status, holder_type, holder_id)
			VALUES ($1, $2, $3, 'full', 'warehouse', NULL)
		`, tenantID, serial, req.CapacityKg)
		if err != nil {
			return created, fmt.Errorf("failed to register cylinder %s: %w", serial, err)
		}
		created++
	}
	return created, nil
}

// Get returns one cylinder by serial number
func (r *CylinderRepository) Get(ctx context.Context, tenantID int, serial string) (*models.Cylinder, error) {
	query := `
		SELECT id, tenant_id, serial_number, capacity_kg, status,
			holder_type, holder_id, created_at, updated_at
		FROM cylinders
		WHERE tenant_id = $1 AND serial_number = $2
	`
	var c models.Cylinder
	err := r.DB.QueryRow(ctx, query, tenantID, serial).Scan(
		&c.ID, &c.TenantID, &c.SerialNumber, &c.CapacityKg, &c.Status,
		&c.Holder.Type, &c.Holder.ID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cylinder: %w", err)
	}
	return &c, nil
}

// ListByHolder returns cylinders held by the given holder, optionally
// filtered by status
func (r *CylinderRepository) ListByHolder(ctx context.Context, tenantID int, holder models.Holder, status models.CylinderStatus) ([]models.Cylinder, error) {
	query := `
		SELECT id, tenant_id, serial_number, capacity_kg, status,
			holder_type, holder_id, created_at, updated_at
		FROM cylinders
		WHERE tenant_id = $1 AND holder_type = $2
			AND ($3::int IS NULL OR holder_id = $3)
			AND ($4 = '' OR status = $4)
		ORDER BY serial_number
	`
	rows, err := r.DB.Query(ctx, query, tenantID, holder.Type, holder.ID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list cylinders: %w", err)
	}
	defer rows.Close()

	return scanCylinders(rows)
}

// ListByStatus returns all of a tenant's cylinders in a status
func (r *CylinderRepository) ListByStatus(ctx context.Context, tenantID int, status models.CylinderStatus) ([]models.Cylinder, error) {
	query := `
		SELECT id, tenant_id, serial_number, capacity_kg, status,
			holder_type, holder_id, created_at, updated_at
		FROM cylinders
		WHERE tenant_id = $1 AND status = $2
		ORDER BY serial_number
	`
	rows, err := r.DB.Query(ctx, query, tenantID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list cylinders by status: %w", err)
	}
	defer rows.Close()

	return scanCylinders(rows)
}

// CountFullByDriver returns how many full cylinders a driver carries
func (r *CylinderRepository) CountFullByDriver(ctx context.Context, tenantID, driverID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM cylinders
		WHERE tenant_id = $1 AND holder_type = 'driver' AND holder_id = $2 AND status = 'full'
	`, tenantID, driverID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count driver stock: %w", err)
	}
	return count, nil
}

// DispatchToDriver moves full warehouse cylinders onto a driver's vehicle.
// Conditional update: only rows currently full and in the warehouse move,
// and the returned count tells the caller whether every serial matched.
func (r *CylinderRepository) DispatchToDriver(ctx context.Context, tenantID, driverID int, serials []string) (int64, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE cylinders
		SET holder_type = 'driver', holder_id = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND serial_number = ANY($3)
			AND status = 'full' AND holder_type = 'warehouse'
	`, driverID, tenantID, serials)
	if err != nil {
		return 0, fmt.Errorf("failed to dispatch cylinders: %w", err)
	}
	return tag.RowsAffected(), nil
}

// LockForHandover flips a driver's empty cylinders to handover_pending.
//
// This conditional update is the custody race guard: of two simultaneous
// handover submissions naming the same cylinder, only one UPDATE matches the
// row, and the RETURNING list tells each caller exactly which serials it won.
func (r *CylinderRepository) LockForHandover(ctx context.Context, tenantID, driverID int, serials []string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		UPDATE cylinders
		SET status = 'handover_pending', updated_at = NOW()
		WHERE tenant_id = $1 AND serial_number = ANY($2)
			AND holder_type = 'driver' AND holder_id = $3
			AND status = 'empty'
		RETURNING serial_number
	`, tenantID, serials, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cylinders for handover: %w", err)
	}
	defer rows.Close()

	var locked []string
	for rows.Next() {
		var serial string
		if err := rows.Scan(&serial); err != nil {
			return nil, err
		}
		locked = append(locked, serial)
	}
	return locked, rows.Err()
}

// UnlockSerials reverts handover_pending cylinders back to empty. The holder
// is untouched: the driver keeps the cylinders, only the lock is cleared.
func (r *CylinderRepository) UnlockSerials(ctx context.Context, tenantID, driverID int, serials []string) (int64, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE cylinders
		SET status = 'empty', updated_at = NOW()
		WHERE tenant_id = $1 AND serial_number = ANY($2)
			AND holder_type = 'driver' AND holder_id = $3
			AND status = 'handover_pending'
	`, tenantID, serials, driverID)
	if err != nil {
		return 0, fmt.Errorf("failed to unlock cylinders: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetStatus moves a cylinder to maintenance/missing/empty by serial
func (r *CylinderRepository) SetStatus(ctx context.Context, tenantID int, serial string, status models.CylinderStatus) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE cylinders SET status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND serial_number = $3
	`, status, tenantID, serial)
	if err != nil {
		return fmt.Errorf("failed to set cylinder status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cylinder %s not found", serial)
	}
	return nil
}

// ReturnToWarehouse moves cylinders back into warehouse stock with the given
// status (empty returns, refilled stock)
func (r *CylinderRepository) ReturnToWarehouse(ctx context.Context, tenantID int, serials []string, status models.CylinderStatus) (int64, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE cylinders
		SET holder_type = 'warehouse', holder_id = NULL, status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND serial_number = ANY($3)
	`, status, tenantID, serials)
	if err != nil {
		return 0, fmt.Errorf("failed to return cylinders to warehouse: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanCylinders(rows pgx.Rows) ([]models.Cylinder, error) {
	var cylinders []models.Cylinder
	for rows.Next() {
		var c models.Cylinder
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.SerialNumber, &c.CapacityKg, &c.Status,
			&c.Holder.Type, &c.Holder.ID, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cylinders = append(cylinders, c)
	}
	return cylinders, rows.Err()
}
