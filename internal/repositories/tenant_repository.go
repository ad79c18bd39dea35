package repositories

import (
	"context"
	"fmt"

	"lpg-backend/internal/models"
)

type TenantRepository struct {
	DB DB
}

func NewTenantRepository(db DB) *TenantRepository {
	return &TenantRepository{DB: db}
}

// ListActive returns the agencies the background jobs iterate over
func (r *TenantRepository) ListActive(ctx context.Context) ([]models.Tenant, error) {
	rows, err := r.DB.Query(ctx,
		"SELECT id, name, is_active, created_at FROM tenants WHERE is_active ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []models.Tenant
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}
