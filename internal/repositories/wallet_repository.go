package repositories

import (
	"context"
	"fmt"

	"lpg-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type WalletRepository struct {
	DB DB
}

func NewWalletRepository(db DB) *WalletRepository {
	return &WalletRepository{DB: db}
}

// Get returns a driver's wallet. A driver who never collected cash has no
// row yet; that reads as a zero balance, not an error.
func (r *WalletRepository) Get(ctx context.Context, tenantID, userID int) (*models.EmployeeWallet, error) {
	query := `
		SELECT user_id, tenant_id, balance, version, updated_at
		FROM employee_wallets
		WHERE tenant_id = $1 AND user_id = $2
	`
	var w models.EmployeeWallet
	err := r.DB.QueryRow(ctx, query, tenantID, userID).Scan(
		&w.UserID, &w.TenantID, &w.Balance, &w.Version, &w.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &models.EmployeeWallet{UserID: userID, TenantID: tenantID}, nil
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &w, nil
}

// List returns every wallet for a tenant, highest liability first
func (r *WalletRepository) List(ctx context.Context, tenantID int) ([]models.EmployeeWallet, error) {
	query := `
		SELECT user_id, tenant_id, balance, version, updated_at
		FROM employee_wallets
		WHERE tenant_id = $1
		ORDER BY balance DESC
	`
	rows, err := r.DB.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []models.EmployeeWallet
	for rows.Next() {
		var w models.EmployeeWallet
		if err := rows.Scan(&w.UserID, &w.TenantID, &w.Balance, &w.Version, &w.UpdatedAt); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// Credit adds collected cash to a driver's wallet. Upsert with an atomic
// increment and version bump, so concurrent collections never clobber each
// other.
func (r *WalletRepository) Credit(ctx context.Context, tenantID, userID int, amount float64) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO employee_wallets (tenant_id, user_id, balance, version)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (tenant_id, user_id)
		DO UPDATE SET balance = employee_wallets.balance + $3,
			version = employee_wallets.version + 1,
			updated_at = NOW()
	`, tenantID, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return nil
}
