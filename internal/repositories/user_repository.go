package repositories

import (
	"context"
	"fmt"

	"lpg-backend/internal/models"
)

type UserRepository struct {
	DB DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new user and returns the assigned id
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (tenant_id, name, email, phone, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		user.TenantID, user.Name, user.Email, user.Phone,
		user.PasswordHash, user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Get returns one user scoped by tenant
func (r *UserRepository) Get(ctx context.Context, tenantID, id int) (*models.User, error) {
	query := `
		SELECT id, tenant_id, name, email, COALESCE(phone, '') as phone,
			password_hash, role, is_active,
			COALESCE(totp_secret, '') as totp_secret, totp_enabled,
			created_at, updated_at
		FROM users
		WHERE id = $1 AND tenant_id = $2
	`
	var u models.User
	err := r.DB.QueryRow(ctx, query, id, tenantID).Scan(
		&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.IsActive,
		&u.TOTPSecret, &u.TOTPEnabled,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetByEmail looks up a user across tenants for login
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, tenant_id, name, email, COALESCE(phone, '') as phone,
			password_hash, role, is_active,
			COALESCE(totp_secret, '') as totp_secret, totp_enabled,
			created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var u models.User
	err := r.DB.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.IsActive,
		&u.TOTPSecret, &u.TOTPEnabled,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// List returns all users for a tenant, optionally filtered by role
func (r *UserRepository) List(ctx context.Context, tenantID int, role string) ([]models.User, error) {
	query := `
		SELECT id, tenant_id, name, email, COALESCE(phone, '') as phone,
			role, is_active, totp_enabled, created_at, updated_at
		FROM users
		WHERE tenant_id = $1 AND ($2 = '' OR role = $2)
		ORDER BY name
	`
	rows, err := r.DB.Query(ctx, query, tenantID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.TenantID, &u.Name, &u.Email, &u.Phone,
			&u.Role, &u.IsActive, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetTOTPSecret stores a TOTP secret pending verification
func (r *UserRepository) SetTOTPSecret(ctx context.Context, tenantID, userID int, secret string) error {
	_, err := r.DB.Exec(ctx,
		"UPDATE users SET totp_secret = $1, totp_enabled = false, updated_at = NOW() WHERE id = $2 AND tenant_id = $3",
		secret, userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active once the first code verifies
func (r *UserRepository) EnableTOTP(ctx context.Context, tenantID, userID int) error {
	_, err := r.DB.Exec(ctx,
		"UPDATE users SET totp_enabled = true, updated_at = NOW() WHERE id = $1 AND tenant_id = $2",
		userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to enable totp: %w", err)
	}
	return nil
}
