package repositories

import (
	"context"
	"fmt"

	"lpg-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	DB DB
}

func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, tenant_id, name, COALESCE(phone, '') as phone,
	COALESCE(address, '') as address, current_balance, credit_limit,
	balance_version, created_at, updated_at`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.Address,
		&c.CurrentBalance, &c.CreditLimit, &c.BalanceVersion,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer with a zero opening balance
func (r *CustomerRepository) Create(ctx context.Context, tenantID int, req *models.CreateCustomerRequest) (*models.Customer, error) {
	query := `
		INSERT INTO customers (tenant_id, name, phone, address, credit_limit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + customerColumns
	customer, err := scanCustomer(r.DB.QueryRow(ctx, query,
		tenantID, req.Name, req.Phone, req.Address, req.CreditLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// Get returns one customer scoped by tenant
func (r *CustomerRepository) Get(ctx context.Context, tenantID, id int) (*models.Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers WHERE id = $1 AND tenant_id = $2"
	customer, err := scanCustomer(r.DB.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// Update modifies the mutable profile fields
func (r *CustomerRepository) Update(ctx context.Context, tenantID, id int, req *models.UpdateCustomerRequest) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE customers
		SET name = $1, phone = $2, address = $3, credit_limit = $4, updated_at = NOW()
		WHERE id = $5 AND tenant_id = $6
	`, req.Name, req.Phone, req.Address, req.CreditLimit, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// Delete removes a customer row
func (r *CustomerRepository) Delete(ctx context.Context, tenantID, id int) error {
	_, err := r.DB.Exec(ctx,
		"DELETE FROM customers WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// List returns all customers for a tenant
func (r *CustomerRepository) List(ctx context.Context, tenantID int, limit, offset int) ([]models.Customer, error) {
	if limit <= 0 {
		limit = 100
	}
	query := "SELECT " + customerColumns + ` FROM customers
		WHERE tenant_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.Address,
			&c.CurrentBalance, &c.CreditLimit, &c.BalanceVersion,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// SearchByPhone finds customers by phone prefix
func (r *CustomerRepository) SearchByPhone(ctx context.Context, tenantID int, phone string) ([]models.Customer, error) {
	query := "SELECT " + customerColumns + ` FROM customers
		WHERE tenant_id = $1 AND phone LIKE $2 || '%' ORDER BY name LIMIT 20`
	rows, err := r.DB.Query(ctx, query, tenantID, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.Address,
			&c.CurrentBalance, &c.CreditLimit, &c.BalanceVersion,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// ListBalances returns the slim projection the reconciliation scan works on:
// every customer's cached balance plus its version at scan time.
func (r *CustomerRepository) ListBalances(ctx context.Context, tenantID int) ([]models.CustomerBalance, error) {
	query := `
		SELECT id, name, current_balance, balance_version
		FROM customers
		WHERE tenant_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer balances: %w", err)
	}
	defer rows.Close()

	var balances []models.CustomerBalance
	for rows.Next() {
		var b models.CustomerBalance
		if err := rows.Scan(&b.ID, &b.Name, &b.CurrentBalance, &b.BalanceVersion); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// RepairBalance overwrites the cached balance, guarded by the balance version
// observed at scan time. Returns false when the version no longer matches,
// i.e. postings landed between scan and repair.
func (r *CustomerRepository) RepairBalance(ctx context.Context, tenantID, customerID int, correctBalance float64, expectedVersion int) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE customers
		SET current_balance = $1, balance_version = balance_version + 1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3 AND balance_version = $4
	`, correctBalance, customerID, tenantID, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("failed to repair balance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AdjustBalance applies a signed delta to the cached balance as a single
// atomic update, so concurrent postings cannot clobber each other.
func (r *CustomerRepository) AdjustBalance(ctx context.Context, tenantID, customerID int, delta float64) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE customers
		SET current_balance = current_balance + $1, balance_version = balance_version + 1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3
	`, delta, customerID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d not found", customerID)
	}
	return nil
}
