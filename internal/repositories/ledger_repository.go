package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lpg-backend/internal/models"
)

type LedgerRepository struct {
	DB DB
}

func NewLedgerRepository(db DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// Create appends a new ledger posting. Postings are immutable; there is no
// update or delete path in normal flow.
func (r *LedgerRepository) Create(ctx context.Context, tenantID int, entry *models.CreateLedgerEntryRequest) (*models.LedgerEntry, error) {
	query := `
		INSERT INTO ledger_entries (
			tenant_id, customer_id, entry_type, description,
			debit, credit, reference_id, reference_type,
			created_by_user_id, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	var id int
	var createdAt time.Time
	err := r.DB.QueryRow(ctx, query,
		tenantID,
		entry.CustomerID,
		entry.EntryType,
		entry.Description,
		entry.Debit,
		entry.Credit,
		entry.ReferenceID,
		entry.ReferenceType,
		entry.CreatedByUserID,
		entry.Notes,
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return &models.LedgerEntry{
		ID:              id,
		TenantID:        tenantID,
		CustomerID:      entry.CustomerID,
		EntryType:       entry.EntryType,
		Description:     entry.Description,
		Debit:           entry.Debit,
		Credit:          entry.Credit,
		ReferenceID:     entry.ReferenceID,
		ReferenceType:   entry.ReferenceType,
		CreatedByUserID: entry.CreatedByUserID,
		CreatedAt:       createdAt,
		Notes:           entry.Notes,
	}, nil
}

// SumForCustomer returns the real balance for one customer:
// SUM(debit) - SUM(credit) over every posting.
func (r *LedgerRepository) SumForCustomer(ctx context.Context, tenantID, customerID int) (float64, error) {
	query := `
		SELECT COALESCE(SUM(debit) - SUM(credit), 0) as balance
		FROM ledger_entries
		WHERE tenant_id = $1 AND customer_id = $2
	`
	var balance float64
	err := r.DB.QueryRow(ctx, query, tenantID, customerID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}
	return balance, nil
}

// SumsByCustomer returns real balances for every customer with at least one
// posting, in one grouped scan. Customers absent from the map have no
// postings and a real balance of zero.
func (r *LedgerRepository) SumsByCustomer(ctx context.Context, tenantID int) (map[int]float64, error) {
	query := `
		SELECT customer_id, COALESCE(SUM(debit) - SUM(credit), 0) as balance
		FROM ledger_entries
		WHERE tenant_id = $1
		GROUP BY customer_id
	`
	rows, err := r.DB.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger entries by customer: %w", err)
	}
	defer rows.Close()

	sums := make(map[int]float64)
	for rows.Next() {
		var customerID int
		var balance float64
		if err := rows.Scan(&customerID, &balance); err != nil {
			return nil, err
		}
		sums[customerID] = balance
	}
	return sums, rows.Err()
}

// GetByCustomer returns a customer's statement, newest first
func (r *LedgerRepository) GetByCustomer(ctx context.Context, tenantID, customerID int, limit, offset int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, tenant_id, customer_id, entry_type, COALESCE(description, '') as description,
			debit, credit, reference_id, COALESCE(reference_type, '') as reference_type,
			created_by_user_id, created_at, COALESCE(notes, '') as notes
		FROM ledger_entries
		WHERE tenant_id = $1 AND customer_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.DB.Query(ctx, query, tenantID, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer ledger: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// GetAll returns ledger entries with optional filters (for audit views)
func (r *LedgerRepository) GetAll(ctx context.Context, tenantID int, filter *models.LedgerFilter) ([]models.LedgerEntry, error) {
	conditions := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	argNum := 2

	if filter.CustomerID != 0 {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argNum))
		args = append(args, filter.CustomerID)
		argNum++
	}
	if filter.EntryType != "" {
		conditions = append(conditions, fmt.Sprintf("entry_type = $%d", argNum))
		args = append(args, filter.EntryType)
		argNum++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argNum))
		args = append(args, filter.StartDate)
		argNum++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argNum))
		args = append(args, filter.EndDate)
		argNum++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}

	query := fmt.Sprintf(`
		SELECT id, tenant_id, customer_id, entry_type, COALESCE(description, '') as description,
			debit, credit, reference_id, COALESCE(reference_type, '') as reference_type,
			created_by_user_id, created_at, COALESCE(notes, '') as notes
		FROM ledger_entries
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conditions, " AND "), argNum, argNum+1)

	args = append(args, limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// DayBookRow is one line of the daily cash book report
type DayBookRow struct {
	EntryType   models.LedgerEntryType `json:"entry_type"`
	TotalDebit  float64                `json:"total_debit"`
	TotalCredit float64                `json:"total_credit"`
	EntryCount  int                    `json:"entry_count"`
}

// DayBook returns per-type totals for one calendar day
func (r *LedgerRepository) DayBook(ctx context.Context, tenantID int, from, to time.Time) ([]DayBookRow, error) {
	query := `
		SELECT entry_type,
			COALESCE(SUM(debit), 0) as total_debit,
			COALESCE(SUM(credit), 0) as total_credit,
			COUNT(*) as entry_count
		FROM ledger_entries
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY entry_type
		ORDER BY entry_type
	`
	rows, err := r.DB.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build day book: %w", err)
	}
	defer rows.Close()

	var result []DayBookRow
	for rows.Next() {
		var row DayBookRow
		if err := rows.Scan(&row.EntryType, &row.TotalDebit, &row.TotalCredit, &row.EntryCount); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanLedgerEntries(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var refID *int
		err := rows.Scan(
			&e.ID, &e.TenantID, &e.CustomerID, &e.EntryType, &e.Description,
			&e.Debit, &e.Credit, &refID, &e.ReferenceType,
			&e.CreatedByUserID, &e.CreatedAt, &e.Notes,
		)
		if err != nil {
			return nil, err
		}
		e.ReferenceID = refID
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
