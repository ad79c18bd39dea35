package services

import (
	"context"
	"testing"
	"time"

	"lpg-backend/internal/models"
	"lpg-backend/internal/repositories"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerService(t *testing.T) (*CustomerService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	svc := NewCustomerService(
		repositories.NewCustomerRepository(mock),
		repositories.NewLedgerRepository(mock),
	)
	return svc, mock
}

func customerRow(id int, balance, creditLimit float64) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "tenant_id", "name", "phone", "address",
		"current_balance", "credit_limit", "balance_version",
		"created_at", "updated_at",
	}).AddRow(id, 1, "Sharma Stores", "9800000001", "Main Road", balance, creditLimit, 2, now, now)
}

func TestPostLedgerEntry_Validation(t *testing.T) {
	svc, _ := newCustomerService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *models.CreateLedgerEntryRequest
	}{
		{"negative debit", &models.CreateLedgerEntryRequest{CustomerID: 5, Debit: -1}},
		{"negative credit", &models.CreateLedgerEntryRequest{CustomerID: 5, Credit: -1}},
		{"zero movement", &models.CreateLedgerEntryRequest{CustomerID: 5}},
		{"both sides set", &models.CreateLedgerEntryRequest{CustomerID: 5, Debit: 10, Credit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PostLedgerEntry(ctx, 1, tt.req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPostLedgerEntry_CreditLimitBlocksDebit(t *testing.T) {
	svc, mock := newCustomerService(t)

	// balance 900, limit 1000: a 200 debit would land at 1100
	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs(5, 1).
		WillReturnRows(customerRow(5, 900, 1000))

	_, err := svc.PostLedgerEntry(context.Background(), 1, &models.CreateLedgerEntryRequest{
		CustomerID: 5,
		EntryType:  models.LedgerEntryTypeSale,
		Debit:      200,
	})
	require.ErrorIs(t, err, ErrCreditLimit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostLedgerEntry_CreditIgnoresLimit(t *testing.T) {
	svc, mock := newCustomerService(t)
	now := time.Now()

	// payments reduce debt, so a maxed-out customer can still pay
	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs(5, 1).
		WillReturnRows(customerRow(5, 1000, 1000))
	mock.ExpectQuery("INSERT INTO ledger_entries").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(31, now))
	mock.ExpectExec("UPDATE customers").
		WithArgs(-500.0, 5, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	entry, err := svc.PostLedgerEntry(context.Background(), 1, &models.CreateLedgerEntryRequest{
		CustomerID: 5,
		EntryType:  models.LedgerEntryTypePayment,
		Credit:     500,
	})
	require.NoError(t, err)
	assert.Equal(t, 31, entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostLedgerEntry_AdjustFailureStillReturnsEntry(t *testing.T) {
	svc, mock := newCustomerService(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs(5, 1).
		WillReturnRows(customerRow(5, 100, 0))
	mock.ExpectQuery("INSERT INTO ledger_entries").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(32, now))
	mock.ExpectExec("UPDATE customers").
		WithArgs(300.0, 5, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	// posting landed, cached balance did not move: the entry comes back
	// alongside the error so the caller knows the ledger truth
	entry, err := svc.PostLedgerEntry(context.Background(), 1, &models.CreateLedgerEntryRequest{
		CustomerID: 5,
		EntryType:  models.LedgerEntryTypeSale,
		Debit:      300,
	})
	require.Error(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 32, entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
