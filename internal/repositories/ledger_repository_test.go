package repositories

import (
	"context"
	"testing"
	"time"

	"lpg-backend/internal/models"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerRepo(t *testing.T) (*LedgerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewLedgerRepository(mock), mock
}

func TestCreateLedgerEntry(t *testing.T) {
	repo, mock := newLedgerRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO ledger_entries").
		WithArgs(1, 5, models.LedgerEntryTypePayment, "Cash received", 0.0, 500.0,
			(*int)(nil), "", 3, "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(17, now))

	entry, err := repo.Create(context.Background(), 1, &models.CreateLedgerEntryRequest{
		CustomerID:      5,
		EntryType:       models.LedgerEntryTypePayment,
		Description:     "Cash received",
		Credit:          500.0,
		CreatedByUserID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 17, entry.ID)
	assert.Equal(t, 1, entry.TenantID)
	assert.Equal(t, 500.0, entry.Credit)
	assert.Equal(t, now, entry.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSumForCustomer(t *testing.T) {
	repo, mock := newLedgerRepo(t)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(1, 5).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(240.50))

	sum, err := repo.SumForCustomer(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 240.50, sum)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSumsByCustomer(t *testing.T) {
	repo, mock := newLedgerRepo(t)

	mock.ExpectQuery("SELECT customer_id, COALESCE").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"customer_id", "balance"}).
			AddRow(5, 240.50).
			AddRow(8, -30.00))

	sums, err := repo.SumsByCustomer(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, 240.50, sums[5])
	assert.Equal(t, -30.00, sums[8])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDayBook(t *testing.T) {
	repo, mock := newLedgerRepo(t)
	from := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery("SELECT entry_type").
		WithArgs(1, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"entry_type", "total_debit", "total_credit", "entry_count"}).
			AddRow(models.LedgerEntryTypeSale, 4500.00, 0.0, 5).
			AddRow(models.LedgerEntryTypePayment, 0.0, 3200.00, 4))

	rows, err := repo.DayBook(context.Background(), 1, from, to)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.LedgerEntryTypeSale, rows[0].EntryType)
	assert.Equal(t, 4500.00, rows[0].TotalDebit)
	assert.Equal(t, 4, rows[1].EntryCount)
	require.NoError(t, mock.ExpectationsWereMet())
}
