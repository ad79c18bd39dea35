package repositories

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackc/pgx/v5"
)

func newCustomerRepo(t *testing.T) (*CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewCustomerRepository(mock), mock
}

func TestRepairBalance_VersionMatches(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectExec("UPDATE customers").
		WithArgs(240.50, 5, 1, 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.RepairBalance(context.Background(), 1, 5, 240.50, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepairBalance_StaleVersionTouchesNothing(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	// postings bumped the version between scan and repair; the guarded
	// UPDATE matches zero rows
	mock.ExpectExec("UPDATE customers").
		WithArgs(240.50, 5, 1, 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.RepairBalance(context.Background(), 1, 5, 240.50, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustBalance_UnknownCustomer(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectExec("UPDATE customers").
		WithArgs(-100.0, 99, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.AdjustBalance(context.Background(), 1, 99, -100.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomer_NoRowsIsNilNotError(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs(99, 1).
		WillReturnError(pgx.ErrNoRows)

	customer, err := repo.Get(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.Nil(t, customer)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBalances(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectQuery("SELECT id, name, current_balance, balance_version").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "current_balance", "balance_version"}).
			AddRow(1, "Sharma Stores", 1200.00, 4).
			AddRow(2, "Gupta Dhaba", -50.00, 1))

	balances, err := repo.ListBalances(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, "Sharma Stores", balances[0].Name)
	assert.Equal(t, 1200.00, balances[0].CurrentBalance)
	assert.Equal(t, 4, balances[0].BalanceVersion)
	assert.Equal(t, -50.00, balances[1].CurrentBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}
