package repositories

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcedureRepo(t *testing.T) (*ProcedureRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewProcedureRepository(mock), mock
}

func TestCompleteOrderTransaction_PassesSerialsAndNotes(t *testing.T) {
	repo, mock := newProcedureRepo(t)

	serials := []string{"CYL-777", "CYL-778"}
	mock.ExpectQuery("SELECT complete_order_transaction").
		WithArgs(1, 10, 7, 900.0, "cash", serials, "left with guard").
		WillReturnRows(pgxmock.NewRows([]string{"complete_order_transaction"}).
			AddRow([]byte(`{"success": true, "message": "Delivery completed"}`)))

	result, err := repo.CompleteOrderTransaction(context.Background(),
		1, 10, 7, 900.0, "cash", serials, "left with guard")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Delivery completed", result.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteOrderTransaction_DomainRejection(t *testing.T) {
	repo, mock := newProcedureRepo(t)

	mock.ExpectQuery("SELECT complete_order_transaction").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"complete_order_transaction"}).
			AddRow([]byte(`{"success": false, "message": "only 0 of 1 returned serials are at this customer"}`)))

	result, err := repo.CompleteOrderTransaction(context.Background(),
		1, 10, 7, 0.0, "credit", []string{"CYL-999"}, "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "returned serials")
	require.NoError(t, mock.ExpectationsWereMet())
}
