package repositories

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandoverRepo(t *testing.T) (*HandoverRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewHandoverRepository(mock), mock
}

func TestMarkRejected_AppendsReasonToNotes(t *testing.T) {
	repo, mock := newHandoverRepo(t)

	// the driver's submission notes survive; the reason lands on its own line
	mock.ExpectExec(`notes = COALESCE\(notes \|\| E'\\n', ''\) \|\| 'Rejected: '`).
		WithArgs("counted short", 3, 9, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.MarkRejected(context.Background(), 1, 9, 3, "counted short")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRejected_AlreadyResolvedLeftAlone(t *testing.T) {
	repo, mock := newHandoverRepo(t)

	mock.ExpectExec("UPDATE handover_requests").
		WithArgs("late", 3, 9, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.MarkRejected(context.Background(), 1, 9, 3, "late")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
