package postgres

import (
	"context"
	"testing"
	"time"

	"creator-payout-ledger/internal/core/domain"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withdrawalFields(w *domain.Withdrawal) []any {
	return []any{
		w.ID, w.CreatorID, w.Amount, w.RequestedMethod, w.Method, w.Status, w.TrustScoreAtRequest,
		w.ExternalTransferRef, w.ExternalPayoutRef, w.EstimatedArrival, w.Error, w.CreatedAt, w.UpdatedAt,
	}
}

func withdrawalRows(withdrawals ...*domain.Withdrawal) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "creator_id", "amount", "requested_method", "method", "status",
		"trust_score_at_request", "external_transfer_ref", "external_payout_ref", "estimated_arrival", "error",
		"created_at", "updated_at"})
	for _, w := range withdrawals {
		rows.AddRow(withdrawalFields(w)...)
	}
	return rows
}

func newTestWithdrawal() *domain.Withdrawal {
	return domain.NewPendingWithdrawal("creator-1", 500, domain.WithdrawalMethodInstant,
		time.Now().UTC().Truncate(time.Microsecond))
}

func TestWithdrawalRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	w := newTestWithdrawal()

	mock.ExpectExec("INSERT INTO withdrawals").
		WithArgs(withdrawalFields(w)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), w))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_Create_PendingExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	w := newTestWithdrawal()

	mock.ExpectExec("INSERT INTO withdrawals").
		WithArgs(withdrawalFields(w)...).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_withdrawals_creator_pending"})

	err = repo.Create(context.Background(), w)
	assert.ErrorIs(t, err, domain.ErrWithdrawalInProgress)
}

func TestWithdrawalRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	w := newTestWithdrawal()
	w.MarkProcessing("tr_1", "po_1", time.Now().UTC())

	mock.ExpectExec("UPDATE withdrawals SET").
		WithArgs(w.Method, w.Status, w.TrustScoreAtRequest,
			w.ExternalTransferRef, w.ExternalPayoutRef, w.EstimatedArrival, w.Error, w.UpdatedAt, w.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), w))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_Update_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	w := newTestWithdrawal()

	mock.ExpectExec("UPDATE withdrawals SET").
		WithArgs(w.Method, w.Status, w.TrustScoreAtRequest,
			w.ExternalTransferRef, w.ExternalPayoutRef, w.EstimatedArrival, w.Error, w.UpdatedAt, w.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorContains(t, repo.Update(context.Background(), w), "withdrawal not found")
}

func TestWithdrawalRepo_ListByCreator(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	first, second := newTestWithdrawal(), newTestWithdrawal()

	mock.ExpectQuery("SELECT .+ FROM withdrawals\\s+WHERE creator_id = \\$1 ORDER BY created_at DESC LIMIT \\$2").
		WithArgs("creator-1", 20).
		WillReturnRows(withdrawalRows(first, second))

	list, err := repo.ListByCreator(context.Background(), "creator-1", 20)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
