package postgres

import (
	"context"
	"fmt"

	"creator-payout-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const withdrawalColumns = `id, creator_id, amount, requested_method, method, status, trust_score_at_request,
	external_transfer_ref, external_payout_ref, estimated_arrival, error, created_at, updated_at`

// WithdrawalRepo implements ports.WithdrawalRepository.
type WithdrawalRepo struct {
	pool Pool
}

// NewWithdrawalRepo creates a new WithdrawalRepo.
func NewWithdrawalRepo(pool Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

// Create inserts a new withdrawal. The partial unique index on pending rows
// turns a second in-flight withdrawal into domain.ErrWithdrawalInProgress.
func (r *WithdrawalRepo) Create(ctx context.Context, w *domain.Withdrawal) error {
	query := `INSERT INTO withdrawals (` + withdrawalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.CreatorID, w.Amount, w.RequestedMethod, w.Method, w.Status, w.TrustScoreAtRequest,
		w.ExternalTransferRef, w.ExternalPayoutRef, w.EstimatedArrival, w.Error, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrWithdrawalInProgress
		}
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// Update writes the mutable fields of a withdrawal.
func (r *WithdrawalRepo) Update(ctx context.Context, w *domain.Withdrawal) error {
	query := `UPDATE withdrawals SET method = $1, status = $2, trust_score_at_request = $3,
		external_transfer_ref = $4, external_payout_ref = $5, estimated_arrival = $6, error = $7, updated_at = $8
		WHERE id = $9`

	tag, err := r.pool.Exec(ctx, query,
		w.Method, w.Status, w.TrustScoreAtRequest,
		w.ExternalTransferRef, w.ExternalPayoutRef, w.EstimatedArrival, w.Error, w.UpdatedAt,
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("update withdrawal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal not found: %s", w.ID)
	}
	return nil
}

// ListByCreator returns a creator's most recent withdrawals.
func (r *WithdrawalRepo) ListByCreator(ctx context.Context, creatorID string, limit int) ([]domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals
		WHERE creator_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, creatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		if err := scanWithdrawal(rows, &w); err != nil {
			return nil, fmt.Errorf("scan withdrawal row: %w", err)
		}
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate withdrawal rows: %w", err)
	}
	return withdrawals, nil
}

func scanWithdrawal(row pgx.Row, w *domain.Withdrawal) error {
	return row.Scan(
		&w.ID, &w.CreatorID, &w.Amount, &w.RequestedMethod, &w.Method, &w.Status, &w.TrustScoreAtRequest,
		&w.ExternalTransferRef, &w.ExternalPayoutRef, &w.EstimatedArrival, &w.Error, &w.CreatedAt, &w.UpdatedAt,
	)
}
