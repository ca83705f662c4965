package postgres

import (
	"context"
	"errors"
	"fmt"

	"creator-payout-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, submission_id, gig_id, brand_id, creator_id, base_payout, platform_fee,
	reimbursement_amount, bonus_amount, creator_net, status, payment_method, external_transfer_ref,
	error, created_at, settled_at`

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// CreatePending inserts a pending payment. The partial unique index on
// submission_id turns a concurrent duplicate into domain.ErrActivePaymentExists.
func (r *PaymentRepo) CreatePending(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.SubmissionID, p.GigID, p.BrandID, p.CreatorID, p.BasePayout, p.PlatformFee,
		p.ReimbursementAmount, p.BonusAmount, p.CreatorNet, p.Status, p.PaymentMethod, p.ExternalTransferRef,
		p.Error, p.CreatedAt, p.SettledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrActivePaymentExists
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// UpdateOutcome persists the terminal state of a payment.
func (r *PaymentRepo) UpdateOutcome(ctx context.Context, p *domain.Payment) error {
	query := `UPDATE payments SET status = $1, payment_method = $2, external_transfer_ref = $3,
		error = $4, settled_at = $5 WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query, p.Status, p.PaymentMethod, p.ExternalTransferRef, p.Error, p.SettledAt, p.ID)
	if err != nil {
		return fmt.Errorf("update payment outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment not found: %s", p.ID)
	}
	return nil
}

// FindActiveBySubmission returns the submission's non-failed payment, or nil.
func (r *PaymentRepo) FindActiveBySubmission(ctx context.Context, submissionID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE submission_id = $1 AND status <> 'failed'
		ORDER BY created_at DESC LIMIT 1`

	p := &domain.Payment{}
	if err := scanPayment(r.pool.QueryRow(ctx, query, submissionID), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active payment: %w", err)
	}
	return p, nil
}

// ListBySubmission returns every attempt for a submission, newest first.
func (r *PaymentRepo) ListBySubmission(ctx context.Context, submissionID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE submission_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	return payments, nil
}

func scanPayment(row pgx.Row, p *domain.Payment) error {
	return row.Scan(
		&p.ID, &p.SubmissionID, &p.GigID, &p.BrandID, &p.CreatorID, &p.BasePayout, &p.PlatformFee,
		&p.ReimbursementAmount, &p.BonusAmount, &p.CreatorNet, &p.Status, &p.PaymentMethod, &p.ExternalTransferRef,
		&p.Error, &p.CreatedAt, &p.SettledAt,
	)
}
