package ports

import (
	"context"

	"creator-payout-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AccountRepository defines persistence operations for ledger accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	// CreateIfNotExists inserts the account unless its id is taken.
	// Returns true when this call created the row.
	CreateIfNotExists(ctx context.Context, account *domain.Account) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id string, balance int64, auditHash string) error
}

// BalanceTransactionRepository is the append-only audit log of balance mutations.
type BalanceTransactionRepository interface {
	Create(ctx context.Context, record *domain.BalanceTransaction) error
	List(ctx context.Context, params BalanceTransactionListParams) ([]domain.BalanceTransaction, int64, error)
}

// BalanceTransactionListParams holds filter + pagination for ledger history.
type BalanceTransactionListParams struct {
	UserID   string
	Reason   *string
	Page     int
	PageSize int
}

// PaymentRepository persists settlement records.
type PaymentRepository interface {
	// CreatePending inserts a pending payment. Returns domain.ErrActivePaymentExists
	// when a non-failed payment already holds the submission.
	CreatePending(ctx context.Context, payment *domain.Payment) error
	UpdateOutcome(ctx context.Context, payment *domain.Payment) error
	FindActiveBySubmission(ctx context.Context, submissionID string) (*domain.Payment, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]domain.Payment, error)
}

// WithdrawalRepository persists withdrawal records.
type WithdrawalRepository interface {
	// Create returns domain.ErrWithdrawalInProgress when the creator already has a pending withdrawal.
	Create(ctx context.Context, withdrawal *domain.Withdrawal) error
	Update(ctx context.Context, withdrawal *domain.Withdrawal) error
	ListByCreator(ctx context.Context, creatorID string, limit int) ([]domain.Withdrawal, error)
}

// CreatorProfileRepository reads creator processor-onboarding state.
type CreatorProfileRepository interface {
	GetByCreatorID(ctx context.Context, creatorID string) (*domain.CreatorPayoutProfile, error)
	MarkIdentityVerified(ctx context.Context, creatorID string) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
