package ports

import (
	"context"
	"time"

	"creator-payout-ledger/internal/core/domain"
)

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(creatorID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	CreatorID string
}

// SettlementCache is the Redis-layer settlement replay check (fast path).
type SettlementCache interface {
	Get(ctx context.Context, submissionID string) ([]byte, error) // Returns cached payment JSON or nil
	Set(ctx context.Context, submissionID string, value []byte, ttl time.Duration) error
}

// TrustScoreCache memoizes provider trust scores.
type TrustScoreCache interface {
	Get(ctx context.Context, creatorID string) (int, bool, error)
	Set(ctx context.Context, creatorID string, score int, ttl time.Duration) error
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, clientID string, nonce string, ttl time.Duration) (bool, error)
}

// --- Service Ports (Business Logic) ---

// BalanceService is the only writer of ledger balances.
type BalanceService interface {
	GetBalance(ctx context.Context, accountID string, accountType domain.AccountType) (int64, error)
	AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (int64, error)
	TransferBalance(ctx context.Context, req TransferRequest) (*TransferResult, error)
	GetOrCreateBankAccount(ctx context.Context) (string, error)
}

// AdjustBalanceRequest applies a signed delta to one account.
type AdjustBalanceRequest struct {
	AccountID   string
	AccountType domain.AccountType
	Delta       int64
	Reason      string
	Metadata    map[string]interface{}
}

// TransferRequest moves a positive amount between two accounts.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        int64
	Reason        string
	Metadata      map[string]interface{}
}

// TransferResult holds both balances after a transfer commits.
type TransferResult struct {
	FromBalance int64
	ToBalance   int64
}

// SettlementService settles approved submissions. When settlement fails after
// a payment record was written, SettlePayment returns the result holding the
// failed payment together with the error.
type SettlementService interface {
	SettlePayment(ctx context.Context, req SettlementRequest) (*SettlementResult, error)
	ListPayments(ctx context.Context, submissionID string) ([]domain.Payment, error)
}

// SettlementRequest is the approved-submission context.
type SettlementRequest struct {
	Submission domain.Submission
	Gig        domain.Gig
	Creator    domain.CreatorSnapshot
}

// SettlementResult reports what a settlement call did.
// Duplicate: an active payment already existed and is returned as-is.
// Skipped: nothing was owed, so no payment was recorded.
type SettlementResult struct {
	Payment   *domain.Payment
	Breakdown domain.PayoutBreakdown
	Duplicate bool
	Skipped   bool
}

// WithdrawalService handles creator-initiated withdrawals. A failure after the
// pending record was written returns the failed withdrawal with the error.
type WithdrawalService interface {
	InitiateWithdrawal(ctx context.Context, req WithdrawalRequest) (*domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, creatorID string, limit int) ([]domain.Withdrawal, error)
}

// WithdrawalRequest holds validated input for a withdrawal.
type WithdrawalRequest struct {
	CreatorID string
	Amount    int64
	Method    domain.WithdrawalMethod
}

// ReportingService exposes read-only ledger views.
type ReportingService interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	ListTransactions(ctx context.Context, params BalanceTransactionListParams) ([]domain.BalanceTransaction, int64, error)
}
