package ports

import (
	"context"

	"creator-payout-ledger/internal/core/domain"
)

// PaymentProcessor is the external processor contract. Amounts are minor units.
// Implementations return apperror PAY_011 for definitive rejections and
// PAY_012 when the outcome of a call is unknown.
type PaymentProcessor interface {
	CreateOutboundTransfer(ctx context.Context, destinationAccountRef string, amount int64, metadata map[string]string) (string, error)
	CreatePayout(ctx context.Context, connectedAccountRef string, amount int64, speed domain.PayoutSpeed, destination string) (string, error)
	GetConnectedAccountStatus(ctx context.Context, accountRef string) (*domain.ConnectedAccountStatus, error)
	RequestCapability(ctx context.Context, accountRef string, capability string) error
	GetIdentityVerificationStatus(ctx context.Context, accountRef string) (domain.VerificationStatus, error)
}

// TrustScoreProvider supplies the 0..100 creator trust signal.
type TrustScoreProvider interface {
	GetTrustScore(ctx context.Context, creatorID string) (int, error)
}

// EventPublisher emits ledger events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
}

// SettlementPath is one way of paying a creator for a submission.
type SettlementPath interface {
	Method() domain.PaymentMethod
	// Available is the capability probe run before Settle is attempted.
	Available(ctx context.Context, req SettlementRequest) (bool, error)
	// Settle moves payment.CreatorNet to the creator and updates payment refs.
	Settle(ctx context.Context, payment *domain.Payment, req SettlementRequest) error
}
