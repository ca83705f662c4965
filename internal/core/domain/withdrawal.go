package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrWithdrawalInProgress is returned by the store when the creator already
// has a pending withdrawal.
var ErrWithdrawalInProgress = errors.New("creator already has a pending withdrawal")

// WithdrawalMethod is the settlement speed of a withdrawal.
type WithdrawalMethod string

const (
	WithdrawalMethodInstant WithdrawalMethod = "instant"
	WithdrawalMethodACH     WithdrawalMethod = "ach"
)

// Valid reports whether m is a known method.
func (m WithdrawalMethod) Valid() bool {
	return m == WithdrawalMethodInstant || m == WithdrawalMethodACH
}

// WithdrawalStatus tracks a withdrawal through this service.
// Reconciliation beyond processing happens elsewhere.
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusFailed     WithdrawalStatus = "failed"
)

// InstantArrival is the arrival estimate shown for instant payouts.
const InstantArrival = "Within minutes"

// achArrivalDays is the calendar-day estimate for standard bank payouts.
const achArrivalDays = 2

// Withdrawal is a creator-initiated move of ledger balance to an external account.
type Withdrawal struct {
	ID                  uuid.UUID        `json:"id"`
	CreatorID           string           `json:"creator_id"`
	Amount              int64            `json:"amount"`
	RequestedMethod     WithdrawalMethod `json:"requested_method"`
	Method              WithdrawalMethod `json:"method"`
	Status              WithdrawalStatus `json:"status"`
	TrustScoreAtRequest int              `json:"trust_score_at_request"`
	ExternalTransferRef *string          `json:"external_transfer_ref,omitempty"`
	ExternalPayoutRef   *string          `json:"external_payout_ref,omitempty"`
	EstimatedArrival    *string          `json:"estimated_arrival,omitempty"`
	Error               *string          `json:"error,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// NewPendingWithdrawal starts a withdrawal. Method defaults to ACH until routing runs.
func NewPendingWithdrawal(creatorID string, amount int64, requested WithdrawalMethod, now time.Time) *Withdrawal {
	return &Withdrawal{
		ID:              uuid.New(),
		CreatorID:       creatorID,
		Amount:          amount,
		RequestedMethod: requested,
		Method:          WithdrawalMethodACH,
		Status:          WithdrawalStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// MarkProcessing records the processor references once the ledger is debited.
func (w *Withdrawal) MarkProcessing(transferRef, payoutRef string, now time.Time) {
	eta := EstimateArrival(w.Method, now)
	w.Status = WithdrawalStatusProcessing
	w.ExternalTransferRef = &transferRef
	w.ExternalPayoutRef = &payoutRef
	w.EstimatedArrival = &eta
	w.UpdatedAt = now
}

// MarkFailed records why the withdrawal stopped.
func (w *Withdrawal) MarkFailed(err error, now time.Time) {
	msg := err.Error()
	w.Status = WithdrawalStatusFailed
	w.Error = &msg
	w.UpdatedAt = now
}

// EstimateArrival returns the user-facing arrival estimate for method.
func EstimateArrival(method WithdrawalMethod, now time.Time) string {
	if method == WithdrawalMethodInstant {
		return InstantArrival
	}
	return now.AddDate(0, 0, achArrivalDays).Format("January 2, 2006")
}

// RouteWithdrawal picks instant only when it was requested and the trust
// score meets the threshold.
func RouteWithdrawal(requested WithdrawalMethod, trustScore, threshold int) WithdrawalMethod {
	if requested == WithdrawalMethodInstant && trustScore >= threshold {
		return WithdrawalMethodInstant
	}
	return WithdrawalMethodACH
}
