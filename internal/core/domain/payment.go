package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the settlement state of a Payment.
type PaymentStatus string

const (
	PaymentStatusPending            PaymentStatus = "pending"
	PaymentStatusTransferred        PaymentStatus = "transferred"
	PaymentStatusBalanceTransferred PaymentStatus = "balance_transferred"
	PaymentStatusFailed             PaymentStatus = "failed"
)

// PaymentMethod records which settlement path moved the money.
type PaymentMethod string

const (
	PaymentMethodExternal PaymentMethod = "external"
	PaymentMethodBalance  PaymentMethod = "balance"
)

// ErrActivePaymentExists is returned by the store when a non-failed payment
// already holds the submission.
var ErrActivePaymentExists = errors.New("active payment already exists for submission")

// ActivePaymentStatuses block a new settlement attempt for the same submission.
var ActivePaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusTransferred,
	PaymentStatusBalanceTransferred,
}

// Payment is the settlement record for one approved submission.
type Payment struct {
	ID                  uuid.UUID     `json:"id"`
	SubmissionID        string        `json:"submission_id"`
	GigID               string        `json:"gig_id"`
	BrandID             string        `json:"brand_id"`
	CreatorID           string        `json:"creator_id"`
	BasePayout          int64         `json:"base_payout"`
	PlatformFee         int64         `json:"platform_fee"`
	ReimbursementAmount int64         `json:"reimbursement_amount"`
	BonusAmount         int64         `json:"bonus_amount"`
	CreatorNet          int64         `json:"creator_net"`
	Status              PaymentStatus `json:"status"`
	PaymentMethod       PaymentMethod `json:"payment_method,omitempty"`
	ExternalTransferRef *string       `json:"external_transfer_ref,omitempty"`
	Error               *string       `json:"error,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	SettledAt           *time.Time    `json:"settled_at,omitempty"`
}

// NewPendingPayment builds the pending record for a computed breakdown.
func NewPendingPayment(sub Submission, gig Gig, b PayoutBreakdown, now time.Time) *Payment {
	return &Payment{
		ID:                  uuid.New(),
		SubmissionID:        sub.ID,
		GigID:               gig.ID,
		BrandID:             gig.BrandID,
		CreatorID:           sub.CreatorID,
		BasePayout:          b.BasePayout,
		PlatformFee:         b.PlatformFee,
		ReimbursementAmount: b.ReimbursementAmount,
		BonusAmount:         b.BonusAmount,
		CreatorNet:          b.CreatorNet,
		Status:              PaymentStatusPending,
		CreatedAt:           now,
	}
}

// IsActive is true for any status other than failed.
func (p *Payment) IsActive() bool {
	return p.Status != PaymentStatusFailed
}

// IsSettled is true once money has moved by either path.
func (p *Payment) IsSettled() bool {
	return p.Status == PaymentStatusTransferred || p.Status == PaymentStatusBalanceTransferred
}

// MarkSettled moves the payment to the terminal status of the given path.
func (p *Payment) MarkSettled(method PaymentMethod, now time.Time) {
	p.PaymentMethod = method
	if method == PaymentMethodExternal {
		p.Status = PaymentStatusTransferred
	} else {
		p.Status = PaymentStatusBalanceTransferred
	}
	p.SettledAt = &now
}

// MarkFailed records err as the reason no money moved.
func (p *Payment) MarkFailed(method PaymentMethod, err error, now time.Time) {
	msg := err.Error()
	p.Status = PaymentStatusFailed
	p.PaymentMethod = method
	p.Error = &msg
	p.SettledAt = &now
}

// AppendError attaches a note to a payment without changing its status.
func (p *Payment) AppendError(msg string) {
	if p.Error != nil && *p.Error != "" {
		msg = *p.Error + "; " + msg
	}
	p.Error = &msg
}
