package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the routing key of a ledger event.
type EventType string

const (
	EventPaymentSettled       EventType = "payment.settled"
	EventPaymentFailed        EventType = "payment.failed"
	EventWithdrawalProcessing EventType = "withdrawal.processing"
	EventWithdrawalFailed     EventType = "withdrawal.failed"
	EventPlatformFeeCollected EventType = "platform.fee.collected"
)

// LedgerEvent is published after a settlement or withdrawal reaches a state.
type LedgerEvent struct {
	ID         uuid.UUID   `json:"id"`
	Type       EventType   `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// FeeCollected describes a platform fee moved to the clearing account.
type FeeCollected struct {
	PaymentID    uuid.UUID `json:"payment_id"`
	SubmissionID string    `json:"submission_id"`
	BrandID      string    `json:"brand_id"`
	Amount       int64     `json:"amount"`
}

// NewPaymentEvent wraps a payment in its outcome event.
func NewPaymentEvent(p *Payment, now time.Time) LedgerEvent {
	t := EventPaymentSettled
	if p.Status == PaymentStatusFailed {
		t = EventPaymentFailed
	}
	return LedgerEvent{ID: uuid.New(), Type: t, OccurredAt: now, Payload: p}
}

// NewWithdrawalEvent wraps a withdrawal in its outcome event.
func NewWithdrawalEvent(w *Withdrawal, now time.Time) LedgerEvent {
	t := EventWithdrawalProcessing
	if w.Status == WithdrawalStatusFailed {
		t = EventWithdrawalFailed
	}
	return LedgerEvent{ID: uuid.New(), Type: t, OccurredAt: now, Payload: w}
}

// NewFeeCollectedEvent reports a collected platform fee.
func NewFeeCollectedEvent(p *Payment, now time.Time) LedgerEvent {
	return LedgerEvent{
		ID:         uuid.New(),
		Type:       EventPlatformFeeCollected,
		OccurredAt: now,
		Payload: FeeCollected{
			PaymentID:    p.ID,
			SubmissionID: p.SubmissionID,
			BrandID:      p.BrandID,
			Amount:       p.PlatformFee,
		},
	}
}
