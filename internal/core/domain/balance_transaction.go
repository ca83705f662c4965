package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reasons recorded on balance transactions.
const (
	ReasonAdjustment           = "adjustment"
	ReasonSubmissionPayout     = "submission_payout"
	ReasonPlatformFee          = "platform_fee"
	ReasonPlatformFeeCollected = "platform_fee_collected"
	ReasonWithdrawal           = "withdrawal"
)

// Metadata keys used on audit records.
const (
	MetaSubmissionID       = "submission_id"
	MetaGigID              = "gig_id"
	MetaPaymentID          = "payment_id"
	MetaWithdrawalID       = "withdrawal_id"
	MetaCounterpartID      = "counterpart_account_id"
	MetaCounterpartBefore  = "counterpart_balance_before"
	MetaCounterpartAfter   = "counterpart_balance_after"
	MetaCounterpartHash    = "counterpart_audit_hash"
	MetaExternalTransferID = "external_transfer_id"
)

// BalanceTransaction is the immutable audit record of one committed balance mutation.
type BalanceTransaction struct {
	ID            uuid.UUID              `json:"id"`
	UserID        string                 `json:"user_id"`
	UserType      AccountType            `json:"user_type"`
	Amount        int64                  `json:"amount"` // Signed, minor units
	BalanceBefore int64                  `json:"balance_before"`
	BalanceAfter  int64                  `json:"balance_after"`
	Reason        string                 `json:"reason"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	AuditHash     string                 `json:"audit_hash"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Consistent reports whether the record satisfies after == before + amount.
func (t *BalanceTransaction) Consistent() bool {
	return t.BalanceAfter == t.BalanceBefore+t.Amount
}

// CloneMetadata copies m so callers can annotate it without sharing the map.
func CloneMetadata(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m)+3)
	for k, v := range m {
		out[k] = v
	}
	return out
}
