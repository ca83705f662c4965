package domain

import "time"

// CreatorPayoutProfile holds a creator's payment-processor onboarding state.
type CreatorPayoutProfile struct {
	CreatorID              string    `json:"creator_id"`
	ConnectedAccountRef    *string   `json:"connected_account_ref,omitempty"`
	ExternalBankAccountRef *string   `json:"external_bank_account_ref,omitempty"`
	IdentityVerified       bool      `json:"identity_verified"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// HasConnectedAccount reports whether the creator has a processor sub-account.
func (p *CreatorPayoutProfile) HasConnectedAccount() bool {
	return p.ConnectedAccountRef != nil && *p.ConnectedAccountRef != ""
}

// HasBankAccount reports whether a payout bank account is linked.
func (p *CreatorPayoutProfile) HasBankAccount() bool {
	return p.ExternalBankAccountRef != nil && *p.ExternalBankAccountRef != ""
}
