package domain

// CapabilityState is the processor's state for a connected-account capability.
type CapabilityState string

const (
	CapabilityActive   CapabilityState = "active"
	CapabilityPending  CapabilityState = "pending"
	CapabilityInactive CapabilityState = "inactive"
)

// CapabilityTransfers is the outbound-transfer capability name.
const CapabilityTransfers = "transfers"

// Usable is true when transfers may be initiated (pending capabilities are
// accepted by the processor and settle once activated).
func (s CapabilityState) Usable() bool {
	return s == CapabilityActive || s == CapabilityPending
}

// ConnectedAccountStatus is the readiness snapshot of a connected account.
type ConnectedAccountStatus struct {
	DetailsSubmitted        bool            `json:"details_submitted"`
	TransferCapabilityState CapabilityState `json:"transfer_capability_state"`
}

// VerificationStatus is the processor's identity verification state.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
)

// PayoutSpeed selects the processor payout rail.
type PayoutSpeed string

const (
	PayoutSpeedInstant  PayoutSpeed = "instant"
	PayoutSpeedStandard PayoutSpeed = "standard"
)

// PayoutSpeedFor maps a withdrawal method to its payout rail.
func PayoutSpeedFor(m WithdrawalMethod) PayoutSpeed {
	if m == WithdrawalMethodInstant {
		return PayoutSpeedInstant
	}
	return PayoutSpeedStandard
}

// Trust score bounds.
const (
	MinTrustScore = 0
	MaxTrustScore = 100
)

// ClampTrustScore forces a provider value into 0..100.
func ClampTrustScore(score int) int {
	return min(max(score, MinTrustScore), MaxTrustScore)
}

// Rejection codes the processor returns for account setup problems. Any other
// code is reported as a generic processor rejection.
const (
	ProcessorCodeVerificationRequired = "verification_required"
	ProcessorCodeAccountIncomplete    = "account_incomplete"
	ProcessorCodeTransfersNotEnabled  = "transfers_not_enabled"
	ProcessorCodeNoExternalAccount    = "no_external_account"
)
