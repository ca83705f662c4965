package domain

import "time"

// AccountType distinguishes the three kinds of ledger accounts.
type AccountType string

const (
	AccountTypeBrand   AccountType = "brand"
	AccountTypeCreator AccountType = "creator"
	AccountTypeBank    AccountType = "bank"
)

// BankAccountID is the reserved id of the platform clearing account.
const BankAccountID = "BANK"

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeBrand, AccountTypeCreator, AccountTypeBank:
		return true
	}
	return false
}

// AllowsNegativeBalance is true only for the clearing account, which tracks
// fees owed/collected rather than funds held.
func (t AccountType) AllowsNegativeBalance() bool {
	return t == AccountTypeBank
}

// Account is a per-party balance in minor currency units.
type Account struct {
	ID            string      `json:"account_id"`
	Type          AccountType `json:"account_type"`
	Balance       int64       `json:"balance"`
	LastAuditHash *string     `json:"-"` // Head of the per-account audit hash chain
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Shortfall returns how far newBalance would take the account below zero,
// or 0 when the balance is allowed.
func (a *Account) Shortfall(newBalance int64) int64 {
	if a.Type.AllowsNegativeBalance() || newBalance >= 0 {
		return 0
	}
	return -newBalance
}

// NewBankAccount returns the clearing account row with a zero balance.
func NewBankAccount(now time.Time) *Account {
	return &Account{
		ID:        BankAccountID,
		Type:      AccountTypeBank,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
