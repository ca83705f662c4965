package domain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// PayoutType selects how a gig prices an approved submission.
type PayoutType string

const (
	PayoutTypeFixed   PayoutType = "fixed"
	PayoutTypeDynamic PayoutType = "dynamic"
)

// DefaultFeeRate is the platform's share of the base payout.
var DefaultFeeRate = decimal.NewFromFloat(0.15)

// FollowerRange is one dynamic payout tier covering [Min, Max).
// A nil Max means the tier has no upper bound.
type FollowerRange struct {
	Min    int64  `json:"min"`
	Max    *int64 `json:"max,omitempty"`
	Payout int64  `json:"payout"`
}

// Contains reports whether followers falls inside the tier.
func (r FollowerRange) Contains(followers int64) bool {
	if followers < r.Min {
		return false
	}
	return r.Max == nil || followers < *r.Max
}

// Gig is the payout configuration snapshot of a gig.
type Gig struct {
	ID               string          `json:"id"`
	BrandID          string          `json:"brand_id"`
	PayoutType       PayoutType      `json:"payout_type"`
	BasePayout       int64           `json:"base_payout"`
	FollowerRanges   []FollowerRange `json:"follower_ranges,omitempty"`
	RequiresPurchase bool            `json:"requires_purchase"`
	ReimbursementCap int64           `json:"reimbursement_cap"`
}

// CreatorSnapshot holds the creator fields settlement reads.
type CreatorSnapshot struct {
	ID                  string           `json:"id"`
	FollowerCounts      map[string]int64 `json:"follower_counts,omitempty"` // platform -> followers
	ConnectedAccountRef *string          `json:"connected_account_ref,omitempty"`
}

// TotalFollowers sums follower counts across tracked platforms.
func (c CreatorSnapshot) TotalFollowers() int64 {
	var total int64
	for _, n := range c.FollowerCounts {
		if n > 0 {
			total += n
		}
	}
	return total
}

// HasConnectedAccount reports whether the creator onboarded with the processor.
func (c CreatorSnapshot) HasConnectedAccount() bool {
	return c.ConnectedAccountRef != nil && *c.ConnectedAccountRef != ""
}

// Submission is the approved-submission snapshot consumed by settlement.
type Submission struct {
	ID               string `json:"id"`
	GigID            string `json:"gig_id"`
	CreatorID        string `json:"creator_id"`
	PurchaseVerified bool   `json:"purchase_verified"`
	PurchaseAmount   int64  `json:"purchase_amount"`
	BonusAmount      int64  `json:"bonus_amount"`
}

// PayoutBreakdown is the full money split for one submission.
type PayoutBreakdown struct {
	BasePayout          int64 `json:"base_payout"`
	PlatformFee         int64 `json:"platform_fee"`
	ReimbursementAmount int64 `json:"reimbursement_amount"`
	BonusAmount         int64 `json:"bonus_amount"`
	CreatorNet          int64 `json:"creator_net"`
}

// BrandCost is what the brand's ledger balance must cover on the balance path.
func (b PayoutBreakdown) BrandCost() int64 {
	return b.CreatorNet + b.PlatformFee
}

// Settleable is false when nothing (or less than nothing) is owed.
func (b PayoutBreakdown) Settleable() bool {
	return b.CreatorNet > 0
}

// ComputeBasePayout prices a submission by the gig's payout type.
// Dynamic tiers are scanned in ascending Min order and the first tier whose
// range contains the creator's total followers wins; no match pays 0.
func ComputeBasePayout(gig Gig, creator CreatorSnapshot) int64 {
	if gig.PayoutType != PayoutTypeDynamic {
		return gig.BasePayout
	}

	tiers := make([]FollowerRange, len(gig.FollowerRanges))
	copy(tiers, gig.FollowerRanges)
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].Min < tiers[j].Min })

	followers := creator.TotalFollowers()
	for _, tier := range tiers {
		if tier.Contains(followers) {
			return tier.Payout
		}
	}
	return 0
}

// ComputePlatformFee takes feeRate of the base payout, rounded half away from zero.
func ComputePlatformFee(basePayout int64, feeRate decimal.Decimal) int64 {
	if basePayout <= 0 {
		return 0
	}
	return decimal.NewFromInt(basePayout).Mul(feeRate).Round(0).IntPart()
}

// ComputeReimbursement pays back a verified product purchase up to the gig cap.
func ComputeReimbursement(gig Gig, sub Submission) int64 {
	if !gig.RequiresPurchase || !sub.PurchaseVerified || sub.PurchaseAmount <= 0 {
		return 0
	}
	if gig.ReimbursementCap < sub.PurchaseAmount {
		return max(gig.ReimbursementCap, 0)
	}
	return sub.PurchaseAmount
}

// ComputePayout produces the breakdown for a submission. The fee applies to
// the base payout only; reimbursement and bonus pass through untouched.
func ComputePayout(gig Gig, creator CreatorSnapshot, sub Submission, feeRate decimal.Decimal) PayoutBreakdown {
	base := ComputeBasePayout(gig, creator)
	fee := ComputePlatformFee(base, feeRate)
	reimbursement := ComputeReimbursement(gig, sub)

	return PayoutBreakdown{
		BasePayout:          base,
		PlatformFee:         fee,
		ReimbursementAmount: reimbursement,
		BonusAmount:         sub.BonusAmount,
		CreatorNet:          base - fee + reimbursement + sub.BonusAmount,
	}
}

// Follower range validation errors.
var (
	ErrFollowerRangeBounds  = errors.New("follower range bounds are invalid")
	ErrFollowerRangeOverlap = errors.New("follower ranges overlap")
)

// ValidateFollowerRanges rejects tiers with negative or inverted bounds and
// tiers whose ranges overlap.
func ValidateFollowerRanges(ranges []FollowerRange) error {
	tiers := make([]FollowerRange, len(ranges))
	copy(tiers, ranges)
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].Min < tiers[j].Min })

	for i, tier := range tiers {
		if tier.Min < 0 || tier.Payout < 0 || (tier.Max != nil && *tier.Max <= tier.Min) {
			return fmt.Errorf("%w: tier starting at %d", ErrFollowerRangeBounds, tier.Min)
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if prev.Max == nil || *prev.Max > tier.Min {
			return fmt.Errorf("%w: tier starting at %d overlaps tier starting at %d",
				ErrFollowerRangeOverlap, tier.Min, prev.Min)
		}
	}
	return nil
}
