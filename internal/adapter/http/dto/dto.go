package dto

import (
	"time"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/pkg/apperror"
)

// SubmissionRequest is the approved submission being settled.
type SubmissionRequest struct {
	ID               string `json:"id" binding:"required,max=100,safe_id"`
	GigID            string `json:"gig_id" binding:"required,max=100,safe_id"`
	CreatorID        string `json:"creator_id" binding:"required,max=100,safe_id"`
	PurchaseVerified bool   `json:"purchase_verified"`
	PurchaseAmount   int64  `json:"purchase_amount" binding:"gte=0"`
	BonusAmount      int64  `json:"bonus_amount" binding:"gte=0"`
}

// GigRequest is the gig's payout configuration at approval time.
type GigRequest struct {
	ID               string                 `json:"id" binding:"required,max=100,safe_id"`
	BrandID          string                 `json:"brand_id" binding:"required,max=100,safe_id"`
	PayoutType       string                 `json:"payout_type" binding:"required,oneof=fixed dynamic"`
	BasePayout       int64                  `json:"base_payout" binding:"gte=0"`
	FollowerRanges   []domain.FollowerRange `json:"follower_ranges,omitempty" binding:"max=50"`
	RequiresPurchase bool                   `json:"requires_purchase"`
	ReimbursementCap int64                  `json:"reimbursement_cap" binding:"gte=0"`
}

// CreatorRequest is the creator snapshot settlement reads.
type CreatorRequest struct {
	ID                  string           `json:"id" binding:"required,max=100,safe_id"`
	FollowerCounts      map[string]int64 `json:"follower_counts,omitempty"`
	ConnectedAccountRef *string          `json:"connected_account_ref,omitempty" binding:"omitempty,max=255,safe_id"`
}

// SettlementRequest is the request body for POST /api/v1/settlements.
type SettlementRequest struct {
	Submission SubmissionRequest `json:"submission"`
	Gig        GigRequest        `json:"gig"`
	Creator    CreatorRequest    `json:"creator"`
}

// ToPort checks the cross-field rules binding tags cannot express.
func (r *SettlementRequest) ToPort() (ports.SettlementRequest, error) {
	if r.Submission.GigID != r.Gig.ID {
		return ports.SettlementRequest{}, apperror.Validation("submission.gig_id does not match gig.id")
	}
	if r.Submission.CreatorID != r.Creator.ID {
		return ports.SettlementRequest{}, apperror.Validation("submission.creator_id does not match creator.id")
	}
	if r.Gig.PayoutType == string(domain.PayoutTypeDynamic) {
		if err := domain.ValidateFollowerRanges(r.Gig.FollowerRanges); err != nil {
			return ports.SettlementRequest{}, apperror.Validation(err.Error())
		}
	}

	return ports.SettlementRequest{
		Submission: domain.Submission{
			ID:               r.Submission.ID,
			GigID:            r.Submission.GigID,
			CreatorID:        r.Submission.CreatorID,
			PurchaseVerified: r.Submission.PurchaseVerified,
			PurchaseAmount:   r.Submission.PurchaseAmount,
			BonusAmount:      r.Submission.BonusAmount,
		},
		Gig: domain.Gig{
			ID:               r.Gig.ID,
			BrandID:          r.Gig.BrandID,
			PayoutType:       domain.PayoutType(r.Gig.PayoutType),
			BasePayout:       r.Gig.BasePayout,
			FollowerRanges:   r.Gig.FollowerRanges,
			RequiresPurchase: r.Gig.RequiresPurchase,
			ReimbursementCap: r.Gig.ReimbursementCap,
		},
		Creator: domain.CreatorSnapshot{
			ID:                  r.Creator.ID,
			FollowerCounts:      r.Creator.FollowerCounts,
			ConnectedAccountRef: r.Creator.ConnectedAccountRef,
		},
	}, nil
}

// WithdrawalRequest is the request body for POST /api/v1/withdrawals.
// Amount and method rules live in the withdrawal service.
type WithdrawalRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method" binding:"max=16"`
}

// BreakdownResponse is the money split computed for a submission.
type BreakdownResponse struct {
	BasePayout          int64 `json:"base_payout"`
	PlatformFee         int64 `json:"platform_fee"`
	ReimbursementAmount int64 `json:"reimbursement_amount"`
	BonusAmount         int64 `json:"bonus_amount"`
	CreatorNet          int64 `json:"creator_net"`
}

// PaymentResponse is the response body for a payment record.
type PaymentResponse struct {
	ID                  string  `json:"id"`
	SubmissionID        string  `json:"submission_id"`
	GigID               string  `json:"gig_id"`
	BrandID             string  `json:"brand_id"`
	CreatorID           string  `json:"creator_id"`
	BasePayout          int64   `json:"base_payout"`
	PlatformFee         int64   `json:"platform_fee"`
	ReimbursementAmount int64   `json:"reimbursement_amount"`
	BonusAmount         int64   `json:"bonus_amount"`
	CreatorNet          int64   `json:"creator_net"`
	Status              string  `json:"status"`
	PaymentMethod       string  `json:"payment_method,omitempty"`
	ExternalTransferRef *string `json:"external_transfer_ref,omitempty"`
	Error               *string `json:"error,omitempty"`
	CreatedAt           string  `json:"created_at"`
	SettledAt           *string `json:"settled_at,omitempty"`
}

// SettlementResponse is the response body for POST /api/v1/settlements.
type SettlementResponse struct {
	Payment   *PaymentResponse  `json:"payment,omitempty"`
	Breakdown BreakdownResponse `json:"breakdown"`
	Duplicate bool              `json:"duplicate"`
	Skipped   bool              `json:"skipped"`
}

// WithdrawalResponse is the response body for a withdrawal record.
type WithdrawalResponse struct {
	ID                  string  `json:"id"`
	Amount              int64   `json:"amount"`
	RequestedMethod     string  `json:"requested_method"`
	Method              string  `json:"method"`
	Status              string  `json:"status"`
	TrustScoreAtRequest int     `json:"trust_score_at_request"`
	ExternalTransferRef *string `json:"external_transfer_ref,omitempty"`
	ExternalPayoutRef   *string `json:"external_payout_ref,omitempty"`
	EstimatedArrival    *string `json:"estimated_arrival,omitempty"`
	Error               *string `json:"error,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

// BalanceResponse is the response for balance query.
type BalanceResponse struct {
	CreatorID string `json:"creator_id"`
	Balance   int64  `json:"balance"`
	Currency  string `json:"currency"`
}

// BalanceTransactionResponse is one ledger history entry.
type BalanceTransactionResponse struct {
	ID            string                 `json:"id"`
	Amount        int64                  `json:"amount"`
	BalanceBefore int64                  `json:"balance_before"`
	BalanceAfter  int64                  `json:"balance_after"`
	Reason        string                 `json:"reason"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	AuditHash     string                 `json:"audit_hash"`
	CreatedAt     string                 `json:"created_at"`
}

// TransactionListResponse wraps paginated ledger history.
type TransactionListResponse struct {
	AccountID  string                       `json:"account_id"`
	Balance    int64                        `json:"balance"`
	Items      []BalanceTransactionResponse `json:"items"`
	Total      int64                        `json:"total"`
	Page       int                          `json:"page"`
	PageSize   int                          `json:"page_size"`
	TotalPages int                          `json:"total_pages"`
}

// NewPaymentResponse maps a payment record.
func NewPaymentResponse(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	resp := &PaymentResponse{
		ID:                  p.ID.String(),
		SubmissionID:        p.SubmissionID,
		GigID:               p.GigID,
		BrandID:             p.BrandID,
		CreatorID:           p.CreatorID,
		BasePayout:          p.BasePayout,
		PlatformFee:         p.PlatformFee,
		ReimbursementAmount: p.ReimbursementAmount,
		BonusAmount:         p.BonusAmount,
		CreatorNet:          p.CreatorNet,
		Status:              string(p.Status),
		PaymentMethod:       string(p.PaymentMethod),
		ExternalTransferRef: p.ExternalTransferRef,
		Error:               p.Error,
		CreatedAt:           formatTime(p.CreatedAt),
	}
	if p.SettledAt != nil {
		s := formatTime(*p.SettledAt)
		resp.SettledAt = &s
	}
	return resp
}

// NewSettlementResponse maps a settlement outcome.
func NewSettlementResponse(r *ports.SettlementResult) SettlementResponse {
	return SettlementResponse{
		Payment: NewPaymentResponse(r.Payment),
		Breakdown: BreakdownResponse{
			BasePayout:          r.Breakdown.BasePayout,
			PlatformFee:         r.Breakdown.PlatformFee,
			ReimbursementAmount: r.Breakdown.ReimbursementAmount,
			BonusAmount:         r.Breakdown.BonusAmount,
			CreatorNet:          r.Breakdown.CreatorNet,
		},
		Duplicate: r.Duplicate,
		Skipped:   r.Skipped,
	}
}

// NewWithdrawalResponse maps a withdrawal record.
func NewWithdrawalResponse(w *domain.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		ID:                  w.ID.String(),
		Amount:              w.Amount,
		RequestedMethod:     string(w.RequestedMethod),
		Method:              string(w.Method),
		Status:              string(w.Status),
		TrustScoreAtRequest: w.TrustScoreAtRequest,
		ExternalTransferRef: w.ExternalTransferRef,
		ExternalPayoutRef:   w.ExternalPayoutRef,
		EstimatedArrival:    w.EstimatedArrival,
		Error:               w.Error,
		CreatedAt:           formatTime(w.CreatedAt),
	}
}

// NewBalanceTransactionResponse maps one audit record.
func NewBalanceTransactionResponse(t *domain.BalanceTransaction) BalanceTransactionResponse {
	return BalanceTransactionResponse{
		ID:            t.ID.String(),
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		Reason:        t.Reason,
		Metadata:      t.Metadata,
		AuditHash:     t.AuditHash,
		CreatedAt:     formatTime(t.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
