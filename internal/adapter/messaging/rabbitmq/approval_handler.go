package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// RoutingKeySubmissionApproved is published by the marketplace when a brand
// approves a submission.
const RoutingKeySubmissionApproved = "submission.approved"

// approvalEvent is the submission.approved payload.
type approvalEvent struct {
	EventID    string                 `json:"event_id"`
	Submission domain.Submission      `json:"submission"`
	Gig        domain.Gig             `json:"gig"`
	Creator    domain.CreatorSnapshot `json:"creator"`
}

func (e *approvalEvent) validate() error {
	if e.Submission.ID == "" || e.Gig.ID == "" || e.Creator.ID == "" {
		return errors.New("submission, gig and creator ids are required")
	}
	if e.Submission.GigID != e.Gig.ID || e.Submission.CreatorID != e.Creator.ID {
		return errors.New("submission does not reference the enclosed gig and creator")
	}
	if e.Gig.PayoutType == domain.PayoutTypeDynamic {
		return domain.ValidateFollowerRanges(e.Gig.FollowerRanges)
	}
	return nil
}

// ApprovalHandler settles approved submissions delivered over the broker.
type ApprovalHandler struct {
	settlementSvc ports.SettlementService
	log           zerolog.Logger
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(settlementSvc ports.SettlementService, log zerolog.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		settlementSvc: settlementSvc,
		log:           log.With().Str("component", "approval_handler").Logger(),
	}
}

// Handle runs one settlement attempt and always acks. Settlement is
// idempotent per submission, so a redelivery by the marketplace is safe,
// but a failed attempt is not retried here.
func (h *ApprovalHandler) Handle(ctx context.Context, body []byte) bool {
	var event approvalEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.log.Error().Err(err).Int("bytes", len(body)).Msg("malformed approval event, dropping")
		return true
	}
	if err := event.validate(); err != nil {
		h.log.Error().Err(err).Str("event_id", event.EventID).Str("submission_id", event.Submission.ID).
			Msg("invalid approval event, dropping")
		return true
	}

	result, err := h.settlementSvc.SettlePayment(ctx, ports.SettlementRequest{
		Submission: event.Submission,
		Gig:        event.Gig,
		Creator:    event.Creator,
	})
	if err != nil {
		evt := h.log.Error().Err(err).Str("event_id", event.EventID).Str("submission_id", event.Submission.ID)
		if result != nil && result.Payment != nil {
			evt = evt.Str("payment_id", result.Payment.ID.String())
		}
		evt.Msg("settlement from approval event failed")
		return true
	}

	evt := h.log.Info().Str("event_id", event.EventID).Str("submission_id", event.Submission.ID).
		Bool("duplicate", result.Duplicate).Bool("skipped", result.Skipped)
	if result.Payment != nil {
		evt = evt.Str("payment_id", result.Payment.ID.String()).Str("status", string(result.Payment.Status))
	}
	evt.Msg("approval event settled")
	return true
}
