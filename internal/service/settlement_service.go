package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SettlementServiceImpl implements ports.SettlementService.
type SettlementServiceImpl struct {
	paymentRepo ports.PaymentRepository
	cache       ports.SettlementCache
	publisher   ports.EventPublisher
	paths       []ports.SettlementPath
	feeRate     decimal.Decimal
	cacheTTL    time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl. Paths are tried in
// the order given; the external path belongs first and the ledger path last.
func NewSettlementService(
	paymentRepo ports.PaymentRepository,
	cache ports.SettlementCache,
	publisher ports.EventPublisher,
	feeRate decimal.Decimal,
	cacheTTL time.Duration,
	log zerolog.Logger,
	paths ...ports.SettlementPath,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		paymentRepo: paymentRepo,
		cache:       cache,
		publisher:   publisher,
		paths:       paths,
		feeRate:     feeRate,
		cacheTTL:    cacheTTL,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// SettlePayment settles one approved submission. An active payment for the
// submission is returned as a duplicate; a non-positive net is skipped without
// a record. Every failure after the pending insert leaves a failed payment,
// which is returned together with the error.
func (s *SettlementServiceImpl) SettlePayment(ctx context.Context, req ports.SettlementRequest) (*ports.SettlementResult, error) {
	if err := validateSettlementRequest(req); err != nil {
		return nil, err
	}
	submissionID := req.Submission.ID

	// Layer 1: Redis settlement cache
	cached, err := s.cache.Get(ctx, submissionID)
	if err != nil {
		s.log.Warn().Err(err).Str("submission_id", submissionID).Msg("settlement cache check failed, falling through to DB")
	}
	if cached != nil {
		payment := &domain.Payment{}
		if err := json.Unmarshal(cached, payment); err == nil {
			return &ports.SettlementResult{Payment: payment, Breakdown: breakdownOf(payment), Duplicate: true}, nil
		}
		s.log.Warn().Str("submission_id", submissionID).Msg("discarding unreadable cached settlement")
	}

	// Layer 2: active payment in the store
	existing, err := s.paymentRepo.FindActiveBySubmission(ctx, submissionID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("find active payment: %w", err))
	}
	if existing != nil {
		return &ports.SettlementResult{Payment: existing, Breakdown: breakdownOf(existing), Duplicate: true}, nil
	}

	breakdown := domain.ComputePayout(req.Gig, req.Creator, req.Submission, s.feeRate)
	if !breakdown.Settleable() {
		s.log.Info().
			Str("submission_id", submissionID).
			Int64("creator_net", breakdown.CreatorNet).
			Msg("nothing owed, settlement skipped")
		return &ports.SettlementResult{Breakdown: breakdown, Skipped: true}, nil
	}

	payment := domain.NewPendingPayment(req.Submission, req.Gig, breakdown, s.now())

	// The store's partial unique index re-checks the guard for concurrent attempts.
	if err := s.paymentRepo.CreatePending(ctx, payment); err != nil {
		if errors.Is(err, domain.ErrActivePaymentExists) {
			winner, findErr := s.paymentRepo.FindActiveBySubmission(ctx, submissionID)
			if findErr != nil {
				return nil, apperror.ErrDatabaseError(fmt.Errorf("find winning payment: %w", findErr))
			}
			if winner != nil {
				return &ports.SettlementResult{Payment: winner, Breakdown: breakdownOf(winner), Duplicate: true}, nil
			}
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create pending payment: %w", err))
	}

	settleErr := s.runPaths(ctx, payment, req)

	if err := s.paymentRepo.UpdateOutcome(context.WithoutCancel(ctx), payment); err != nil {
		s.log.Error().Err(err).
			Str("payment_id", payment.ID.String()).
			Str("status", string(payment.Status)).
			Msg("failed to persist settlement outcome")
		return &ports.SettlementResult{Payment: payment, Breakdown: breakdown},
			apperror.ErrDatabaseError(fmt.Errorf("update payment outcome: %w", err))
	}

	s.afterSettlement(ctx, payment)

	result := &ports.SettlementResult{Payment: payment, Breakdown: breakdown}
	if settleErr != nil {
		return result, settleErr
	}
	return result, nil
}

// runPaths tries each available path in order. A definitive processor
// rejection falls through to the next path; any other error fails the payment.
func (s *SettlementServiceImpl) runPaths(ctx context.Context, payment *domain.Payment, req ports.SettlementRequest) error {
	var lastErr error
	lastMethod := domain.PaymentMethodBalance

	for _, path := range s.paths {
		method := path.Method()

		ok, err := path.Available(ctx, req)
		if err != nil {
			s.log.Warn().Err(err).
				Str("submission_id", payment.SubmissionID).
				Str("method", string(method)).
				Msg("settlement path probe failed, skipping")
			continue
		}
		if !ok {
			continue
		}

		err = path.Settle(ctx, payment, req)
		if err == nil {
			payment.MarkSettled(method, s.now())
			return nil
		}

		var feeErr *FeeCollectionError
		if errors.As(err, &feeErr) {
			// The creator transfer committed; failing the payment would allow a second payout.
			payment.MarkSettled(method, s.now())
			payment.AppendError(err.Error())
			s.log.Error().Err(err).
				Str("payment_id", payment.ID.String()).
				Int64("platform_fee", payment.PlatformFee).
				Msg("creator paid but platform fee not collected, needs reconciliation")
			return nil
		}

		if apperror.Is(err, apperror.CodeExternalProcessor) {
			s.log.Warn().Err(err).
				Str("submission_id", payment.SubmissionID).
				Msg("processor rejected transfer, falling back to next settlement path")
			lastErr, lastMethod = err, method
			continue
		}

		payment.MarkFailed(method, err, s.now())
		s.log.Warn().Err(err).
			Str("payment_id", payment.ID.String()).
			Str("method", string(method)).
			Msg("settlement failed")
		return err
	}

	if lastErr == nil {
		lastErr = apperror.InternalError(errors.New("no settlement path available"))
	}
	payment.MarkFailed(lastMethod, lastErr, s.now())
	return lastErr
}

// afterSettlement caches active outcomes and publishes events. Both are best-effort.
func (s *SettlementServiceImpl) afterSettlement(ctx context.Context, payment *domain.Payment) {
	now := s.now()

	if payment.IsActive() {
		if data, err := json.Marshal(payment); err == nil {
			if err := s.cache.Set(ctx, payment.SubmissionID, data, s.cacheTTL); err != nil {
				s.log.Warn().Err(err).Str("submission_id", payment.SubmissionID).Msg("failed to cache settlement in redis")
			}
		}
	}

	s.publish(ctx, domain.NewPaymentEvent(payment, now))
	if payment.PaymentMethod == domain.PaymentMethodBalance && payment.IsSettled() &&
		payment.PlatformFee > 0 && payment.Error == nil {
		s.publish(ctx, domain.NewFeeCollectedEvent(payment, now))
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("submission_id", payment.SubmissionID).
		Str("status", string(payment.Status)).
		Str("method", string(payment.PaymentMethod)).
		Int64("creator_net", payment.CreatorNet).
		Msg("settlement recorded")
}

func (s *SettlementServiceImpl) publish(ctx context.Context, event domain.LedgerEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", string(event.Type)).Msg("failed to publish ledger event")
	}
}

// ListPayments returns every payment recorded for a submission, newest first.
func (s *SettlementServiceImpl) ListPayments(ctx context.Context, submissionID string) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list payments: %w", err))
	}
	return payments, nil
}

func validateSettlementRequest(req ports.SettlementRequest) error {
	switch {
	case req.Submission.ID == "":
		return apperror.Validation("submission id is required")
	case req.Submission.CreatorID == "":
		return apperror.Validation("submission creator id is required")
	case req.Gig.BrandID == "":
		return apperror.Validation("gig brand id is required")
	case req.Submission.CreatorID == req.Gig.BrandID:
		return apperror.Validation("brand and creator must be different accounts")
	case req.Submission.BonusAmount < 0:
		return apperror.Validation("bonus amount cannot be negative")
	}
	return nil
}

func breakdownOf(p *domain.Payment) domain.PayoutBreakdown {
	return domain.PayoutBreakdown{
		BasePayout:          p.BasePayout,
		PlatformFee:         p.PlatformFee,
		ReimbursementAmount: p.ReimbursementAmount,
		BonusAmount:         p.BonusAmount,
		CreatorNet:          p.CreatorNet,
	}
}
