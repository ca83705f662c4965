package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	defaultWithdrawalListLimit = 20
	maxWithdrawalListLimit     = 100
)

// WithdrawalPolicy holds the configurable withdrawal rules.
type WithdrawalPolicy struct {
	MinimumAmount         int64
	InstantTrustThreshold int
}

// WithdrawalServiceImpl implements ports.WithdrawalService.
type WithdrawalServiceImpl struct {
	balances       ports.BalanceService
	withdrawalRepo ports.WithdrawalRepository
	profileRepo    ports.CreatorProfileRepository
	processor      ports.PaymentProcessor
	trust          ports.TrustScoreProvider
	publisher      ports.EventPublisher
	policy         WithdrawalPolicy
	now            func() time.Time
	log            zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl.
func NewWithdrawalService(
	balances ports.BalanceService,
	withdrawalRepo ports.WithdrawalRepository,
	profileRepo ports.CreatorProfileRepository,
	processor ports.PaymentProcessor,
	trust ports.TrustScoreProvider,
	publisher ports.EventPublisher,
	policy WithdrawalPolicy,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		balances:       balances,
		withdrawalRepo: withdrawalRepo,
		profileRepo:    profileRepo,
		processor:      processor,
		trust:          trust,
		publisher:      publisher,
		policy:         policy,
		now:            func() time.Time { return time.Now().UTC() },
		log:            log,
	}
}

// InitiateWithdrawal moves a creator's ledger balance out through the payment
// processor. The ledger is debited only after the processor accepted both the
// transfer and the payout. Once the pending record exists, every failure is
// persisted on it and returned together with the error.
func (s *WithdrawalServiceImpl) InitiateWithdrawal(ctx context.Context, req ports.WithdrawalRequest) (*domain.Withdrawal, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Amount < s.policy.MinimumAmount {
		return nil, apperror.ErrBelowMinimumWithdrawal(s.policy.MinimumAmount)
	}
	if req.Method == "" {
		req.Method = domain.WithdrawalMethodACH
	}
	if !req.Method.Valid() {
		return nil, apperror.Validation("method must be instant or ach")
	}

	w := domain.NewPendingWithdrawal(req.CreatorID, req.Amount, req.Method, s.now())
	if err := s.withdrawalRepo.Create(ctx, w); err != nil {
		if errors.Is(err, domain.ErrWithdrawalInProgress) {
			s.log.Info().Str("creator_id", req.CreatorID).Msg("withdrawal rejected, another one is pending")
			return nil, apperror.ErrWithdrawalInProgress()
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create withdrawal: %w", err))
	}

	balance, err := s.balances.GetBalance(ctx, req.CreatorID, domain.AccountTypeCreator)
	if err != nil {
		return s.fail(ctx, w, err)
	}
	if balance < req.Amount {
		return s.fail(ctx, w, apperror.ErrInsufficientFunds(req.Amount-balance))
	}

	w.TrustScoreAtRequest = s.trustScore(ctx, req.CreatorID)
	w.Method = domain.RouteWithdrawal(req.Method, w.TrustScoreAtRequest, s.policy.InstantTrustThreshold)

	profile, err := s.profileRepo.GetByCreatorID(ctx, req.CreatorID)
	if err != nil {
		return s.fail(ctx, w, apperror.ErrDatabaseError(fmt.Errorf("get payout profile: %w", err)))
	}
	if profile == nil {
		profile = &domain.CreatorPayoutProfile{CreatorID: req.CreatorID}
	}

	status, err := s.checkReadiness(ctx, w.Method, profile)
	if err != nil {
		return s.fail(ctx, w, err)
	}
	if err := s.ensureTransfersEnabled(ctx, *profile.ConnectedAccountRef, status); err != nil {
		return s.fail(ctx, w, err)
	}

	connectedRef := *profile.ConnectedAccountRef
	transferRef, err := s.processor.CreateOutboundTransfer(ctx, connectedRef, w.Amount, map[string]string{
		domain.MetaWithdrawalID: w.ID.String(),
		"creator_id":            w.CreatorID,
	})
	if err != nil {
		return s.fail(ctx, w, err)
	}
	w.ExternalTransferRef = &transferRef

	destination := ""
	if w.Method == domain.WithdrawalMethodACH {
		destination = *profile.ExternalBankAccountRef
	}
	payoutRef, err := s.processor.CreatePayout(ctx, connectedRef, w.Amount, domain.PayoutSpeedFor(w.Method), destination)
	if err != nil {
		s.log.Error().Err(err).
			Str("withdrawal_id", w.ID.String()).
			Str("transfer_ref", transferRef).
			Msg("payout failed after transfer, funds remain in connected account")
		return s.fail(ctx, w, err)
	}

	if _, err := s.balances.AdjustBalance(ctx, ports.AdjustBalanceRequest{
		AccountID:   w.CreatorID,
		AccountType: domain.AccountTypeCreator,
		Delta:       -w.Amount,
		Reason:      domain.ReasonWithdrawal,
		Metadata: map[string]interface{}{
			domain.MetaWithdrawalID:       w.ID.String(),
			domain.MetaExternalTransferID: transferRef,
		},
	}); err != nil {
		w.ExternalPayoutRef = &payoutRef
		s.log.Error().Err(err).
			Str("withdrawal_id", w.ID.String()).
			Str("transfer_ref", transferRef).
			Str("payout_ref", payoutRef).
			Msg("processor accepted withdrawal but ledger debit failed, needs reconciliation")
		return s.fail(ctx, w, fmt.Errorf("ledger debit after processor acceptance: %w", err))
	}

	w.MarkProcessing(transferRef, payoutRef, s.now())
	if err := s.withdrawalRepo.Update(context.WithoutCancel(ctx), w); err != nil {
		s.log.Error().Err(err).Str("withdrawal_id", w.ID.String()).Msg("failed to persist processing withdrawal")
		return w, apperror.ErrDatabaseError(fmt.Errorf("update withdrawal: %w", err))
	}

	s.publish(ctx, domain.NewWithdrawalEvent(w, s.now()))

	s.log.Info().
		Str("withdrawal_id", w.ID.String()).
		Str("creator_id", w.CreatorID).
		Str("method", string(w.Method)).
		Int("trust_score", w.TrustScoreAtRequest).
		Int64("amount", w.Amount).
		Msg("withdrawal processing")

	return w, nil
}

// trustScore treats an unavailable provider as score 0, which routes to ACH.
func (s *WithdrawalServiceImpl) trustScore(ctx context.Context, creatorID string) int {
	score, err := s.trust.GetTrustScore(ctx, creatorID)
	if err != nil {
		s.log.Warn().Err(err).Str("creator_id", creatorID).Msg("trust score unavailable, routing as untrusted")
		return domain.MinTrustScore
	}
	return domain.ClampTrustScore(score)
}

// checkReadiness verifies the processor-side setup the method needs and
// returns the connected account status it read.
func (s *WithdrawalServiceImpl) checkReadiness(ctx context.Context, method domain.WithdrawalMethod, profile *domain.CreatorPayoutProfile) (*domain.ConnectedAccountStatus, error) {
	if method == domain.WithdrawalMethodACH {
		if !profile.HasConnectedAccount() || !profile.HasBankAccount() {
			return nil, apperror.ErrBankAccountRequired()
		}
		return s.accountStatus(ctx, *profile.ConnectedAccountRef)
	}

	if !profile.HasConnectedAccount() {
		return nil, apperror.ErrVerificationRequired()
	}
	status, err := s.accountStatus(ctx, *profile.ConnectedAccountRef)
	if err != nil {
		return nil, err
	}
	if !status.DetailsSubmitted {
		return nil, apperror.ErrVerificationRequired()
	}
	if profile.IdentityVerified {
		return status, nil
	}

	verification, err := s.processor.GetIdentityVerificationStatus(ctx, *profile.ConnectedAccountRef)
	if err != nil {
		return nil, err
	}
	if verification != domain.VerificationVerified {
		return nil, apperror.ErrVerificationRequired()
	}
	if err := s.profileRepo.MarkIdentityVerified(ctx, profile.CreatorID); err != nil {
		s.log.Warn().Err(err).Str("creator_id", profile.CreatorID).Msg("failed to persist identity verification")
	} else {
		profile.IdentityVerified = true
	}
	return status, nil
}

// ensureTransfersEnabled requests the transfers capability once when it is
// neither active nor pending.
func (s *WithdrawalServiceImpl) ensureTransfersEnabled(ctx context.Context, accountRef string, status *domain.ConnectedAccountStatus) error {
	if status.TransferCapabilityState.Usable() {
		return nil
	}

	if err := s.processor.RequestCapability(ctx, accountRef, domain.CapabilityTransfers); err != nil {
		s.log.Warn().Err(err).Str("account_ref", accountRef).Msg("transfers capability request failed")
		return apperror.ErrTransfersNotEnabled()
	}

	status, err := s.accountStatus(ctx, accountRef)
	if err != nil {
		return err
	}
	if !status.TransferCapabilityState.Usable() {
		return apperror.ErrTransfersNotEnabled()
	}
	return nil
}

func (s *WithdrawalServiceImpl) accountStatus(ctx context.Context, accountRef string) (*domain.ConnectedAccountStatus, error) {
	status, err := s.processor.GetConnectedAccountStatus(ctx, accountRef)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return &domain.ConnectedAccountStatus{TransferCapabilityState: domain.CapabilityInactive}, nil
	}
	return status, nil
}

// fail persists the failed state and publishes it. The ledger is never touched here.
func (s *WithdrawalServiceImpl) fail(ctx context.Context, w *domain.Withdrawal, cause error) (*domain.Withdrawal, error) {
	cause = translateProcessorError(cause)
	w.MarkFailed(cause, s.now())
	if err := s.withdrawalRepo.Update(context.WithoutCancel(ctx), w); err != nil {
		s.log.Error().Err(err).Str("withdrawal_id", w.ID.String()).Msg("failed to persist failed withdrawal")
	}
	s.publish(ctx, domain.NewWithdrawalEvent(w, s.now()))

	s.log.Warn().Err(cause).
		Str("withdrawal_id", w.ID.String()).
		Str("creator_id", w.CreatorID).
		Int64("amount", w.Amount).
		Msg("withdrawal failed")
	return w, cause
}

// translateProcessorError turns processor rejections about account setup into
// the error kind the creator can act on. The rejection stays as the cause.
func translateProcessorError(err error) error {
	var kind *apperror.AppError
	switch apperror.ProcessorCode(err) {
	case domain.ProcessorCodeVerificationRequired:
		kind = apperror.ErrVerificationRequired()
	case domain.ProcessorCodeNoExternalAccount:
		kind = apperror.ErrBankAccountRequired()
	case domain.ProcessorCodeTransfersNotEnabled, domain.ProcessorCodeAccountIncomplete:
		kind = apperror.ErrTransfersNotEnabled()
	default:
		return err
	}
	return kind.WithCause(err)
}

func (s *WithdrawalServiceImpl) publish(ctx context.Context, event domain.LedgerEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", string(event.Type)).Msg("failed to publish ledger event")
	}
}

// ListWithdrawals returns the creator's most recent withdrawals.
func (s *WithdrawalServiceImpl) ListWithdrawals(ctx context.Context, creatorID string, limit int) ([]domain.Withdrawal, error) {
	if limit < 1 {
		limit = defaultWithdrawalListLimit
	}
	if limit > maxWithdrawalListLimit {
		limit = maxWithdrawalListLimit
	}
	withdrawals, err := s.withdrawalRepo.ListByCreator(ctx, creatorID, limit)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list withdrawals: %w", err))
	}
	return withdrawals, nil
}
