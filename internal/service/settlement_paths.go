package service

import (
	"context"
	"fmt"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// FeeCollectionError reports a platform fee movement that failed after the
// creator had already been paid. The payment stays settled.
type FeeCollectionError struct {
	Step string // "debit_brand" or "credit_bank"
	Err  error
}

func (e *FeeCollectionError) Error() string {
	return fmt.Sprintf("platform fee %s failed: %v", e.Step, e.Err)
}

func (e *FeeCollectionError) Unwrap() error {
	return e.Err
}

// ExternalSettlement pushes the creator's net to their processor connected account.
type ExternalSettlement struct {
	processor ports.PaymentProcessor
	log       zerolog.Logger
}

// NewExternalSettlement creates the processor-backed settlement path.
func NewExternalSettlement(processor ports.PaymentProcessor, log zerolog.Logger) *ExternalSettlement {
	return &ExternalSettlement{processor: processor, log: log}
}

func (p *ExternalSettlement) Method() domain.PaymentMethod {
	return domain.PaymentMethodExternal
}

// Available is true when the creator has a connected account whose transfer
// capability is active. A pending capability cannot receive a transfer yet.
func (p *ExternalSettlement) Available(ctx context.Context, req ports.SettlementRequest) (bool, error) {
	if !req.Creator.HasConnectedAccount() {
		return false, nil
	}
	status, err := p.processor.GetConnectedAccountStatus(ctx, *req.Creator.ConnectedAccountRef)
	if err != nil {
		return false, fmt.Errorf("probe connected account: %w", err)
	}
	return status.DetailsSubmitted && status.TransferCapabilityState == domain.CapabilityActive, nil
}

func (p *ExternalSettlement) Settle(ctx context.Context, payment *domain.Payment, req ports.SettlementRequest) error {
	ref, err := p.processor.CreateOutboundTransfer(ctx, *req.Creator.ConnectedAccountRef, payment.CreatorNet, map[string]string{
		domain.MetaPaymentID:    payment.ID.String(),
		domain.MetaSubmissionID: payment.SubmissionID,
		domain.MetaGigID:        payment.GigID,
	})
	if err != nil {
		return err
	}
	payment.ExternalTransferRef = &ref

	p.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("transfer_ref", ref).
		Int64("amount", payment.CreatorNet).
		Msg("external transfer created")
	return nil
}

// LedgerSettlement pays the creator from the brand's ledger balance and moves
// the platform fee to the bank account.
type LedgerSettlement struct {
	balances ports.BalanceService
	log      zerolog.Logger
}

// NewLedgerSettlement creates the internal-ledger settlement path.
func NewLedgerSettlement(balances ports.BalanceService, log zerolog.Logger) *LedgerSettlement {
	return &LedgerSettlement{balances: balances, log: log}
}

func (p *LedgerSettlement) Method() domain.PaymentMethod {
	return domain.PaymentMethodBalance
}

// Available always holds; the ledger is the path of last resort.
func (p *LedgerSettlement) Available(context.Context, ports.SettlementRequest) (bool, error) {
	return true, nil
}

// Settle checks the brand covers net + fee, transfers the net to the creator,
// then debits the fee from the brand and credits it to the bank account as two
// separate adjustments.
func (p *LedgerSettlement) Settle(ctx context.Context, payment *domain.Payment, _ ports.SettlementRequest) error {
	bankID, err := p.balances.GetOrCreateBankAccount(ctx)
	if err != nil {
		return err
	}

	required := payment.CreatorNet + payment.PlatformFee
	brandBalance, err := p.balances.GetBalance(ctx, payment.BrandID, domain.AccountTypeBrand)
	if err != nil {
		return err
	}
	if brandBalance < required {
		return apperror.ErrInsufficientFunds(required - brandBalance)
	}

	meta := map[string]interface{}{
		domain.MetaPaymentID:    payment.ID.String(),
		domain.MetaSubmissionID: payment.SubmissionID,
		domain.MetaGigID:        payment.GigID,
	}

	if _, err := p.balances.TransferBalance(ctx, ports.TransferRequest{
		FromAccountID: payment.BrandID,
		ToAccountID:   payment.CreatorID,
		Amount:        payment.CreatorNet,
		Reason:        domain.ReasonSubmissionPayout,
		Metadata:      meta,
	}); err != nil {
		return err
	}

	if payment.PlatformFee <= 0 {
		return nil
	}

	if _, err := p.balances.AdjustBalance(ctx, ports.AdjustBalanceRequest{
		AccountID:   payment.BrandID,
		AccountType: domain.AccountTypeBrand,
		Delta:       -payment.PlatformFee,
		Reason:      domain.ReasonPlatformFee,
		Metadata:    meta,
	}); err != nil {
		return &FeeCollectionError{Step: "debit_brand", Err: err}
	}

	if _, err := p.balances.AdjustBalance(ctx, ports.AdjustBalanceRequest{
		AccountID:   bankID,
		AccountType: domain.AccountTypeBank,
		Delta:       payment.PlatformFee,
		Reason:      domain.ReasonPlatformFeeCollected,
		Metadata:    meta,
	}); err != nil {
		return &FeeCollectionError{Step: "credit_bank", Err: err}
	}

	return nil
}
