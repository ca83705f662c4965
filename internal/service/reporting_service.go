package service

import (
	"context"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/pkg/apperror"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	accountRepo ports.AccountRepository
	auditRepo   ports.BalanceTransactionRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	accountRepo ports.AccountRepository,
	auditRepo ports.BalanceTransactionRepository,
) ports.ReportingService {
	return &reportingService{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
	}
}

// GetAccount returns the account row, balance included.
func (s *reportingService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}
	return account, nil
}

// ListTransactions returns a page of the account's ledger history, newest first.
func (s *reportingService) ListTransactions(ctx context.Context, params ports.BalanceTransactionListParams) ([]domain.BalanceTransaction, int64, error) {
	if params.UserID == "" {
		return nil, 0, apperror.Validation("account id is required")
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	txns, total, err := s.auditRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return txns, total, nil
}
