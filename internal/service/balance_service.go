package service

import (
	"context"
	"fmt"
	"time"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BalanceServiceImpl implements ports.BalanceService. It is the only writer
// of account balances.
type BalanceServiceImpl struct {
	accountRepo ports.AccountRepository
	auditRepo   ports.BalanceTransactionRepository
	transactor  ports.DBTransactor
	now         func() time.Time
	log         zerolog.Logger
}

// NewBalanceService creates a new BalanceServiceImpl.
func NewBalanceService(
	accountRepo ports.AccountRepository,
	auditRepo ports.BalanceTransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		transactor:  transactor,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// GetBalance returns the committed balance of an account of the given type.
func (s *BalanceServiceImpl) GetBalance(ctx context.Context, accountID string, accountType domain.AccountType) (int64, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, apperror.ErrDatabaseError(fmt.Errorf("get account: %w", err))
	}
	if account == nil || account.Type != accountType {
		return 0, apperror.ErrNotFound(string(accountType) + " account")
	}
	return account.Balance, nil
}

// AdjustBalance applies a signed delta under a row lock. Brand and creator
// accounts may not go below zero; the bank account may.
func (s *BalanceServiceImpl) AdjustBalance(ctx context.Context, req ports.AdjustBalanceRequest) (int64, error) {
	if req.Delta == 0 {
		return 0, apperror.ErrInvalidAmount()
	}
	if !req.AccountType.Valid() {
		return 0, apperror.Validation("unknown account type")
	}

	var record *domain.BalanceTransaction
	err := retryOnConflict(ctx, func() error {
		var err error
		record, err = s.adjustOnce(ctx, req)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.appendAudit(ctx, record)

	s.log.Info().
		Str("account_id", req.AccountID).
		Int64("delta", req.Delta).
		Int64("balance", record.BalanceAfter).
		Str("reason", req.Reason).
		Msg("balance adjusted")

	return record.BalanceAfter, nil
}

func (s *BalanceServiceImpl) adjustOnce(ctx context.Context, req ports.AdjustBalanceRequest) (*domain.BalanceTransaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, req.AccountID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil || account.Type != req.AccountType {
		return nil, apperror.ErrNotFound(string(req.AccountType) + " account")
	}

	before := account.Balance
	after := before + req.Delta
	if shortfall := account.Shortfall(after); shortfall > 0 {
		return nil, apperror.ErrInsufficientFunds(shortfall)
	}

	now := s.now()
	hash := ChainAuditHash(account.LastAuditHash, account.ID, req.Delta, after, req.Reason, now)

	if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.ID, after, hash); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update balance: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	return &domain.BalanceTransaction{
		ID:            uuid.New(),
		UserID:        account.ID,
		UserType:      account.Type,
		Amount:        req.Delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        req.Reason,
		Metadata:      domain.CloneMetadata(req.Metadata),
		AuditHash:     hash,
		CreatedAt:     now,
	}, nil
}

// TransferBalance moves Amount from one account to another in a single
// transaction. Rows are locked in ascending id order.
func (s *BalanceServiceImpl) TransferBalance(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, apperror.Validation("cannot transfer to the same account")
	}

	var record *domain.BalanceTransaction
	var result *ports.TransferResult
	err := retryOnConflict(ctx, func() error {
		var err error
		record, result, err = s.transferOnce(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.appendAudit(ctx, record)

	s.log.Info().
		Str("from_account_id", req.FromAccountID).
		Str("to_account_id", req.ToAccountID).
		Int64("amount", req.Amount).
		Str("reason", req.Reason).
		Msg("balance transferred")

	return result, nil
}

func (s *BalanceServiceImpl) transferOnce(ctx context.Context, req ports.TransferRequest) (*domain.BalanceTransaction, *ports.TransferResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	firstID, secondID := req.FromAccountID, req.ToAccountID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	locked := make(map[string]*domain.Account, 2)
	for _, id := range []string{firstID, secondID} {
		account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("lock account %s: %w", id, err))
		}
		if account == nil {
			return nil, nil, apperror.ErrNotFound("account " + id)
		}
		locked[id] = account
	}

	from, to := locked[req.FromAccountID], locked[req.ToAccountID]
	fromAfter := from.Balance - req.Amount
	toAfter := to.Balance + req.Amount
	if shortfall := from.Shortfall(fromAfter); shortfall > 0 {
		return nil, nil, apperror.ErrInsufficientFunds(shortfall)
	}

	now := s.now()
	fromHash := ChainAuditHash(from.LastAuditHash, from.ID, -req.Amount, fromAfter, req.Reason, now)
	toHash := ChainAuditHash(to.LastAuditHash, to.ID, req.Amount, toAfter, req.Reason, now)

	if err := s.accountRepo.UpdateBalance(ctx, dbTx, from.ID, fromAfter, fromHash); err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("debit %s: %w", from.ID, err))
	}
	if err := s.accountRepo.UpdateBalance(ctx, dbTx, to.ID, toAfter, toHash); err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("credit %s: %w", to.ID, err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	meta := domain.CloneMetadata(req.Metadata)
	meta[domain.MetaCounterpartID] = to.ID
	meta[domain.MetaCounterpartBefore] = to.Balance
	meta[domain.MetaCounterpartAfter] = toAfter
	meta[domain.MetaCounterpartHash] = toHash

	record := &domain.BalanceTransaction{
		ID:            uuid.New(),
		UserID:        from.ID,
		UserType:      from.Type,
		Amount:        -req.Amount,
		BalanceBefore: from.Balance,
		BalanceAfter:  fromAfter,
		Reason:        req.Reason,
		Metadata:      meta,
		AuditHash:     fromHash,
		CreatedAt:     now,
	}
	return record, &ports.TransferResult{FromBalance: fromAfter, ToBalance: toAfter}, nil
}

// GetOrCreateBankAccount ensures the clearing account row exists. The insert
// is conflict-tolerant so concurrent callers converge on one row.
func (s *BalanceServiceImpl) GetOrCreateBankAccount(ctx context.Context) (string, error) {
	created, err := s.accountRepo.CreateIfNotExists(ctx, domain.NewBankAccount(s.now()))
	if err != nil {
		return "", apperror.ErrDatabaseError(fmt.Errorf("ensure bank account: %w", err))
	}
	if created {
		s.log.Info().Str("account_id", domain.BankAccountID).Msg("bank account created")
	}
	return domain.BankAccountID, nil
}

// appendAudit writes the audit record after commit. A failure is logged and
// does not undo the balance change.
func (s *BalanceServiceImpl) appendAudit(ctx context.Context, record *domain.BalanceTransaction) {
	if err := s.auditRepo.Create(context.WithoutCancel(ctx), record); err != nil {
		s.log.Warn().Err(err).
			Str("account_id", record.UserID).
			Int64("amount", record.Amount).
			Str("audit_hash", record.AuditHash).
			Msg("failed to append balance transaction")
	}
}
