package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// --- In-Memory Ledger (accounts + audit log + transactor) ---

// memLedger emulates SELECT ... FOR UPDATE: a row lock is held from the first
// locking read until Commit or Rollback, and writes are staged until Commit.
type memLedger struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	rowLocks map[string]*sync.Mutex
	records  []domain.BalanceTransaction
	auditErr error
	creates  int
}

func newMemLedger(accounts ...domain.Account) *memLedger {
	l := &memLedger{
		accounts: make(map[string]domain.Account),
		rowLocks: make(map[string]*sync.Mutex),
	}
	for _, a := range accounts {
		l.accounts[a.ID] = a
	}
	return l
}

func brandAccount(id string, balance int64) domain.Account {
	return domain.Account{ID: id, Type: domain.AccountTypeBrand, Balance: balance}
}

func creatorAccount(id string, balance int64) domain.Account {
	return domain.Account{ID: id, Type: domain.AccountTypeCreator, Balance: balance}
}

type memTx struct {
	pgx.Tx
	ledger *memLedger
	held   map[string]*sync.Mutex
	staged map[string]domain.Account
	closed bool
}

func (l *memLedger) Begin(_ context.Context) (pgx.Tx, error) {
	return &memTx{
		ledger: l,
		held:   make(map[string]*sync.Mutex),
		staged: make(map[string]domain.Account),
	}, nil
}

func (t *memTx) Commit(_ context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.ledger.mu.Lock()
	for id, a := range t.staged {
		t.ledger.accounts[id] = a
	}
	t.ledger.mu.Unlock()
	t.release()
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if !t.closed {
		t.release()
	}
	return nil
}

func (t *memTx) release() {
	for _, m := range t.held {
		m.Unlock()
	}
	t.held = nil
	t.closed = true
}

func (l *memLedger) rowLock(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.rowLocks[id]
	if !ok {
		m = &sync.Mutex{}
		l.rowLocks[id] = m
	}
	return m
}

func (l *memLedger) Create(_ context.Context, account *domain.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[account.ID]; ok {
		return fmt.Errorf("account %s already exists", account.ID)
	}
	l.accounts[account.ID] = *account
	return nil
}

func (l *memLedger) CreateIfNotExists(_ context.Context, account *domain.Account) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[account.ID]; ok {
		return false, nil
	}
	l.accounts[account.ID] = *account
	l.creates++
	return true, nil
}

func (l *memLedger) GetByID(_ context.Context, id string) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (l *memLedger) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	mt := tx.(*memTx)
	if _, held := mt.held[id]; !held {
		m := l.rowLock(id)
		m.Lock()
		mt.held[id] = m
	}
	if a, ok := mt.staged[id]; ok {
		return &a, nil
	}
	return l.GetByID(ctx, id)
}

func (l *memLedger) UpdateBalance(ctx context.Context, tx pgx.Tx, id string, balance int64, auditHash string) error {
	mt := tx.(*memTx)
	if _, held := mt.held[id]; !held {
		return fmt.Errorf("update of unlocked row %s", id)
	}
	a, ok := mt.staged[id]
	if !ok {
		current, err := l.GetByID(ctx, id)
		if err != nil || current == nil {
			return fmt.Errorf("account %s not found", id)
		}
		a = *current
	}
	a.Balance = balance
	a.LastAuditHash = &auditHash
	a.UpdatedAt = time.Now().UTC()
	mt.staged[id] = a
	return nil
}

// memAudit exposes the ledger's audit log as a BalanceTransactionRepository.
type memAudit struct{ l *memLedger }

func (a memAudit) Create(_ context.Context, record *domain.BalanceTransaction) error {
	a.l.mu.Lock()
	defer a.l.mu.Unlock()
	if a.l.auditErr != nil {
		return a.l.auditErr
	}
	a.l.records = append(a.l.records, *record)
	return nil
}

func (a memAudit) List(_ context.Context, params ports.BalanceTransactionListParams) ([]domain.BalanceTransaction, int64, error) {
	a.l.mu.Lock()
	defer a.l.mu.Unlock()
	var out []domain.BalanceTransaction
	for _, r := range a.l.records {
		if r.UserID == params.UserID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (l *memLedger) balance(id string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts[id].Balance
}

func (l *memLedger) auditRecords() []domain.BalanceTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.BalanceTransaction, len(l.records))
	copy(out, l.records)
	return out
}

// --- In-Memory Payment Repo ---

// memPayments enforces one active payment per submission like the
// partial unique index on payments.
type memPayments struct {
	mu       sync.Mutex
	payments []domain.Payment
}

func (r *memPayments) CreatePending(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.payments {
		if existing.SubmissionID == p.SubmissionID && existing.IsActive() {
			return domain.ErrActivePaymentExists
		}
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *memPayments) UpdateOutcome(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.payments {
		if r.payments[i].ID == p.ID {
			r.payments[i] = *p
			return nil
		}
	}
	return fmt.Errorf("payment %s not found", p.ID)
}

func (r *memPayments) FindActiveBySubmission(_ context.Context, submissionID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.SubmissionID == submissionID && p.IsActive() {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memPayments) ListBySubmission(_ context.Context, submissionID string) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.payments {
		if p.SubmissionID == submissionID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPayments) countActive(submissionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.payments {
		if p.SubmissionID == submissionID && p.IsActive() {
			n++
		}
	}
	return n
}

// --- In-Memory Withdrawal Repo ---

// memWithdrawals enforces one pending withdrawal per creator like the
// partial unique index on withdrawals.
type memWithdrawals struct {
	mu          sync.Mutex
	withdrawals []domain.Withdrawal
}

func (r *memWithdrawals) Create(_ context.Context, w *domain.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.withdrawals {
		if existing.CreatorID == w.CreatorID && existing.Status == domain.WithdrawalStatusPending {
			return domain.ErrWithdrawalInProgress
		}
	}
	r.withdrawals = append(r.withdrawals, *w)
	return nil
}

func (r *memWithdrawals) Update(_ context.Context, w *domain.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.withdrawals {
		if r.withdrawals[i].ID == w.ID {
			r.withdrawals[i] = *w
			return nil
		}
	}
	return fmt.Errorf("withdrawal %s not found", w.ID)
}

func (r *memWithdrawals) ListByCreator(_ context.Context, creatorID string, limit int) ([]domain.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Withdrawal
	for i := len(r.withdrawals) - 1; i >= 0 && len(out) < limit; i-- {
		if r.withdrawals[i].CreatorID == creatorID {
			out = append(out, r.withdrawals[i])
		}
	}
	return out, nil
}

func (r *memWithdrawals) statuses() map[domain.WithdrawalStatus]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domain.WithdrawalStatus]int)
	for _, w := range r.withdrawals {
		out[w.Status]++
	}
	return out
}

// --- Stubs ---

type missCache struct{}

func (missCache) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (missCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.LedgerEvent) error { return nil }
