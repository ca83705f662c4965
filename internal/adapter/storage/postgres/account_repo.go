package postgres

import (
	"context"
	"errors"
	"fmt"

	"creator-payout-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, account_type, balance, last_audit_hash, created_at, updated_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account row.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (account_id, account_type, balance, last_audit_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, a.ID, a.Type, a.Balance, a.LastAuditHash, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account %s already exists: %w", a.ID, err)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// CreateIfNotExists inserts the account unless a row with its id exists.
// Concurrent callers race on the primary key; exactly one reports created.
func (r *AccountRepo) CreateIfNotExists(ctx context.Context, a *domain.Account) (bool, error) {
	query := `INSERT INTO accounts (account_id, account_type, balance, last_audit_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, a.ID, a.Type, a.Balance, a.LastAuditHash, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("insert account if not exists: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID fetches an account by id (without locking).
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetByIDForUpdate fetches an account with a row lock.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE`

	a, err := scanAccount(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// UpdateBalance writes a new balance and audit chain head within a transaction.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id string, balance int64, auditHash string) error {
	query := `UPDATE accounts SET balance = $1, last_audit_hash = $2, updated_at = NOW() WHERE account_id = $3`

	tag, err := tx.Exec(ctx, query, balance, auditHash, id)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", id)
	}
	return nil
}

// scanAccount returns nil, nil when the row does not exist.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(&a.ID, &a.Type, &a.Balance, &a.LastAuditHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}
