package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"
)

// BalanceTransactionRepo implements ports.BalanceTransactionRepository.
// Rows are append-only.
type BalanceTransactionRepo struct {
	pool Pool
}

// NewBalanceTransactionRepo creates a new BalanceTransactionRepo.
func NewBalanceTransactionRepo(pool Pool) *BalanceTransactionRepo {
	return &BalanceTransactionRepo{pool: pool}
}

// Create appends one audit record.
func (r *BalanceTransactionRepo) Create(ctx context.Context, t *domain.BalanceTransaction) error {
	metadata, err := encodeMetadata(t.Metadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO balance_transactions (id, user_id, user_type, amount, balance_before, balance_after,
		reason, metadata, audit_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.pool.Exec(ctx, query,
		t.ID, t.UserID, t.UserType, t.Amount, t.BalanceBefore, t.BalanceAfter,
		t.Reason, metadata, t.AuditHash, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert balance transaction: %w", err)
	}
	return nil
}

// List fetches one account's audit records, newest first.
func (r *BalanceTransactionRepo) List(ctx context.Context, params ports.BalanceTransactionListParams) ([]domain.BalanceTransaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
	args = append(args, params.UserID)
	argIdx++

	if params.Reason != nil {
		conditions = append(conditions, fmt.Sprintf("reason = $%d", argIdx))
		args = append(args, *params.Reason)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM balance_transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count balance transactions: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT id, user_id, user_type, amount, balance_before, balance_after,
		reason, metadata, audit_hash, created_at
		FROM balance_transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list balance transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.BalanceTransaction
	for rows.Next() {
		var t domain.BalanceTransaction
		var metadata []byte
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.UserType, &t.Amount, &t.BalanceBefore, &t.BalanceAfter,
			&t.Reason, &metadata, &t.AuditHash, &t.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan balance transaction row: %w", err)
		}
		if t.Metadata, err = decodeMetadata(metadata); err != nil {
			return nil, 0, err
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate balance transaction rows: %w", err)
	}
	return txns, total, nil
}

func encodeMetadata(m map[string]interface{}) ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return data, nil
}

func decodeMetadata(data []byte) (map[string]interface{}, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}
