package postgres

import (
	"context"
	"errors"
	"fmt"

	"creator-payout-ledger/internal/core/domain"
)

var errClearingAccountMissing = errors.New("clearing account not provisioned")

// HealthCheck implements ports.HealthChecker for PostgreSQL. Healthy means
// reachable, migrated, and holding the clearing account row.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a PostgreSQL health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	var exists bool
	err := h.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, domain.BankAccountID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	if !exists {
		return errClearingAccountMissing
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
