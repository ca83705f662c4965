package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// ledgerTxOptions: balance mutations lock their rows with SELECT ... FOR UPDATE,
// so read committed is enough; conflicts surface as deadlocks and are retried.
var ledgerTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.ReadCommitted,
	AccessMode: pgx.ReadWrite,
}

// Transactor implements ports.DBTransactor.
type Transactor struct {
	pool Pool
}

func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin starts a ledger transaction.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.BeginTx(ctx, ledgerTxOptions)
}
