package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/creditline/internal/infrastructure/postgres/generated"
	"github.com/iho/creditline/internal/usecase"
)

// Appends serialize on the account row lock, so read committed is enough.
var appendTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}

const setLockTimeoutSQL = "SELECT set_config('lock_timeout', $1, true)"

type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxManager opens the transactions that append events to an account
// timeline. It implements usecase.TransactionManager.
type TxManager struct {
	pool        txBeginner
	lockTimeout time.Duration
}

// TxOption configures a TxManager.
type TxOption func(*TxManager)

// WithLockTimeout bounds how long an append waits for the account row lock
// held by a concurrent append. Zero keeps the server default.
func WithLockTimeout(d time.Duration) TxOption {
	return func(m *TxManager) {
		m.lockTimeout = d
	}
}

// NewTxManager creates a TxManager on top of pool.
func NewTxManager(pool *pgxpool.Pool, opts ...TxOption) *TxManager {
	return newTxManager(pool, opts...)
}

func newTxManager(pool txBeginner, opts ...TxOption) *TxManager {
	m := &TxManager{pool: pool}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin starts an append transaction. The lock timeout is local to it.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.BeginTx(ctx, appendTxOptions)
	if err != nil {
		return nil, fmt.Errorf("begin append transaction: %w", err)
	}

	if m.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, setLockTimeoutSQL, formatLockTimeout(m.lockTimeout)); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("set lock timeout: %w", err)
		}
	}

	return &Tx{tx: tx}, nil
}

// formatLockTimeout renders d in the millisecond form lock_timeout accepts.
// Anything shorter than a millisecond rounds up, since 0 disables the limit.
func formatLockTimeout(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return strconv.FormatInt(ms, 10) + "ms"
}

// Tx is one append transaction. Rollback after a successful Commit does
// nothing, so callers may defer it unconditionally.
type Tx struct {
	tx        pgx.Tx
	committed bool
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return err
	}
	t.committed = true
	return nil
}

// Rollback rolls back the transaction unless it was committed.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.committed {
		return nil
	}
	return t.tx.Rollback(ctx)
}

// queriesFor binds q to the pgx transaction behind tx.
func queriesFor(q *generated.Queries, tx usecase.Transaction) (*generated.Queries, error) {
	pgTx, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("postgres: unsupported transaction type %T", tx)
	}
	return q.WithTx(pgTx.tx), nil
}
