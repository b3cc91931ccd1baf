package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"sushi-orders/internal/domain"
)

// Querier is the subset of pgx shared by pools and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// TxFromContext returns the transaction started by WithTx, if any.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// Conn picks the transaction carried by ctx, falling back to the pool.
func Conn(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return pool
}

type TxOptions struct {
	IsoLevel   pgx.TxIsoLevel
	AccessMode pgx.TxAccessMode
}

var (
	ReadCommitted    = TxOptions{IsoLevel: pgx.ReadCommitted}
	SnapshotReadOnly = TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
)

// Transactor runs units of work in a transaction, retrying on serialization
// failures, deadlocks and lock timeouts.
type Transactor struct {
	pool        *pgxpool.Pool
	logger      *zap.Logger
	maxRetries  int
	baseBackoff time.Duration
	timeout     time.Duration
}

func NewTransactor(pool *pgxpool.Pool, logger *zap.Logger, maxRetries int, timeout time.Duration) *Transactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transactor{
		pool:        pool,
		logger:      logger,
		maxRetries:  maxRetries,
		baseBackoff: 50 * time.Millisecond,
		timeout:     timeout,
	}
}

// WithTx runs fn inside a transaction whose handle travels in the context passed
// to fn. When ctx already carries a transaction, fn joins it.
func (t *Transactor) WithTx(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	backoff := t.baseBackoff
	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		err := t.runOnce(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return Translate(err)
		}
		lastErr = err
		if attempt == t.maxRetries {
			break
		}

		t.logger.Debug("retrying transaction", zap.Int("attempt", attempt+1), zap.Error(err))
		jitter := time.Duration(rand.Int63n(int64(backoff/4) + 1))
		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			return Translate(ctx.Err())
		}
		backoff *= 2
	}

	return fmt.Errorf("%w: max retries (%d) exceeded: %v", domain.ErrTransient, t.maxRetries, lastErr)
}

func (t *Transactor) runOnce(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: opts.IsoLevel, AccessMode: opts.AccessMode})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
