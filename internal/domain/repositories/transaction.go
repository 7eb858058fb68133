package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor runs statements against either the pool or an open transaction.
// *pgxpool.Pool and pgx.Tx both satisfy it.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

// TxFn is the unit of work handed to ExecTx. ctx carries the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs a TxFn atomically: commit when it returns nil,
// roll back otherwise.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

type txKey struct{}

// ContextWithTx attaches tx so repositories called with the returned context
// join the transaction.
func ContextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction attached by ContextWithTx, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}
