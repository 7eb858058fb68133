package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"creationrights/internal/domain/repositories"
)

// TransactionManager runs multi-table catalog work, such as creating the
// three prefixed tables or clearing a user's documents, as one transaction.
type TransactionManager struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, logger: logger}
}

// ExecTx commits when fn returns nil. On any failure the transaction is
// rolled back, even if ctx has been cancelled by then.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) (err error) {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}
		rbErr := tx.Rollback(context.WithoutCancel(ctx))
		if rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			tm.logger.Error("catalog transaction rollback failed", "error", rbErr, "cause", err)
		}
	}()

	if err = fn(repositories.ContextWithTx(ctx, tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
