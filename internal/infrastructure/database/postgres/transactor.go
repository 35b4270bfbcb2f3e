package postgres

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

type Transactor struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Transactor = (*Transactor)(nil)

func NewTransactor(db DBPool, logger *slog.Logger) *Transactor {
	if db == nil {
		panic("DBPool cannot be nil for Transactor")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Transactor{db: db, logger: logger.With("component", "Transactor")}
}

// WithinTransaction runs fn inside one transaction. It commits when fn returns
// nil and rolls back when fn returns an error or panics. A call made while a
// transaction is already bound to ctx joins it.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	t.logger.DebugContext(ctx, "Beginning transaction")
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			t.rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			t.rollback(ctx, tx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			t.logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", commitErr))
			err = apperrors.WrapDatabaseError(commitErr, "failed to commit transaction")
			return
		}
		t.logger.DebugContext(ctx, "Transaction committed")
	}()

	return fn(withTx(ctx, tx))
}

func (t *Transactor) rollback(ctx context.Context, tx pgx.Tx) {
	// The request context may already be cancelled; the rollback still has to reach the server.
	rbCtx := context.WithoutCancel(ctx)
	if err := tx.Rollback(rbCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		t.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)))
		return
	}
	t.logger.DebugContext(ctx, "Transaction rolled back")
}
