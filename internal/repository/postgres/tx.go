package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/places-server/internal/model"
)

var _ model.Transactor = (*Transactor)(nil)

// Transactor opens repeatable-read transactions so that two concurrent
// writers of the same row fail with a serialization error instead of one
// silently overwriting the other.
type Transactor struct {
	db   *Connection
	opts pgx.TxOptions
}

func NewTransactor(db *Connection) *Transactor {
	return &Transactor{
		db:   db,
		opts: pgx.TxOptions{IsoLevel: pgx.RepeatableRead},
	}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx model.Tx) error) (err error) {
	tx, err := t.db.BeginTx(ctx, t.opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classify(err))
	}

	// Rollback is a no-op after a successful commit. It must still run when
	// ctx is already cancelled, hence the detached context.
	defer func() {
		rollbackCtx := context.WithoutCancel(ctx)
		if p := recover(); p != nil {
			_ = tx.Rollback(rollbackCtx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(rollbackCtx)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classify(err))
	}

	return nil
}
