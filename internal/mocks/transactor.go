package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/places-server/internal/model"
)

var _ model.Transactor = (*Transactor)(nil)

// errFakeTx is returned by every statement executed on a fake Tx.
var errFakeTx = errors.New("statements are not supported on a fake tx")

// Tx is the unit of work handed to callbacks by Transactor. Stores in
// service tests are mocked, so it never runs statements.
type Tx struct{}

func (Tx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errFakeTx
}

func (Tx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errFakeTx
}

func (Tx) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return errFakeTx }

// Transactor runs callbacks in-process and records commits and rollbacks.
// BeginErr fails before the callback runs; CommitErr fails after it succeeded.
type Transactor struct {
	mu        sync.Mutex
	BeginErr  error
	CommitErr error
	Commits   int
	Rollbacks int
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx model.Tx) error) error {
	if t.BeginErr != nil {
		return t.BeginErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fn(ctx, Tx{}); err != nil {
		t.finish(false)
		return err
	}
	if t.CommitErr != nil {
		t.finish(false)
		return t.CommitErr
	}
	if err := ctx.Err(); err != nil {
		t.finish(false)
		return err
	}

	t.finish(true)
	return nil
}

func (t *Transactor) finish(committed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if committed {
		t.Commits++
	} else {
		t.Rollbacks++
	}
}
