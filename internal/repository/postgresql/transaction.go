package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/servicedesk/helpdesk-backend-go/internal/pkg/database"
)

type txKey struct{}

// WithTx returns a context whose repository calls run on tx.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// WithTransaction executes fn inside a database transaction. Repository calls
// made with the context passed to fn share the transaction.
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback failed during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// WithReadOnlySnapshot runs fn in a repeatable-read, read-only transaction so
// that every query fn makes sees the same snapshot.
func WithReadOnlySnapshot(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTxWithOptions(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetQuerier returns the transaction carried by ctx, or the pool.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

// Transactor lets services group repository calls without holding the pool.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

type transactorImpl struct {
	db *database.DB
}

func NewTransactor(db *database.DB) Transactor {
	return &transactorImpl{db: db}
}

func (t *transactorImpl) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, t.db, fn)
}

func (t *transactorImpl) WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithReadOnlySnapshot(ctx, t.db, fn)
}
