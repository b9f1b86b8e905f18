package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// Manager wraps transactional boundaries for multi-statement operations.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Stores resolve it through From so they transparently join an open
// transaction when one is carried on the context.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ctxKey struct{}

// From returns the transaction carried on ctx, or fallback when none is open.
func From(ctx context.Context, fallback Querier) Querier {
	if q, ok := ctx.Value(ctxKey{}).(Querier); ok {
		return q
	}
	return fallback
}

// NoopManager runs fn without any transaction. Useful in tests and for
// stores that already guarantee atomicity per call.
type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// SQLManager opens a database transaction around fn and places it on the
// context for participating stores.
type SQLManager struct {
	db *sql.DB
}

func NewSQLManager(db *sql.DB) *SQLManager {
	return &SQLManager{db: db}
}

func (m *SQLManager) Within(ctx context.Context, fn func(context.Context) error) error {
	if m == nil || m.db == nil {
		return fmt.Errorf("tx manager is not configured")
	}
	dbTx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, ctxKey{}, Querier(dbTx))); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
