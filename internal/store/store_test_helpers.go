package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

// execFunc adapts a closure to Execer.
type execFunc func(ctx context.Context, query string, args ...any) (sql.Result, error)

func (f execFunc) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return f(ctx, query, args...)
}

type readFunc func(ctx context.Context, dest any, query string, args ...any) error

// fakeDB answers reads from the configured closures and records every executed statement.
type fakeDB struct {
	get      readFunc
	sel      readFunc
	executed []string
}

func (f *fakeDB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if f.get == nil {
		return sql.ErrNoRows
	}
	return f.get(ctx, dest, query, args...)
}

func (f *fakeDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if f.sel == nil {
		return nil
	}
	return f.sel(ctx, dest, query, args...)
}

func (f *fakeDB) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	f.executed = append(f.executed, query)
	return driver.RowsAffected(1), nil
}
