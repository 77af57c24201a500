package repository

import (
	"context"
	"database/sql"

	"jobmatch/internal/database"
)

type execCall struct {
	query string
	args  []any
}

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...any) error { return r.err }

type fakeRows struct {
	closed bool
}

func (r *fakeRows) Close()                 { r.closed = true }
func (r *fakeRows) Next() bool             { return false }
func (r *fakeRows) Scan(dest ...any) error { return nil }
func (r *fakeRows) Err() error             { return nil }

type fakeTx struct {
	execErrs   []error
	execs      []execCall
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	t.execs = append(t.execs, execCall{query: query, args: args})
	if n := len(t.execs) - 1; n < len(t.execErrs) && t.execErrs[n] != nil {
		return 0, t.execErrs[n]
	}
	return 1, nil
}

func (t *fakeTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return &fakeRows{}, nil
}

func (t *fakeTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return fakeRow{}
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	rowErr   error
	execN    int64
	execErr  error
	rows     *fakeRows
	queries  []execCall
	lastExec execCall
}

func (d *fakeDB) Ping(ctx context.Context) error { return nil }
func (d *fakeDB) Close() error                   { return nil }
func (d *fakeDB) SQLDB() *sql.DB                 { return nil }

func (d *fakeDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	d.lastExec = execCall{query: query, args: args}
	return d.execN, d.execErr
}

func (d *fakeDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	d.queries = append(d.queries, execCall{query: query, args: args})
	if d.rows == nil {
		d.rows = &fakeRows{}
	}
	return d.rows, nil
}

func (d *fakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	d.queries = append(d.queries, execCall{query: query, args: args})
	return fakeRow{err: d.rowErr}
}

func (d *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	if d.tx == nil {
		d.tx = &fakeTx{}
	}
	return d.tx, nil
}
