package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const lockKey int64 = 746295114

var errNilDB = errors.New("migration: nil db")

// Runner applies V<version>__<name>.sql files in version order. Files come from FS when set,
// otherwise from Dir on disk, otherwise from the migrations embedded in the binary.
type Runner struct {
	FS     fs.FS
	Dir    string
	Logger *log.Logger
}

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// Run applies every pending migration while holding a Postgres advisory lock, so two
// instances booting together never race on the same version.
func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errNilDB
	}
	all, err := loadMigrations(r.source())
	if err != nil || len(all) == 0 {
		return err
	}

	// Session-level advisory locks belong to one connection; pin it for lock and unlock.
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("migration: acquire conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, createHistory); err != nil {
		return fmt.Errorf("migration: history table: %w", err)
	}
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("migration: lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	history, err := readHistory(ctx, conn)
	if err != nil {
		return err
	}
	todo, err := plan(all, history)
	if err != nil {
		return err
	}

	for _, m := range todo {
		start := time.Now()
		if err := apply(ctx, conn, m); err != nil {
			return err
		}
		r.logf("[Migration] applied version=%d name=%s took=%s", m.Version, m.Name, time.Since(start).Round(time.Millisecond))
	}
	if len(todo) == 0 {
		r.logf("[Migration] up to date version=%d", all[len(all)-1].Version)
	}
	return nil
}

// Pending lists the migrations Run would apply, without taking the lock or changing anything.
func (r Runner) Pending(ctx context.Context, db *sql.DB) ([]Migration, error) {
	if db == nil {
		return nil, errNilDB
	}
	all, err := loadMigrations(r.source())
	if err != nil || len(all) == 0 {
		return nil, err
	}
	history := map[int64]string{}
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT to_regclass('schema_migrations') IS NOT NULL`).Scan(&exists); err != nil {
		return nil, fmt.Errorf("migration: inspect history: %w", err)
	}
	if exists {
		if history, err = readHistory(ctx, db); err != nil {
			return nil, err
		}
	}
	return plan(all, history)
}

func (r Runner) source() fs.FS {
	switch {
	case r.FS != nil:
		return r.FS
	case strings.TrimSpace(r.Dir) != "":
		return os.DirFS(r.Dir)
	default:
		return Files()
	}
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// plan returns the migrations missing from history, in order. An applied file whose
// content changed since is an error: edits must ship as a new version.
func plan(all []Migration, history map[int64]string) ([]Migration, error) {
	var todo []Migration
	for _, m := range all {
		sum, done := history[m.Version]
		switch {
		case !done:
			todo = append(todo, m)
		case sum != m.Checksum:
			return nil, fmt.Errorf("migration: %s was edited after being applied (version %d)", m.Filename, m.Version)
		}
	}
	return todo, nil
}

var filenamePattern = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	seen := map[int64]string{}
	var out []Migration
	for _, e := range entries {
		parts := filenamePattern.FindStringSubmatch(e.Name())
		if e.IsDir() || parts == nil {
			continue
		}
		version, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration: bad version in %s", e.Name())
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration: duplicate version %d in %s and %s", version, prev, e.Name())
		}
		seen[version] = e.Name()

		raw, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration: empty file %s", e.Name())
		}
		sum := sha256.Sum256([]byte(body))
		out = append(out, Migration{
			Version:  version,
			Name:     parts[2],
			Filename: e.Name(),
			SQL:      body,
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

const createHistory = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readHistory(ctx context.Context, q queryer) (map[int64]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("migration: read history: %w", err)
	}
	defer rows.Close()

	history := map[int64]string{}
	for rows.Next() {
		var version int64
		var sum string
		if err := rows.Scan(&version, &sum); err != nil {
			return nil, err
		}
		history[version] = sum
	}
	return history, rows.Err()
}

// apply runs one migration and its history row in a single transaction.
func apply(ctx context.Context, conn *sql.Conn, m Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("migration: apply %s: %w", m.Filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		m.Version, m.Name, m.Checksum,
	); err != nil {
		return fmt.Errorf("migration: record %s: %w", m.Filename, err)
	}
	return tx.Commit()
}
