package seeder

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"jobmatch/internal/database"
)

type recordingSeeder struct {
	name string
	err  error
	runs *[]string
}

func (s recordingSeeder) Name() string { return s.name }

func (s recordingSeeder) Run(context.Context, database.DB) error {
	*s.runs = append(*s.runs, s.name)
	return s.err
}

type columnRows struct {
	cols []string
	i    int
}

func (r *columnRows) Close()     {}
func (r *columnRows) Next() bool { r.i++; return r.i <= len(r.cols) }
func (r *columnRows) Err() error { return nil }
func (r *columnRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.cols[r.i-1]
	return nil
}

type columnsDB struct {
	database.DB
	cols []string
}

func (d columnsDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return &columnRows{cols: d.cols}, nil
}

func (d columnsDB) SQLDB() *sql.DB { return nil }

func TestRunner_StopsOnFirstError(t *testing.T) {
	var runs []string
	boom := errors.New("boom")
	r := Runner{Seeders: []Seeder{
		recordingSeeder{name: "a", runs: &runs},
		nil,
		recordingSeeder{name: "b", err: boom, runs: &runs},
		recordingSeeder{name: "c", runs: &runs},
	}}

	err := r.Run(context.Background(), columnsDB{})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "seed b") {
		t.Fatalf("expected wrapped error naming seeder b, got %v", err)
	}
	if strings.Join(runs, ",") != "a,b" {
		t.Fatalf("unexpected run order: %v", runs)
	}
}

func TestRunner_NilDB(t *testing.T) {
	if err := (Runner{}).Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil db")
	}
}

func TestRequireColumns(t *testing.T) {
	db := columnsDB{cols: []string{"id", "name", "category", "created_at"}}
	if err := RequireColumns(context.Background(), db, "skills", "id", "name"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := RequireColumns(context.Background(), db, "skills", "id", "slug", "weight")
	if !errors.Is(err, ErrSchemaMismatch) || !strings.Contains(err.Error(), "slug, weight") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestCatalogHasUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range catalog {
		k := strings.ToLower(c.Name)
		if seen[k] {
			t.Fatalf("duplicate catalog entry %q", c.Name)
		}
		seen[k] = true
		if c.Category == "" {
			t.Fatalf("missing category for %q", c.Name)
		}
	}
}

func TestWithDemoIncludesDefaults(t *testing.T) {
	all := WithDemo()
	if len(all) != len(Defaults())+1 || all[len(all)-1].Name() != "demo" {
		t.Fatalf("unexpected seeder list: %v", Names(all))
	}
}
