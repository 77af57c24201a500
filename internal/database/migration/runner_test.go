package migration

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrations_SortsAndChecksums(t *testing.T) {
	fsys := fstest.MapFS{
		"V2__second.sql": {Data: []byte("CREATE TABLE b (id int);\n")},
		"V1__first.sql":  {Data: []byte("  CREATE TABLE a (id int);  ")},
		"README.md":      {Data: []byte("ignored")},
		"V3__nested":     {Mode: fs.ModeDir},
	}

	migs, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "first" || migs[1].Version != 2 {
		t.Fatalf("unexpected order: %+v", migs)
	}
	if migs[0].SQL != "CREATE TABLE a (id int);" {
		t.Fatalf("expected trimmed sql, got %q", migs[0].SQL)
	}
	if len(migs[0].Checksum) != 64 || migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("unexpected checksums: %q %q", migs[0].Checksum, migs[1].Checksum)
	}
}

func TestLoadMigrations_RejectsDuplicatesAndEmpty(t *testing.T) {
	dup := fstest.MapFS{
		"V1__a.sql":   {Data: []byte("SELECT 1")},
		"V001__b.sql": {Data: []byte("SELECT 2")},
	}
	if _, err := loadMigrations(dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}

	empty := fstest.MapFS{"V1__a.sql": {Data: []byte("   ")}}
	if _, err := loadMigrations(empty); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migs, err := loadMigrations(Files())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migs) < 3 {
		t.Fatalf("expected embedded migrations, got %d", len(migs))
	}
	for i, m := range migs {
		if m.Version != int64(i+1) {
			t.Fatalf("expected contiguous versions, got %d at %d", m.Version, i)
		}
	}
}

func TestRun_NilDB(t *testing.T) {
	if err := (Runner{}).Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil db")
	}
}

func TestPlan_SkipsAppliedAndRejectsEditedFiles(t *testing.T) {
	all := []Migration{
		{Version: 1, Filename: "V1__a.sql", Checksum: "aa"},
		{Version: 2, Filename: "V2__b.sql", Checksum: "bb"},
		{Version: 3, Filename: "V3__c.sql", Checksum: "cc"},
	}

	todo, err := plan(all, map[int64]string{1: "aa"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(todo) != 2 || todo[0].Version != 2 || todo[1].Version != 3 {
		t.Fatalf("expected versions 2 and 3 pending, got %+v", todo)
	}

	if todo, err := plan(all, map[int64]string{1: "aa", 2: "bb", 3: "cc"}); err != nil || len(todo) != 0 {
		t.Fatalf("expected nothing pending, got %+v err=%v", todo, err)
	}

	_, err = plan(all, map[int64]string{2: "changed"})
	if err == nil || !strings.Contains(err.Error(), "V2__b.sql") {
		t.Fatalf("expected edited-file error naming V2__b.sql, got %v", err)
	}
}

func TestPending_NilDB(t *testing.T) {
	if _, err := (Runner{}).Pending(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil db")
	}
}
