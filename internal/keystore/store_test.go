package keystore_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"prism/internal/keys"
	"prism/internal/keystore"
	"prism/internal/testsupport"
)

func sampleTable(t *testing.T) *keys.Table {
	t.Helper()
	lines := []string{
		testsupport.KeyLine("MIX05_a", "MIX05", "f"),
		testsupport.KeyLine("MIX05_b", "MIX05", "m", "AGE", "N/A", "channel", "b"),
		testsupport.KeyLine("SWPH2_c", "SWPH2", "f"),
		testsupport.KeyLine("MIX05_a", "MIX05", "f"),
	}
	records, err := keys.Read(strings.NewReader(strings.Join(lines, "\n")), "fixture")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return keys.NewTable(records)
}

func TestImportRoundTripsTable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.LastImport(ctx); !errors.Is(err, keystore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before import, got %v", err)
	}

	table := sampleTable(t)
	run, err := store.Import(ctx, table, []string{"MIX05", "SWPH2"})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if run.ID == "" || run.Records != 3 || run.Duplicates != 1 {
		t.Fatalf("unexpected import run: %+v", run)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 cached keys, got %d", count)
	}

	cached, err := store.Table(ctx)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	var got, want []string
	for _, rec := range cached.Records() {
		got = append(got, rec.Line())
	}
	for _, rec := range table.Records() {
		want = append(want, rec.Line())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cached table mismatch (-want +got):\n%s", diff)
	}

	rec, err := store.Get(ctx, "MIX05_b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Age.Known || rec.Channel != 2 || rec.Gender != "m" {
		t.Fatalf("unexpected cached record: %+v", rec)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, keystore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	counts, err := store.DatabaseCounts(ctx)
	if err != nil {
		t.Fatalf("DatabaseCounts: %v", err)
	}
	if diff := cmp.Diff(table.Databases(), counts); diff != "" {
		t.Fatalf("database counts mismatch (-want +got):\n%s", diff)
	}

	last, err := store.LastImport(ctx)
	if err != nil {
		t.Fatalf("LastImport: %v", err)
	}
	if last.ID != run.ID || !cmp.Equal([]string{"MIX05", "SWPH2"}, last.Databases) {
		t.Fatalf("unexpected last import: %+v", last)
	}
	if last.FinishedAt.Before(last.StartedAt) {
		t.Fatalf("finished before start: %+v", last)
	}
}

func TestImportReplacesPreviousKeys(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Import(ctx, sampleTable(t), []string{"MIX05", "SWPH2"}); err != nil {
		t.Fatalf("first Import: %v", err)
	}
	rec, err := keys.ParseLine(testsupport.KeyLine("MIX06_z", "MIX06", "m"))
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	second, err := store.Import(ctx, keys.NewTable([]keys.Record{rec}), []string{"MIX06"})
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected import to replace cache, got %d keys", count)
	}
	last, err := store.LastImport(ctx)
	if err != nil {
		t.Fatalf("LastImport: %v", err)
	}
	if last.ID != second.ID {
		t.Fatalf("expected latest import %s, got %s", second.ID, last.ID)
	}
}

func TestOpenRejectsDisabledCache(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCacheDisabled())
	if _, err := keystore.Open(cfg); !errors.Is(err, keystore.ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
}

func TestOpenDetectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.CacheDBPath())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close raw db: %v", err)
	}

	if _, err := keystore.Open(cfg); !errors.Is(err, keystore.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestImportHonorsCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Import(ctx, sampleTable(t), nil); err == nil {
		t.Fatal("expected error for cancelled import")
	}
	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cancelled import to leave cache empty, got %d", count)
	}
}

func TestImportFailsWhileLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	other := flock.New(store.Path() + ".lock")
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("TryLock = %v, %v", locked, err)
	}

	if _, err := store.Import(ctx, sampleTable(t), []string{"MIX05"}); !errors.Is(err, keystore.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if count, err := store.Count(ctx); err != nil || count != 0 {
		t.Fatalf("expected locked import to leave cache empty, got %d (%v)", count, err)
	}

	if err := other.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if _, err := store.Import(ctx, sampleTable(t), []string{"MIX05"}); err != nil {
		t.Fatalf("Import after unlock: %v", err)
	}
}

func TestImportWritesOneRunRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	run, err := store.Import(ctx, sampleTable(t), []string{"MIX05", "SWPH2"})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	db, err := sql.Open("sqlite", store.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()

	var rows int
	var finished string
	if err := db.QueryRow("SELECT COUNT(1), MAX(finished_at) FROM imports").Scan(&rows, &finished); err != nil {
		t.Fatalf("query imports: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one import row, got %d", rows)
	}
	if want := run.FinishedAt.Format(time.RFC3339Nano); finished != want {
		t.Fatalf("finished_at = %q, want %q", finished, want)
	}

	var orphans int
	if err := db.QueryRow("SELECT COUNT(1) FROM keys WHERE import_id <> ?", run.ID).Scan(&orphans); err != nil {
		t.Fatalf("query keys: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected every key to reference run %s, %d do not", run.ID, orphans)
	}
}
