package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"prism/internal/config"
	"prism/internal/fields"
	"prism/internal/keys"
)

// ErrNotFound is returned when a segment or import is not cached.
var ErrNotFound = errors.New("not found")

// ErrCacheDisabled is returned by Open when cache.enabled is false.
var ErrCacheDisabled = errors.New("key cache is disabled")

// ErrLocked is returned when another process is importing.
var ErrLocked = errors.New("key cache is locked by another import")

// Store manages the key cache backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the key cache database.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("keystore requires config")
	}
	if !cfg.Cache.Enabled {
		return nil, ErrCacheDisabled
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.CacheDBPath())
}

// OpenPath opens the cache database at path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: flock.New(dbPath + ".lock")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// ImportRun describes one completed import.
type ImportRun struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Databases  []string  `json:"databases"`
	Records    int       `json:"records"`
	Duplicates int       `json:"duplicates"`
	Conflicts  int       `json:"conflicts"`
}

// Import replaces the cached keys with table. databases names the key files
// the table was loaded from.
func (s *Store) Import(ctx context.Context, table *keys.Table, databases []string) (*ImportRun, error) {
	if table == nil {
		return nil, errors.New("import: key table is nil")
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	defer func() { _ = s.lock.Unlock() }()

	run := &ImportRun{
		ID:         uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		Databases:  append([]string(nil), databases...),
		Records:    table.Len(),
		Duplicates: table.Duplicates(),
		Conflicts:  len(table.Conflicts()),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM keys"); err != nil {
		return nil, fmt.Errorf("clear keys: %w", err)
	}

	// keys.import_id is checked at commit, so the run row can follow its keys.
	stmt, err := tx.PrepareContext(ctx, insertKeySQL)
	if err != nil {
		return nil, fmt.Errorf("prepare key insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, 0, fields.Count+1)
	for _, rec := range table.Records() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		args = args[:0]
		args = append(args, run.ID)
		for _, v := range rec.Values() {
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return nil, fmt.Errorf("insert key %s: %w", rec.UniqueName, err)
		}
	}

	run.FinishedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, started_at, finished_at, databases, records, duplicates, conflicts)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Format(time.RFC3339Nano),
		run.FinishedAt.Format(time.RFC3339Nano),
		strings.Join(run.Databases, ","),
		run.Records,
		run.Duplicates,
		run.Conflicts,
	); err != nil {
		return nil, fmt.Errorf("insert import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return run, nil
}

// Get returns the cached record for a unique segment name.
func (s *Store) Get(ctx context.Context, uniqueName string) (keys.Record, error) {
	row := s.db.QueryRowContext(ctx, selectKeysSQL+` WHERE "unique_name" = ?`, uniqueName)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return keys.Record{}, fmt.Errorf("%w: %s", ErrNotFound, uniqueName)
	}
	if err != nil {
		return keys.Record{}, fmt.Errorf("get key: %w", err)
	}
	return rec, nil
}

// Count returns the number of cached records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM keys").Scan(&n); err != nil {
		return 0, fmt.Errorf("count keys: %w", err)
	}
	return n, nil
}

// LastImport returns the most recent import, or ErrNotFound when the cache
// has never been populated.
func (s *Store) LastImport(ctx context.Context) (*ImportRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, databases, records, duplicates, conflicts
         FROM imports ORDER BY rowid DESC LIMIT 1`)

	var (
		run               ImportRun
		started, finished string
		databases         string
	)
	err := row.Scan(&run.ID, &started, &finished, &databases, &run.Records, &run.Duplicates, &run.Conflicts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("last import: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	if databases != "" {
		run.Databases = strings.Split(databases, ",")
	}
	return &run, nil
}

// Table rebuilds the cached key table in import order.
func (s *Store) Table(ctx context.Context) (*keys.Table, error) {
	rows, err := s.db.QueryContext(ctx, selectKeysSQL+" ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var records []keys.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys.NewTable(records), nil
}

// DatabaseCounts returns the cached record count per database.
func (s *Store) DatabaseCounts(ctx context.Context) ([]keys.DatabaseCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT "database", COUNT(1) FROM keys GROUP BY "database" ORDER BY "database"`)
	if err != nil {
		return nil, fmt.Errorf("query database counts: %w", err)
	}
	defer rows.Close()

	var out []keys.DatabaseCount
	for rows.Next() {
		var c keys.DatabaseCount
		if err := rows.Scan(&c.Database, &c.Records); err != nil {
			return nil, fmt.Errorf("scan database count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate database counts: %w", err)
	}
	return out, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
