package keys

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"prism/internal/corpus"
	"prism/internal/logging"
)

// Conflict records a row whose unique name was already taken by a different row.
type Conflict struct {
	UniqueName string
	Kept       Record
	Dropped    Record
}

// Table indexes records by unique name in first-seen order.
type Table struct {
	records    []Record
	index      map[string]int
	duplicates int
	conflicts  []Conflict
}

// NewTable merges record batches, dropping exact duplicate rows.
func NewTable(batches ...[]Record) *Table {
	t := &Table{index: make(map[string]int)}
	for _, batch := range batches {
		for _, rec := range batch {
			t.add(rec)
		}
	}
	return t
}

func (t *Table) add(rec Record) {
	if i, ok := t.index[rec.UniqueName]; ok {
		kept := t.records[i]
		if kept.sameRow(rec) {
			t.duplicates++
			return
		}
		t.conflicts = append(t.conflicts, Conflict{UniqueName: rec.UniqueName, Kept: kept, Dropped: rec})
		return
	}
	t.index[rec.UniqueName] = len(t.records)
	t.records = append(t.records, rec)
}

// Len returns the number of distinct records.
func (t *Table) Len() int {
	return len(t.records)
}

// Get returns the record for a unique segment name.
func (t *Table) Get(uniqueName string) (Record, bool) {
	i, ok := t.index[uniqueName]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// Records returns all records in first-seen order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Filter returns the records accepted by keep, in table order.
func (t *Table) Filter(keep func(Record) bool) []Record {
	var out []Record
	for _, rec := range t.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Duplicates returns how many exact duplicate rows were dropped.
func (t *Table) Duplicates() int {
	return t.duplicates
}

// Conflicts returns rows dropped because their name was already used.
func (t *Table) Conflicts() []Conflict {
	out := make([]Conflict, len(t.conflicts))
	copy(out, t.conflicts)
	return out
}

// Databases returns the record count per database, sorted by name.
func (t *Table) Databases() []DatabaseCount {
	counts := make(map[string]int)
	for _, rec := range t.records {
		counts[rec.Database]++
	}
	out := make([]DatabaseCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, DatabaseCount{Database: name, Records: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Database < out[j].Database })
	return out
}

// DatabaseCount pairs a database with its record count.
type DatabaseCount struct {
	Database string `json:"database"`
	Records  int    `json:"records"`
}

// Read parses key-file lines from r. Blank lines are skipped; source is used
// in error messages.
func Read(r io.Reader, source string) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		rec, err := ParseLine(text)
		if err != nil {
			return nil, &ParseError{Source: source, Line: line, Err: err}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return records, nil
}

// ReadFile parses a key file from disk.
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open key file: %w", err)
	}
	defer file.Close()
	return Read(file, path)
}

// LoadDatabases reads the key file of every database and merges them.
func LoadDatabases(ctx context.Context, layout corpus.Layout, databases []string, logger *slog.Logger) (*Table, error) {
	logger = logging.NewComponentLogger(logger, "keys")
	start := time.Now()

	batches := make([][]Record, 0, len(databases))
	for _, db := range databases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := layout.KeyPath(db)
		records, err := ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", db, err)
		}
		logger.Debug("key file loaded", "database", db, "path", path, "records", len(records))
		batches = append(batches, records)
	}

	table := NewTable(batches...)
	logger.Info("keys loaded",
		"databases", len(databases),
		"records", table.Len(),
		"duplicates", table.Duplicates(),
		"conflicts", len(table.conflicts),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	for _, c := range table.conflicts {
		logger.Warn("conflicting key rows share a unique name",
			"unique_name", c.UniqueName,
			"kept_database", c.Kept.Database,
			"dropped_database", c.Dropped.Database,
		)
	}
	return table, nil
}
