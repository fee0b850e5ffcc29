package keys_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"prism/internal/corpus"
	"prism/internal/keys"
	"prism/internal/logging"
)

const (
	lineA  = "MIX05_tnfmb_a MIX05 10235 tnfmb a tnfmb_a_tel_10235 f 1961 2005 44 tel phn 300 ENG USE normal"
	lineB  = "MIX05_tnfmb_b MIX05 10236 tnfmb b tnfmb_b_tel_10236 m N/A 2005 N/A tel phn 300 ENG USE normal"
	lineX  = "SWPH2_20042_x SWPH2 20042 sw_20042 x sw_20042_x_tel_20042 f 1970 1997 27 tel phn 10 USE USE normal"
	lineA2 = "MIX05_tnfmb_a MIX06 99999 other a other_a_tel_99999 f 1961 2006 45 tel phn 300 ENG USE high"
)

func TestParseLineTypesColumns(t *testing.T) {
	rec, err := keys.ParseLine(lineA)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if rec.UniqueName != "MIX05_tnfmb_a" || rec.Database != "MIX05" || rec.Target != "10235" {
		t.Fatalf("unexpected identifiers: %+v", rec)
	}
	if rec.Channel != 1 {
		t.Fatalf("expected channel a to map to 1, got %d", rec.Channel)
	}
	if rec.YearOfBirth != (keys.Int{Value: 1961, Known: true}) {
		t.Fatalf("unexpected year of birth %+v", rec.YearOfBirth)
	}
	if rec.NominalLength.Value != 300 || rec.Language != "ENG" || rec.VocalEffort != "normal" {
		t.Fatalf("unexpected trailing columns: %+v", rec)
	}
	if rec.Line() != lineA {
		t.Fatalf("expected Line to round trip, got %q", rec.Line())
	}
}

func TestParseLineHandlesMissingIntegers(t *testing.T) {
	rec, err := keys.ParseLine(lineB)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if rec.YearOfBirth.Known || rec.Age.Known {
		t.Fatalf("expected N/A to be unknown, got %+v %+v", rec.YearOfBirth, rec.Age)
	}
	if rec.YearOfBirth.String() != "-" {
		t.Fatalf("unexpected unknown rendering %q", rec.YearOfBirth.String())
	}
	if rec.Channel != 2 {
		t.Fatalf("expected channel b to map to 2, got %d", rec.Channel)
	}
}

func TestParseChannel(t *testing.T) {
	for value, want := range map[string]keys.Channel{"a": 1, "b": 2, "x": 1, "X": 1} {
		got, err := keys.ParseChannel(value)
		if err != nil {
			t.Fatalf("ParseChannel(%q): %v", value, err)
		}
		if got != want {
			t.Fatalf("ParseChannel(%q) = %d, want %d", value, got, want)
		}
	}
	if _, err := keys.ParseChannel("c"); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func TestParseLineRejectsMalformedRows(t *testing.T) {
	if _, err := keys.ParseLine("too few columns"); !errors.Is(err, keys.ErrFieldCount) {
		t.Fatalf("expected ErrFieldCount, got %v", err)
	}
	bad := strings.Replace(lineA, " 1961 ", " nineteen ", 1)
	if _, err := keys.ParseLine(bad); err == nil || !strings.Contains(err.Error(), "YEAR_OF_BIRTH") {
		t.Fatalf("expected YEAR_OF_BIRTH error, got %v", err)
	}
}

func TestRecordValueByKeyAndName(t *testing.T) {
	rec, err := keys.ParseLine(lineA)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if v, ok := rec.Value("SPEAKER_PIN"); !ok || v != "10235" {
		t.Fatalf("Value(SPEAKER_PIN) = %q, %v", v, ok)
	}
	if v, ok := rec.Value("uri"); !ok || v != "tnfmb" {
		t.Fatalf("Value(uri) = %q, %v", v, ok)
	}
	if _, ok := rec.Value("nope"); ok {
		t.Fatal("expected unknown column lookup to fail")
	}
	if got := rec.Map()["channel"]; got != "1" {
		t.Fatalf("expected translated channel in Map, got %q", got)
	}
	if v, ok := rec.Value("channel"); !ok || v != "1" {
		t.Fatalf("Value(channel) = %q, %v", v, ok)
	}
	if got := rec.Values()[4]; got != "a" {
		t.Fatalf("expected raw channel letter in Values, got %q", got)
	}
}

func TestReadReportsLineNumbers(t *testing.T) {
	input := lineA + "\n\n" + "broken row\n"
	_, err := keys.Read(strings.NewReader(input), "MIX05.key")
	var perr *keys.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Line != 3 || perr.Source != "MIX05.key" {
		t.Fatalf("unexpected parse error location: %+v", perr)
	}
	if !errors.Is(err, keys.ErrFieldCount) {
		t.Fatalf("expected ErrFieldCount to unwrap, got %v", err)
	}
}

func TestNewTableDropsDuplicatesAndRecordsConflicts(t *testing.T) {
	first, err := keys.Read(strings.NewReader(strings.Join([]string{lineA, lineB, lineA}, "\n")), "a")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	second, err := keys.Read(strings.NewReader(strings.Join([]string{lineX, lineA2}, "\n")), "b")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	table := keys.NewTable(first, second)
	if table.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", table.Len())
	}
	if table.Duplicates() != 1 {
		t.Fatalf("expected 1 duplicate, got %d", table.Duplicates())
	}
	conflicts := table.Conflicts()
	if len(conflicts) != 1 || conflicts[0].Dropped.Database != "MIX06" {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	kept, ok := table.Get("MIX05_tnfmb_a")
	if !ok || kept.Database != "MIX05" {
		t.Fatalf("expected first row to be kept, got %+v", kept)
	}

	var names []string
	for _, rec := range table.Records() {
		names = append(names, rec.UniqueName)
	}
	if diff := cmp.Diff([]string{"MIX05_tnfmb_a", "MIX05_tnfmb_b", "SWPH2_20042_x"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	females := table.Filter(func(r keys.Record) bool { return r.Gender == "f" })
	if len(females) != 2 {
		t.Fatalf("expected 2 female records, got %d", len(females))
	}

	want := []keys.DatabaseCount{{Database: "MIX05", Records: 2}, {Database: "SWPH2", Records: 1}}
	if diff := cmp.Diff(want, table.Databases()); diff != "" {
		t.Fatalf("database counts mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDatabases(t *testing.T) {
	root := t.TempDir()
	keyDir := filepath.Join(root, "KEYS")
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeKey := func(db string, lines ...string) {
		t.Helper()
		content := strings.Join(lines, "\n") + "\n"
		if err := os.WriteFile(filepath.Join(keyDir, db+".key"), []byte(content), 0o644); err != nil {
			t.Fatalf("write key: %v", err)
		}
	}
	writeKey("MIX05", lineA, lineB)
	writeKey("SWPH2", lineX, lineA)

	layout := corpus.Layout{Root: root}
	table, err := keys.LoadDatabases(context.Background(), layout, []string{"MIX05", "SWPH2"}, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadDatabases: %v", err)
	}
	if table.Len() != 3 || table.Duplicates() != 1 {
		t.Fatalf("unexpected table: len=%d duplicates=%d", table.Len(), table.Duplicates())
	}

	if _, err := keys.LoadDatabases(context.Background(), layout, []string{"MIX06"}, nil); err == nil {
		t.Fatal("expected error for missing key file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := keys.LoadDatabases(ctx, layout, []string{"MIX05"}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
