package corpus_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prism/internal/corpus"
)

func TestLayoutPaths(t *testing.T) {
	layout := corpus.Layout{Root: "/data/prism"}

	if got := layout.KeyPath("MIX05"); got != filepath.Join("/data/prism", "KEYS", "MIX05.key") {
		t.Fatalf("unexpected key path %q", got)
	}
	if got := layout.TrialIDsPath(5, "f", corpus.SideEnroll); filepath.Base(got) != "sre10c05,f.trnids" {
		t.Fatalf("unexpected trial ids path %q", got)
	}
	if got := layout.KeyMaskPath(9, "m"); filepath.Base(got) != "sre10c09,m.keymask" {
		t.Fatalf("unexpected keymask path %q", got)
	}
}

func TestCheckReportsMissingKeyFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "KEYS"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "KEYS", "MIX05.key"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	layout := corpus.Layout{Root: root}
	if err := layout.Check([]string{"MIX05"}); err != nil {
		t.Fatalf("expected MIX05 to be present: %v", err)
	}
	err := layout.Check([]string{"MIX05", "MIX06", "SWPH2"})
	if err == nil {
		t.Fatal("expected missing key files error")
	}
	if !strings.Contains(err.Error(), "MIX06, SWPH2") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckRequiresRoot(t *testing.T) {
	if err := (corpus.Layout{}).Check(corpus.Databases); err == nil {
		t.Fatal("expected error for empty root")
	}
}

func TestIsKnownDatabase(t *testing.T) {
	if !corpus.IsKnownDatabase("mix10") {
		t.Fatal("expected MIX10 to be known")
	}
	if corpus.IsKnownDatabase("SRE12") {
		t.Fatal("expected SRE12 to be unknown")
	}
	if len(corpus.Databases) != 11 {
		t.Fatalf("expected 11 databases, got %d", len(corpus.Databases))
	}
}
