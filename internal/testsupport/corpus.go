package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prism/internal/corpus"
)

// Corpus writes a miniature PRISM data directory for tests.
type Corpus struct {
	t      testing.TB
	Layout corpus.Layout
}

// NewCorpus creates an empty corpus under dir.
func NewCorpus(t testing.TB, dir string) *Corpus {
	t.Helper()
	return &Corpus{t: t, Layout: corpus.Layout{Root: dir}}
}

// KeyLine renders a key-file row. Unset values fall back to an English
// telephone segment of normal effort.
func KeyLine(uniqueName, database, gender string, overrides ...string) string {
	values := map[string]string{
		"target":            "1000",
		"uri":               strings.ToLower(uniqueName),
		"channel":           "a",
		"SESSION_ID":        "s_" + uniqueName,
		"YEAR_OF_BIRTH":     "1970",
		"YEAR_OF_RECORDING": "2005",
		"AGE":               "35",
		"SPEECH_TYPE":       "tel",
		"CHANNEL_TYPE":      "phn",
		"NOMINAL_LENGTH":    "300",
		"language":          "ENG",
		"NATIVE_LANGUAGE":   "USE",
		"VOCAL_EFFORT":      "normal",
	}
	for i := 0; i+1 < len(overrides); i += 2 {
		values[overrides[i]] = overrides[i+1]
	}
	return strings.Join([]string{
		uniqueName, database, values["target"], values["uri"], values["channel"],
		values["SESSION_ID"], gender, values["YEAR_OF_BIRTH"], values["YEAR_OF_RECORDING"],
		values["AGE"], values["SPEECH_TYPE"], values["CHANNEL_TYPE"], values["NOMINAL_LENGTH"],
		values["language"], values["NATIVE_LANGUAGE"], values["VOCAL_EFFORT"],
	}, " ")
}

// WriteKey writes the key file of a database.
func (c *Corpus) WriteKey(database string, lines ...string) {
	c.t.Helper()
	c.write(c.Layout.KeyPath(database), strings.Join(lines, "\n")+"\n")
}

// WriteTrials writes the enroll and test id lists of an SRE10 condition.
func (c *Corpus) WriteTrials(condition int, gender string, enroll, test []string) {
	c.t.Helper()
	c.write(c.Layout.TrialIDsPath(condition, gender, corpus.SideEnroll), strings.Join(enroll, "\n")+"\n")
	c.write(c.Layout.TrialIDsPath(condition, gender, corpus.SideTest), strings.Join(test, "\n")+"\n")
}

// WriteKeyMask writes a keymask matrix for an SRE10 condition.
func (c *Corpus) WriteKeyMask(condition int, gender string, labels [][]int) {
	c.t.Helper()
	var b strings.Builder
	for _, row := range labels {
		for j, v := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", v)
		}
		b.WriteByte('\n')
	}
	c.write(c.Layout.KeyMaskPath(condition, gender), b.String())
}

func (c *Corpus) write(path, content string) {
	c.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		c.t.Fatalf("write %s: %v", path, err)
	}
}
