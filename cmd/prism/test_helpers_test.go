package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prism/internal/config"
	"prism/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	corpus     *testsupport.Corpus
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("PRISM_DATA_DIR", "")
	t.Setenv("PRISM_CACHE_DIR", "")
	t.Setenv("XDG_CACHE_HOME", "")

	cfg := testsupport.NewConfig(t, testsupport.WithDatabases("MIX05", "MIX10"))
	c := testsupport.NewCorpus(t, cfg.Paths.DataDir)
	c.WriteKey("MIX05",
		testsupport.KeyLine("MIX05_a", "MIX05", "f", "language", "ENG", "NATIVE_LANGUAGE", "ARA"),
		testsupport.KeyLine("MIX05_b", "MIX05", "m"),
		testsupport.KeyLine("MIX05_a", "MIX05", "f", "language", "ENG", "NATIVE_LANGUAGE", "ARA"),
	)
	c.WriteKey("MIX10",
		testsupport.KeyLine("e1", "MIX10", "f"),
		testsupport.KeyLine("e2", "MIX10", "f"),
		testsupport.KeyLine("t1", "MIX10", "f"),
		testsupport.KeyLine("t2", "MIX10", "f"),
	)
	c.WriteTrials(5, "f", []string{"e1", "e2"}, []string{"t1", "t2"})
	c.WriteKeyMask(5, "f", [][]int{{1, 0}, {-1, 1}})

	configPath := filepath.Join(homeDir, ".config", "prism", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		corpus:     c,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	quoted := make([]string, len(cfg.Corpus.Databases))
	for i, db := range cfg.Corpus.Databases {
		quoted[i] = fmt.Sprintf("%q", db)
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
cache_dir = %q
log_dir = %q

[corpus]
databases = [%s]

[protocol]
default = "SRE10_c05_f"

[protocol.preprocessors]
wav = "/wav/{uri}.wav"

[cache]
enabled = %t

[logging]
level = "error"
`,
		cfg.Paths.DataDir,
		cfg.Paths.CacheDir,
		cfg.Paths.LogDir,
		strings.Join(quoted, ", "),
		cfg.Cache.Enabled,
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
