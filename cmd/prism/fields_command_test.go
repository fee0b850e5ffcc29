package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"prism/internal/fields"
)

func TestFieldsTableListsEveryColumn(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "broken.toml")
	out, _, err := runCLI(t, []string{"fields"}, missing)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	for _, def := range fields.Default().All() {
		requireContains(t, out, def.Name)
	}
}

func TestFieldsJSONAndYAML(t *testing.T) {
	out, _, err := runCLI(t, []string{"fields", "--format", "json"}, "")
	if err != nil {
		t.Fatalf("fields json: %v", err)
	}
	var fromJSON []fields.Definition
	if err := json.Unmarshal([]byte(out), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(fromJSON) != fields.Count || fromJSON[15].Name != "VOCAL_EFFORT" {
		t.Fatalf("unexpected json catalog: %+v", fromJSON)
	}

	out, _, err = runCLI(t, []string{"fields", "-f", "yaml"}, "")
	if err != nil {
		t.Fatalf("fields yaml: %v", err)
	}
	var fromYAML []fields.Definition
	if err := yaml.Unmarshal([]byte(out), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(fromYAML) != fields.Count || fromYAML[0].Column != 1 || fromYAML[0].Key != "unique_name" {
		t.Fatalf("unexpected yaml catalog: %+v", fromYAML[0])
	}

	if _, _, err := runCLI(t, []string{"fields", "--format", "xml"}, ""); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestFieldsShow(t *testing.T) {
	out, _, err := runCLI(t, []string{"fields", "show", "5"}, "")
	if err != nil {
		t.Fatalf("fields show 5: %v", err)
	}
	requireContains(t, out, "Name:        CHANNEL")

	out, _, err = runCLI(t, []string{"fields", "show", "speaker_pin", "--format", "json"}, "")
	if err != nil {
		t.Fatalf("fields show speaker_pin: %v", err)
	}
	var def fields.Definition
	if err := json.Unmarshal([]byte(out), &def); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if def.Column != 3 || def.Key != "target" {
		t.Fatalf("unexpected definition %+v", def)
	}

	_, _, err = runCLI(t, []string{"fields", "show", "17"}, "")
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}
