package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestJSONHandlerRendersErrorsAndDurations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, slog.LevelInfo, false))
	logger.Info("keys loaded",
		"elapsed", 1500*time.Millisecond,
		"error", errors.New("MIX05.key: line 3: wrong column count"),
		slog.Group("protocol", slog.Duration("items", 2*time.Second)),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if entry["level"] != "info" || entry["msg"] != "keys loaded" {
		t.Fatalf("unexpected envelope: %v", entry)
	}
	if _, ok := entry["ts"].(string); !ok {
		t.Fatalf("expected ts string, got %v", entry["ts"])
	}
	if entry["elapsed"] != "1.5s" {
		t.Fatalf("expected elapsed rendered as string, got %v", entry["elapsed"])
	}
	if entry["error"] != "MIX05.key: line 3: wrong column count" {
		t.Fatalf("expected error message, got %v", entry["error"])
	}
	group, ok := entry["protocol"].(map[string]any)
	if !ok || group["items"] != "2s" {
		t.Fatalf("expected grouped duration, got %v", entry["protocol"])
	}
}
