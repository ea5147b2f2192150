package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInitLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, "text", &buf)

	slog.Info("dropped")
	slog.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info record passed a warn-level filter: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestNewAttachesComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelInfo, "json", &buf)

	New("analyze").Info("run complete", "categories", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if got := record["component"]; got != "analyze" {
		t.Errorf("component = %v, want analyze", got)
	}
	if got := record["msg"]; got != "run complete" {
		t.Errorf("msg = %v, want run complete", got)
	}
}
