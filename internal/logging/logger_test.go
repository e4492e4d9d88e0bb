package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("resolved item", String(FieldItemID, "abc"), Int("count", 2))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if payload["msg"] != "resolved item" {
		t.Errorf("unexpected msg: %v", payload["msg"])
	}
	if payload[FieldItemID] != "abc" {
		t.Errorf("unexpected item_id: %v", payload[FieldItemID])
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	NewComponentLogger(logger, "resolve").Info("matched", String(FieldTerm, "Title A"))

	line := buf.String()
	if !strings.Contains(line, "INFO resolve: matched") {
		t.Errorf("missing level/component prefix: %q", line)
	}
	if !strings.Contains(line, `term="Title A"`) {
		t.Errorf("missing quoted attr: %q", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestNopLoggerSafe(t *testing.T) {
	NewComponentLogger(nil, "x").Error("ignored", Error(nil))
}
