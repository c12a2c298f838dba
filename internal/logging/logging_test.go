package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("output missing attribute: %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	logger.Info("hello", "key", "value")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", record["msg"])
	}
	if record["key"] != "value" {
		t.Errorf("key = %v, want value", record["key"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("should not appear")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Error("info message leaked through warn-level filter")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message was filtered out")
	}
}

func TestBuildHandler_FormatSelection(t *testing.T) {
	var buf bytes.Buffer

	if _, ok := BuildHandler(Config{Format: FormatJSON, Output: &buf}).(*slog.JSONHandler); !ok {
		t.Error("json format should build a JSON handler")
	}
	if _, ok := BuildHandler(Config{Format: FormatText, Output: &buf}).(*Handler); !ok {
		t.Error("text format should build the terminal handler")
	}
	if _, ok := BuildHandler(Config{Format: "bogus", Output: &buf}).(*Handler); !ok {
		t.Error("unknown formats should fall back to the terminal handler")
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	// Must not panic; output goes nowhere.
	logger.Error("discarded")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, LevelTrace},
		{5, LevelTrace},
		{-1, slog.LevelInfo},
	}

	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity)
		if got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext on empty context should fall back to default")
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	handler := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	logger := slog.New(handler)

	logger.Info("fan out")

	if !strings.Contains(a.String(), "fan out") {
		t.Error("first handler did not receive the record")
	}
	if !strings.Contains(b.String(), "fan out") {
		t.Error("second handler did not receive the record")
	}
}

func TestMultiHandler_PerHandlerLevels(t *testing.T) {
	var terminal, file bytes.Buffer
	handler := NewMultiHandler(
		slog.NewTextHandler(&terminal, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&file, &slog.HandlerOptions{Level: LevelTrace}),
	)

	if !handler.Enabled(context.Background(), LevelTrace) {
		t.Fatal("a trace-level handler must keep trace records flowing")
	}

	logger := slog.New(handler)
	logger.Log(context.Background(), LevelTrace, "per-file detail")

	if strings.Contains(terminal.String(), "per-file detail") {
		t.Error("info-level handler received a trace record")
	}
	if !strings.Contains(file.String(), "per-file detail") {
		t.Error("trace-level handler did not receive the record")
	}
}

// failingHandler accepts every record and fails to write it.
type failingHandler struct{ err error }

func (f *failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (f *failingHandler) Handle(context.Context, slog.Record) error { return f.err }

func (f *failingHandler) WithAttrs([]slog.Attr) slog.Handler { return f }

func (f *failingHandler) WithGroup(string) slog.Handler { return f }

func TestMultiHandler_DeliveryContinuesPastFailures(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("disk full")
	handler := NewMultiHandler(
		&failingHandler{err: boom},
		slog.NewTextHandler(&buf, nil),
	)

	var record slog.Record
	record.Message = "still delivered"
	err := handler.Handle(context.Background(), record)

	if !errors.Is(err, boom) {
		t.Errorf("expected the handler failure to surface, got %v", err)
	}
	if !strings.Contains(buf.String(), "still delivered") {
		t.Error("a failing handler must not block the others")
	}
}
