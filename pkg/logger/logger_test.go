package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONWithServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Service: "expense-api", Output: &buf})

	log.Info().Str("expense_id", "exp-1").Msg("expense created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "expense-api" || entry["expense_id"] != "exp-1" || entry["message"] != "expense created" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf})

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestNew_PrettyIsNotJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Pretty: true, Output: &buf})
	log.Info().Msg("hello")

	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Errorf("expected console output, got json %q", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("message missing from %q", buf.String())
	}
}

func TestInitGetReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Error("Get before Init should panic")
		}
	}()

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})
	log := Get()
	log.Info().Msg("once")

	if first.Len() == 0 || second.Len() != 0 {
		t.Errorf("only the first Init should take effect: first=%q second=%q", first.String(), second.String())
	}

	Reset()
	Get()
}
