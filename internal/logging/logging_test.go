package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	Info().Str("component", "test").Msg("hello")
	l := Logger()
	l.Debug().Msg("suppressed")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "hello" || entry["component"] != "test" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if strings.Contains(buf.String(), "suppressed") {
		t.Error("expected debug message to be filtered at info level")
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	// Without a context logger the global logger is used.
	Ctx(context.Background()).Info().Msg("global")
	if !strings.Contains(buf.String(), "global") {
		t.Errorf("expected global logger output, got %q", buf.String())
	}

	buf.Reset()
	l := Logger().With().Str("request_id", "abc").Logger()
	ctx := WithContext(context.Background(), l)
	Ctx(ctx).Info().Msg("scoped")
	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Errorf("expected request id in output, got %q", buf.String())
	}
}
