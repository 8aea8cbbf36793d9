package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{name: "production uses JSON", environment: "production", wantJSON: true},
		{name: "development uses pretty", environment: "development", wantJSON: false},
		{name: "staging uses pretty", environment: "staging", wantJSON: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Writer: &buf, Environment: tt.environment, Level: slog.LevelInfo})

			log.Info("hello", "user_id", "usr-1")

			out := buf.String()
			require.NotEmpty(t, out)
			if tt.wantJSON {
				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &entry))
				assert.Equal(t, "hello", entry["msg"])
				assert.Equal(t, "usr-1", entry["user_id"])
			} else {
				assert.Contains(t, out, "INF")
				assert.Contains(t, out, "user_id=usr-1")
			}
		})
	}
}

func TestNew_ExplicitFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json", Environment: "development"})

	log.Info("explicit")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "explicit", entry["msg"])
}

func TestNew_RedactsCredentials(t *testing.T) {
	for _, format := range []string{"json", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Writer: &buf, Format: format})

			log.Info("login", "username", "alice", "password", "secret1", "token", "v4.local.abc")
			log.WithGroup("req").Info("header", "Authorization", "Bearer xyz")

			out := buf.String()
			assert.NotContains(t, out, "secret1")
			assert.NotContains(t, out, "v4.local.abc")
			assert.NotContains(t, out, "Bearer xyz")
			assert.Contains(t, out, "alice")
			assert.Contains(t, out, redacted)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))

	// Nil options default to info.
	h = NewPrettyHandler(&bytes.Buffer{}, nil)
	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, h.Enabled(t.Context(), slog.LevelInfo))
}

func TestPrettyHandler_LevelFormatting(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "DBG")
	assert.Contains(t, lines[1], "INF")
	assert.Contains(t, lines[2], "WRN")
	assert.Contains(t, lines[3], "ERR")
}

func TestPrettyHandler_WithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil)).
		With("component", "reviews").
		WithGroup("book").
		With("id", "book-1")

	log.Info("added", "rating", 5, slog.Group("by", "user", "alice"))

	out := buf.String()
	assert.Contains(t, out, "component=reviews")
	assert.Contains(t, out, "book.id=book-1")
	assert.Contains(t, out, "book.rating=5")
	assert.Contains(t, out, "book.by.user=alice")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{AddSource: true}))

	log.Info("with source")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value slog.Value
		want  string
	}{
		{name: "plain string", value: slog.StringValue("alice"), want: "alice"},
		{name: "spaced string", value: slog.StringValue("book not found"), want: `"book not found"`},
		{name: "int", value: slog.IntValue(42), want: "42"},
		{name: "bool", value: slog.BoolValue(true), want: "true"},
		{name: "duration", value: slog.DurationValue(1500 * time.Millisecond), want: "1.5s"},
		{name: "time", value: slog.TimeValue(ts), want: "2024-03-01T12:00:00Z"},
		{name: "error", value: slog.AnyValue(errors.New("database is locked")), want: `"database is locked"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}

func TestFormatLevel(t *testing.T) {
	str, color := formatLevel(slog.LevelError)
	assert.Equal(t, "ERR", str)
	assert.Equal(t, colorRed, color)

	str, color = formatLevel(slog.Level(2))
	assert.Equal(t, "INFO+2", str)
	assert.Equal(t, colorGray, color)
}
