package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := NewWithFormat("info", "text", &buf)

	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")
	log.Info(ctx, "formatted message: %s %d", "test", 123)

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, "formatted message: test 123")
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		emit        func(Logger)
		want        bool
	}{
		{"debug logs at debug level", "debug", func(l Logger) { l.Debug(context.Background(), "x") }, true},
		{"info logs at debug level", "debug", func(l Logger) { l.Info(context.Background(), "x") }, true},
		{"debug hidden at info level", "info", func(l Logger) { l.Debug(context.Background(), "x") }, false},
		{"info logs at info level", "info", func(l Logger) { l.Info(context.Background(), "x") }, true},
		{"error logs at debug level", "debug", func(l Logger) { l.Error(context.Background(), "x") }, true},
		{"warn hidden at error level", "error", func(l Logger) { l.Warn(context.Background(), "x") }, false},
		{"unknown level behaves as info", "loud", func(l Logger) { l.Debug(context.Background(), "x") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(NewWithFormat(tt.configLevel, "json", &buf))
			assert.Equal(t, tt.want, buf.Len() > 0)
		})
	}
}

func TestJSONFormatCarriesContextIDs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("debug", "json", &buf)

	ctx := WithRequestID(WithSessionID(context.Background(), "sess-1"), "req-9")
	log.Info(ctx, "stage %s", "transcribing")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "stage transcribing", entry["message"])
	assert.Equal(t, "sess-1", entry["session_id"])
	assert.Equal(t, "req-9", entry["request_id"])
	assert.Equal(t, "sess-1", SessionIDFromContext(ctx))
}

func TestNopDiscards(t *testing.T) {
	log := NewNop()
	log.Error(context.TODO(), "ignored %d", 1)
	log.Debug(context.TODO(), "ignored")
}
