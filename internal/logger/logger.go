package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	requestIDKey contextKey = "request_id"
)

// implLogger leaves level filtering to zerolog; filtered levels yield a nil
// event, which emit skips.
type implLogger struct {
	zl zerolog.Logger
}

// New creates a new Logger instance writing human-readable lines to stdout
func New(level string) Logger {
	return NewWithFormat(level, "text", os.Stdout)
}

// NewWithFormat creates a Logger; format "json" emits one JSON object per line
func NewWithFormat(level, format string, out io.Writer) Logger {
	if out == nil {
		out = os.Stdout
	}

	var w io.Writer = out
	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	zl := zerolog.New(w).Level(parseLevel(strings.ToLower(level))).With().Timestamp().Logger()

	return &implLogger{zl: zl}
}

// NewNop returns a Logger that discards everything
func NewNop() Logger {
	return &implLogger{zl: zerolog.Nop()}
}

// WithSessionID attaches a session id that is added to every log line
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// WithRequestID attaches a request id that is added to every log line
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// SessionIDFromContext returns the session id stored by WithSessionID
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *implLogger) emit(ctx context.Context, event *zerolog.Event, msg string, args []interface{}) {
	if event == nil {
		return
	}
	if ctx != nil {
		if id, ok := ctx.Value(sessionIDKey).(string); ok && id != "" {
			event = event.Str("session_id", id)
		}
		if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
			event = event.Str("request_id", id)
		}
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	event.Msg(msg)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, l.zl.Debug(), msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, l.zl.Info(), msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, l.zl.Warn(), msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, l.zl.Error(), msg, args)
}
