// Package logging wraps zerolog behind the same conditional-debug shape the
// teacher's plugin host exposes through p.API.LogDebug/Info/Warn/Error.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger mirrors the plugin API's leveled, key-value logging surface.
type Logger interface {
	Debug(msg string, keyValuePairs ...any)
	Info(msg string, keyValuePairs ...any)
	Warn(msg string, keyValuePairs ...any)
	Error(msg string, keyValuePairs ...any)
}

// zerologLogger adapts zerolog.Logger to Logger, gating Debug on a flag the
// way the teacher's Plugin.logDebug gates on EnableDebugLogging.
type zerologLogger struct {
	logger       zerolog.Logger
	debugEnabled bool
}

// New builds a Logger writing to w (os.Stdout in production, a buffer in
// tests). debugEnabled mirrors the teacher's EnableDebugLogging config flag.
func New(w io.Writer, debugEnabled bool) Logger {
	return &zerologLogger{
		logger:       zerolog.New(w).With().Timestamp().Logger(),
		debugEnabled: debugEnabled,
	}
}

// NewDefault builds a production Logger writing to stdout.
func NewDefault(debugEnabled bool) Logger {
	return New(os.Stdout, debugEnabled)
}

func (l *zerologLogger) Debug(msg string, keyValuePairs ...any) {
	if !l.debugEnabled {
		return
	}
	withFields(l.logger.Debug(), keyValuePairs).Msg(msg)
}

func (l *zerologLogger) Info(msg string, keyValuePairs ...any) {
	withFields(l.logger.Info(), keyValuePairs).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, keyValuePairs ...any) {
	withFields(l.logger.Warn(), keyValuePairs).Msg(msg)
}

func (l *zerologLogger) Error(msg string, keyValuePairs ...any) {
	withFields(l.logger.Error(), keyValuePairs).Msg(msg)
}

// withFields applies a flat key1, value1, key2, value2, ... pair list to an
// in-flight zerolog event, matching the teacher's variadic logging calls.
func withFields(event *zerolog.Event, keyValuePairs []any) *zerolog.Event {
	for i := 0; i+1 < len(keyValuePairs); i += 2 {
		key, ok := keyValuePairs[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, keyValuePairs[i+1])
	}
	return event
}
