package logsvc

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/17dpatra/studentassignmenttracker/core"
	"github.com/17dpatra/studentassignmenttracker/core/session"
)

// ConsoleLogger writes the diagnostic trace with zerolog.
type ConsoleLogger struct {
	zl zerolog.Logger
}

var _ core.Logger = (*ConsoleLogger)(nil)

// NewConsoleLogger logs at `level` ("debug", "info", "warn", "error") and above.
// pretty switches from JSON lines to human readable output.
func NewConsoleLogger(w io.Writer, level string, pretty bool) *ConsoleLogger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return &ConsoleLogger{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

// NewNopLogger discards everything.
func NewNopLogger() *ConsoleLogger {
	return &ConsoleLogger{zl: zerolog.Nop()}
}

// expected fmt: msg | error, map[string]interface{}, session.Session
func (l *ConsoleLogger) write(e *zerolog.Event, msg string, args []interface{}) {
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			e = e.Err(v)
		case map[string]interface{}:
			e = e.Fields(v)
		case session.Session:
			// never the token
			if v.Username != "" {
				e = e.Str("username", v.Username)
			}
		case nil:
		default:
			e = e.Interface("extra", v)
		}
	}
	e.Msg(msg)
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) { l.write(l.zl.Debug(), msg, args) }

func (l *ConsoleLogger) Info(msg string, args ...interface{}) { l.write(l.zl.Info(), msg, args) }

func (l *ConsoleLogger) Warn(msg string, args ...interface{}) { l.write(l.zl.Warn(), msg, args) }

func (l *ConsoleLogger) Error(msg string, args ...interface{}) { l.write(l.zl.Error(), msg, args) }

func (l *ConsoleLogger) Fatal(msg string, args ...interface{}) { l.write(l.zl.Fatal(), msg, args) }
