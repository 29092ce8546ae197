package observability

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/phuslu/log"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Logger adapts phuslu/log to the engine's printf-style logging seam and adds
// structured helpers for the CLI and HTTP service.
type Logger struct {
	l log.Logger
}

// ParseLevel maps a level name to a phuslu/log level.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.TraceLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// NewLogger builds a logger writing to w (stderr when nil) in the given
// format at the given level.
func NewLogger(w io.Writer, level, format string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	lg := log.Logger{
		Level:      lvl,
		TimeFormat: time.RFC3339,
	}
	switch strings.ToLower(format) {
	case "", FormatConsole:
		lg.Writer = &log.ConsoleWriter{Writer: w, EndWithMessage: true}
	case FormatJSON:
		lg.Writer = &log.IOWriter{Writer: w}
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return &Logger{l: lg}, nil
}

// With returns a child logger that stamps key=value on every entry.
func (lg *Logger) With(key, value string) *Logger {
	child := lg.l
	ctx := append(log.Context(nil), lg.l.Context...)
	child.Context = append(ctx, log.NewContext(nil).Str(key, value).Value()...)
	return &Logger{l: child}
}

func (lg *Logger) Debugf(format string, args ...any) { lg.l.Debug().Msgf(format, args...) }
func (lg *Logger) Infof(format string, args ...any)  { lg.l.Info().Msgf(format, args...) }
func (lg *Logger) Warnf(format string, args ...any)  { lg.l.Warn().Msgf(format, args...) }
func (lg *Logger) Errorf(format string, args ...any) { lg.l.Error().Msgf(format, args...) }

// Run records the outcome of one valuation run.
func (lg *Logger) Run(runID string, years, segments int, elapsed time.Duration, err error) {
	if err != nil {
		lg.l.Error().Str("run_id", runID).Int("years", years).Int("segments", segments).Err(err).Msg("valuation run failed")
		return
	}
	lg.l.Info().Str("run_id", runID).Int("years", years).Int("segments", segments).Dur("elapsed", elapsed).Msg("valuation run complete")
}

// Request records one handled HTTP request.
func (lg *Logger) Request(method, path string, status int, elapsed time.Duration) {
	e := lg.l.Info()
	if status >= 500 {
		e = lg.l.Error()
	} else if status >= 400 {
		e = lg.l.Warn()
	}
	e.Str("method", method).Str("path", path).Int("status", status).Dur("elapsed", elapsed).Msg("request")
}
