package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var defaultLogger zerolog.Logger

func init() {
	Configure("info", true, os.Stdout)
}

// Configure replaces the process logger. Unknown levels fall back to info.
func Configure(level string, pretty bool, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	writer := out
	if pretty {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	defaultLogger = zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

func Info(format string, v ...interface{}) {
	defaultLogger.Info().Str("caller", caller()).Msgf(format, v...)
}

func Error(format string, v ...interface{}) {
	defaultLogger.Error().Str("caller", caller()).Msgf(format, v...)
}

func Debug(format string, v ...interface{}) {
	defaultLogger.Debug().Str("caller", caller()).Msgf(format, v...)
}

func Warn(format string, v ...interface{}) {
	defaultLogger.Warn().Str("caller", caller()).Msgf(format, v...)
}

// With returns a child logger carrying the given fields, for call sites that
// want structured output instead of printf-style messages.
func With(fields map[string]interface{}) zerolog.Logger {
	ctx := defaultLogger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}

func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}
