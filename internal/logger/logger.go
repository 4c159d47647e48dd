// Package logger provides structured JSON logging using zerolog.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName is attached to every log entry.
const ServiceName = "cartonization-service"

// Init configures the global logger. Unknown levels fall back to info.
func Init(level string, pretty bool) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}
	log.Logger = New(out)

	// zerolog.Ctx falls back to this for contexts without a request logger.
	zerolog.DefaultContextLogger = &log.Logger
}

// New returns a logger writing to w with the service fields attached.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("service", ServiceName).Logger()
}

// ParseLevel converts a configured level name.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
