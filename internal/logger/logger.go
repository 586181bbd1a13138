package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. Development gets a console writer, every
// other environment gets JSON lines on stdout.
func New(environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	env := strings.ToLower(strings.TrimSpace(environment))
	if env == "development" || env == "dev" || env == "local" {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		return zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().
		Timestamp().
		Str("service", "rfq-service").
		Logger()
}
