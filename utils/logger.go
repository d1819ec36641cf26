package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process-wide structured logger. main replaces it once the
// environment is known.
var Log = NewLogger("production")

// NewLogger builds a JSON logger, or a console logger at debug level when
// appEnv is "development".
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}
