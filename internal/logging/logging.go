package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LevelEnv names the environment variable that overrides the log level.
const LevelEnv = "ICD9_LOG_LEVEL"

// Setup initializes a zerolog.Logger based on the requested format.
// format can be "text" (human-friendly console on stderr) or "json"
// (structured, with caller info). The level defaults to info and can be
// set with ICD9_LOG_LEVEL.
func Setup(format string) zerolog.Logger {
	level := zerolog.InfoLevel
	if v := os.Getenv(LevelEnv); v != "" {
		if l, err := zerolog.ParseLevel(v); err == nil {
			level = l
		}
	}

	if format == "text" {
		w := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = time.RFC3339
		})
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()
}
