package visitordash

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger in development and a JSON logger otherwise.
func NewLogger(env string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if strings.EqualFold(env, "development") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "visitordash").Logger()
}
