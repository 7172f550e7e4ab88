package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the console logger used across the CLI. The debug
// flag lowers the level from info to debug, which also surfaces the
// per-seam removal events of the carving engine.
func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
