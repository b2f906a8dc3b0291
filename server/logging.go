package server

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger returns the server logger writing to w (stderr when nil). An
// unknown level falls back to info and is reported once.
func NewLogger(level string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "arena",
		Level:           log.InfoLevel,
	})
	if level == "" {
		return logger
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		return logger
	}
	logger.SetLevel(lvl)
	return logger
}
