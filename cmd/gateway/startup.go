package main

import (
	"errors"
	"io/fs"
	"log/slog"
)

// logStartupNotes reports the .env outcome and any configuration values that
// were replaced by defaults. Only a missing .env is logged at debug.
func logStartupNotes(logger *slog.Logger, envErr error, warnings []string) {
	switch {
	case envErr == nil:
	case errors.Is(envErr, fs.ErrNotExist):
		logger.Debug("no .env file found, using environment variables from OS")
	default:
		logger.Warn("failed to load .env file, using environment variables from OS", "error", envErr)
	}

	for _, w := range warnings {
		logger.Warn("configuration value ignored", "detail", w)
	}
}
