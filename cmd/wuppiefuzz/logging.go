package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogging installs level as the global zerolog level and points the
// global logger at a console writer. Built once per process, never
// reconfigured mid-run.
func setupLogging(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// logLevelFromEnv resolves LOG_LEVEL from the environment: override (when
// non-nil) always wins, otherwise a parseable LOG_LEVEL wins, otherwise
// info.
func logLevelFromEnv(override *zerolog.Level) zerolog.Level {
	if override != nil {
		return *override
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if lvl, err := zerolog.ParseLevel(v); err == nil {
			return lvl
		}
	}
	return zerolog.InfoLevel
}
