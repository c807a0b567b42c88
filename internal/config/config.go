// Package config loads runtime configuration for the golox CLI, merging a .env file with the process environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings that aren't already covered by CLI flags: settings which make more sense as
// environment/profile configuration than as something typed on every invocation.
type Config struct {
	// HistoryFile is the path the REPL's readline history is persisted to.
	HistoryFile string
	// ForceColor, if set, overrides terminal detection for diagnostic colouring.
	ForceColor bool
	// NoColor disables diagnostic colouring outright, taking precedence over ForceColor.
	NoColor bool
	// Suggestions enables "did you mean" hints on undefined-variable runtime errors.
	Suggestions bool
}

const (
	envHistoryFile  = "GOLOX_HISTORY_FILE"
	envForceColor   = "GOLOX_FORCE_COLOR"
	envNoColor      = "GOLOX_NO_COLOR"
	envSuggestions  = "GOLOX_SUGGESTIONS"
	defaultHistFile = ".golox_history"
)

// Load reads a .env file if present in the working directory (silently ignoring its absence) and returns the
// resulting Config, applying defaults for anything left unset.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HistoryFile: getOr(envHistoryFile, defaultHistFile),
		ForceColor:  getBool(envForceColor, false),
		NoColor:     getBool(envNoColor, false),
		Suggestions: getBool(envSuggestions, true),
	}
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
