// Package config holds the command-line plumbing shared by every binary:
// environment parsing, .env discovery and fatal exits.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DefaultEnvPaths are tried in order when a command starts.
var DefaultEnvPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first readable file among paths into the process
// environment without overriding variables that are already set. It returns
// the path it loaded, or "" when none was found.
func LoadDotEnv(paths ...string) string {
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}
