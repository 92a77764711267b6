package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvSafeBrowsingAPIKey = "CHECKLINKS_SAFE_BROWSING_API_KEY"
	EnvSentryDSN          = "CHECKLINKS_SENTRY_DSN"
	EnvSentryEnvironment  = "CHECKLINKS_SENTRY_ENV"
	EnvListenAddr         = "CHECKLINKS_LISTEN"
	EnvDBDir              = "CHECKLINKS_DB_DIR"
)

// DefaultEnvFile is the dotenv file loaded by LoadEnv when no path is given.
const DefaultEnvFile = ".env"

// LoadEnv loads variables from a dotenv file into the process environment.
// Variables that are already set are left untouched. A missing file is not
// an error.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ApplyEnv copies CHECKLINKS_* environment variables into c.
// Empty variables are ignored.
func (c *Config) ApplyEnv() {
	if v := lookup(EnvSafeBrowsingAPIKey); v != "" {
		c.SafeBrowsingAPIKey = v
	}
	if v := lookup(EnvSentryDSN); v != "" {
		c.SentryDSN = v
	}
	if v := lookup(EnvSentryEnvironment); v != "" {
		c.SentryEnvironment = v
	}
	if v := lookup(EnvListenAddr); v != "" {
		c.ListenAddr = v
	}
	if v := lookup(EnvDBDir); v != "" {
		c.DBDir = v
	}
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
