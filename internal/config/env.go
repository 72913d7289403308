package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvDSN         = "PGERD_DSN"
	EnvDatabaseURL = "DATABASE_URL"
	EnvSchema      = "PGERD_SCHEMA"
)

// LoadEnv applies environment variables over cfg. Variables from envFile are
// used only when the process environment does not set them; a missing file is
// not an error. PGERD_DSN takes precedence over DATABASE_URL.
func LoadEnv(envFile string, cfg *Config) error {
	fileEnv := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileEnv = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("env: read %q: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvDSN); ok {
		cfg.DSN = v
	} else if v, ok := lookup(EnvDatabaseURL); ok {
		cfg.DSN = v
	}
	if v, ok := lookup(EnvSchema); ok {
		cfg.Schema = v
	}
	return nil
}
