// Package config resolves the settings of one pgerd run. Values are layered:
// built-in defaults, then a TOML or YAML config file, then the environment
// (optionally seeded from a dotenv file), then explicitly set command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pgerd/internal/connector"
	"pgerd/internal/output"
)

const (
	DefaultSchema  = "public"
	DefaultFormat  = "plantuml"
	DefaultTimeout = 60 * time.Second
)

// Config holds everything a run needs.
type Config struct {
	DSN string `toml:"dsn" yaml:"dsn"`
	// Database is used to build the DSN when none is given.
	Database           DatabaseConfig `toml:"database" yaml:"database"`
	Schema             string         `toml:"schema" yaml:"schema"`
	Format             string         `toml:"format" yaml:"format"`
	Output             string         `toml:"output" yaml:"output"`
	Driver             string         `toml:"driver" yaml:"driver"`
	AcceptInvalidCerts bool           `toml:"accept_invalid_certs" yaml:"accept_invalid_certs"`
	Timeout            time.Duration  `toml:"timeout" yaml:"timeout"`
	Render             RenderConfig   `toml:"render" yaml:"render"`
}

// DatabaseConfig describes a server by its parts.
type DatabaseConfig struct {
	Host     string `toml:"host" yaml:"host"`
	Port     int    `toml:"port" yaml:"port"`
	Username string `toml:"username" yaml:"username"`
	Password string `toml:"password" yaml:"password"`
	Name     string `toml:"name" yaml:"name"`
	SSLMode  string `toml:"sslmode" yaml:"sslmode"`
}

// RenderConfig maps to output.Options.
type RenderConfig struct {
	NotNull       bool   `toml:"not_null" yaml:"not_null"`
	Enums         bool   `toml:"enums" yaml:"enums"`
	Legend        bool   `toml:"legend" yaml:"legend"`
	InlinePUMLLib bool   `toml:"inline_puml_lib" yaml:"inline_puml_lib"`
	PUMLLibURL    string `toml:"puml_lib_url" yaml:"puml_lib_url"`
	Direction     string `toml:"direction" yaml:"direction"`
	Conceptual    bool   `toml:"conceptual" yaml:"conceptual"`
	Views         bool   `toml:"views" yaml:"views"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Schema:             DefaultSchema,
		Format:             DefaultFormat,
		Driver:             string(connector.DriverPGX),
		AcceptInvalidCerts: true,
		Timeout:            DefaultTimeout,
	}
}

// BuildDSN returns a postgres:// URL from the parts, or "" when no host is set.
func (d DatabaseConfig) BuildDSN() string {
	if d.Host == "" {
		return ""
	}

	host := d.Host
	if d.Port != 0 {
		host += ":" + strconv.Itoa(d.Port)
	}
	u := url.URL{Scheme: "postgres", Host: host, Path: "/" + d.Name}
	if d.Username != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.Username, d.Password)
		} else {
			u.User = url.User(d.Username)
		}
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// ConnectionString returns the DSN, falling back to the database parts.
func (c *Config) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return c.Database.BuildDSN()
}

// RenderOptions converts the render section to formatter options.
func (c *Config) RenderOptions() output.Options {
	return output.Options{
		NotNull:       c.Render.NotNull,
		Enums:         c.Render.Enums,
		Legend:        c.Render.Legend,
		InlinePUMLLib: c.Render.InlinePUMLLib,
		PUMLLibURL:    c.Render.PUMLLibURL,
		Direction:     output.Direction(strings.ToUpper(strings.TrimSpace(c.Render.Direction))),
		Schema:        c.Schema,
		Conceptual:    c.Render.Conceptual,
		Views:         c.Render.Views,
	}
}

// Validate checks that the resolved configuration can drive a run.
func (c *Config) Validate() error {
	if c.ConnectionString() == "" {
		return errors.New("connection string is required; pass it as an argument, --dsn, PGERD_DSN or DATABASE_URL")
	}
	if strings.TrimSpace(c.Schema) == "" {
		return errors.New("schema name must not be empty")
	}
	if _, err := output.NewFormatter(c.Format); err != nil {
		return err
	}
	if _, err := connector.ParseDriver(c.Driver); err != nil {
		return err
	}
	if _, err := output.ParseDirection(c.Render.Direction); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}
	return nil
}
