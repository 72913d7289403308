// Package connector opens a read-only catalog session to a PostgreSQL server
// through one of the supported drivers and exposes it as an introspect.Querier.
package connector

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pgerd/internal/core"
	"pgerd/internal/introspect"
)

// Driver names a database driver.
type Driver string

const (
	DriverPGX Driver = "pgx"
	DriverPQ  Driver = "pq"
)

// SupportedDrivers returns every driver name Open accepts.
func SupportedDrivers() []Driver {
	return []Driver{DriverPGX, DriverPQ}
}

// ParseDriver maps a user supplied name to a Driver. An empty name selects pgx.
func ParseDriver(name string) (Driver, error) {
	switch Driver(strings.ToLower(strings.TrimSpace(name))) {
	case "", DriverPGX:
		return DriverPGX, nil
	case DriverPQ:
		return DriverPQ, nil
	default:
		names := make([]string, 0, len(SupportedDrivers()))
		for _, d := range SupportedDrivers() {
			names = append(names, string(d))
		}
		return "", fmt.Errorf("unsupported driver: %s; use %s", name, strings.Join(names, " or "))
	}
}

// Options contains the connection settings.
type Options struct {
	Driver Driver
	DSN    string
	// AcceptInvalidCerts disables server certificate verification on every
	// TLS attempt the pgx driver makes. lib/pq follows the DSN sslmode.
	AcceptInvalidCerts bool
	Logger             *zap.Logger
}

// Conn is an open catalog session.
type Conn struct {
	driver  Driver
	querier introspect.Querier
	close   func() error
}

// Open connects with the selected driver and pings the server. Every failure
// is a *core.ConnectivityError.
func Open(ctx context.Context, opts Options) (*Conn, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	driver, err := ParseDriver(string(opts.Driver))
	if err != nil {
		return nil, err
	}

	var c *Conn
	switch driver {
	case DriverPQ:
		if opts.AcceptInvalidCerts {
			logger.Warn("accept-invalid-certs is ignored by the pq driver; TLS follows the DSN sslmode")
		}
		c, err = openPQ(ctx, opts.DSN)
	default:
		c, err = openPGX(ctx, opts.DSN, opts.AcceptInvalidCerts)
	}
	if err != nil {
		return nil, &core.ConnectivityError{Err: err}
	}

	logger.Debug("connected", zap.String("driver", string(driver)))
	return c, nil
}

// Driver reports which driver the session uses.
func (c *Conn) Driver() Driver {
	return c.driver
}

func (c *Conn) Query(ctx context.Context, sql string, args ...any) (introspect.Rows, error) {
	return c.querier.Query(ctx, sql, args...)
}

// Close releases the session. It is safe to call more than once.
func (c *Conn) Close() error {
	if c == nil || c.close == nil {
		return nil
	}
	closeFn := c.close
	c.close = nil
	return closeFn()
}
