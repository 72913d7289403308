package connector

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pgerd/internal/introspect"
)

func openPGX(ctx context.Context, dsn string, acceptInvalidCerts bool) (*Conn, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	// The loader issues its queries one after another on a single session.
	config.MaxConns = 1
	config.MinConns = 0

	if acceptInvalidCerts {
		relaxTLS(config.ConnConfig)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Conn{
		driver:  DriverPGX,
		querier: pgxQuerier{pool: pool},
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

// relaxTLS turns off certificate verification on the primary TLS config and on
// every fallback pgx derived from the sslmode.
func relaxTLS(cfg *pgx.ConnConfig) {
	relaxTLSConfig(cfg.TLSConfig)
	for _, fb := range cfg.Fallbacks {
		relaxTLSConfig(fb.TLSConfig)
	}
}

func relaxTLSConfig(c *tls.Config) {
	if c == nil {
		return
	}
	c.InsecureSkipVerify = true
	c.VerifyPeerCertificate = nil
	c.VerifyConnection = nil
}

type pgxQuerier struct {
	pool *pgxpool.Pool
}

func (q pgxQuerier) Query(ctx context.Context, sql string, args ...any) (introspect.Rows, error) {
	rows, err := q.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
