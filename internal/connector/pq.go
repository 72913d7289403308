package connector

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/lib/pq"

	"pgerd/internal/introspect"
)

func openPQ(ctx context.Context, dsn string) (*Conn, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %v; additionally failed to close connection: %w", pingErr, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return &Conn{
		driver:  DriverPQ,
		querier: sqlQuerier{db: db},
		close:   db.Close,
	}, nil
}

// sqlQuerier adapts database/sql to introspect.Querier. Slice arguments and
// int2[] destinations go through the pq array types.
type sqlQuerier struct {
	db *sql.DB
}

func (q sqlQuerier) Query(ctx context.Context, query string, args ...any) (introspect.Rows, error) {
	rows, err := q.db.QueryContext(ctx, query, arrayArgs(args)...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{Rows: rows}, nil
}

func arrayArgs(args []any) []any {
	out := slices.Clone(args)
	for i, a := range out {
		switch v := a.(type) {
		case []string:
			out[i] = pq.StringArray(v)
		case []int16:
			wide := make(pq.Int64Array, len(v))
			for j, n := range v {
				wide[j] = int64(n)
			}
			out[i] = wide
		case []int64:
			out[i] = pq.Int64Array(v)
		}
	}
	return out
}

type sqlRows struct {
	*sql.Rows
}

func (r *sqlRows) Scan(dest ...any) error {
	targets := slices.Clone(dest)
	var narrow []func() error
	for i, d := range targets {
		p, ok := d.(*[]int16)
		if !ok {
			continue
		}
		wide := new(pq.Int64Array)
		targets[i] = wide
		narrow = append(narrow, func() error {
			out := make([]int16, len(*wide))
			for j, n := range *wide {
				if n < -32768 || n > 32767 {
					return fmt.Errorf("value %d out of range for int16", n)
				}
				out[j] = int16(n)
			}
			*p = out
			return nil
		})
	}

	if err := r.Rows.Scan(targets...); err != nil {
		return err
	}
	for _, fn := range narrow {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func (r *sqlRows) Close() {
	_ = r.Rows.Close()
}
