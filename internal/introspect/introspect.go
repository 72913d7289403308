// Package introspect contains the main introspecter interface which lets you read the catalog of a
// database schema. It returns a core.ERD with every table, view, foreign key and enum of the schema,
// or an error if the connection or one of the catalog queries was unsuccessful.
package introspect

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"pgerd/internal/core"
)

// Rows is the cursor returned by Querier.Query. Both pgx.Rows and the
// database/sql adapter in internal/connector satisfy it.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier runs read-only catalog queries. Placeholders use the $n syntax.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

type Introspecter interface {
	Introspect(ctx context.Context, q Querier, schema string) (*core.ERD, error)
}

// Options holds settings shared by every introspecter.
type Options struct {
	Logger *zap.Logger
}

type Option func(*Options)

// WithLogger sets the logger used for per-step debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// BuildOptions applies opts over the defaults.
func BuildOptions(opts ...Option) Options {
	o := Options{Logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type Factory func(opts ...Option) Introspecter

var (
	registry = make(map[core.Dialect]Factory)
	mu       sync.RWMutex
)

func Register(dialect core.Dialect, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[dialect] = fn
}

// NewIntrospecter returns the introspecter registered for dialect. Dialect
// names are matched case-insensitively.
func NewIntrospecter(dialect core.Dialect, opts ...Option) (Introspecter, error) {
	if !core.IsValidDialect(string(dialect)) {
		return nil, fmt.Errorf("unsupported dialect %v", dialect)
	}

	mu.RLock()
	fn, ok := registry[core.Dialect(strings.ToLower(string(dialect)))]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no introspecter registered for dialect %v", dialect)
	}

	return fn(opts...), nil
}
