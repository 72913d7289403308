// Package generate ties one pgerd run together: it connects to the server,
// loads the schema catalog into a core.ERD, renders it in the requested
// notation and writes the result.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"pgerd/internal/config"
	"pgerd/internal/connector"
	"pgerd/internal/core"
	"pgerd/internal/introspect"
	"pgerd/internal/output"
)

// Options struct contains everything a single run needs.
type Options struct {
	Config *config.Config
	// Out receives the diagram when Config.Output is empty.
	Out io.Writer
	// Info receives short progress messages meant for a terminal.
	Info   io.Writer
	Logger *zap.Logger
	// Introspecter overrides the registered PostgreSQL introspecter.
	Introspecter introspect.Introspecter
}

// Generator is a struct that holds the session and settings of one run.
type Generator struct {
	conn    *connector.Conn
	querier introspect.Querier
	cfg     *config.Config
	out     io.Writer
	info    io.Writer
	logger  *zap.Logger
	loader  introspect.Introspecter
}

// NewGenerator returns a Generator for the given options. Missing writers
// discard, a missing config means defaults.
func NewGenerator(options Options) *Generator {
	g := &Generator{
		cfg:    options.Config,
		out:    options.Out,
		info:   options.Info,
		logger: options.Logger,
		loader: options.Introspecter,
	}
	if g.cfg == nil {
		g.cfg = config.Default()
	}
	if g.out == nil {
		g.out = io.Discard
	}
	if g.info == nil {
		g.info = io.Discard
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

func (g *Generator) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(g.info, format, args...)
}

// Connect opens the catalog session. The error is a *core.ConnectivityError
// for any transport failure.
func (g *Generator) Connect(ctx context.Context) error {
	driver, err := connector.ParseDriver(g.cfg.Driver)
	if err != nil {
		return err
	}

	conn, err := connector.Open(ctx, connector.Options{
		Driver:             driver,
		DSN:                g.cfg.ConnectionString(),
		AcceptInvalidCerts: g.cfg.AcceptInvalidCerts,
		Logger:             g.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	g.logger.Debug("session open", zap.String("driver", string(conn.Driver())), zap.String("schema", g.cfg.Schema))
	g.conn = conn
	g.querier = conn
	return nil
}

// Close closes the session. It is safe without a prior Connect.
func (g *Generator) Close() error {
	if g.conn == nil {
		return nil
	}
	err := g.conn.Close()
	g.conn = nil
	g.querier = nil
	return err
}

// Load reads the configured schema through q and checks the model invariants.
func (g *Generator) Load(ctx context.Context, q introspect.Querier) (*core.ERD, error) {
	loader := g.loader
	if loader == nil {
		var err error
		loader, err = introspect.NewIntrospecter(core.DialectPostgreSQL, introspect.WithLogger(g.logger))
		if err != nil {
			return nil, err
		}
	}

	erd, err := loader.Introspect(ctx, q, g.cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %q: %w", g.cfg.Schema, err)
	}
	if err := erd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model for schema %q: %w", g.cfg.Schema, err)
	}
	return erd, nil
}

// Render formats erd with the configured notation and render options.
func (g *Generator) Render(erd *core.ERD) (string, error) {
	formatter, err := output.NewFormatter(g.cfg.Format)
	if err != nil {
		return "", err
	}
	opts := g.cfg.RenderOptions()
	if _, err := output.ParseDirection(string(opts.Direction)); err != nil {
		return "", err
	}

	g.logger.Debug("rendering", zap.String("format", g.cfg.Format))
	text, err := formatter.Generate(erd, opts)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", g.cfg.Format, err)
	}
	return text, nil
}

// Write sends the text to the configured output file, or to Out when no file
// is set.
func (g *Generator) Write(text string) error {
	if g.cfg.Output == "" {
		_, err := io.WriteString(g.out, text)
		return err
	}
	if err := os.WriteFile(g.cfg.Output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", g.cfg.Output, err)
	}
	g.printf("Diagram written to %s\n", g.cfg.Output)
	return nil
}

// Run performs a full connect, load, render and write cycle. The session is
// closed before Run returns.
func (g *Generator) Run(ctx context.Context) (err error) {
	if err := g.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if closeErr := g.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close connection: %w", closeErr))
		}
	}()

	return g.generate(ctx, g.querier)
}

func (g *Generator) generate(ctx context.Context, q introspect.Querier) error {
	erd, err := g.Load(ctx, q)
	if err != nil {
		return err
	}
	text, err := g.Render(erd)
	if err != nil {
		return err
	}
	return g.Write(text)
}
