// Package postgresql contains the introspect implementation for PostgreSQL. It reads the catalog of
// a single schema in a fixed order of read-only queries and hands the raw rows to the model builder,
// which turns them into a core.ERD.
package postgresql

import (
	"context"

	"go.uber.org/zap"

	"pgerd/internal/core"
	"pgerd/internal/introspect"
)

func init() {
	introspect.Register(core.DialectPostgreSQL, New)
}

type introspecter struct {
	logger *zap.Logger
}

type introspectCtx struct {
	q      introspect.Querier
	ctx    context.Context
	schema string
	logger *zap.Logger
	// enums is the discovery cache for one Introspect call.
	enums map[string][]string
	// enumOIDs maps each enum name in enums to the type oid it was read from.
	enumOIDs map[string]int64
}

func New(opts ...introspect.Option) introspect.Introspecter {
	o := introspect.BuildOptions(opts...)
	return &introspecter{logger: o.Logger}
}

func (i *introspecter) Introspect(ctx context.Context, q introspect.Querier, schema string) (*core.ERD, error) {
	ic := &introspectCtx{
		q:        q,
		ctx:      ctx,
		schema:   schema,
		logger:   i.logger.With(zap.String("schema", schema)),
		enums:    make(map[string][]string),
		enumOIDs: make(map[string]int64),
	}

	if err := checkSchemaExists(ic); err != nil {
		return nil, err
	}

	cat := &catalog{
		columns: make(map[string][]columnRow),
		enums:   ic.enums,
	}

	var err error
	if cat.pks, err = loadPrimaryKeys(ic); err != nil {
		return nil, err
	}
	if cat.fks, err = loadForeignKeys(ic); err != nil {
		return nil, err
	}
	if cat.relations, err = loadRelations(ic); err != nil {
		return nil, err
	}
	if cat.matviews, err = loadMaterializedViews(ic); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cat.relations))
	for _, r := range cat.relations {
		names = append(names, r.name)
	}
	if err := loadColumns(ic, names, cat.columns); err != nil {
		return nil, err
	}
	if err := loadColumns(ic, cat.matviews, cat.columns); err != nil {
		return nil, err
	}

	erd, err := buildERD(schema, cat)
	if err != nil {
		return nil, err
	}

	ic.logger.Debug("schema loaded",
		zap.Int("tables", len(erd.Tables)),
		zap.Int("views", len(erd.Views)),
		zap.Int("foreign_keys", len(erd.ForeignKeys)),
		zap.Int("enums", len(erd.Enums)),
	)
	return erd, nil
}
