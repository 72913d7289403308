package postgresql

import (
	"fmt"

	"go.uber.org/zap"

	"pgerd/internal/core"
)

type relationKind int

const (
	relationTable relationKind = iota
	relationView
)

type relation struct {
	name string
	kind relationKind
}

func parseRelationKind(s string) (relationKind, error) {
	switch s {
	case "BASE TABLE":
		return relationTable, nil
	case "VIEW":
		return relationView, nil
	default:
		return 0, &core.DataConsistencyError{Reason: fmt.Sprintf("unknown table type: %s", s)}
	}
}

// loadRelations lists base tables and plain views of the schema, sorted by name.
func loadRelations(ic *introspectCtx) ([]relation, error) {
	rows, err := ic.q.Query(ic.ctx, relationsQuery, ic.schema)
	if err != nil {
		return nil, &core.QueryError{Step: "tables", Err: err}
	}
	defer rows.Close()

	var out []relation
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, &core.QueryError{Step: "tables", Err: err}
		}
		kind, err := parseRelationKind(typ)
		if err != nil {
			return nil, err
		}
		out = append(out, relation{name: name, kind: kind})
	}
	if err := rows.Err(); err != nil {
		return nil, &core.QueryError{Step: "tables", Err: err}
	}

	ic.logger.Debug("loaded relations", zap.Int("count", len(out)))
	return out, nil
}

func loadMaterializedViews(ic *introspectCtx) ([]string, error) {
	rows, err := ic.q.Query(ic.ctx, materializedViewsQuery, ic.schema)
	if err != nil {
		return nil, &core.QueryError{Step: "materialized views", Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &core.QueryError{Step: "materialized views", Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.QueryError{Step: "materialized views", Err: err}
	}

	ic.logger.Debug("loaded materialized views", zap.Int("count", len(names)))
	return names, nil
}
