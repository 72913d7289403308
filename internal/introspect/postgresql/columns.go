package postgresql

import (
	"fmt"

	"go.uber.org/zap"

	"pgerd/internal/core"
)

// columnRow is one live attribute as read from pg_attribute.
type columnRow struct {
	name     string
	num      int16
	dataType string
	notNull  bool
}

// loadColumns runs one column query for the whole batch of relation names and
// appends the rows to out, keyed by relation. Enum types are resolved once per
// type oid, on the first column that uses them.
func loadColumns(ic *introspectCtx, names []string, out map[string][]columnRow) error {
	if len(names) == 0 {
		return nil
	}

	rows, err := ic.q.Query(ic.ctx, columnsQuery, ic.schema, names)
	if err != nil {
		return &core.QueryError{Step: "columns", Err: err}
	}
	defer rows.Close()

	// Enum label queries run after the cursor is drained; a single connection
	// cannot interleave them with an open result set.
	type pendingEnum struct {
		name string
		oid  int64
	}
	var pending []pendingEnum

	count := 0
	for rows.Next() {
		var (
			table, kind string
			typeOID     int64
			c           columnRow
		)
		if err := rows.Scan(&table, &c.name, &c.num, &c.dataType, &c.notNull, &typeOID, &kind); err != nil {
			return &core.QueryError{Step: "columns", Err: err}
		}
		if kind == "e" {
			oid, seen := ic.enumOIDs[c.dataType]
			switch {
			case !seen:
				ic.enumOIDs[c.dataType] = typeOID
				pending = append(pending, pendingEnum{name: c.dataType, oid: typeOID})
			case oid != typeOID:
				return &core.DataConsistencyError{Reason: fmt.Sprintf(
					"enum type %q resolves to types %d and %d", c.dataType, oid, typeOID)}
			}
		}
		out[table] = append(out[table], c)
		count++
	}
	if err := rows.Err(); err != nil {
		return &core.QueryError{Step: "columns", Err: err}
	}
	rows.Close()

	ic.logger.Debug("loaded columns", zap.Int("relations", len(names)), zap.Int("columns", count))

	for _, e := range pending {
		labels, err := loadEnumLabels(ic, e.oid)
		if err != nil {
			return err
		}
		ic.enums[e.name] = labels
		ic.logger.Debug("loaded enum", zap.String("type", e.name), zap.Int("labels", len(labels)))
	}
	return nil
}
