package postgresql

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"pgerd/internal/core"
)

// fkDef is a foreign key as read from pg_constraint, before its tables are
// resolved.
type fkDef struct {
	name        string
	sourceTable string
	sourceNums  []int16
	targetTable string
	targetNums  []int16
}

func compareFKDef(a, b fkDef) int {
	if c := cmp.Compare(a.sourceTable, b.sourceTable); c != 0 {
		return c
	}
	if c := slices.Compare(a.sourceNums, b.sourceNums); c != 0 {
		return c
	}
	if c := cmp.Compare(a.targetTable, b.targetTable); c != 0 {
		return c
	}
	return slices.Compare(a.targetNums, b.targetNums)
}

func checkSchemaExists(ic *introspectCtx) error {
	rows, err := ic.q.Query(ic.ctx, schemaExistsQuery, ic.schema)
	if err != nil {
		return &core.QueryError{Step: "schema check", Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return &core.QueryError{Step: "schema check", Err: err}
		}
		return &core.DataConsistencyError{Reason: "schema check query returned no rows"}
	}

	var exists bool
	if err := rows.Scan(&exists); err != nil {
		return &core.QueryError{Step: "schema check", Err: err}
	}
	if !exists {
		return &core.SchemaNotFoundError{Schema: ic.schema}
	}
	return nil
}

// loadPrimaryKeys returns the primary key ordinals keyed by table name.
func loadPrimaryKeys(ic *introspectCtx) (map[string][]int16, error) {
	rows, err := ic.q.Query(ic.ctx, primaryKeysQuery, ic.schema)
	if err != nil {
		return nil, &core.QueryError{Step: "primary keys", Err: err}
	}
	defer rows.Close()

	pks := make(map[string][]int16)
	for rows.Next() {
		var table string
		var nums []int16
		if err := rows.Scan(&table, &nums); err != nil {
			return nil, &core.QueryError{Step: "primary keys", Err: err}
		}
		pks[table] = nums
	}
	if err := rows.Err(); err != nil {
		return nil, &core.QueryError{Step: "primary keys", Err: err}
	}

	ic.logger.Debug("loaded primary keys", zap.Int("tables", len(pks)))
	return pks, nil
}

// loadForeignKeys returns the foreign key definitions keyed by source table.
// Each list is sorted and free of duplicate column correspondences.
func loadForeignKeys(ic *introspectCtx) (map[string][]fkDef, error) {
	rows, err := ic.q.Query(ic.ctx, foreignKeysQuery, ic.schema)
	if err != nil {
		return nil, &core.QueryError{Step: "foreign keys", Err: err}
	}
	defer rows.Close()

	fks := make(map[string][]fkDef)
	total := 0
	for rows.Next() {
		var d fkDef
		if err := rows.Scan(&d.name, &d.sourceTable, &d.sourceNums, &d.targetTable, &d.targetNums); err != nil {
			return nil, &core.QueryError{Step: "foreign keys", Err: err}
		}
		fks[d.sourceTable] = append(fks[d.sourceTable], d)
		total++
	}
	if err := rows.Err(); err != nil {
		return nil, &core.QueryError{Step: "foreign keys", Err: err}
	}

	for table, defs := range fks {
		slices.SortStableFunc(defs, compareFKDef)
		fks[table] = slices.CompactFunc(defs, func(a, b fkDef) bool {
			return compareFKDef(a, b) == 0
		})
	}

	ic.logger.Debug("loaded foreign keys", zap.Int("constraints", total), zap.Int("tables", len(fks)))
	return fks, nil
}
