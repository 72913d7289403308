package postgresql

import (
	"fmt"
	"slices"
	"strings"

	"pgerd/internal/core"
)

// catalog collects the raw rows of every load step.
type catalog struct {
	pks       map[string][]int16
	fks       map[string][]fkDef
	relations []relation
	matviews  []string
	columns   map[string][]columnRow
	enums     map[string][]string
}

// buildERD turns the raw catalog into the domain model. It performs no I/O.
func buildERD(schema string, cat *catalog) (*core.ERD, error) {
	erd := &core.ERD{Schema: schema, Enums: cat.enums}
	if erd.Enums == nil {
		erd.Enums = make(map[string][]string)
	}

	known := make(map[string]bool, len(cat.relations)+len(cat.matviews))
	for _, r := range cat.relations {
		known[r.name] = true
		cols := buildColumns(r.name, cat)
		switch r.kind {
		case relationTable:
			erd.Tables = append(erd.Tables, core.NewTable(r.name, cols))
		case relationView:
			erd.Views = append(erd.Views, &core.View{Name: r.name, Columns: cols})
		}
	}
	for _, name := range cat.matviews {
		known[name] = true
		erd.Views = append(erd.Views, &core.View{Name: name, Materialized: true, Columns: buildColumns(name, cat)})
	}
	for name := range cat.columns {
		if !known[name] {
			return nil, &core.DataConsistencyError{Reason: fmt.Sprintf("columns returned for unknown relation %q", name)}
		}
	}

	slices.SortStableFunc(erd.Views, func(a, b *core.View) int {
		return strings.Compare(a.Name, b.Name)
	})

	fks, err := buildForeignKeys(erd, cat.fks)
	if err != nil {
		return nil, err
	}
	erd.ForeignKeys = fks

	return erd, nil
}

func buildColumns(relation string, cat *catalog) []*core.Column {
	rows := cat.columns[relation]
	cols := make([]*core.Column, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, &core.Column{
			Name:        r.name,
			Ordinal:     r.num,
			DataType:    r.dataType,
			Constraints: classify(relation, r, cat),
		})
	}
	return cols
}

// classify derives the constraint set of one column. A primary key column is
// always NOT NULL and UNIQUE whatever the catalog says about nullability.
func classify(relation string, r columnRow, cat *catalog) core.ConstraintSet {
	var cs core.ConstraintSet
	if slices.Contains(cat.pks[relation], r.num) {
		cs = cs.With(core.ConstraintPrimaryKey).With(core.ConstraintNotNull).With(core.ConstraintUnique)
	}
	for _, d := range cat.fks[relation] {
		if slices.Contains(d.sourceNums, r.num) {
			cs = cs.With(core.ConstraintForeignKey)
			break
		}
	}
	if r.notNull {
		cs = cs.With(core.ConstraintNotNull)
	}
	return cs
}

// buildForeignKeys resolves the definitions of every base table, in table
// order, against the loaded tables.
func buildForeignKeys(erd *core.ERD, defs map[string][]fkDef) ([]*core.ForeignKey, error) {
	var out []*core.ForeignKey
	for _, source := range erd.Tables {
		for _, d := range defs[source.Name] {
			target := erd.FindTable(d.targetTable)
			if target == nil {
				return nil, &core.DataConsistencyError{Reason: fmt.Sprintf(
					"target table %q of foreign key %s not found", d.targetTable, d.name)}
			}
			fk, err := core.NewForeignKey(d.name, source, d.sourceNums, target, d.targetNums)
			if err != nil {
				return nil, err
			}
			out = append(out, fk)
		}
	}
	return out, nil
}
