// Package core contains the single source of truth for a loaded database schema.
// It provides the entity-relationship model (tables, views, columns, foreign keys
// and enumerated types) that introspecters build and formatters render.
package core

import (
	"fmt"
	"slices"
	"strings"
)

// Dialect identifies a supported catalog shape.
type Dialect string

const (
	DialectPostgreSQL Dialect = "postgresql"
)

// SupportedDialects returns a slice of all supported dialect values.
func SupportedDialects() []Dialect {
	return []Dialect{DialectPostgreSQL}
}

// IsValidDialect reports whether d is a recognized dialect string.
func IsValidDialect(d string) bool {
	for _, supported := range SupportedDialects() {
		if strings.EqualFold(string(supported), d) {
			return true
		}
	}
	return false
}

// ERD is the root aggregate of a loaded schema. It owns every entity and is the
// only value handed to formatters.
type ERD struct {
	Schema      string
	Tables      []*Table
	Views       []*View
	ForeignKeys []*ForeignKey
	// Enums maps an enumerated type name to its labels in declaration order.
	Enums map[string][]string
}

// Table represents a base table with its columns in catalog order.
type Table struct {
	Name    string
	Columns []*Column
}

// View represents a view or a materialized view. It is never a Table.
type View struct {
	Name         string
	Materialized bool
	Columns      []*Column
}

// Column represents a single column of a table or a view.
type Column struct {
	Name string
	// Ordinal is the catalog attribute number, used as the column identity
	// when matching primary and foreign keys.
	Ordinal     int16
	DataType    string
	Constraints ConstraintSet
}

// NewTable creates a table owning the given columns.
func NewTable(name string, columns []*Column) *Table {
	return &Table{Name: name, Columns: columns}
}

func (c *Column) IsPK() bool      { return c.Constraints.Has(ConstraintPrimaryKey) }
func (c *Column) IsFK() bool      { return c.Constraints.Has(ConstraintForeignKey) }
func (c *Column) IsNotNull() bool { return c.Constraints.Has(ConstraintNotNull) }

// PrimaryKeyCount returns the number of columns that belong to the primary key.
func (t *Table) PrimaryKeyCount() int {
	n := 0
	for _, c := range t.Columns {
		if c.IsPK() {
			n++
		}
	}
	return n
}

// HasCompositePK reports whether the primary key spans more than one column.
func (t *Table) HasCompositePK() bool {
	return t.PrimaryKeyCount() > 1
}

// FindColumn looks for a column by name inside a table.
func (t *Table) FindColumn(name string) *Column {
	return findColumn(t.Columns, name)
}

// ColumnByOrdinal returns the column with the given attribute number, or nil.
func (t *Table) ColumnByOrdinal(ordinal int16) *Column {
	return columnByOrdinal(t.Columns, ordinal)
}

// FindTable looks for a table by name. Catalog names are case sensitive.
func (e *ERD) FindTable(name string) *Table {
	for _, t := range e.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// EnumNames returns the enum type names in sorted order.
func (e *ERD) EnumNames() []string {
	names := make([]string, 0, len(e.Enums))
	for name := range e.Enums {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ResolveForeignKey looks up the column objects a foreign key refers to. The
// returned slices follow each table's own column order.
func (e *ERD) ResolveForeignKey(fk *ForeignKey) (source, target []*Column, err error) {
	src := e.FindTable(fk.SourceTable)
	if src == nil {
		return nil, nil, &DataConsistencyError{Reason: fmt.Sprintf("source table %q of foreign key not found", fk.SourceTable)}
	}
	tgt := e.FindTable(fk.TargetTable)
	if tgt == nil {
		return nil, nil, &DataConsistencyError{Reason: fmt.Sprintf("target table %q of foreign key not found", fk.TargetTable)}
	}
	return selectColumns(src.Columns, fk.SourceOrdinals), selectColumns(tgt.Columns, fk.TargetOrdinals), nil
}

// Clone returns a deep copy of the model. Formatters that need to rewrite
// column data work on a clone so the shared model is never mutated.
func (e *ERD) Clone() *ERD {
	out := &ERD{
		Schema:      e.Schema,
		Tables:      make([]*Table, 0, len(e.Tables)),
		Views:       make([]*View, 0, len(e.Views)),
		ForeignKeys: make([]*ForeignKey, 0, len(e.ForeignKeys)),
		Enums:       make(map[string][]string, len(e.Enums)),
	}
	for _, t := range e.Tables {
		out.Tables = append(out.Tables, &Table{Name: t.Name, Columns: cloneColumns(t.Columns)})
	}
	for _, v := range e.Views {
		out.Views = append(out.Views, &View{Name: v.Name, Materialized: v.Materialized, Columns: cloneColumns(v.Columns)})
	}
	for _, fk := range e.ForeignKeys {
		out.ForeignKeys = append(out.ForeignKeys, &ForeignKey{
			Name:           fk.Name,
			SourceTable:    fk.SourceTable,
			SourceOrdinals: slices.Clone(fk.SourceOrdinals),
			TargetTable:    fk.TargetTable,
			TargetOrdinals: slices.Clone(fk.TargetOrdinals),
			ZeroOneToOne:   fk.ZeroOneToOne,
		})
	}
	for name, labels := range e.Enums {
		out.Enums[name] = slices.Clone(labels)
	}
	return out
}

func cloneColumns(cols []*Column) []*Column {
	out := make([]*Column, 0, len(cols))
	for _, c := range cols {
		cc := *c
		out = append(out, &cc)
	}
	return out
}

func findColumn(cols []*Column, name string) *Column {
	for _, c := range cols {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func columnByOrdinal(cols []*Column, ordinal int16) *Column {
	for _, c := range cols {
		if c.Ordinal == ordinal {
			return c
		}
	}
	return nil
}

// selectColumns keeps the columns whose ordinal is listed, in column order.
func selectColumns(cols []*Column, ordinals []int16) []*Column {
	var out []*Column
	for _, c := range cols {
		if slices.Contains(ordinals, c.Ordinal) {
			out = append(out, c)
		}
	}
	return out
}
