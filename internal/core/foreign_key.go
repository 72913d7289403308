package core

import (
	"fmt"
	"slices"
)

// ForeignKey is a relationship between two tables. It refers to tables by name
// and to columns by ordinal; ERD.ResolveForeignKey turns those identifiers back
// into columns.
type ForeignKey struct {
	Name        string
	SourceTable string
	// SourceOrdinals and TargetOrdinals keep the order of the constraint
	// definition, so SourceOrdinals[i] references TargetOrdinals[i].
	SourceOrdinals []int16
	TargetTable    string
	TargetOrdinals []int16
	// ZeroOneToOne marks a 0..1 to 1 relationship. Every other foreign key is
	// rendered as many to 1.
	ZeroOneToOne bool
}

// NewForeignKey builds a foreign key between source and target and classifies
// its cardinality. Every ordinal must exist in its table and both sides must
// have the same width.
func NewForeignKey(name string, source *Table, sourceOrdinals []int16, target *Table, targetOrdinals []int16) (*ForeignKey, error) {
	if len(sourceOrdinals) == 0 || len(sourceOrdinals) != len(targetOrdinals) {
		return nil, &DataConsistencyError{Reason: fmt.Sprintf(
			"foreign key %s(%v) -> %s(%v) has mismatched column lists",
			source.Name, sourceOrdinals, target.Name, targetOrdinals)}
	}

	sourceCols, err := columnsByOrdinals(source, sourceOrdinals)
	if err != nil {
		return nil, err
	}
	targetCols, err := columnsByOrdinals(target, targetOrdinals)
	if err != nil {
		return nil, err
	}

	return &ForeignKey{
		Name:           name,
		SourceTable:    source.Name,
		SourceOrdinals: slices.Clone(sourceOrdinals),
		TargetTable:    target.Name,
		TargetOrdinals: slices.Clone(targetOrdinals),
		ZeroOneToOne:   isZeroOneToOne(source, sourceCols, target, targetCols),
	}, nil
}

// isZeroOneToOne approximates "the foreign key is the primary key on both
// sides": all source columns and all target columns are primary key columns
// and both tables have primary keys of the same width.
func isZeroOneToOne(source *Table, sourceCols []*Column, target *Table, targetCols []*Column) bool {
	for _, c := range sourceCols {
		if !c.IsPK() {
			return false
		}
	}
	for _, c := range targetCols {
		if !c.IsPK() {
			return false
		}
	}
	return source.PrimaryKeyCount() == target.PrimaryKeyCount()
}

func columnsByOrdinals(t *Table, ordinals []int16) ([]*Column, error) {
	cols := make([]*Column, 0, len(ordinals))
	for _, ord := range ordinals {
		c := t.ColumnByOrdinal(ord)
		if c == nil {
			return nil, &DataConsistencyError{Reason: fmt.Sprintf("table %q has no column with ordinal %d", t.Name, ord)}
		}
		cols = append(cols, c)
	}
	return cols, nil
}
