package core

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of a fully built ERD: entity names
// are unique, every foreign key resolves to existing tables and ordinals, and
// both sides of a foreign key have the same width.
//
// It returns the first violation as a *DataConsistencyError.
func (e *ERD) Validate() error {
	if e == nil {
		return errors.New("erd is nil")
	}

	if err := e.validateEntityNames(); err != nil {
		return err
	}

	for _, t := range e.Tables {
		if err := validateColumns(t.Name, t.Columns); err != nil {
			return err
		}
	}
	for _, v := range e.Views {
		if err := validateColumns(v.Name, v.Columns); err != nil {
			return err
		}
	}

	for _, fk := range e.ForeignKeys {
		if err := e.validateForeignKey(fk); err != nil {
			return err
		}
	}

	return nil
}

// validateEntityNames rejects duplicate table or view names, including a
// table and a view sharing a name.
func (e *ERD) validateEntityNames() error {
	seen := make(map[string]bool, len(e.Tables)+len(e.Views))
	for _, t := range e.Tables {
		if seen[t.Name] {
			return &DataConsistencyError{Reason: fmt.Sprintf("duplicate relation %q", t.Name)}
		}
		seen[t.Name] = true
	}
	for _, v := range e.Views {
		if seen[v.Name] {
			return &DataConsistencyError{Reason: fmt.Sprintf("duplicate relation %q", v.Name)}
		}
		seen[v.Name] = true
	}
	return nil
}

func validateColumns(owner string, cols []*Column) error {
	seen := make(map[int16]bool, len(cols))
	for _, c := range cols {
		if c.Ordinal <= 0 {
			return &DataConsistencyError{Reason: fmt.Sprintf("column %s.%s has invalid ordinal %d", owner, c.Name, c.Ordinal)}
		}
		if seen[c.Ordinal] {
			return &DataConsistencyError{Reason: fmt.Sprintf("relation %q has duplicate ordinal %d", owner, c.Ordinal)}
		}
		seen[c.Ordinal] = true
	}
	return nil
}

func (e *ERD) validateForeignKey(fk *ForeignKey) error {
	if len(fk.SourceOrdinals) != len(fk.TargetOrdinals) {
		return &DataConsistencyError{Reason: fmt.Sprintf("foreign key %s -> %s has mismatched column lists", fk.SourceTable, fk.TargetTable)}
	}

	source, target, err := e.ResolveForeignKey(fk)
	if err != nil {
		return err
	}
	if len(source) != len(fk.SourceOrdinals) {
		return &DataConsistencyError{Reason: fmt.Sprintf("foreign key %s -> %s references missing source columns", fk.SourceTable, fk.TargetTable)}
	}
	if len(target) != len(fk.TargetOrdinals) {
		return &DataConsistencyError{Reason: fmt.Sprintf("foreign key %s -> %s references missing target columns", fk.SourceTable, fk.TargetTable)}
	}
	for _, c := range source {
		if !c.IsFK() {
			return &DataConsistencyError{Reason: fmt.Sprintf("column %s.%s is referenced by a foreign key but not marked as one", fk.SourceTable, c.Name)}
		}
	}
	return nil
}
