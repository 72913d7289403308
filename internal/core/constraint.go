package core

import (
	"encoding/json"
	"strings"
)

// Constraint is an ENUM with all column constraint kinds the model knows about.
// Check, Default and Index are reserved: no introspecter populates them yet.
type Constraint uint8

const (
	ConstraintNotNull Constraint = iota
	ConstraintPrimaryKey
	ConstraintForeignKey
	ConstraintUnique
	ConstraintCheck
	ConstraintDefault
	ConstraintIndex

	constraintCount
)

var constraintNames = [constraintCount]string{
	ConstraintNotNull:    "NOT NULL",
	ConstraintPrimaryKey: "PRIMARY KEY",
	ConstraintForeignKey: "FOREIGN KEY",
	ConstraintUnique:     "UNIQUE",
	ConstraintCheck:      "CHECK",
	ConstraintDefault:    "DEFAULT",
	ConstraintIndex:      "INDEX",
}

func (c Constraint) String() string {
	if c < constraintCount {
		return constraintNames[c]
	}
	return "UNKNOWN"
}

// ConstraintSet is a set of constraints. Iteration always follows the
// declaration order of the Constraint constants.
type ConstraintSet uint8

// NewConstraintSet builds a set from the given constraints; duplicates collapse.
func NewConstraintSet(cs ...Constraint) ConstraintSet {
	var s ConstraintSet
	for _, c := range cs {
		s = s.With(c)
	}
	return s
}

// With returns a copy of the set that also contains c.
func (s ConstraintSet) With(c Constraint) ConstraintSet {
	if c >= constraintCount {
		return s
	}
	return s | 1<<c
}

// Has reports whether c is in the set.
func (s ConstraintSet) Has(c Constraint) bool {
	return c < constraintCount && s&(1<<c) != 0
}

// Len returns the number of constraints in the set.
func (s ConstraintSet) Len() int {
	n := 0
	for c := range constraintCount {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// List returns the members in declaration order.
func (s ConstraintSet) List() []Constraint {
	var out []Constraint
	for c := range constraintCount {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the member names in declaration order.
func (s ConstraintSet) Names() []string {
	list := s.List()
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.String())
	}
	return out
}

func (s ConstraintSet) String() string {
	return "{" + strings.Join(s.Names(), ", ") + "}"
}

func (s ConstraintSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}
