package output

import "pgerd/internal/core"

// columnGroups partitions the columns of an entity. Every group keeps the
// entity's column order.
type columnGroups struct {
	pks    []*core.Column
	fks    []*core.Column
	nns    []*core.Column
	others []*core.Column
}

// groupColumns sorts columns into primary keys, foreign keys that are not part
// of the key, not-null columns that are neither, and the rest. With
// splitNotNull false the not-null group is folded into others.
func groupColumns(cols []*core.Column, splitNotNull bool) columnGroups {
	var g columnGroups
	for _, c := range cols {
		switch {
		case c.IsPK():
			g.pks = append(g.pks, c)
		case c.IsFK():
			g.fks = append(g.fks, c)
		case splitNotNull && c.IsNotNull():
			g.nns = append(g.nns, c)
		default:
			g.others = append(g.others, c)
		}
	}
	return g
}

// edge is one relationship line.
type edge struct {
	Source  string
	Target  string
	ZeroOne bool
}

func edges(erd *core.ERD) []edge {
	out := make([]edge, 0, len(erd.ForeignKeys))
	for _, fk := range erd.ForeignKeys {
		out = append(out, edge{Source: fk.SourceTable, Target: fk.TargetTable, ZeroOne: fk.ZeroOneToOne})
	}
	return out
}

type enumBlock struct {
	Name   string
	Labels []string
}

// enumBlocks returns the enums in name order, or nothing when they are not
// drawn.
func enumBlocks(erd *core.ERD, opts Options) []enumBlock {
	if !opts.Enums || opts.Conceptual {
		return nil
	}
	names := erd.EnumNames()
	out := make([]enumBlock, 0, len(names))
	for _, name := range names {
		out = append(out, enumBlock{Name: name, Labels: erd.Enums[name]})
	}
	return out
}
