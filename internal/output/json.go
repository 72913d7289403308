package output

import (
	"encoding/json"

	"pgerd/internal/core"
)

type jsonFormatter struct{}

type erdSummary struct {
	Tables      int `json:"tables"`
	Views       int `json:"views"`
	ForeignKeys int `json:"foreignKeys"`
	Enums       int `json:"enums"`
}

type jsonColumn struct {
	Name        string             `json:"name"`
	Ordinal     int16              `json:"ordinal"`
	DataType    string             `json:"dataType"`
	Constraints core.ConstraintSet `json:"constraints"`
}

type jsonTable struct {
	Name         string       `json:"name"`
	CompositeKey bool         `json:"compositePrimaryKey,omitempty"`
	Columns      []jsonColumn `json:"columns,omitempty"`
}

type jsonView struct {
	Name         string       `json:"name"`
	Materialized bool         `json:"materialized"`
	Columns      []jsonColumn `json:"columns,omitempty"`
}

type jsonForeignKey struct {
	Name          string   `json:"name,omitempty"`
	SourceTable   string   `json:"sourceTable"`
	SourceColumns []string `json:"sourceColumns"`
	TargetTable   string   `json:"targetTable"`
	TargetColumns []string `json:"targetColumns"`
	ZeroOneToOne  bool     `json:"zeroOneToOne"`
}

type jsonEnum struct {
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
}

type erdPayload struct {
	Format      string           `json:"format"`
	Schema      string           `json:"schema,omitempty"`
	Summary     erdSummary       `json:"summary"`
	Tables      []jsonTable      `json:"tables"`
	Views       []jsonView       `json:"views,omitempty"`
	ForeignKeys []jsonForeignKey `json:"foreignKeys"`
	Enums       []jsonEnum       `json:"enums,omitempty"`
}

// Generate dumps the whole model. Views and enums are always included; the
// Conceptual option drops the column lists.
func (jsonFormatter) Generate(erd *core.ERD, opts Options) (string, error) {
	if erd == nil {
		return "", errNilERD
	}

	payload := erdPayload{
		Format:      string(FormatJSON),
		Schema:      erd.Schema,
		Tables:      make([]jsonTable, 0, len(erd.Tables)),
		ForeignKeys: make([]jsonForeignKey, 0, len(erd.ForeignKeys)),
		Summary: erdSummary{
			Tables:      len(erd.Tables),
			Views:       len(erd.Views),
			ForeignKeys: len(erd.ForeignKeys),
			Enums:       len(erd.Enums),
		},
	}
	if opts.Schema != "" {
		payload.Schema = opts.Schema
	}

	for _, t := range erd.Tables {
		jt := jsonTable{Name: t.Name, CompositeKey: t.HasCompositePK()}
		if !opts.Conceptual {
			jt.Columns = jsonColumns(t.Columns)
		}
		payload.Tables = append(payload.Tables, jt)
	}
	for _, v := range erd.Views {
		jv := jsonView{Name: v.Name, Materialized: v.Materialized}
		if !opts.Conceptual {
			jv.Columns = jsonColumns(v.Columns)
		}
		payload.Views = append(payload.Views, jv)
	}
	for _, fk := range erd.ForeignKeys {
		source, target, err := erd.ResolveForeignKey(fk)
		if err != nil {
			return "", err
		}
		payload.ForeignKeys = append(payload.ForeignKeys, jsonForeignKey{
			Name:          fk.Name,
			SourceTable:   fk.SourceTable,
			SourceColumns: columnNames(source),
			TargetTable:   fk.TargetTable,
			TargetColumns: columnNames(target),
			ZeroOneToOne:  fk.ZeroOneToOne,
		})
	}
	for _, name := range erd.EnumNames() {
		payload.Enums = append(payload.Enums, jsonEnum{Name: name, Labels: erd.Enums[name]})
	}

	return marshalJSON(payload)
}

func jsonColumns(cols []*core.Column) []jsonColumn {
	out := make([]jsonColumn, 0, len(cols))
	for _, c := range cols {
		out = append(out, jsonColumn{
			Name:        c.Name,
			Ordinal:     c.Ordinal,
			DataType:    c.DataType,
			Constraints: c.Constraints,
		})
	}
	return out
}

func columnNames(cols []*core.Column) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.Name)
	}
	return out
}

func marshalJSON(payload erdPayload) (string, error) {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
