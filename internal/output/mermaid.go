package output

import (
	"strings"
	"text/template"

	"pgerd/internal/core"
)

const mermaidText = "erDiagram\n" +
	"{{if .Direction}}direction {{.Direction}}\n{{end}}" +
	`{{range .Entities}}{{template "entity" .}}{{end}}` +
	`{{range .Enums}}{{template "enum" .}}{{end}}` +
	`{{range .ForeignKeys}}{{.Source}} {{if .ZeroOne}}|o--||{{else}}}o--||{{end}} {{.Target}}: ""` + "\n{{end}}"

const mermaidEntityText = `{{define "entity"}}{{.Name}} {` + "\n" +
	`{{range .Attributes}}    {{.DataType}} {{.Name}}{{.Keys}}` + "\n" + `{{end}}` +
	"}\n" +
	`{{end}}`

const mermaidEnumText = `{{define "enum"}}"{{.Name}} (ENUM)" {` + "\n" +
	`{{range .Labels}}    {{.}} _` + "\n" + `{{end}}` +
	"}\n" +
	`{{end}}`

var mermaidTemplate = template.Must(template.New("mermaid").Parse(mermaidText + mermaidEntityText + mermaidEnumText))

type mermaidFormatter struct{}

type mermaidAttribute struct {
	DataType string
	Name     string
	// Keys holds the key markers and the optional "NN" comment.
	Keys string
}

type mermaidEntity struct {
	Name       string
	Attributes []mermaidAttribute
}

type mermaidDocument struct {
	Direction   Direction
	Entities    []mermaidEntity
	Enums       []enumBlock
	ForeignKeys []edge
}

func (mermaidFormatter) Generate(erd *core.ERD, opts Options) (string, error) {
	if erd == nil {
		return "", errNilERD
	}

	// Mermaid attribute types cannot contain spaces. The shared model is
	// never rewritten.
	erd = erd.Clone()
	for _, t := range erd.Tables {
		underscoreTypes(t.Columns)
	}
	for _, v := range erd.Views {
		underscoreTypes(v.Columns)
	}

	doc := mermaidDocument{
		Direction:   opts.Direction,
		Enums:       enumBlocks(erd, opts),
		ForeignKeys: edges(erd),
	}
	for _, t := range erd.Tables {
		doc.Entities = append(doc.Entities, newMermaidEntity(t.Name, t.Columns, opts))
	}
	if opts.Views {
		for _, v := range erd.Views {
			tag := "VIEW"
			if v.Materialized {
				tag = "MATERIALIZED VIEW"
			}
			doc.Entities = append(doc.Entities, newMermaidEntity(`"`+v.Name+` (`+tag+`)"`, v.Columns, opts))
		}
	}

	var sb strings.Builder
	if err := mermaidTemplate.Execute(&sb, doc); err != nil {
		return "", &core.TemplateRenderError{Template: "mermaid", Err: err}
	}
	return sb.String(), nil
}

func underscoreTypes(cols []*core.Column) {
	for _, c := range cols {
		c.DataType = strings.ReplaceAll(c.DataType, " ", "_")
	}
}

func newMermaidEntity(name string, cols []*core.Column, opts Options) mermaidEntity {
	e := mermaidEntity{Name: name}
	if opts.Conceptual {
		return e
	}

	g := groupColumns(cols, false)
	for _, group := range [][]*core.Column{g.pks, g.fks, g.others} {
		for _, c := range group {
			e.Attributes = append(e.Attributes, mermaidAttribute{
				DataType: c.DataType,
				Name:     c.Name,
				Keys:     mermaidKeys(c, opts.NotNull),
			})
		}
	}
	return e
}

func mermaidKeys(c *core.Column, notNull bool) string {
	var keys string
	switch {
	case c.IsPK() && c.IsFK():
		keys = " PK,FK"
	case c.IsPK():
		keys = " PK"
	case c.IsFK():
		keys = " FK"
	}
	if notNull && c.IsNotNull() {
		keys += ` "NN"`
	}
	return keys
}
