package output

import (
	_ "embed"
	"strings"
	"text/template"

	"pgerd/internal/core"
)

//go:embed db_ent.puml
var pumlLib string

const plantUMLText = "@startuml\n\n" +
	"hide circle\n" +
	"skinparam linetype ortho\n\n" +
	"{{.Lib}}\n\n" +
	`{{range .Entities}}{{template "entity" .}}` + "\n{{end}}" +
	`{{range .ForeignKeys}}{{.Source}} {{if .ZeroOne}}|o--||{{else}}}o--||{{end}} {{.Target}}` + "\n{{end}}" +
	`{{if .Enums}}` + "\n" + `{{range .Enums}}enum({{.Name}}, "{{join .Labels ", "}}")` + "\n{{end}}{{end}}" +
	`{{if .Legend}}` + "\nadd_legend()\n{{end}}" +
	"@enduml\n"

const plantUMLEntityText = `{{define "entity"}}` +
	`{{if .View}}entity "**{{.Name}}** ({{.Tag}})" as {{.Name}} {` + "\n" +
	`{{else}}table({{.Name}}) {` + "\n" + `{{end}}` +
	`{{if not .Conceptual}}` +
	`{{range .PKs}}{{template "column" .}}{{end}}` +
	`{{if not .View}}  ---` + "\n" + `{{end}}` +
	`{{range .FKs}}{{template "column" .}}{{end}}` +
	`{{range .NNs}}{{template "column" .}}{{end}}` +
	`{{range .Others}}{{template "column" .}}{{end}}` +
	`{{end}}` +
	"}\n" +
	`{{end}}`

const plantUMLColumnText = `{{define "column"}}` +
	`  column({{.Name}}, "{{.DataType}}"{{if .IsPK}}, $pk=true{{end}}{{if .IsFK}}, $fk=true{{end}}{{if .IsNotNull}}, $nn=true{{end}})` + "\n" +
	`{{end}}`

var plantUMLTemplate = template.Must(template.New("plantuml").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(plantUMLText + plantUMLEntityText + plantUMLColumnText))

type plantUMLFormatter struct{}

type pumlEntity struct {
	Name       string
	View       bool
	Tag        string
	Conceptual bool
	PKs        []*core.Column
	FKs        []*core.Column
	NNs        []*core.Column
	Others     []*core.Column
}

type pumlDocument struct {
	Lib         string
	Entities    []pumlEntity
	ForeignKeys []edge
	Enums       []enumBlock
	Legend      bool
}

func (plantUMLFormatter) Generate(erd *core.ERD, opts Options) (string, error) {
	if erd == nil {
		return "", errNilERD
	}

	doc := pumlDocument{
		Lib:         pumlLibBlock(opts),
		ForeignKeys: edges(erd),
		Enums:       enumBlocks(erd, opts),
		Legend:      opts.Legend,
	}
	for _, t := range erd.Tables {
		doc.Entities = append(doc.Entities, newPUMLEntity(t.Name, t.Columns, opts))
	}
	if opts.Views {
		for _, v := range erd.Views {
			e := newPUMLEntity(v.Name, v.Columns, opts)
			e.View = true
			e.Tag = "V"
			if v.Materialized {
				e.Tag = "MV"
			}
			doc.Entities = append(doc.Entities, e)
		}
	}

	var sb strings.Builder
	if err := plantUMLTemplate.Execute(&sb, doc); err != nil {
		return "", &core.TemplateRenderError{Template: "plantuml", Err: err}
	}
	return sb.String(), nil
}

func newPUMLEntity(name string, cols []*core.Column, opts Options) pumlEntity {
	g := groupColumns(cols, true)
	return pumlEntity{
		Name:       name,
		Conceptual: opts.Conceptual,
		PKs:        g.pks,
		FKs:        g.fks,
		NNs:        g.nns,
		Others:     g.others,
	}
}

func pumlLibBlock(opts Options) string {
	if opts.InlinePUMLLib {
		return pumlLib
	}
	url := opts.PUMLLibURL
	if url == "" {
		url = DefaultPUMLLibURL
	}
	return "!include " + url
}
