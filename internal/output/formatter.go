// Package output provides a set of formatters that render a loaded ERD as text.
// It is extendable and for now provides three formats: PlantUML, Mermaid and JSON.
package output

import (
	"errors"
	"fmt"
	"strings"

	"pgerd/internal/core"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatPlantUML Format = "plantuml"
	FormatMermaid  Format = "mermaid"
	FormatJSON     Format = "json"
)

// SupportedFormats returns every format name NewFormatter accepts.
func SupportedFormats() []Format {
	return []Format{FormatPlantUML, FormatMermaid, FormatJSON}
}

// Direction is a Mermaid layout hint.
type Direction string

const (
	DirectionTB Direction = "TB"
	DirectionBT Direction = "BT"
	DirectionLR Direction = "LR"
	DirectionRL Direction = "RL"
)

// ParseDirection accepts tb, bt, lr and rl in any case. An empty name means no
// direction line.
func ParseDirection(name string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(name)))
	switch d {
	case "", DirectionTB, DirectionBT, DirectionLR, DirectionRL:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported direction: %s; use 'tb', 'bt', 'lr', or 'rl'", name)
	}
}

// DefaultPUMLLibURL is the helper library referenced by !include when it is
// not inlined.
const DefaultPUMLLibURL = "https://raw.githubusercontent.com/kurotych/sqlant/b2e5db9ed8659f281208a687a344b34ff38129cd/puml-lib/db_ent.puml"

// Options controls rendering. Formatters ignore the options that do not apply
// to their notation.
type Options struct {
	// NotNull adds "NN" marks to Mermaid attributes.
	NotNull bool
	Enums   bool
	// Legend and the helper library settings are PlantUML only.
	Legend        bool
	InlinePUMLLib bool
	PUMLLibURL    string
	// Direction is Mermaid only.
	Direction Direction
	// Schema overrides the schema name shown in the output.
	Schema string
	// Conceptual renders entities without attributes.
	Conceptual bool
	Views      bool
}

// Formatter renders an ERD. Implementations are stateless and safe for
// concurrent use over the same model.
type Formatter interface {
	Generate(erd *core.ERD, opts Options) (string, error)
}

var errNilERD = errors.New("output: erd is nil")

// NewFormatter creates a new Formatter instance based on the given name.
// If no format is specified, defaults to PlantUML format.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatPlantUML:
		return plantUMLFormatter{}, nil
	case FormatMermaid:
		return mermaidFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use %s", name, quotedFormats())
	}
}

// quotedFormats lists the supported formats as 'a', 'b', or 'c'.
func quotedFormats() string {
	formats := SupportedFormats()
	quoted := make([]string, len(formats))
	for i, f := range formats {
		quoted[i] = "'" + string(f) + "'"
	}
	last := len(quoted) - 1
	quoted[last] = "or " + quoted[last]
	return strings.Join(quoted, ", ")
}
