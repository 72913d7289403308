package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgerd/internal/core"
)

const pumlHeader = "@startuml\n\nhide circle\nskinparam linetype ortho\n\n"

func TestPlantUMLCustomersOrders(t *testing.T) {
	out, err := plantUMLFormatter{}.Generate(customersOrders(t), Options{})
	require.NoError(t, err)

	want := pumlHeader +
		"!include " + DefaultPUMLLibURL + "\n\n" +
		"table(customers) {\n" +
		"  column(customer_id, \"integer\", $pk=true, $nn=true)\n" +
		"  ---\n" +
		"  column(customer_name, \"text\")\n" +
		"}\n\n" +
		"table(orders) {\n" +
		"  column(order_id, \"integer\", $pk=true, $nn=true)\n" +
		"  ---\n" +
		"  column(customer_id, \"integer\", $fk=true)\n" +
		"  column(order_description, \"text\")\n" +
		"}\n\n" +
		"orders }o--|| customers\n" +
		"@enduml\n"
	assert.Equal(t, want, out)
}

func TestPlantUMLCompositeKeyEnumsViewsLegend(t *testing.T) {
	out, err := plantUMLFormatter{}.Generate(withEnumsAndViews(t), Options{Enums: true, Legend: true, Views: true})
	require.NoError(t, err)

	want := pumlHeader +
		"!include " + DefaultPUMLLibURL + "\n\n" +
		"table(order_detail) {\n" +
		"  column(order_detail_id, \"integer\", $pk=true, $nn=true)\n" +
		"  column(customer_order_id, \"integer\", $pk=true, $nn=true)\n" +
		"  ---\n" +
		"  column(created_at, \"timestamp without time zone\", $nn=true)\n" +
		"  column(note, \"text\")\n" +
		"}\n\n" +
		"table(order_detail_approval) {\n" +
		"  column(order_detail_id, \"integer\", $pk=true, $fk=true, $nn=true)\n" +
		"  column(customer_order_id, \"integer\", $pk=true, $fk=true, $nn=true)\n" +
		"  ---\n" +
		"  column(approved, \"boolean\", $nn=true)\n" +
		"}\n\n" +
		"entity \"**detail_view** (V)\" as detail_view {\n" +
		"  column(note, \"text\")\n" +
		"}\n\n" +
		"entity \"**detail_stats** (MV)\" as detail_stats {\n" +
		"  column(total, \"bigint\")\n" +
		"}\n\n" +
		"order_detail_approval |o--|| order_detail\n" +
		"\n" +
		"enum(mood, \"sad, ok, happy\")\n" +
		"enum(status, \"new, done\")\n" +
		"\n" +
		"add_legend()\n" +
		"@enduml\n"
	assert.Equal(t, want, out)
}

func TestPlantUMLSkipsViewsAndEnumsByDefault(t *testing.T) {
	out, err := plantUMLFormatter{}.Generate(withEnumsAndViews(t), Options{})
	require.NoError(t, err)

	assert.NotContains(t, out, "detail_view")
	assert.NotContains(t, out, "enum(")
	assert.NotContains(t, out, "add_legend()")
	assert.Equal(t, 1, strings.Count(out, "|o--||"))
}

func TestPlantUMLConceptual(t *testing.T) {
	out, err := plantUMLFormatter{}.Generate(customersOrders(t), Options{Conceptual: true, Enums: true})
	require.NoError(t, err)

	assert.Contains(t, out, "table(customers) {\n}\n\ntable(orders) {\n}\n\norders }o--|| customers\n")
	assert.NotContains(t, out, "column(")
}

func TestPlantUMLLibBlock(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		out, err := plantUMLFormatter{}.Generate(customersOrders(t), Options{InlinePUMLLib: true})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, pumlHeader+pumlLib+"\n\n"))
		assert.NotContains(t, out, "!include")
		assert.Contains(t, out, "!procedure add_legend()")
	})

	t.Run("custom url", func(t *testing.T) {
		out, err := plantUMLFormatter{}.Generate(customersOrders(t), Options{PUMLLibURL: "https://example.com/db.puml"})
		require.NoError(t, err)
		assert.Contains(t, out, "!include https://example.com/db.puml\n")
	})
}

func TestPlantUMLEmptyModel(t *testing.T) {
	out, err := plantUMLFormatter{}.Generate(&core.ERD{Schema: "empty"}, Options{Enums: true})
	require.NoError(t, err)
	assert.Equal(t, pumlHeader+"!include "+DefaultPUMLLibURL+"\n\n@enduml\n", out)
}
