package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgerd/internal/core"
)

func TestJSONCustomersOrders(t *testing.T) {
	out, err := jsonFormatter{}.Generate(customersOrders(t), Options{})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"format": "json",
		"schema": "public",
		"summary": {"tables": 2, "views": 0, "foreignKeys": 1, "enums": 0},
		"tables": [
			{"name": "customers", "columns": [
				{"name": "customer_id", "ordinal": 1, "dataType": "integer", "constraints": ["NOT NULL", "PRIMARY KEY", "UNIQUE"]},
				{"name": "customer_name", "ordinal": 2, "dataType": "text", "constraints": []}
			]},
			{"name": "orders", "columns": [
				{"name": "order_id", "ordinal": 1, "dataType": "integer", "constraints": ["NOT NULL", "PRIMARY KEY", "UNIQUE"]},
				{"name": "order_description", "ordinal": 2, "dataType": "text", "constraints": []},
				{"name": "customer_id", "ordinal": 3, "dataType": "integer", "constraints": ["FOREIGN KEY"]}
			]}
		],
		"foreignKeys": [
			{"name": "orders_customer_id_fkey", "sourceTable": "orders", "sourceColumns": ["customer_id"],
			 "targetTable": "customers", "targetColumns": ["customer_id"], "zeroOneToOne": false}
		]
	}`, out)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestJSONViewsEnumsAndSchemaOverride(t *testing.T) {
	out, err := jsonFormatter{}.Generate(withEnumsAndViews(t), Options{Schema: "reporting", Conceptual: true})
	require.NoError(t, err)

	var payload erdPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	assert.Equal(t, "reporting", payload.Schema)
	assert.Equal(t, erdSummary{Tables: 2, Views: 2, ForeignKeys: 1, Enums: 2}, payload.Summary)
	require.Len(t, payload.Tables, 2)
	assert.True(t, payload.Tables[0].CompositeKey)
	assert.Empty(t, payload.Tables[0].Columns)
	require.Len(t, payload.Views, 2)
	assert.False(t, payload.Views[0].Materialized)
	assert.True(t, payload.Views[1].Materialized)
	assert.Equal(t, []jsonEnum{
		{Name: "mood", Labels: []string{"sad", "ok", "happy"}},
		{Name: "status", Labels: []string{"new", "done"}},
	}, payload.Enums)
	require.Len(t, payload.ForeignKeys, 1)
	assert.True(t, payload.ForeignKeys[0].ZeroOneToOne)
	assert.Equal(t, []string{"order_detail_id", "customer_order_id"}, payload.ForeignKeys[0].SourceColumns)
}

func TestJSONUnresolvableForeignKey(t *testing.T) {
	erd := customersOrders(t)
	erd.ForeignKeys = append(erd.ForeignKeys, &core.ForeignKey{SourceTable: "orders", TargetTable: "ghost"})

	_, err := jsonFormatter{}.Generate(erd, Options{})
	var dce *core.DataConsistencyError
	require.ErrorAs(t, err, &dce)
}
