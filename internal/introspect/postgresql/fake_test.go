package postgresql

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"pgerd/internal/introspect"
)

var queryNames = map[string]string{
	schemaExistsQuery:      "schema",
	primaryKeysQuery:       "primary keys",
	foreignKeysQuery:       "foreign keys",
	relationsQuery:         "tables",
	materializedViewsQuery: "materialized views",
	columnsQuery:           "columns",
	enumLabelsQuery:        "enum labels",
}

// fakeQuerier serves canned rows per query and records every call.
type fakeQuerier struct {
	results map[string][][]any
	// enums maps a type oid to its labels for enumLabelsQuery.
	enums map[int64][]string
	errs  map[string]error
	log   []string
	args  [][]any
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (introspect.Rows, error) {
	name, ok := queryNames[sql]
	if !ok {
		return nil, fmt.Errorf("unexpected query: %s", sql)
	}
	f.log = append(f.log, name)
	f.args = append(f.args, args)

	if err := f.errs[sql]; err != nil {
		return nil, err
	}

	switch sql {
	case enumLabelsQuery:
		var rows [][]any
		for _, l := range f.enums[args[0].(int64)] {
			rows = append(rows, []any{l})
		}
		return &fakeRows{rows: rows}, nil
	case columnsQuery:
		names := args[1].([]string)
		var rows [][]any
		for _, r := range f.results[sql] {
			if slices.Contains(names, r[0].(string)) {
				rows = append(rows, r)
			}
		}
		return &fakeRows{rows: rows}, nil
	}
	return &fakeRows{rows: f.results[sql]}, nil
}

func (f *fakeQuerier) count(name string) int {
	n := 0
	for _, l := range f.log {
		if l == name {
			n++
		}
	}
	return n
}

type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(row))
	}
	for i, v := range row {
		dv := reflect.ValueOf(dest[i]).Elem()
		sv := reflect.ValueOf(v)
		if !sv.Type().AssignableTo(dv.Type()) {
			return fmt.Errorf("scan: column %d: cannot assign %s to %s", i, sv.Type(), dv.Type())
		}
		dv.Set(sv)
	}
	return nil
}

func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     {}

func col(table, name string, num int16, dataType string, notNull bool) []any {
	return []any{table, name, num, dataType, notNull, int64(0), "b"}
}

func enumCol(table, name string, num int16, dataType string, notNull bool, oid int64) []any {
	return []any{table, name, num, dataType, notNull, oid, "e"}
}

// customersOrdersCatalog is a two-table schema with one many-to-one foreign key.
func customersOrdersCatalog() *fakeQuerier {
	return &fakeQuerier{results: map[string][][]any{
		schemaExistsQuery: {{true}},
		primaryKeysQuery: {
			{"customers", []int16{1}},
			{"orders", []int16{1}},
		},
		foreignKeysQuery: {
			{"orders_customer_id_fkey", "orders", []int16{3}, "customers", []int16{1}},
		},
		relationsQuery: {
			{"customers", "BASE TABLE"},
			{"orders", "BASE TABLE"},
		},
		columnsQuery: {
			col("customers", "customer_id", 1, "integer", true),
			col("customers", "customer_name", 2, "character varying", false),
			col("orders", "order_id", 1, "integer", true),
			col("orders", "order_description", 2, "character varying", false),
			col("orders", "customer_id", 3, "integer", false),
		},
	}}
}

// orderApprovalCatalog has a composite primary key referenced by a composite
// foreign key, plus enum columns shared between a table and a materialized view.
func orderApprovalCatalog() *fakeQuerier {
	return &fakeQuerier{
		results: map[string][][]any{
			schemaExistsQuery: {{true}},
			primaryKeysQuery: {
				{"customer_order", []int16{1}},
				{"order_detail", []int16{1, 2}},
				{"order_detail_approval", []int16{1, 2}},
				{"product", []int16{1}},
			},
			foreignKeysQuery: {
				{"order_detail_customer_order_id_fkey", "order_detail", []int16{2}, "customer_order", []int16{1}},
				{"order_detail_product_id_fkey", "order_detail", []int16{3}, "product", []int16{1}},
				{"order_detail_approval_fkey", "order_detail_approval", []int16{1, 2}, "order_detail", []int16{1, 2}},
			},
			relationsQuery: {
				{"customer_order", "BASE TABLE"},
				{"order_detail", "BASE TABLE"},
				{"order_detail_approval", "BASE TABLE"},
				{"product", "BASE TABLE"},
				{"product_view", "VIEW"},
			},
			materializedViewsQuery: {
				{"product_stats"},
			},
			columnsQuery: {
				col("customer_order", "id", 1, "bigint", true),
				col("order_detail", "id", 1, "bigint", true),
				col("order_detail", "customer_order_id", 2, "bigint", true),
				col("order_detail", "product_id", 3, "bigint", true),
				col("order_detail_approval", "order_detail_id", 1, "bigint", true),
				col("order_detail_approval", "customer_order_id", 2, "bigint", true),
				col("order_detail_approval", "operator_id", 3, "bigint", true),
				col("product", "id", 1, "bigint", true),
				enumCol("product", "category", 2, "product_category", true, 16390),
				enumCol("product", "previous_category", 3, "product_category", false, 16390),
				col("product_view", "id", 1, "bigint", false),
				enumCol("product_view", "category", 2, "product_category", false, 16390),
				enumCol("product_stats", "category", 1, "product_category", false, 16390),
				enumCol("product_stats", "mood", 2, "mood", false, 16400),
			},
		},
		enums: map[int64][]string{
			16390: {"electronics", "jewelry", "home"},
			16400: {"sad", "ok", "happy"},
		},
	}
}
