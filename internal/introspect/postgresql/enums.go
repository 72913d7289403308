package postgresql

import "pgerd/internal/core"

// loadEnumLabels returns the labels of one enum type in declaration order.
func loadEnumLabels(ic *introspectCtx, oid int64) ([]string, error) {
	rows, err := ic.q.Query(ic.ctx, enumLabelsQuery, oid)
	if err != nil {
		return nil, &core.QueryError{Step: "enum labels", Err: err}
	}
	defer rows.Close()

	labels := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, &core.QueryError{Step: "enum labels", Err: err}
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.QueryError{Step: "enum labels", Err: err}
	}
	return labels, nil
}
