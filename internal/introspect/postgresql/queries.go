package postgresql

// Every query is parameterised by the schema name and joins through
// pg_namespace, so the session search_path is never touched. Casts to text and
// bigint keep the result types identical for the pgx and lib/pq drivers.

const schemaExistsQuery = `
	SELECT EXISTS(SELECT 1 FROM pg_namespace WHERE nspname = $1)
`

const primaryKeysQuery = `
	SELECT c.relname::text AS table_name,
	       con.conkey      AS column_nums
	FROM pg_constraint con
	JOIN pg_class c ON c.oid = con.conrelid
	JOIN pg_namespace n ON n.oid = con.connamespace
	WHERE con.contype = 'p' AND n.nspname = $1
	ORDER BY c.relname
`

// A target outside the loaded schema comes back qualified, so it never
// resolves to a same-named local table.
const foreignKeysQuery = `
	SELECT con.conname::text AS constraint_name,
	       src.relname::text AS source_table,
	       con.conkey        AS source_nums,
	       CASE WHEN tn.nspname = $1 THEN tgt.relname::text
	            ELSE tn.nspname::text || '.' || tgt.relname::text END AS target_table,
	       con.confkey       AS target_nums
	FROM pg_constraint con
	JOIN pg_class src ON src.oid = con.conrelid
	JOIN pg_class tgt ON tgt.oid = con.confrelid
	JOIN pg_namespace tn ON tn.oid = tgt.relnamespace
	JOIN pg_namespace n ON n.oid = con.connamespace
	WHERE con.contype = 'f' AND n.nspname = $1
	ORDER BY src.relname, con.conname
`

const relationsQuery = `
	SELECT table_name::text, table_type::text
	FROM information_schema.tables
	WHERE table_schema = $1
	ORDER BY table_name
`

const materializedViewsQuery = `
	SELECT matviewname::text
	FROM pg_matviews
	WHERE schemaname = $1
	ORDER BY matviewname
`

// Enum columns report the bare type name when the type lives in the loaded
// schema and schema.name otherwise, so the name matches the enum key even
// when the schema is not on the search_path.
const columnsQuery = `
	SELECT c.relname::text  AS table_name,
	       a.attname::text  AS column_name,
	       a.attnum         AS column_num,
	       CASE WHEN t.typtype <> 'e' THEN a.atttypid::regtype::text
	            WHEN tn.nspname = $1 THEN t.typname::text
	            ELSE tn.nspname::text || '.' || t.typname::text END AS data_type,
	       a.attnotnull     AS not_null,
	       t.oid::bigint    AS type_oid,
	       t.typtype::text  AS type_kind
	FROM pg_attribute a
	JOIN pg_class c ON c.oid = a.attrelid
	JOIN pg_namespace n ON n.oid = c.relnamespace
	JOIN pg_type t ON t.oid = a.atttypid
	JOIN pg_namespace tn ON tn.oid = t.typnamespace
	WHERE n.nspname = $1
	  AND c.relname = ANY($2)
	  AND NOT a.attisdropped
	  AND a.attnum > 0
	ORDER BY c.relname, a.attnum
`

const enumLabelsQuery = `
	SELECT enumlabel::text
	FROM pg_enum
	WHERE enumtypid::bigint = $1
	ORDER BY enumsortorder
`
