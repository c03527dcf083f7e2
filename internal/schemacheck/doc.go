// Package schemacheck compares the tables and columns a codebase refers to
// with the live schema of a PostgreSQL database, and dumps that schema.
//
// Files:
//   - conn.go: connection options and environment defaults
//   - live.go: information_schema reader (pgx through database/sql)
//   - scan.go: regex scan of source files for table/column references
//   - diff.go: usage vs. live schema findings
//   - dump.go: pg_dump --schema-only runner
//   - run.go: the end-to-end check used by `llmgate schemacheck`
package schemacheck
