package schemacheck

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// Schema maps a table name to its columns in ordinal order.
type Schema map[string][]string

// DefaultSchema is the PostgreSQL schema inspected when none is given.
const DefaultSchema = "public"

const liveQuery = `
	SELECT table_name, column_name
	FROM information_schema.columns
	WHERE table_schema = $1
	ORDER BY table_name, ordinal_position`

// Open connects to the database described by o and verifies the connection.
func Open(ctx context.Context, o ConnOptions) (*sql.DB, error) {
	db, err := sql.Open("pgx", o.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s@%s: %w", o.Database, o.Host, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s@%s: %w", o.Database, o.Host, err)
	}
	return db, nil
}

// LoadLive reads every column of every table in schema.
func LoadLive(ctx context.Context, db *sql.DB, schema string) (Schema, error) {
	if schema == "" {
		schema = DefaultSchema
	}
	rows, err := db.QueryContext(ctx, liveQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}
	defer rows.Close()
	out := Schema{}
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		out[table] = append(out[table], column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	return out, nil
}
