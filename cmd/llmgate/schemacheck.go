package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"llmgate/internal/schemacheck"
)

func newSchemacheckCmd(getenv func(string) string) *cobra.Command {
	conn := schemacheck.ConnFromEnv(getenv)
	cfg := schemacheck.Config{Scan: schemacheck.DefaultScanOptions()}
	var logLevel string
	cmd := &cobra.Command{
		Use:   "schemacheck [root]",
		Short: "Compare table/column references in a codebase with a live PostgreSQL schema",
		Long: "Scans the codebase under root (default .) for table and column references, compares them\n" +
			"with information_schema, writes a schema-only pg_dump and exits 1 when references are missing.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Root = args[0]
			}
			cfg.Conn = conn
			log := newLogger(os.Stderr, logLevel)
			findings, err := schemacheck.Run(cmd.Context(), cfg, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if len(findings) > 0 {
				return fmt.Errorf("%w: %d finding(s)", errDrift, len(findings))
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&conn.Database, "db", conn.Database, "Database name (env PGDATABASE)")
	fl.StringVar(&conn.User, "user", conn.User, "Database user (env PGUSER)")
	fl.StringVar(&conn.Password, "password", conn.Password, "Database password (env PGPASSWORD)")
	fl.StringVar(&conn.Host, "host", conn.Host, "Database host (env PGHOST)")
	fl.StringVar(&conn.Port, "port", conn.Port, "Database port (env PGPORT)")
	fl.StringVar(&cfg.Schema, "schema", schemacheck.DefaultSchema, "PostgreSQL schema to inspect")
	fl.StringSliceVar(&cfg.Scan.Extensions, "ext", cfg.Scan.Extensions, "File extensions to scan")
	fl.StringVar(&cfg.DumpPath, "out", schemacheck.DefaultDumpFile, "Schema dump output path")
	fl.StringVar(&cfg.PgDump, "pg-dump", "pg_dump", "pg_dump executable")
	fl.BoolVar(&cfg.SkipDump, "no-dump", false, "Skip writing the schema dump")
	fl.StringVar(&logLevel, "log-level", "info", "Log level: off|error|info|debug")
	return cmd
}
