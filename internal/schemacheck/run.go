package schemacheck

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// SuccessMessage is printed when code and database agree.
const SuccessMessage = "Schema extraction and validation successful."

// Config drives Run.
type Config struct {
	Conn     ConnOptions
	Schema   string
	Root     string
	Scan     ScanOptions
	DumpPath string
	PgDump   string
	// SkipDump disables the pg_dump step.
	SkipDump bool
}

// Run loads the live schema, scans the codebase, writes the dump and
// reports. Findings go to stderr one per line and are returned; a nil error
// with findings means drift was detected.
func Run(ctx context.Context, cfg Config, log zerolog.Logger, stdout, stderr io.Writer) ([]string, error) {
	db, err := Open(ctx, cfg.Conn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	live, err := LoadLive(ctx, db, cfg.Schema)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("tables", len(live)).Str("database", cfg.Conn.Database).Msg("live schema loaded")

	root := cfg.Root
	if root == "" {
		root = "."
	}
	usage, err := ScanCodebase(root, cfg.Scan)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("tables", len(usage)).Str("root", root).Msg("codebase scanned")

	findings := Diff(usage, live)

	if !cfg.SkipDump {
		if err := Dump(ctx, DumpOptions{Conn: cfg.Conn, Binary: cfg.PgDump}, cfg.DumpPath); err != nil {
			return findings, fmt.Errorf("dump schema: %w", err)
		}
		log.Info().Str("path", dumpPath(cfg.DumpPath)).Msg("schema dumped")
	}

	if len(findings) > 0 {
		for _, f := range findings {
			fmt.Fprintln(stderr, f)
		}
		return findings, nil
	}
	fmt.Fprintln(stdout, SuccessMessage)
	return nil, nil
}

func dumpPath(p string) string {
	if p == "" {
		return DefaultDumpFile
	}
	return p
}
