package schemacheck

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DumpOptions configures Dump.
type DumpOptions struct {
	Conn ConnOptions
	// Binary is the pg_dump executable; empty means "pg_dump" on PATH.
	Binary string
}

// DefaultDumpFile is where the schema dump is written.
const DefaultDumpFile = "schema.sql"

// Dump writes a schema-only dump of the database to outPath. The password is
// passed through PGPASSWORD so it never appears in the process list.
func Dump(ctx context.Context, opts DumpOptions, outPath string) error {
	bin := opts.Binary
	if bin == "" {
		bin = "pg_dump"
	}
	if outPath == "" {
		outPath = DefaultDumpFile
	}
	c := opts.Conn
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	cmd := exec.CommandContext(ctx, bin,
		"--schema-only", "--no-owner", "--no-privileges",
		"-U", c.User, "-h", c.Host, "-p", c.Port, c.Database)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+c.Password)
	cmd.Stdout = f
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", bin, err, msg)
		}
		return fmt.Errorf("%s: %w", bin, err)
	}
	return f.Close()
}
