package main

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// errDrift is returned by schemacheck when findings were printed.
var errDrift = errors.New("schema drift detected")

func exitCode(err error) int {
	if errors.Is(err, errDrift) {
		return 1
	}
	return 2
}

// buildRootCmd constructs the command tree. getenv is injected for tests.
func buildRootCmd(getenv func(string) string) *cobra.Command {
	root := &cobra.Command{
		Use:           "llmgate",
		Short:         "HTTP gateway for a local LLM runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(getenv), newSchemacheckCmd(getenv))
	return root
}

// newLogger builds the process logger. "off" disables output.
func newLogger(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := zerolog.InfoLevel
	switch s := strings.ToLower(strings.TrimSpace(level)); s {
	case "":
	case "off":
		lvl = zerolog.Disabled
	default:
		if l, err := zerolog.ParseLevel(s); err == nil {
			lvl = l
		}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond
}

// splitCSV splits a comma-separated flag value, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
