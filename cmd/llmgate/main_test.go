package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"llmgate/internal/config"
	"llmgate/internal/inproc"
	"llmgate/internal/ollama"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

// resolve parses args into the serve command and returns the resulting config.
func resolve(t *testing.T, env map[string]string, args ...string) (config.Config, error) {
	t.Helper()
	getenv := func(k string) string { return env[k] }
	cmd := newServeCmd(getenv)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	var f serveFlags
	fl := cmd.Flags()
	f.configPath, _ = fl.GetString("config")
	f.addr, _ = fl.GetString("addr")
	f.transport, _ = fl.GetString("transport")
	f.baseURL, _ = fl.GetString("base-url")
	f.defaultModel, _ = fl.GetString("default-model")
	f.modelsDir, _ = fl.GetString("models-dir")
	f.logLevel, _ = fl.GetString("log-level")
	f.corsEnabled, _ = fl.GetBool("cors-enabled")
	f.corsOrigins, _ = fl.GetString("cors-origins")
	f.tracing, _ = fl.GetBool("tracing")
	f.tracingAddr, _ = fl.GetString("tracing-endpoint")
	return resolveConfig(cmd, f, getenv)
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolve(t, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":8000" || cfg.BaseURL != "http://localhost:11434" || cfg.DefaultModel != "llama2" || cfg.Transport != "http" {
		t.Fatalf("unexpected: %+v", cfg)
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	p := filepath.Join(t.TempDir(), "llmgate.yaml")
	if err := os.WriteFile(p, []byte("addr: :7000\ndefault_model: from-file\nbase_url: http://file:11434\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	env := map[string]string{"OLLAMA_DEFAULT_MODEL": "from-env", "OLLAMA_BASE_URL": "http://env:11434"}
	cfg, err := resolve(t, env, "--config", p, "--base-url", "http://flag:11434", "--cors-origins", "http://a, http://b")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Fatalf("file value lost: %q", cfg.Addr)
	}
	if cfg.DefaultModel != "from-env" {
		t.Fatalf("env should beat file: %q", cfg.DefaultModel)
	}
	if cfg.BaseURL != "http://flag:11434" {
		t.Fatalf("flag should beat env: %q", cfg.BaseURL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b" {
		t.Fatalf("origins: %v", cfg.CORSOrigins)
	}
}

func TestResolveConfig_TracingFlags(t *testing.T) {
	env := map[string]string{"LLMGATE_TRACING_ENDPOINT": "env:4317"}
	cfg, err := resolve(t, env, "--tracing", "--tracing-endpoint", "flag:4317")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !cfg.TracingEnabled || cfg.TracingEndpoint != "flag:4317" {
		t.Fatalf("tracing flags not applied: %+v", cfg)
	}
}

func TestResolveConfig_Invalid(t *testing.T) {
	if _, err := resolve(t, nil, "--transport", "grpc"); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := resolve(t, nil, "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestBuildTransport(t *testing.T) {
	tr, err := buildTransport(config.Config{Transport: config.TransportHTTP, BaseURL: "http://gpu:11434/"}.WithDefaults())
	if err != nil {
		t.Fatalf("http: %v", err)
	}
	if c, ok := tr.(*ollama.Client); !ok || c.BaseURL() != "http://gpu:11434" {
		t.Fatalf("unexpected transport: %T", tr)
	}
	tr, err = buildTransport(config.Config{Transport: config.TransportInProcess, ModelsDir: t.TempDir()}.WithDefaults())
	if err != nil {
		t.Fatalf("inprocess: %v", err)
	}
	if _, ok := tr.(*inproc.Client); !ok {
		t.Fatalf("unexpected transport: %T", tr)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "off")
	l.Error().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("off should disable output: %q", buf.String())
	}
	l = newLogger(&buf, "error")
	l.Info().Msg("hidden")
	l.Error().Msg("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(fmt.Errorf("%w: 2 finding(s)", errDrift)) != 1 {
		t.Fatalf("drift should exit 1")
	}
	if exitCode(errors.New("boom")) != 2 {
		t.Fatalf("other errors should exit 2")
	}
}

func TestRootHasSubcommands(t *testing.T) {
	root := buildRootCmd(func(string) string { return "" })
	for _, name := range []string{"serve", "schemacheck"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}
