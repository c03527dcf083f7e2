package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"llmgate/internal/common/fsutil"
	"llmgate/internal/config"
	"llmgate/internal/gateway"
	"llmgate/internal/httpapi"
	"llmgate/internal/inproc"
	"llmgate/internal/ollama"
	"llmgate/internal/telemetry/tracing"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	configPath   string
	addr         string
	transport    string
	baseURL      string
	defaultModel string
	modelsDir    string
	logLevel     string
	corsEnabled  bool
	corsOrigins  string
	tracing      bool
	tracingAddr  string
}

func newServeCmd(getenv func(string) string) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gateway API",
		Example: "  llmgate serve --addr :8000 --base-url http://localhost:11434\n" +
			"  llmgate serve --transport inprocess --models-dir ~/models/llm",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, getenv)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	fl.StringVar(&f.addr, "addr", "", "HTTP listen address (default :8000, env LLMGATE_ADDR)")
	fl.StringVar(&f.transport, "transport", "", "Backend transport: http|inprocess (env LLMGATE_TRANSPORT)")
	fl.StringVar(&f.baseURL, "base-url", "", "Ollama base URL (default http://localhost:11434, env OLLAMA_BASE_URL)")
	fl.StringVar(&f.defaultModel, "default-model", "", "Model used when a request names none (default llama2, env OLLAMA_DEFAULT_MODEL)")
	fl.StringVar(&f.modelsDir, "models-dir", "", "Directory of *.gguf files for the inprocess transport (env LLMGATE_MODELS_DIR)")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level: off|error|info|debug (env LLMGATE_LOG_LEVEL)")
	fl.BoolVar(&f.corsEnabled, "cors-enabled", false, "Enable CORS")
	fl.StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated allowed origins (default *)")
	fl.BoolVar(&f.tracing, "tracing", false, "Record OpenTelemetry spans (env LLMGATE_TRACING)")
	fl.StringVar(&f.tracingAddr, "tracing-endpoint", "", "OTLP/gRPC collector host:port (env LLMGATE_TRACING_ENDPOINT)")
	return cmd
}

// resolveConfig applies file, env and flags in increasing precedence, then defaults.
func resolveConfig(cmd *cobra.Command, f serveFlags, getenv func(string) string) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		c, err := config.Load(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	cfg = cfg.WithEnv(getenv)

	changed := cmd.Flags().Changed
	if changed("addr") {
		cfg.Addr = f.addr
	}
	if changed("transport") {
		cfg.Transport = f.transport
	}
	if changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if changed("default-model") {
		cfg.DefaultModel = f.defaultModel
	}
	if changed("models-dir") {
		cfg.ModelsDir = f.modelsDir
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("cors-enabled") {
		cfg.CORSEnabled = f.corsEnabled
	}
	if changed("cors-origins") {
		cfg.CORSOrigins = splitCSV(f.corsOrigins)
	}
	if changed("tracing") {
		cfg.TracingEnabled = f.tracing
	}
	if changed("tracing-endpoint") {
		cfg.TracingEndpoint = f.tracingAddr
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildTransport selects the backend named by cfg.Transport.
func buildTransport(cfg config.Config) (gateway.Transport, error) {
	switch cfg.Transport {
	case config.TransportHTTP:
		return ollama.New(cfg.BaseURL, cfg.ProbeTimeout()), nil
	case config.TransportInProcess:
		dir, err := fsutil.ExpandHome(cfg.ModelsDir)
		if err != nil {
			return nil, err
		}
		return inproc.New(dir, inproc.NewEngine(cfg.LlamaCtx, cfg.LlamaThreads)), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

// newHandler wires the gateway and HTTP layer for cfg.
func newHandler(cfg config.Config, tp trace.TracerProvider) (http.Handler, *gateway.Gateway, error) {
	t, err := buildTransport(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)
	gw := gateway.New(t, gateway.Options{
		DefaultModel:    cfg.DefaultModel,
		GenerateTimeout: cfg.GenerateTimeout(),
		ListTimeout:     cfg.ListTimeout(),
		ProbeTimeout:    cfg.ProbeTimeout(),
		Logger:          &logger,
		TracerProvider:  tp,
	})
	httpapi.SetLogger(logger)
	httpapi.SetLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)
	return tracing.Middleware(httpapi.NewMux(gw)), gw, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := newLogger(os.Stderr, cfg.LogLevel)
	tp, err := tracing.New(ctx, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.TracingEndpoint,
		Insecure:    cfg.TracingInsecure,
		SampleRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Warn().Err(err).Msg("tracing shutdown error")
		}
	}()

	h, gw, err := newHandler(cfg, tp.TracerProvider())
	if err != nil {
		return err
	}
	srv := &http.Server{Addr: cfg.Addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("transport", gw.TransportName()).
			Str("default_model", gw.DefaultModel()).
			Bool("tracing", tp.Enabled()).
			Msg("llmgate listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown (Ctrl+C / SIGTERM)
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	logger.Info().Msg("llmgate stopped")
	return nil
}
