package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Transport names accepted in Config.Transport.
const (
	TransportHTTP      = "http"
	TransportInProcess = "inprocess"
)

// Defaults applied by WithDefaults.
const (
	DefaultAddr         = ":8000"
	DefaultBaseURL      = "http://localhost:11434"
	DefaultModel        = "llama2"
	DefaultModelsDir    = "~/models/llm"
	DefaultMaxBodyBytes = 1 << 20

	defaultGenerateSeconds = 120
	defaultListSeconds     = 30
	defaultProbeSeconds    = 5
)

// WithEnv overlays environment variables onto c. Set variables win over
// file values; empty ones are ignored.
func (c Config) WithEnv(getenv func(string) string) Config {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.BaseURL, "OLLAMA_BASE_URL")
	set(&c.DefaultModel, "OLLAMA_DEFAULT_MODEL")
	set(&c.Addr, "LLMGATE_ADDR")
	set(&c.Transport, "LLMGATE_TRANSPORT")
	set(&c.ModelsDir, "LLMGATE_MODELS_DIR")
	set(&c.LogLevel, "LLMGATE_LOG_LEVEL")
	set(&c.TracingEndpoint, "LLMGATE_TRACING_ENDPOINT")
	if b, err := strconv.ParseBool(strings.TrimSpace(getenv("LLMGATE_TRACING"))); err == nil {
		c.TracingEnabled = b
	}
	return c
}

// WithDefaults fills every unspecified field.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Transport == "" {
		c.Transport = TransportHTTP
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.DefaultModel == "" {
		c.DefaultModel = DefaultModel
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.GenerateTimeoutSeconds == 0 {
		c.GenerateTimeoutSeconds = defaultGenerateSeconds
	}
	if c.ListTimeoutSeconds == 0 {
		c.ListTimeoutSeconds = defaultListSeconds
	}
	if c.ProbeTimeoutSeconds == 0 {
		c.ProbeTimeoutSeconds = defaultProbeSeconds
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportHTTP, TransportInProcess:
	default:
		return fmt.Errorf("transport %q: want %q or %q", c.Transport, TransportHTTP, TransportInProcess)
	}
	if c.Transport == TransportHTTP {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("base_url %q: must be an absolute URL", c.BaseURL)
		}
	}
	if c.GenerateTimeoutSeconds < 0 || c.ListTimeoutSeconds < 0 || c.ProbeTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative")
	}
	if c.LlamaCtx < 0 || c.LlamaThreads < 0 {
		return fmt.Errorf("llama_ctx and llama_threads must not be negative")
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return fmt.Errorf("tracing_sample_ratio %v: want a value in [0,1]", c.TracingSampleRatio)
	}
	return nil
}

func (c Config) GenerateTimeout() time.Duration {
	return time.Duration(c.GenerateTimeoutSeconds) * time.Second
}

func (c Config) ListTimeout() time.Duration {
	return time.Duration(c.ListTimeoutSeconds) * time.Second
}

func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}
