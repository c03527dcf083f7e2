package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	Transport    string `json:"transport" yaml:"transport" toml:"transport"`
	BaseURL      string `json:"base_url" yaml:"base_url" toml:"base_url"`
	DefaultModel string `json:"default_model" yaml:"default_model" toml:"default_model"`
	ModelsDir    string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	LlamaCtx     int    `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads int    `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`

	GenerateTimeoutSeconds int `json:"generate_timeout_seconds" yaml:"generate_timeout_seconds" toml:"generate_timeout_seconds"`
	ListTimeoutSeconds     int `json:"list_timeout_seconds" yaml:"list_timeout_seconds" toml:"list_timeout_seconds"`
	ProbeTimeoutSeconds    int `json:"probe_timeout_seconds" yaml:"probe_timeout_seconds" toml:"probe_timeout_seconds"`

	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSEnabled  bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	LogLevel     string   `json:"log_level" yaml:"log_level" toml:"log_level"`

	TracingEnabled     bool    `json:"tracing_enabled" yaml:"tracing_enabled" toml:"tracing_enabled"`
	TracingEndpoint    string  `json:"tracing_endpoint" yaml:"tracing_endpoint" toml:"tracing_endpoint"`
	TracingInsecure    bool    `json:"tracing_insecure" yaml:"tracing_insecure" toml:"tracing_insecure"`
	TracingSampleRatio float64 `json:"tracing_sample_ratio" yaml:"tracing_sample_ratio" toml:"tracing_sample_ratio"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
