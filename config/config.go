// Package config loads application settings from a YAML file with
// SPARTACUS_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LLMConfig holds model and provider settings.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// AgentConfig holds loop settings.
type AgentConfig struct {
	MaxIterations  int `yaml:"max_iterations"`
	MaxChatHistory int `yaml:"max_chat_history"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

// StoreConfig holds session persistence settings.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "memory" or "sqlite"
	Path    string `yaml:"path"`    // sqlite database path
}

// Config is the top-level application configuration.
type Config struct {
	LLM     LLMConfig    `yaml:"llm"`
	Agent   AgentConfig  `yaml:"agent"`
	Logger  LoggerConfig `yaml:"logger"`
	Store   StoreConfig  `yaml:"store"`
	DataDir string       `yaml:"data_dir"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4",
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		Agent: AgentConfig{
			MaxIterations:  10,
			MaxChatHistory: 100,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Store: StoreConfig{
			Backend: "memory",
			Path:    "./data/sessions.db",
		},
		DataDir: "./data",
	}
}

// Load reads a YAML config file and applies env var overrides. A missing
// file is not an error; defaults plus overrides apply. Malformed config is
// always fatal.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps SPARTACUS_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPARTACUS_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("SPARTACUS_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("SPARTACUS_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.LLM.Temperature = f
		}
	}
	if v := os.Getenv("SPARTACUS_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LLM.MaxTokens = n
		}
	}
	if v := os.Getenv("SPARTACUS_AGENT_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Agent.MaxIterations = n
		}
	}
	if v := os.Getenv("SPARTACUS_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("SPARTACUS_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("SPARTACUS_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("SPARTACUS_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("SPARTACUS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
}

// Validate reports configuration mistakes. Configuration errors are fatal;
// there is no degraded mode.
func Validate(cfg *Config) error {
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", cfg.LLM.Temperature)
	}
	if cfg.Agent.MaxIterations <= 0 {
		return fmt.Errorf("agent.max_iterations must be positive, got %d", cfg.Agent.MaxIterations)
	}
	switch cfg.Store.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.backend must be memory or sqlite, got %q", cfg.Store.Backend)
	}
	if cfg.Store.Backend == "sqlite" && cfg.Store.Path == "" {
		return fmt.Errorf("store.path is required for the sqlite backend")
	}
	return nil
}
