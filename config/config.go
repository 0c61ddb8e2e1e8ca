// Package config loads the presentation agent configuration:
// a YAML file, an optional .env file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for the config file.
const DefaultPath = "config/config.yaml"

// LLMConfig selects the text/vision generation backend.
type LLMConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	VisionModel string `yaml:"vision_model,omitempty"`
	APIKey      string `yaml:"api_key,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	APIVersion  string `yaml:"api_version,omitempty"`
}

// SearchConfig selects the image search backend.
type SearchConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	CX       string `yaml:"cx,omitempty"`
}

// RetryConfig bounds retries of malformed structured output. MaxAttempts 0 retries forever.
type RetryConfig struct {
	MaxAttempts     uint          `yaml:"max_attempts"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	Multiplier      float64       `yaml:"multiplier"`
}

// TracingConfig controls the OpenTelemetry exporter. An empty endpoint exports to stdout.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`
}

// Config models config/config.yaml.
type Config struct {
	LLM          LLMConfig     `yaml:"llm"`
	Search       SearchConfig  `yaml:"search"`
	Retry        RetryConfig   `yaml:"retry"`
	Controller   string        `yaml:"controller"`
	MaxTurns     int           `yaml:"max_turns"`
	HistoryLimit int           `yaml:"history_limit"`
	ServerAddr   string        `yaml:"server_addr,omitempty"`
	OutputDir    string        `yaml:"output_dir,omitempty"`
	LogMode      string        `yaml:"log_mode,omitempty"`
	Tracing      TracingConfig `yaml:"tracing"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM:        LLMConfig{Provider: "openai"},
		Search:     SearchConfig{Provider: "google"},
		Retry:      RetryConfig{MaxAttempts: 5, InitialInterval: 200 * time.Millisecond, MaxInterval: 5 * time.Second, Multiplier: 2},
		Controller: "llm",
		ServerAddr: ":8080",
		OutputDir:  "out",
		LogMode:    "dev",
	}
}

// Load reads path over the defaults, loads .env from the working directory
// and applies environment overrides. A missing file is not an error.
// Callers apply flag overrides and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL", "MODEL")
	setString(&c.LLM.VisionModel, "LLM_VISION_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY", "OPENAI_API_KEY", "AZURE_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL", "AZURE_ENDPOINT")
	setString(&c.LLM.APIVersion, "LLM_API_VERSION")
	setString(&c.Search.APIKey, "GOOGLE_API_KEY")
	setString(&c.Search.CX, "GOOGLE_CX")
	setString(&c.ServerAddr, "SERVER_ADDR")
	setString(&c.LogMode, "LOG_MODE")
}

// setString sets dst from the first non-empty variable in names.
func setString(dst *string, names ...string) {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			*dst = v
			return
		}
	}
}

// Validate checks provider-specific requirements.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "mock":
	case "openai":
		if c.LLM.Model == "" {
			return errors.New("llm.model is required")
		}
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		if c.LLM.BaseURL == "" {
			return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		if c.LLM.Model == "" {
			return errors.New("llm.model is required")
		}
	case "azure":
		if c.LLM.BaseURL == "" || c.LLM.APIVersion == "" {
			return errors.New("llm provider azure requires base_url and api_version")
		}
		if c.LLM.Model == "" {
			return errors.New("llm.model (deployment name) is required")
		}
	case "":
		return errors.New("llm config missing; please set llm.provider/model/api_key in config")
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	switch c.Search.Provider {
	case "google", "static":
	default:
		return fmt.Errorf("search provider %s not supported", c.Search.Provider)
	}
	switch c.Controller {
	case "llm", "rules":
	default:
		return fmt.Errorf("controller %q not supported (llm or rules)", c.Controller)
	}
	if c.MaxTurns < 0 || c.HistoryLimit < 0 {
		return errors.New("max_turns and history_limit must be >= 0")
	}
	return nil
}
