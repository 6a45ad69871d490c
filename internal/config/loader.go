package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderAzure       = "azure"
)

// ConfigFileEnv names the environment variable that points at an optional
// config file when no explicit path is given.
const ConfigFileEnv = "CHART_MOLE_CONFIG"

var ErrMissingAPIKey = errors.New("LLM_API_KEY or HF_TOKEN must be set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.request_timeout", "120s")

	v.SetDefault("llm.provider", ProviderHuggingFace)
	v.SetDefault("llm.endpoint", "https://router.huggingface.co/hf-inference/models")
	v.SetDefault("llm.model", "mistralai/Mistral-7B-Instruct-v0.2")
	v.SetDefault("llm.deployment", "gpt-4o")
	v.SetDefault("llm.api_version", "2023-05-15")
	v.SetDefault("llm.max_tokens", 500)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.allowed_models", []string{})

	v.SetDefault("analysis.sample_size", 5)
	v.SetDefault("analysis.structured_output", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig builds the configuration from, in increasing priority: built-in
// defaults, an optional config file, a .env file and the process environment.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Fields without a matching variable keep what viper resolved.
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("configuration loaded successfully", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderAzure:
	default:
		return fmt.Errorf("unknown LLM provider %q", c.LLM.Provider)
	}

	if c.LLM.Credential() == "" {
		return ErrMissingAPIKey
	}
	if c.LLM.Model == "" {
		return errors.New("LLM model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %v", c.LLM.Temperature)
	}
	if c.LLM.TopP <= 0 || c.LLM.TopP > 1 {
		return fmt.Errorf("top_p must be within (0, 1], got %v", c.LLM.TopP)
	}
	if c.Analysis.SampleSize <= 0 {
		return fmt.Errorf("sample size must be positive, got %d", c.Analysis.SampleSize)
	}
	return nil
}
