package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port" envconfig:"SERVER_PORT"`
	Host           string        `mapstructure:"host" envconfig:"SERVER_HOST"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" envconfig:"SERVER_REQUEST_TIMEOUT"`
}

// LLMConfig describes the hosted text-generation endpoint. APIKey is never
// given a default; it must come from the environment, a .env file or a config
// file kept out of source control.
type LLMConfig struct {
	Provider       string `mapstructure:"provider" envconfig:"LLM_PROVIDER"`
	APIKey         string `mapstructure:"api_key" envconfig:"LLM_API_KEY"`
	HFToken        string `mapstructure:"hf_token" envconfig:"HF_TOKEN"`
	APIEndpoint    string `mapstructure:"endpoint" envconfig:"LLM_ENDPOINT"`
	Model          string `mapstructure:"model" envconfig:"LLM_MODEL"`
	DeploymentName string `mapstructure:"deployment" envconfig:"LLM_DEPLOYMENT"`
	APIVersion     string `mapstructure:"api_version" envconfig:"LLM_API_VERSION"`
	// AllowedModels lists models a request may select instead of Model.
	// Empty means per-request overrides are refused.
	AllowedModels []string `mapstructure:"allowed_models" envconfig:"LLM_ALLOWED_MODELS"`
	MaxTokens     int64    `mapstructure:"max_tokens" envconfig:"LLM_MAX_TOKENS"`
	Temperature   float64  `mapstructure:"temperature" envconfig:"LLM_TEMPERATURE"`
	TopP          float64  `mapstructure:"top_p" envconfig:"LLM_TOP_P"`
}

// Credential returns the bearer credential, preferring LLM_API_KEY over HF_TOKEN.
func (c LLMConfig) Credential() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.HFToken
}

// ModelAllowed reports whether a request may use model. The configured model
// is always allowed.
func (c LLMConfig) ModelAllowed(model string) bool {
	if model == c.Model {
		return true
	}
	for _, m := range c.AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}

type AnalysisConfig struct {
	SampleSize       int  `mapstructure:"sample_size" envconfig:"ANALYSIS_SAMPLE_SIZE"`
	StructuredOutput bool `mapstructure:"structured_output" envconfig:"ANALYSIS_STRUCTURED_OUTPUT"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" envconfig:"LOG_LEVEL"`
	Format string `mapstructure:"format" envconfig:"LOG_FORMAT"`
}
