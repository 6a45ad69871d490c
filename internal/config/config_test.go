package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LLM_API_KEY", "HF_TOKEN", "LLM_PROVIDER", "LLM_MODEL", "LLM_ENDPOINT",
		"LLM_MAX_TOKENS", "LLM_TEMPERATURE", "LLM_TOP_P", "SERVER_PORT",
		"ANALYSIS_SAMPLE_SIZE", "ANALYSIS_STRUCTURED_OUTPUT", "LLM_ALLOWED_MODELS", ConfigFileEnv,
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("HF_TOKEN", "hf_test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ProviderHuggingFace, cfg.LLM.Provider)
	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.2", cfg.LLM.Model)
	assert.Equal(t, int64(500), cfg.LLM.MaxTokens)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 0.95, cfg.LLM.TopP)
	assert.Equal(t, 5, cfg.Analysis.SampleSize)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "hf_test", cfg.LLM.Credential())
	assert.Empty(t, cfg.LLM.AllowedModels)
}

func TestLoadConfigAllowedModels(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("HF_TOKEN", "hf_test")
	t.Setenv("LLM_ALLOWED_MODELS", "meta-llama/Llama-3.1-8B-Instruct,google/gemma-2-9b-it")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, []string{"meta-llama/Llama-3.1-8B-Instruct", "google/gemma-2-9b-it"}, cfg.LLM.AllowedModels)
	assert.True(t, cfg.LLM.ModelAllowed("google/gemma-2-9b-it"))
	assert.True(t, cfg.LLM.ModelAllowed(cfg.LLM.Model))
	assert.False(t, cfg.LLM.ModelAllowed("someone/else"))
}

func TestLoadConfigMissingKey(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	_, err := LoadConfig("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "chart-mole.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  endpoint: https://router.huggingface.co/v1
  model: file-model
  api_key: from-file
analysis:
  sample_size: 3
  structured_output: true
`), 0o600))

	t.Setenv("LLM_MODEL", "env-model")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "env-model", cfg.LLM.Model)
	assert.Equal(t, "from-file", cfg.LLM.Credential())
	assert.Equal(t, 3, cfg.Analysis.SampleSize)
	assert.True(t, cfg.Analysis.StructuredOutput)
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LLM_API_KEY=dotenv-key\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LLM_API_KEY") })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.LLM.Credential())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			LLM:      LLMConfig{Provider: "HuggingFace", APIKey: "k", Model: "m", MaxTokens: 10, Temperature: 0.7, TopP: 0.95},
			Analysis: AnalysisConfig{SampleSize: 5},
		}
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ProviderHuggingFace, cfg.LLM.Provider)

	for name, mutate := range map[string]func(*Config){
		"provider":    func(c *Config) { c.LLM.Provider = "bogus" },
		"max tokens":  func(c *Config) { c.LLM.MaxTokens = 0 },
		"temperature": func(c *Config) { c.LLM.Temperature = 3 },
		"top p":       func(c *Config) { c.LLM.TopP = 0 },
		"sample size": func(c *Config) { c.Analysis.SampleSize = 0 },
		"model":       func(c *Config) { c.LLM.Model = "" },
	} {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := SetupLogging(LogConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
