package apimodels

import "github.com/sozercan/chart-mole/internal/dataset"

type AnalysisRequest struct {
	// Prompt is the user's free-text analysis request
	Prompt string `json:"prompt"`

	// Data is the dataset to analyze. Only a leading sample is sent to the model.
	Data dataset.Dataset `json:"data"`

	// Optional parameters to control generation
	Options AnalysisOptions `json:"options,omitempty"`
}

type AnalysisOptions struct {
	// Model overrides the configured model identifier. It must be the
	// configured model or listed in LLM_ALLOWED_MODELS.
	Model string `json:"model,omitempty"`

	// MaxTokens limits the generated continuation
	MaxTokens int64 `json:"maxTokens,omitempty"`

	// Temperature controls randomness; nil keeps the configured value
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP controls nucleus sampling; nil keeps the configured value
	TopP *float64 `json:"topP,omitempty"`
}
