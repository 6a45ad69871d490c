package llm

import (
	"context"

	"github.com/openai/openai-go"
)

type Provider interface {
	// Generate submits prompt to the model once and returns its continuation.
	Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error)
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	TopP        float64
	// ReturnFullText asks the provider to echo the prompt ahead of the
	// generated continuation. Analysis leaves it off.
	ReturnFullText bool
	Tools          []openai.ChatCompletionToolParam
}

func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithMaxTokens(n int64) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature; 0 is a valid value.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = t
	}
}

func WithTopP(p float64) Option {
	return func(o *Options) {
		o.TopP = p
	}
}

func WithReturnFullText(full bool) Option {
	return func(o *Options) {
		o.ReturnFullText = full
	}
}

func WithTools(tools []openai.ChatCompletionToolParam) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// FunctionResponse represents the structured response from a function call
type FunctionResponse struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Response struct {
	Content      string
	FunctionCall *FunctionResponse
	Usage        Usage
}
