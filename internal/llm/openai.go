package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/sozercan/chart-mole/internal/config"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint, including
// the Hugging Face router and Azure OpenAI.
type OpenAI struct {
	client   *openai.Client
	cfg      *config.LLMConfig
	provider string
	model    string
}

func NewOpenAI(cfg *config.LLMConfig) (*OpenAI, error) {
	var client *openai.Client
	model := cfg.Model

	switch cfg.Provider {
	case config.ProviderAzure:
		client = openai.NewClient(
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.Credential()),
			option.WithMaxRetries(0),
		)
		if cfg.DeploymentName != "" {
			model = cfg.DeploymentName
		}
	default: // "openai"
		client = openai.NewClient(
			option.WithAPIKey(cfg.Credential()),
			option.WithBaseURL(cfg.APIEndpoint),
			option.WithMaxRetries(0),
		)
	}

	return &OpenAI{
		client:   client,
		cfg:      cfg,
		provider: cfg.Provider,
		model:    model,
	}, nil
}

func (o *OpenAI) Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error) {
	options := defaultOptions(o.cfg)
	options.Model = o.model
	for _, opt := range opts {
		opt(options)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.F(options.Model),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Temperature: openai.F(options.Temperature),
		TopP:        openai.F(options.TopP),
		MaxTokens:   openai.F(options.MaxTokens),
	}
	if len(options.Tools) > 0 {
		params.Tools = openai.F(options.Tools)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, o.serviceError(err)
	}

	response := &Response{
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	if len(resp.Choices) == 0 {
		return response, nil
	}

	msg := resp.Choices[0].Message
	response.Content = msg.Content
	if len(msg.ToolCalls) > 0 {
		response.FunctionCall = &FunctionResponse{
			Name:      msg.ToolCalls[0].Function.Name,
			Arguments: msg.ToolCalls[0].Function.Arguments,
		}
	}
	if options.ReturnFullText && response.Content != "" {
		response.Content = prompt + response.Content
	}

	return response, nil
}

func (o *OpenAI) serviceError(err error) error {
	se := &ServiceError{Provider: o.provider, Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		se.StatusCode = apiErr.StatusCode
		se.Message = apiErr.Message
	}
	return se
}
