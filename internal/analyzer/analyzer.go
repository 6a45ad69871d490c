package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sozercan/chart-mole/apimodels"
	"github.com/sozercan/chart-mole/internal/config"
	"github.com/sozercan/chart-mole/internal/interpreter"
	"github.com/sozercan/chart-mole/internal/llm"
	"github.com/sozercan/chart-mole/internal/metrics"
	"github.com/sozercan/chart-mole/internal/tools"
)

type Analyzer struct {
	llmProvider llm.Provider
	analysis    config.AnalysisConfig
	llmCfg      config.LLMConfig
	provider    string
	model       string
}

func New(llmProvider llm.Provider, cfg *config.Config) *Analyzer {
	model := cfg.LLM.Model
	if cfg.LLM.Provider == config.ProviderAzure && cfg.LLM.DeploymentName != "" {
		model = cfg.LLM.DeploymentName
	}
	return &Analyzer{
		llmProvider: llmProvider,
		analysis:    cfg.Analysis,
		llmCfg:      cfg.LLM,
		provider:    cfg.LLM.Provider,
		model:       model,
	}
}

// Analyze issues exactly one generation call for a non-empty prompt and
// dataset and interprets the reply. Blank prompts and empty datasets return
// ErrEmptyUserInput or ErrEmptyDataset without contacting the model.
func (a *Analyzer) Analyze(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.AnalysisResponse, error) {
	requestID := uuid.NewString()
	log := slog.With("request_id", requestID)

	prompt, sample, err := BuildPrompt(req.Prompt, req.Data, a.analysis.SampleSize, a.analysis.StructuredOutput)
	if err != nil {
		if IsSkipped(err) {
			metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
			log.Debug("Skipping analysis", "reason", err)
		}
		return nil, err
	}

	if err := a.validateOptions(req.Options); err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		log.Warn("Rejecting analysis options", "error", err)
		return nil, err
	}

	columns := req.Data.Columns()
	model := a.model
	if req.Options.Model != "" {
		model = req.Options.Model
	}

	log.Info("Starting analysis", "records", len(req.Data), "sample", len(sample), "model", model)
	startTime := time.Now()

	resp, err := a.llmProvider.Generate(ctx, prompt, a.generationOptions(req.Options, model, columns)...)
	metrics.GenerationDuration.WithLabelValues(a.provider, a.model).Observe(time.Since(startTime).Seconds())
	if err != nil {
		var se *llm.ServiceError
		if !errors.As(err, &se) {
			err = &llm.ServiceError{Provider: a.provider, Err: err}
		}
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeServiceError).Inc()
		log.Error("Generation call failed", "error", err)
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	text := resp.Content
	hint := interpreter.Hint{Tagged: a.analysis.StructuredOutput}
	if fc := resp.FunctionCall; fc != nil && fc.Name == tools.RecommendVisualizationName {
		hint.ToolArguments = fc.Arguments
		if strings.TrimSpace(text) == "" {
			text = fc.Arguments
		}
	}

	if strings.TrimSpace(text) == "" {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeEmptyResponse).Inc()
		log.Warn("Model returned no text")
		return nil, ErrEmptyModelResponse
	}

	result := interpreter.Resolve(text, columns, hint)

	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.InterpretationSource.WithLabelValues(string(result.Source)).Inc()
	metrics.TokensUsed.Add(float64(resp.Usage.TotalTokens))

	log.Info("Analysis completed",
		"recommendations", result.Recommendations,
		"columns", result.SuggestedColumns,
		"source", result.Source,
		"duration", time.Since(startTime),
	)

	return &apimodels.AnalysisResponse{
		Text:             result.Text,
		Recommendations:  result.Recommendations,
		SuggestedColumns: result.SuggestedColumns,
		Metadata: apimodels.AnalysisMetadata{
			RequestID:  requestID,
			Duration:   time.Since(startTime).String(),
			Model:      model,
			TokensUsed: resp.Usage.TotalTokens,
			SampleSize: len(sample),
			Source:     string(result.Source),
		},
	}, nil
}

// validateOptions refuses models outside the configured allow-list and
// sampling parameters outside the ranges the config accepts.
func (a *Analyzer) validateOptions(opts apimodels.AnalysisOptions) error {
	if opts.Model != "" && !a.llmCfg.ModelAllowed(opts.Model) {
		return fmt.Errorf("%w: model %q is not allowed", ErrInvalidOptions, opts.Model)
	}
	if opts.MaxTokens < 0 {
		return fmt.Errorf("%w: maxTokens must not be negative", ErrInvalidOptions)
	}
	if t := opts.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("%w: temperature must be within [0, 2]", ErrInvalidOptions)
	}
	if p := opts.TopP; p != nil && (*p <= 0 || *p > 1) {
		return fmt.Errorf("%w: topP must be within (0, 1]", ErrInvalidOptions)
	}
	return nil
}

func (a *Analyzer) generationOptions(opts apimodels.AnalysisOptions, model string, columns []string) []llm.Option {
	out := []llm.Option{
		llm.WithModel(model),
		llm.WithMaxTokens(opts.MaxTokens),
	}
	if opts.Temperature != nil {
		out = append(out, llm.WithTemperature(*opts.Temperature))
	}
	if opts.TopP != nil {
		out = append(out, llm.WithTopP(*opts.TopP))
	}
	if a.analysis.StructuredOutput {
		out = append(out, llm.WithTools(tools.Definitions(columns)))
	}
	return out
}
