package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sozercan/chart-mole/internal/config"
)

const maxResponseBytes = 4 << 20

// HuggingFace calls the native text-generation task of the Hugging Face
// inference API.
type HuggingFace struct {
	httpClient *http.Client
	cfg        *config.LLMConfig
	endpoint   string
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int64   `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TopP           float64 `json:"top_p"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

func NewHuggingFace(cfg *config.LLMConfig, httpClient *http.Client) *HuggingFace {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HuggingFace{
		httpClient: httpClient,
		cfg:        cfg,
		endpoint:   strings.TrimRight(cfg.APIEndpoint, "/"),
	}
}

func (h *HuggingFace) Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error) {
	options := defaultOptions(h.cfg)
	for _, opt := range opts {
		opt(options)
	}

	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   options.MaxTokens,
			Temperature:    options.Temperature,
			TopP:           options.TopP,
			ReturnFullText: options.ReturnFullText,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	url := h.endpoint + "/" + options.Model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ServiceError{Provider: config.ProviderHuggingFace, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+h.cfg.Credential())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	slog.Debug("Sending text-generation request", "url", url, "model", options.Model)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{Provider: config.ProviderHuggingFace, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ServiceError{Provider: config.ProviderHuggingFace, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{
			Provider:   config.ProviderHuggingFace,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(raw, resp.StatusCode),
		}
	}

	text, err := decodeGeneration(raw)
	if err != nil {
		return nil, &ServiceError{Provider: config.ProviderHuggingFace, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	return &Response{Content: text}, nil
}

// decodeGeneration accepts both the list and the single-object reply shapes.
func decodeGeneration(raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}

	if trimmed[0] == '[' {
		var gens []hfGeneration
		if err := json.Unmarshal(trimmed, &gens); err != nil {
			return "", fmt.Errorf("malformed generation response: %w", err)
		}
		if len(gens) == 0 {
			return "", nil
		}
		return gens[0].GeneratedText, nil
	}

	var obj struct {
		hfGeneration
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return "", fmt.Errorf("malformed generation response: %w", err)
	}
	if len(obj.Error) > 0 && string(obj.Error) != "null" {
		return "", fmt.Errorf("%s", errorText(obj.Error))
	}
	return obj.GeneratedText, nil
}

func upstreamMessage(raw []byte, status int) string {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Error) > 0 {
		if msg := errorText(body.Error); msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}

// errorText flattens the "error" field, which is either a string or a list of
// strings depending on the backend.
func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return string(raw)
}
