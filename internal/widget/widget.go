// Package widget holds the interactive state of an analysis prompt: the text
// being edited, whether a request is in flight, and the last error shown.
package widget

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/sozercan/chart-mole/apimodels"
	"github.com/sozercan/chart-mole/internal/analyzer"
	"github.com/sozercan/chart-mole/internal/dataset"
)

// Analyzer is the subset of analyzer.Analyzer the widget depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.AnalysisResponse, error)
}

// CompletionFunc receives each successful analysis exactly once.
type CompletionFunc func(*apimodels.AnalysisResponse)

type Widget struct {
	analyzer   Analyzer
	data       dataset.Dataset
	onComplete CompletionFunc

	mu      sync.Mutex
	prompt  string
	loading bool
	errMsg  string
}

func New(a Analyzer, data dataset.Dataset, onComplete CompletionFunc) *Widget {
	return &Widget{
		analyzer:   a,
		data:       data,
		onComplete: onComplete,
	}
}

func (w *Widget) SetPrompt(prompt string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prompt = prompt
}

func (w *Widget) Prompt() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.prompt
}

func (w *Widget) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Err returns the message from the last failed submission, or "".
func (w *Widget) Err() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

// CanSubmit reports whether Submit would issue a request.
func (w *Widget) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked()
}

func (w *Widget) canSubmitLocked() bool {
	return !w.loading && strings.TrimSpace(w.prompt) != "" && len(w.data) > 0
}

// Submit runs one analysis with the current prompt. It returns false without
// doing anything when the prompt is blank, there is no data, or a request is
// already in flight. Failures are recorded for Err rather than returned.
func (w *Widget) Submit(ctx context.Context) bool {
	w.mu.Lock()
	if !w.canSubmitLocked() {
		w.mu.Unlock()
		return false
	}
	w.loading = true
	w.errMsg = ""
	prompt := w.prompt
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.loading = false
		w.mu.Unlock()
	}()

	resp, err := w.analyzer.Analyze(ctx, apimodels.AnalysisRequest{Prompt: prompt, Data: w.data})
	if err != nil {
		if analyzer.IsSkipped(err) {
			return false
		}
		slog.Error("AI analysis failed", "error", err)
		w.mu.Lock()
		w.errMsg = analyzer.UserMessage(err)
		w.mu.Unlock()
		return true
	}

	if w.onComplete != nil {
		w.onComplete(resp)
	}
	return true
}
