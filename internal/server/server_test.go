package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/chart-mole/apimodels"
	"github.com/sozercan/chart-mole/internal/analyzer"
	"github.com/sozercan/chart-mole/internal/config"
	"github.com/sozercan/chart-mole/internal/llm"
)

type fakeProvider struct {
	calls int
	resp  *llm.Response
	err   error
}

func (f *fakeProvider) Generate(context.Context, string, ...llm.Option) (*llm.Response, error) {
	f.calls++
	return f.resp, f.err
}

func newTestServer(p llm.Provider) *httptest.Server {
	cfg := config.Config{
		LLM:      config.LLMConfig{Provider: config.ProviderHuggingFace, Model: "m", MaxTokens: 500, Temperature: 0.7, TopP: 0.95},
		Analysis: config.AnalysisConfig{SampleSize: 5},
	}
	return httptest.NewServer(New(cfg, analyzer.New(p, &cfg)).Handler())
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/api/v1/analyze", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleAnalyze(t *testing.T) {
	p := &fakeProvider{resp: &llm.Response{Content: "...use a Bar Graph and Pie Chart to show region and sales..."}}
	ts := newTestServer(p)
	defer ts.Close()

	resp := post(t, ts.URL, `{"prompt": "Compare regions", "data": [{"region": "east", "sales": 10}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out apimodels.AnalysisResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []string{"Bar Graph", "Pie Chart"}, out.Recommendations)
	assert.Equal(t, []string{"region", "sales"}, out.SuggestedColumns)
	assert.Equal(t, 1, p.calls)
}

func TestHandleAnalyzeBlankPrompt(t *testing.T) {
	p := &fakeProvider{resp: &llm.Response{Content: "unused"}}
	ts := newTestServer(p)
	defer ts.Close()

	resp := post(t, ts.URL, `{"prompt": "   ", "data": [{"region": "east"}]}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = post(t, ts.URL, `{"prompt": "chart it", "data": []}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, 0, p.calls)
}

func TestHandleAnalyzeInvalidData(t *testing.T) {
	p := &fakeProvider{}
	ts := newTestServer(p)
	defer ts.Close()

	for _, body := range []string{
		`not json`,
		`{"prompt": "chart it", "data": [{"nested": {"a": 1}}]}`,
		`{"prompt": "chart it", "data": {"a": 1}}`,
	} {
		resp := post(t, ts.URL, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	assert.Equal(t, 0, p.calls)
}

func TestHandleAnalyzeRejectsUnlistedModel(t *testing.T) {
	p := &fakeProvider{resp: &llm.Response{Content: "unused"}}
	ts := newTestServer(p)
	defer ts.Close()

	resp := post(t, ts.URL, `{"prompt": "chart it", "data": [{"region": "east"}], "options": {"model": "someone/else"}}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out apimodels.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Error, `model "someone/else" is not allowed`)
	assert.Equal(t, 0, p.calls)
}

func TestHandleAnalyzeEmptyModelResponse(t *testing.T) {
	ts := newTestServer(&fakeProvider{resp: &llm.Response{}})
	defer ts.Close()

	resp := post(t, ts.URL, `{"prompt": "chart it", "data": [{"region": "east"}]}`)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var out apimodels.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "No response received from AI model", out.Error)
}

func TestHandleAnalyzeServiceError(t *testing.T) {
	ts := newTestServer(&fakeProvider{err: &llm.ServiceError{StatusCode: 401, Message: "Invalid credentials in Authorization header"}})
	defer ts.Close()

	resp := post(t, ts.URL, `{"prompt": "chart it", "data": [{"region": "east"}]}`)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var out apimodels.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Invalid credentials in Authorization header", out.Error)
}

func TestHandleHealthAndMetrics(t *testing.T) {
	ts := newTestServer(&fakeProvider{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])

	mresp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	assert.Equal(t, http.StatusOK, mresp.StatusCode)
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	ts := newTestServer(&fakeProvider{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/analyze")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
