// internal/server/server_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiqa/internal/common/config"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/common/observability"
	"wikiqa/internal/models"
	"wikiqa/internal/pipeline"
	"wikiqa/internal/source"
)

type fakeSource struct {
	articles map[string]*source.Article
}

func (f *fakeSource) Resolve(_ context.Context, title string) (*source.PageRef, error) {
	a, ok := f.articles[title]
	if !ok {
		return nil, source.ErrPageNotFound
	}
	return &source.PageRef{Title: a.Title, PageID: a.PageID, Summary: a.Summary, URL: a.URL}, nil
}

func (f *fakeSource) Fetch(_ context.Context, title string) (*source.Article, error) {
	a, ok := f.articles[title]
	if !ok {
		return nil, source.ErrPageNotFound
	}
	return a, nil
}

func (f *fakeSource) Search(_ context.Context, _ string, _ int) ([]source.SearchHit, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *Server {
	var sentences []string
	for i := 0; i < 40; i++ {
		sentences = append(sentences, fmt.Sprintf(
			"Photosynthesis is a process by which green plants convert light energy into chemical energy during stage %d.", i))
	}
	text := strings.Join(sentences, " ")

	src := &fakeSource{articles: map[string]*source.Article{
		"Photosynthesis": {
			Title:    "Photosynthesis",
			PageID:   24544,
			Summary:  text,
			FullText: text,
			URL:      "https://en.wikipedia.org/wiki/Photosynthesis",
		},
	}}

	pipelineCfg := config.PipelineConfig{
		MaxCandidates:        3,
		SearchLimit:          5,
		MaxConcurrentFetches: 2,
		MinRelevance:         0.3,
		LengthNormWords:      200,
		MinExcerptWords:      100,
		MaxPointsPerSection:  5,
		ConfidenceNormWords:  500,
		MinFullTextWords:     500,
	}
	serverCfg := config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           0,
		AllowedOrigins: []string{"http://localhost:3000"},
		ReadTimeout:    5000,
		WriteTimeout:   5000,
	}

	log := logger.NewTestLogger(t)
	p := pipeline.New(pipelineCfg, src, log)
	return NewServer(serverCfg, p, observability.New("wikiqa-test", prometheus.NewRegistry()), log)
}

func postQuery(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRoot(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Wikipedia Q&A API is running", body["message"])
}

func TestHandleQuery_Success(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postQuery(t, handler, `{"query": "What is photosynthesis?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.FinalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Response, "Let me explain what is photosynthesis?:")
	assert.Greater(t, resp.Confidence, 0.0)
	assert.Contains(t, resp.Sources, "Photosynthesis - https://en.wikipedia.org/wiki/Photosynthesis")
}

func TestHandleQuery_ConversationHistoryAccepted(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postQuery(t, handler, `{
		"query": "What is photosynthesis?",
		"conversation_history": [{"role": "user", "content": "hi"}]
	}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleQuery_EmptyQuery(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postQuery(t, handler, `{"query": "   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Query cannot be empty", body.Detail)
}

func TestHandleQuery_MissingQueryField(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postQuery(t, handler, `{"conversation_history": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuery_MalformedJSON(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postQuery(t, handler, `{"query": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuery_NoEvidence(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := postQuery(t, handler, `{"query": "completely unknown topic"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No relevant information found", body.Detail)
}

func TestHandleQuery_MethodNotAllowed(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/query", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS_AllowedOriginPreflight(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/query", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORS_UnknownOriginGetsNoHeader(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(t).Handler()

	// A served query guarantees the counter has at least one child to expose.
	postQuery(t, handler, `{"query": "What is photosynthesis?"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wikiqa_queries_total")
}