// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiqa/internal/common/config"
	apperrors "wikiqa/internal/common/errors"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/models"
	"wikiqa/internal/source"
)

type fakeSource struct {
	articles map[string]*source.Article
	calls    int64
}

func (f *fakeSource) Resolve(_ context.Context, title string) (*source.PageRef, error) {
	atomic.AddInt64(&f.calls, 1)
	a, ok := f.articles[title]
	if !ok {
		return nil, source.ErrPageNotFound
	}
	return &source.PageRef{Title: a.Title, PageID: a.PageID, Summary: a.Summary, URL: a.URL}, nil
}

func (f *fakeSource) Fetch(_ context.Context, title string) (*source.Article, error) {
	atomic.AddInt64(&f.calls, 1)
	a, ok := f.articles[title]
	if !ok {
		return nil, source.ErrPageNotFound
	}
	return a, nil
}

func (f *fakeSource) Search(_ context.Context, _ string, _ int) ([]source.SearchHit, error) {
	atomic.AddInt64(&f.calls, 1)
	return nil, nil
}

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
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
}

// scienceArticle builds a Photosynthesis page with well over 500 words of
// complete sentences.
func scienceArticle() *source.Article {
	var sentences []string
	for i := 0; i < 40; i++ {
		sentences = append(sentences, fmt.Sprintf(
			"Photosynthesis is a process by which green plants convert light energy into chemical energy during stage %d.", i))
	}
	text := strings.Join(sentences, " ")
	return &source.Article{
		Title:    "Photosynthesis",
		PageID:   24544,
		Summary:  text,
		FullText: text,
		URL:      "https://en.wikipedia.org/wiki/Photosynthesis",
	}
}

func TestAnswer_EndToEnd(t *testing.T) {
	src := &fakeSource{articles: map[string]*source.Article{"Photosynthesis": scienceArticle()}}
	p := New(testPipelineConfig(), src, logger.NewTestLogger(t))

	resp, err := p.Answer(context.Background(), "What is photosynthesis?")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Response, "Let me explain what is photosynthesis?:"), resp.Response)
	assert.Contains(t, resp.Response, "Definition:")
	assert.Greater(t, resp.Confidence, 0.0)
	assert.Contains(t, resp.Sources, "Photosynthesis - https://en.wikipedia.org/wiki/Photosynthesis")
}

func TestAnswer_EmptyQueryRejectedBeforeRetrieval(t *testing.T) {
	src := &fakeSource{}
	p := New(testPipelineConfig(), src, logger.NewTestLogger(t))

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := p.Answer(context.Background(), q)
		require.Error(t, err)
		assert.True(t, errors.Is(err, &apperrors.StandardError{Code: apperrors.ErrCodeInvalidQuery}))
	}
	assert.Equal(t, int64(0), src.calls)
}

func TestAnswer_NoEvidenceFound(t *testing.T) {
	src := &fakeSource{}
	p := New(testPipelineConfig(), src, logger.NewTestLogger(t))

	_, err := p.Answer(context.Background(), "completely unknown topic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &apperrors.StandardError{Code: apperrors.ErrCodeNoEvidenceFound}))
}

func TestMainTopic(t *testing.T) {
	assert.Equal(t, "cat", mainTopic(&models.ProcessedQuery{
		Entities:    []string{"cat", "mat"},
		CleanedText: "the cat sat",
	}))
	assert.Equal(t, "what is x", mainTopic(&models.ProcessedQuery{
		CleanedText: "what is x",
	}))
}
