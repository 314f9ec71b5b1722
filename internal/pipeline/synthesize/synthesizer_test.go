// internal/pipeline/synthesize/synthesizer_test.go
package synthesize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wikiqa/internal/common/logger"
	"wikiqa/internal/models"
)

func newTestSynthesizer(t *testing.T) *Synthesizer {
	return NewSynthesizer(logger.NewTestLogger(t))
}

func TestSynthesize_RendersIntroAndContent(t *testing.T) {
	s := newTestSynthesizer(t)

	resp := s.Synthesize(
		&models.AnalyzedContent{
			MainContent: "\nDefinition:\n• Photosynthesis is a process found in plants.",
			Confidence:  0.42,
			Sources:     []string{"Photosynthesis - https://en.wikipedia.org/wiki/Photosynthesis"},
		},
		&models.ProcessedQuery{
			CleanedText:  "photosynthesis",
			QuestionType: models.QuestionDefinition,
		},
	)

	assert.Equal(t, "Let me explain photosynthesis:\n\n\nDefinition:\n• Photosynthesis is a process found in plants.", resp.Response)
	assert.Equal(t, 0.42, resp.Confidence)
	assert.Equal(t, []string{"Photosynthesis - https://en.wikipedia.org/wiki/Photosynthesis"}, resp.Sources)
}

func TestSynthesize_EmptyContentApologizes(t *testing.T) {
	s := newTestSynthesizer(t)

	resp := s.Synthesize(&models.AnalyzedContent{}, &models.ProcessedQuery{})

	assert.Equal(t, "I apologize, but I couldn't find enough relevant information to answer your question.", resp.Response)
	assert.Equal(t, 0.0, resp.Confidence)
	assert.Empty(t, resp.Sources)
}

func TestSynthesize_NilAnalyzedContent(t *testing.T) {
	s := newTestSynthesizer(t)

	resp := s.Synthesize(nil, &models.ProcessedQuery{CleanedText: "x"})

	assert.Equal(t, 0.0, resp.Confidence)
	assert.NotEmpty(t, resp.Response)
}

func TestSynthesize_MissingQueryIsErrorResponse(t *testing.T) {
	s := newTestSynthesizer(t)

	resp := s.Synthesize(&models.AnalyzedContent{MainContent: "Body."}, nil)

	assert.Equal(t, "I apologize, but I encountered an error while processing your query. Please try again.", resp.Response)
	assert.Equal(t, 0.0, resp.Confidence)
	assert.Empty(t, resp.Sources)
}

func TestSynthesize_EmptyTopicFallback(t *testing.T) {
	s := newTestSynthesizer(t)

	resp := s.Synthesize(
		&models.AnalyzedContent{MainContent: "Some structured body here.", Confidence: 0.2},
		&models.ProcessedQuery{QuestionType: models.QuestionExplanation},
	)

	assert.Equal(t, "Let me explain this topic:\n\nSome structured body here.", resp.Response)
}

func TestSynthesize_UnknownTypeUsesExplanationTemplate(t *testing.T) {
	s := newTestSynthesizer(t)

	resp := s.Synthesize(
		&models.AnalyzedContent{MainContent: "Body.", Confidence: 0.1},
		&models.ProcessedQuery{CleanedText: "thing", QuestionType: models.QuestionType("UNKNOWN")},
	)

	assert.Equal(t, "Let me explain thing:\n\nBody.", resp.Response)
}
