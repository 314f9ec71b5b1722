// internal/pipeline/rank/ranker_test.go
package rank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiqa/internal/common/logger"
	"wikiqa/internal/models"
	"wikiqa/internal/nlp"
	"wikiqa/internal/textrank"
)

func newTestRanker(t *testing.T, cfg *Config) *Ranker {
	if cfg == nil {
		cfg = &Config{
			MinRelevance:    0.3,
			LengthNormWords: 200,
			MinExcerptWords: 100,
		}
	}
	return NewRanker(textrank.NewVectorizer(nlp.DefaultStopwords()), cfg, logger.NewTestLogger(t))
}

func query(text string) *models.ProcessedQuery {
	return &models.ProcessedQuery{OriginalText: text}
}

func TestRank_RelevantBeforeIrrelevant(t *testing.T) {
	r := newTestRanker(t, nil)

	relevant := strings.Repeat("Photosynthesis converts light energy into chemical energy in plants. ", 20)
	offTopic := strings.Repeat("The stock market closed higher on strong earnings reports today. ", 20)

	passages := r.Rank(query("what is photosynthesis"), []models.CandidatePage{
		{Title: "Markets", Content: offTopic},
		{Title: "Photosynthesis", Content: relevant},
	})

	require.NotEmpty(t, passages)
	assert.Equal(t, "Photosynthesis", passages[0].Title)
}

func TestRank_DropsBelowFloor(t *testing.T) {
	cfg := &Config{MinRelevance: 0.99, LengthNormWords: 200, MinExcerptWords: 100}
	r := newTestRanker(t, cfg)

	passages := r.Rank(query("photosynthesis"), []models.CandidatePage{
		{Title: "Thin", Content: "unrelated words entirely"},
	})

	assert.Empty(t, passages)
}

func TestScore_ClampedToOne(t *testing.T) {
	r := newTestRanker(t, nil)

	// Long content containing every query term pushes the raw blend past 1.
	content := strings.Repeat("photosynthesis light energy plants chlorophyll process ", 50)
	score := r.score("photosynthesis light energy plants", content)

	assert.Equal(t, 1.0, score)
}

func TestScore_LongerContentScoresHigher(t *testing.T) {
	r := newTestRanker(t, nil)

	sentence := "Photosynthesis converts light energy. "
	short := r.score("photosynthesis", sentence)
	long := r.score("photosynthesis", strings.Repeat(sentence, 30))

	assert.Greater(t, long, short)
}

func TestExtractExcerpt_PicksRelevantParagraphs(t *testing.T) {
	r := newTestRanker(t, &Config{MinRelevance: 0.3, LengthNormWords: 200, MinExcerptWords: 10})

	para := func(s string) string {
		return strings.Repeat(s+" ", 15)
	}
	content := strings.Join([]string{
		para("Rivers flow through valleys carrying sediment downstream every year."),
		para("Photosynthesis converts light energy into chemical energy inside chloroplasts."),
		para("Medieval castles were fortified residences of European nobility."),
	}, "\n\n")

	excerpt := r.extractExcerpt("photosynthesis light energy", content)

	assert.Contains(t, excerpt, "Photosynthesis converts light energy")
}

func TestExtractExcerpt_SentenceFallbackForThinContent(t *testing.T) {
	r := newTestRanker(t, &Config{MinRelevance: 0.3, LengthNormWords: 200, MinExcerptWords: 100})

	content := "The abacus is an ancient calculating tool used worldwide! Short bit. " +
		"It consists of beads that slide along rods or grooves?"

	excerpt := r.extractExcerpt("abacus", content)

	// Under the excerpt floor the result is sentence-joined prose.
	assert.Equal(t, "The abacus is an ancient calculating tool used worldwide. "+
		"It consists of beads that slide along rods or grooves.", excerpt)
	assert.NotContains(t, excerpt, "Short bit")
}

func TestExtractExcerpt_EmptyContent(t *testing.T) {
	r := newTestRanker(t, nil)

	assert.Equal(t, "", r.extractExcerpt("anything", "   "))
}
