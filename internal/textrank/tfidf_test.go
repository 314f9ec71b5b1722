// internal/textrank/tfidf_test.go
package textrank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wikiqa/internal/nlp"
)

func newVectorizer() *Vectorizer {
	return NewVectorizer(nlp.DefaultStopwords())
}

func TestSimilarity_IdenticalTexts(t *testing.T) {
	v := newVectorizer()

	sim := v.Similarity("photosynthesis in plants", "photosynthesis in plants")
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestSimilarity_DisjointTexts(t *testing.T) {
	v := newVectorizer()

	sim := v.Similarity("photosynthesis chlorophyll", "volcano eruption magma")
	assert.Equal(t, 0.0, sim)
}

func TestSimilarity_PartialOverlapRanksHigher(t *testing.T) {
	v := newVectorizer()

	related := v.Similarity("what is photosynthesis", "photosynthesis converts light energy")
	unrelated := v.Similarity("what is photosynthesis", "the stock market closed higher today")

	assert.Greater(t, related, unrelated)
	assert.Greater(t, related, 0.0)
}

func TestSimilarities_OrderMatchesDocs(t *testing.T) {
	v := newVectorizer()

	docs := []string{
		"rivers flow into the ocean",
		"photosynthesis uses sunlight and chlorophyll",
		"photosynthesis is a process in plants",
	}
	sims := v.Similarities("photosynthesis process", docs)

	assert.Len(t, sims, 3)
	assert.Greater(t, sims[2], sims[0])
	assert.Greater(t, sims[1], sims[0])
}

func TestSimilarities_EmptyDoc(t *testing.T) {
	v := newVectorizer()

	sims := v.Similarities("anything", []string{""})
	assert.Equal(t, []float64{0}, sims)
}

func TestTopIndices(t *testing.T) {
	sims := []float64{0.1, 0.9, 0.5, 0.7}

	top := TopIndices(sims, 3)
	assert.Equal(t, []int{1, 3, 2}, top)
}

func TestTopIndices_CountLargerThanInput(t *testing.T) {
	top := TopIndices([]float64{0.2, 0.4}, 5)
	assert.Equal(t, []int{1, 0}, top)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("  one two   three "))
}
