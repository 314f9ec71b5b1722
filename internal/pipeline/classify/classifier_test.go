// internal/pipeline/classify/classifier_test.go
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiqa/internal/common/logger"
	"wikiqa/internal/models"
	"wikiqa/internal/nlp"
)

func newTestClassifier(t *testing.T) *Classifier {
	return NewClassifier(nlp.NewProseTagger(), nlp.DefaultStopwords(), logger.NewTestLogger(t))
}

func TestClassify_QuestionTypes(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name     string
		query    string
		expected models.QuestionType
	}{
		{"definition", "What is photosynthesis?", models.QuestionDefinition},
		{"definition tell me about", "Tell me about the Roman Empire", models.QuestionDefinition},
		{"factual when", "When did World War II end?", models.QuestionFactual},
		{"factual beats process", "How to make bread", models.QuestionFactual},
		{"process", "Steps to bake bread", models.QuestionProcess},
		{"explanation default", "Photosynthesis in plants", models.QuestionExplanation},
		{"comparison", "Compare cats and dogs", models.QuestionComparison},
		{"comparison difference", "Difference between a virus and a bacterium", models.QuestionComparison},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processed, err := c.Classify(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, processed.QuestionType)
		})
	}
}

func TestClassify_CleanedTextLowercasedAndTrimmed(t *testing.T) {
	c := newTestClassifier(t)

	processed, err := c.Classify("  What is Photosynthesis ")
	require.NoError(t, err)

	assert.Equal(t, "what is photosynthesis", processed.CleanedText)
	assert.Equal(t, "  What is Photosynthesis ", processed.OriginalText)
}

type fakeTagger struct {
	tokens []nlp.TaggedToken
}

func (f *fakeTagger) Tag(string) ([]nlp.TaggedToken, error) {
	return f.tokens, nil
}

func TestClassify_EntitiesKeepOrderAndDuplicates(t *testing.T) {
	tagger := &fakeTagger{tokens: []nlp.TaggedToken{
		{Text: "the", Tag: "DT"},
		{Text: "cat", Tag: "NN"},
		{Text: "sat", Tag: "VBD"},
		{Text: "on", Tag: "IN"},
		{Text: "the", Tag: "DT"},
		{Text: "cat", Tag: "NN"},
		{Text: "mat", Tag: "NN"},
	}}
	c := NewClassifier(tagger, nlp.DefaultStopwords(), logger.NewTestLogger(t))

	processed, err := c.Classify("the cat sat on the cat mat")
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "cat", "mat"}, processed.Entities)
}

func TestClassify_Entities(t *testing.T) {
	c := newTestClassifier(t)

	processed, err := c.Classify("What is the capital of France")
	require.NoError(t, err)

	assert.Contains(t, processed.Entities, "capital")
	assert.Contains(t, processed.Entities, "france")
	// Stopwords and short tokens never become entities.
	assert.NotContains(t, processed.Entities, "the")
	assert.NotContains(t, processed.Entities, "of")
}

func TestClassify_FivePhrasingsPerType(t *testing.T) {
	c := newTestClassifier(t)

	queries := []string{
		"What is an abacus",
		"When did the war end",
		"How does a compass work",
		"Photosynthesis",
		"Compare cats and dogs",
	}
	for _, q := range queries {
		processed, err := c.Classify(q)
		require.NoError(t, err)
		assert.Len(t, processed.AlternativePhrasings, 5, "query %q", q)
	}
}

func TestClassify_DefinitionPhrasings(t *testing.T) {
	c := newTestClassifier(t)

	processed, err := c.Classify("What is photosynthesis")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"what is photosynthesis",
		"define photosynthesis",
		"explain photosynthesis",
		"describe photosynthesis",
		"what are the characteristics of photosynthesis",
	}, processed.AlternativePhrasings)
}

func TestClassify_TemplateMatchesType(t *testing.T) {
	c := newTestClassifier(t)

	processed, err := c.Classify("Steps to bake bread")
	require.NoError(t, err)

	require.Equal(t, models.QuestionProcess, processed.QuestionType)
	assert.Equal(t, "Here's how it works:", processed.Template.Intro)
	assert.Equal(t, "Key steps:", processed.Template.KeyPoints)
}
