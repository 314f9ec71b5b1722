// internal/nlp/tagger_test.go
package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStopwords_Contains(t *testing.T) {
	stop := DefaultStopwords()

	assert.True(t, stop.Contains("the"))
	assert.True(t, stop.Contains("The"))
	assert.True(t, stop.Contains("about"))
	assert.False(t, stop.Contains("photosynthesis"))
	assert.False(t, stop.Contains(""))
}

func TestProseTagger_Tag(t *testing.T) {
	tagger := NewProseTagger()

	tagged, err := tagger.Tag("the cat sat on the mat")
	require.NoError(t, err)
	require.NotEmpty(t, tagged)

	var nouns []string
	for _, tok := range tagged {
		if len(tok.Tag) >= 2 && tok.Tag[:2] == "NN" {
			nouns = append(nouns, tok.Text)
		}
	}
	assert.Contains(t, nouns, "cat")
	assert.Contains(t, nouns, "mat")
}

func TestProseTagger_Tag_Empty(t *testing.T) {
	tagger := NewProseTagger()

	tagged, err := tagger.Tag("")
	require.NoError(t, err)
	assert.Empty(t, tagged)
}
