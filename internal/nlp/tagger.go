// internal/nlp/tagger.go
package nlp

import (
	"fmt"

	"github.com/jdkato/prose/v2"
)

// TaggedToken is a token paired with its Penn Treebank part-of-speech tag.
type TaggedToken struct {
	Text string
	Tag  string
}

// Tagger tokenizes text and tags parts of speech. The pipeline consumes this
// as a capability and never inspects anything beyond the token/tag pairs.
type Tagger interface {
	Tag(text string) ([]TaggedToken, error)
}

// ProseTagger implements Tagger on top of the prose NLP library.
type ProseTagger struct{}

// NewProseTagger returns a ready-to-use ProseTagger.
func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

// Tag tokenizes and POS-tags the given text.
func (t *ProseTagger) Tag(text string) ([]TaggedToken, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("tagging text: %w", err)
	}

	tokens := doc.Tokens()
	tagged := make([]TaggedToken, 0, len(tokens))
	for _, tok := range tokens {
		tagged = append(tagged, TaggedToken{Text: tok.Text, Tag: tok.Tag})
	}
	return tagged, nil
}
