// internal/textrank/tfidf.go

// Package textrank scores text similarity with per-comparison TF-IDF vectors.
// Vectorizer state never outlives a single comparison, so concurrent requests
// share nothing.
package textrank

import (
	"math"
	"regexp"
	"strings"

	"wikiqa/internal/nlp"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9][a-z0-9]+`)

// Vectorizer builds TF-IDF vectors over a small, request-local corpus.
type Vectorizer struct {
	stopwords nlp.Stopwords
}

// NewVectorizer returns a Vectorizer that ignores the given stopwords.
func NewVectorizer(stop nlp.Stopwords) *Vectorizer {
	return &Vectorizer{stopwords: stop}
}

func (v *Vectorizer) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if v.stopwords.Contains(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Similarity computes the TF-IDF cosine similarity between two texts, fitting
// the vocabulary on just that pair.
func (v *Vectorizer) Similarity(a, b string) float64 {
	sims := v.Similarities(a, []string{b})
	return sims[0]
}

// Similarities fits a vocabulary over the query plus all docs and returns the
// cosine similarity of each doc against the query, in doc order.
func (v *Vectorizer) Similarities(query string, docs []string) []float64 {
	corpus := make([][]string, 0, len(docs)+1)
	corpus = append(corpus, v.tokenize(query))
	for _, d := range docs {
		corpus = append(corpus, v.tokenize(d))
	}

	vocab := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool, len(doc))
		for _, tok := range doc {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	n := float64(len(corpus))
	idf := make([]float64, len(vocab))
	for tok, idx := range vocab {
		// Smoothed idf, so terms present in every document still count.
		idf[idx] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}

	vectors := make([][]float64, len(corpus))
	for i, doc := range corpus {
		vec := make([]float64, len(vocab))
		for _, tok := range doc {
			vec[vocab[tok]] += 1
		}
		for j := range vec {
			vec[j] *= idf[j]
		}
		normalize(vec)
		vectors[i] = vec
	}

	sims := make([]float64, len(docs))
	for i := 1; i < len(vectors); i++ {
		sims[i-1] = dot(vectors[0], vectors[i])
	}
	return sims
}

// TopIndices returns the indices of the count highest values in sims, ordered
// descending by value. Ties keep the later index first, matching a reverse
// scan over an ascending sort.
func TopIndices(sims []float64, count int) []int {
	indices := make([]int, len(sims))
	for i := range indices {
		indices[i] = i
	}
	// Insertion sort ascending by value; stable, then read back-to-front.
	for i := 1; i < len(indices); i++ {
		for j := i; j > 0 && sims[indices[j-1]] > sims[indices[j]]; j-- {
			indices[j-1], indices[j] = indices[j], indices[j-1]
		}
	}

	if count > len(indices) {
		count = len(indices)
	}
	top := make([]int, 0, count)
	for i := len(indices) - 1; i >= len(indices)-count; i-- {
		top = append(top, indices[i])
	}
	return top
}

func normalize(vec []float64) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
