// internal/pipeline/rank/ranker.go

// Package rank scores candidate pages against the question and extracts the
// most relevant excerpt from each survivor.
package rank

import (
	"math"
	"regexp"
	"strings"

	"wikiqa/internal/common/logger"
	"wikiqa/internal/models"
	"wikiqa/internal/textrank"
)

const (
	similarityWeight = 0.4
	lengthWeight     = 0.3
	termBoostWeight  = 0.3
	termBoostStep    = 0.2

	excerptParagraphs = 3
	excerptSentences  = 5
	minSentenceWords  = 5
)

var sentenceDelim = regexp.MustCompile(`[.!?]+`)

type Ranker struct {
	vectorizer *textrank.Vectorizer
	config     *Config
	logger     logger.Logger
}

func NewRanker(vectorizer *textrank.Vectorizer, cfg *Config, log logger.Logger) *Ranker {
	return &Ranker{
		vectorizer: vectorizer,
		config:     cfg,
		logger:     log.WithFields(map[string]interface{}{"stage": "rank"}),
	}
}

// Rank scores every candidate, drops those under the relevance floor and
// returns the survivors best first, each reduced to an excerpt.
func (r *Ranker) Rank(query *models.ProcessedQuery, pages []models.CandidatePage) []models.ScoredPassage {
	var passages []models.ScoredPassage
	for _, page := range pages {
		score := r.score(query.OriginalText, page.Content)
		if score < r.config.MinRelevance {
			continue
		}
		passages = append(passages, models.ScoredPassage{
			Title:   page.Title,
			Excerpt: r.extractExcerpt(query.OriginalText, page.Content),
			URL:     page.URL,
			Score:   score,
		})
	}

	// Insertion sort descending, stable for equal scores.
	for i := 1; i < len(passages); i++ {
		for j := i; j > 0 && passages[j-1].Score < passages[j].Score; j-- {
			passages[j-1], passages[j] = passages[j], passages[j-1]
		}
	}

	r.logger.Debug("ranked candidates", map[string]interface{}{
		"candidates": len(pages),
		"kept":       len(passages),
	})
	return passages
}

// score blends text similarity, content length and query term coverage into a
// single clamped relevance value.
func (r *Ranker) score(query, content string) float64 {
	similarity := r.vectorizer.Similarity(query, content)

	lengthFactor := math.Min(1, float64(textrank.WordCount(content))/float64(r.config.LengthNormWords))

	termBoost := 1.0
	contentLower := strings.ToLower(content)
	seen := make(map[string]bool)
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if seen[term] {
			continue
		}
		seen[term] = true
		if strings.Contains(contentLower, term) {
			termBoost += termBoostStep
		}
	}

	score := similarityWeight*similarity + lengthWeight*lengthFactor + termBoostWeight*termBoost
	return math.Min(1, score)
}

// extractExcerpt picks the paragraphs most similar to the question. When they
// are too thin to stand alone it falls back to the first substantial
// sentences of the page.
func (r *Ranker) extractExcerpt(query, content string) string {
	var paragraphs []string
	for _, p := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return ""
	}

	sims := r.vectorizer.Similarities(query, paragraphs)
	top := textrank.TopIndices(sims, excerptParagraphs)

	selected := make([]string, 0, len(top))
	words := 0
	for _, idx := range top {
		selected = append(selected, paragraphs[idx])
		words += textrank.WordCount(paragraphs[idx])
	}

	if words < r.config.MinExcerptWords {
		return r.topSentences(query, content)
	}
	return strings.Join(selected, "\n\n")
}

// topSentences ranks substantial sentences by similarity to the question and
// joins the best ones back into prose.
func (r *Ranker) topSentences(query, content string) string {
	var sentences []string
	for _, s := range sentenceDelim.Split(content, -1) {
		s = strings.TrimSpace(s)
		if textrank.WordCount(s) > minSentenceWords {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return ""
	}

	sims := r.vectorizer.Similarities(query, sentences)
	top := textrank.TopIndices(sims, excerptSentences)

	kept := make([]string, 0, len(top))
	for _, idx := range top {
		kept = append(kept, sentences[idx])
	}
	return strings.Join(kept, ". ") + "."
}
