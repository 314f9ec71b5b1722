// internal/pipeline/retrieve/retriever.go

// Package retrieve resolves a typed query against the document source and
// assembles candidate page content for ranking.
package retrieve

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	apperrors "wikiqa/internal/common/errors"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/common/metrics"
	"wikiqa/internal/models"
	"wikiqa/internal/source"
	"wikiqa/internal/textrank"
)

const (
	directSeed    = 1.0
	searchTopSeed = 0.9
	searchSeedGap = 0.1
)

var (
	punctPattern   = regexp.MustCompile(`[?.,!]`)
	termPrefix     = regexp.MustCompile(`(?i)^(what is|who is|define|explain|how did|why did|let me explain)\s+`)
	refPattern     = regexp.MustCompile(`\[\d+\]`)
	headingPattern = regexp.MustCompile(`==+.*?==+`)
	wsPattern      = regexp.MustCompile(`\s+`)
)

// Section titles skipped during content assembly.
var boilerplateSections = []string{"see also", "references", "external links", "notes"}

type Retriever struct {
	source source.DocumentSource
	config *Config
	logger logger.Logger
}

func NewRetriever(src source.DocumentSource, cfg *Config, log logger.Logger) *Retriever {
	return &Retriever{
		source: src,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"stage": "retrieve"}),
	}
}

type seedCandidate struct {
	ref  *source.PageRef
	seed float64
}

// Retrieve collects candidate pages for the query. Each search term is tried
// in turn: the normalized term is resolved directly first, and only when that
// misses are its surface variants searched. Per-term failures degrade to
// fewer candidates, and an empty result is returned without error so the
// caller can decide the terminal outcome.
func (r *Retriever) Retrieve(ctx context.Context, query *models.ProcessedQuery) ([]models.CandidatePage, error) {
	seeds := r.collectSeeds(ctx, query)
	deduped := dedupeSeeds(seeds, r.config.MaxCandidates)
	return r.fetchCandidates(ctx, deduped), nil
}

func (r *Retriever) collectSeeds(ctx context.Context, query *models.ProcessedQuery) []seedCandidate {
	terms := append([]string{query.CleanedText}, query.AlternativePhrasings...)

	var seeds []seedCandidate
	for _, term := range terms {
		cleaned := cleanSearchTerm(term)
		if cleaned == "" {
			continue
		}

		ref, err := r.source.Resolve(ctx, cleaned)
		switch {
		case err == nil:
			if !isDisambiguation(ref) {
				seeds = append(seeds, seedCandidate{ref: ref, seed: directSeed})
				continue
			}
		case !errors.Is(err, source.ErrPageNotFound):
			r.degrade(resolveError(cleaned, err))
			continue
		}

		termSeeds, err := r.searchTerm(ctx, cleaned)
		if err != nil {
			r.degrade(searchError(cleaned, err))
			continue
		}
		seeds = append(seeds, termSeeds...)
	}
	return seeds
}

func (r *Retriever) searchTerm(ctx context.Context, term string) ([]seedCandidate, error) {
	var seeds []seedCandidate
	seen := make(map[string]bool)

	for _, variant := range titleVariants(term) {
		if seen[variant] {
			continue
		}
		seen[variant] = true

		hits, err := r.source.Search(ctx, variant, r.config.SearchLimit)
		if err != nil {
			return nil, err
		}

		for idx, hit := range hits {
			ref, err := r.source.Resolve(ctx, hit.Title)
			if err != nil {
				if !errors.Is(err, source.ErrPageNotFound) {
					r.degrade(resolveError(hit.Title, err))
				}
				continue
			}
			if isDisambiguation(ref) {
				continue
			}
			seeds = append(seeds, seedCandidate{
				ref:  ref,
				seed: searchTopSeed - searchSeedGap*float64(idx),
			})
		}
	}
	return seeds, nil
}

// dedupeSeeds keeps the highest seed per title and returns the top limit
// candidates by seed.
func dedupeSeeds(seeds []seedCandidate, limit int) []seedCandidate {
	sort.SliceStable(seeds, func(i, j int) bool {
		return seeds[i].seed > seeds[j].seed
	})

	seen := make(map[string]bool, len(seeds))
	deduped := make([]seedCandidate, 0, limit)
	for _, sc := range seeds {
		if seen[sc.ref.Title] {
			continue
		}
		seen[sc.ref.Title] = true
		deduped = append(deduped, sc)
		if len(deduped) == limit {
			break
		}
	}
	return deduped
}

func (r *Retriever) fetchCandidates(ctx context.Context, seeds []seedCandidate) []models.CandidatePage {
	results := make([]*models.CandidatePage, len(seeds))

	sem := make(chan struct{}, r.config.MaxConcurrentFetches)
	var wg sync.WaitGroup
	for i, sc := range seeds {
		wg.Add(1)
		go func(i int, sc seedCandidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			article, err := r.source.Fetch(ctx, sc.ref.Title)
			if err != nil {
				r.degrade(resolveError(sc.ref.Title, err))
				return
			}

			content := r.assembleContent(article)
			if strings.TrimSpace(content) == "" {
				return
			}

			results[i] = &models.CandidatePage{
				Title:         article.Title,
				PageID:        article.PageID,
				SeedRelevance: sc.seed,
				Content:       content,
				URL:           article.URL,
			}
		}(i, sc)
	}
	wg.Wait()

	pages := make([]models.CandidatePage, 0, len(seeds))
	for _, p := range results {
		if p != nil {
			pages = append(pages, *p)
		}
	}
	return pages
}

// assembleContent joins the summary and non-boilerplate sections. When the
// result is short, the raw article body is appended so thin pages still give
// the ranker something to score.
func (r *Retriever) assembleContent(article *source.Article) string {
	var parts []string
	if cleaned := cleanSectionText(article.Summary); cleaned != "" {
		parts = append(parts, cleaned)
	}
	for _, sec := range article.Sections {
		if isBoilerplate(sec.Title) {
			continue
		}
		if cleaned := cleanSectionText(sec.Text); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}

	content := strings.Join(parts, "\n\n")
	if textrank.WordCount(content) < r.config.MinFullTextWords && article.FullText != "" {
		full := refPattern.ReplaceAllString(article.FullText, "")
		full = headingPattern.ReplaceAllString(full, "")
		full = strings.TrimSpace(wsPattern.ReplaceAllString(full, " "))
		if full != "" {
			content = strings.TrimSpace(content + "\n\n" + full)
		}
	}
	return content
}

// degrade records a per-item failure that the stage absorbs instead of
// aborting the batch.
func (r *Retriever) degrade(cause *apperrors.StandardError) {
	metrics.StageDegradations.WithLabelValues("retrieve", string(cause.Code)).Inc()
	stageErr := apperrors.NewStageDegradedError("retrieve", cause)
	r.logger.WithError(stageErr).Warn(cause.Message, map[string]interface{}{"details": cause.Details})
}

func resolveError(title string, err error) *apperrors.StandardError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewSourceTimeoutError("resolve " + title)
	}
	return apperrors.NewSourceLookupFailedError(title, err)
}

func searchError(term string, err error) *apperrors.StandardError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewSourceTimeoutError("search " + term)
	}
	return apperrors.NewSourceSearchFailedError(term, err)
}

func isBoilerplate(title string) bool {
	lower := strings.ToLower(title)
	for _, b := range boilerplateSections {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

func isDisambiguation(ref *source.PageRef) bool {
	if strings.Contains(strings.ToLower(ref.Title), "(disambiguation)") {
		return true
	}
	head := ref.Summary
	if len(head) > 100 {
		head = head[:100]
	}
	return strings.Contains(head, "may refer to:")
}

func cleanSectionText(text string) string {
	text = refPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(wsPattern.ReplaceAllString(text, " "))
}

// cleanSearchTerm normalizes the raw question into a title lookup: strip
// punctuation and the question prefix, then capitalize each word.
func cleanSearchTerm(query string) string {
	term := punctPattern.ReplaceAllString(query, "")
	term = termPrefix.ReplaceAllString(term, "")
	term = strings.TrimSpace(wsPattern.ReplaceAllString(term, " "))
	return titleCase(term)
}

func titleVariants(term string) []string {
	return []string{
		term,
		strings.ReplaceAll(term, " ", "_"),
		titleCase(term),
		strings.ToLower(term),
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
