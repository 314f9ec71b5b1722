// internal/pipeline/pipeline.go

// Package pipeline wires the four answer stages into one request flow:
// classify, retrieve, rank, structure, synthesize.
package pipeline

import (
	"context"
	"strings"
	"time"

	"wikiqa/internal/common/config"
	apperrors "wikiqa/internal/common/errors"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/common/metrics"
	"wikiqa/internal/models"
	"wikiqa/internal/nlp"
	"wikiqa/internal/pipeline/classify"
	"wikiqa/internal/pipeline/rank"
	"wikiqa/internal/pipeline/retrieve"
	"wikiqa/internal/pipeline/structure"
	"wikiqa/internal/pipeline/synthesize"
	"wikiqa/internal/source"
	"wikiqa/internal/textrank"
)

type Pipeline struct {
	classifier  *classify.Classifier
	retriever   *retrieve.Retriever
	ranker      *rank.Ranker
	structurer  *structure.Structurer
	synthesizer *synthesize.Synthesizer
	logger      logger.Logger
}

// New assembles the pipeline from the application config and a document
// source backend.
func New(cfg config.PipelineConfig, src source.DocumentSource, log logger.Logger) *Pipeline {
	stopwords := nlp.DefaultStopwords()
	vectorizer := textrank.NewVectorizer(stopwords)

	return &Pipeline{
		classifier:  classify.NewClassifier(nlp.NewProseTagger(), stopwords, log),
		retriever:   retrieve.NewRetriever(src, retrieve.ConfigFromApp(cfg), log),
		ranker:      rank.NewRanker(vectorizer, rank.ConfigFromApp(cfg), log),
		structurer:  structure.NewStructurer(structure.ConfigFromApp(cfg), log),
		synthesizer: synthesize.NewSynthesizer(log),
		logger:      log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// Answer runs the full pipeline for one question. The only error returns are
// the two terminal conditions (invalid query, no evidence) plus genuinely
// unexpected internal failures; everything else degrades inside the stages.
func (p *Pipeline) Answer(ctx context.Context, query string) (*models.FinalResponse, error) {
	if strings.TrimSpace(query) == "" {
		metrics.QueriesTotal.WithLabelValues("invalid_query").Inc()
		return nil, apperrors.NewInvalidQueryError("query is empty or blank")
	}

	processed, err := p.timeClassify(query)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return nil, apperrors.NewInternalError(err)
	}

	pages, err := p.timeRetrieve(ctx, processed)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return nil, apperrors.NewInternalError(err)
	}
	if len(pages) == 0 {
		metrics.QueriesTotal.WithLabelValues("no_evidence").Inc()
		return nil, apperrors.NewNoEvidenceFoundError("all search terms exhausted without usable candidates")
	}

	passages := p.timeRank(processed, pages)

	analyzed := p.timeStructure(passages, mainTopic(processed))

	start := time.Now()
	response := p.synthesizer.Synthesize(analyzed, processed)
	metrics.StageDuration.WithLabelValues("synthesize").Observe(time.Since(start).Seconds())

	metrics.QueriesTotal.WithLabelValues("answered").Inc()
	p.logger.Info("query answered", map[string]interface{}{
		"questionType": string(processed.QuestionType),
		"candidates":   len(pages),
		"passages":     len(passages),
		"confidence":   response.Confidence,
	})
	return response, nil
}

// mainTopic is the first extracted entity, or the cleaned query when tagging
// found none.
func mainTopic(processed *models.ProcessedQuery) string {
	if len(processed.Entities) > 0 {
		return processed.Entities[0]
	}
	return processed.CleanedText
}

func (p *Pipeline) timeClassify(query string) (*models.ProcessedQuery, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())
	}()
	return p.classifier.Classify(query)
}

func (p *Pipeline) timeRetrieve(ctx context.Context, processed *models.ProcessedQuery) ([]models.CandidatePage, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("retrieve").Observe(time.Since(start).Seconds())
	}()
	return p.retriever.Retrieve(ctx, processed)
}

func (p *Pipeline) timeRank(processed *models.ProcessedQuery, pages []models.CandidatePage) []models.ScoredPassage {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("rank").Observe(time.Since(start).Seconds())
	}()
	return p.ranker.Rank(processed, pages)
}

func (p *Pipeline) timeStructure(passages []models.ScoredPassage, topic string) *models.AnalyzedContent {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("structure").Observe(time.Since(start).Seconds())
	}()
	return p.structurer.Structure(passages, topic)
}
