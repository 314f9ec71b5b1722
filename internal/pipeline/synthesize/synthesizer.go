// internal/pipeline/synthesize/synthesizer.go

// Package synthesize renders structured evidence into the final answer
// payload. It never fails: missing content degrades to a canned apology at
// zero confidence.
package synthesize

import (
	"errors"
	"fmt"

	apperrors "wikiqa/internal/common/errors"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/models"
)

const (
	apologyNoInformation = "I apologize, but I couldn't find enough relevant information to answer your question."
	apologyError         = "I apologize, but I encountered an error while processing your query. Please try again."
)

// All question types currently share the same rendering shape; the map keeps
// the selection explicit so a type can diverge without touching the flow.
var responseTemplates = map[models.QuestionType]string{
	models.QuestionDefinition:  "%s\n\n%s",
	models.QuestionFactual:     "%s\n\n%s",
	models.QuestionProcess:     "%s\n\n%s",
	models.QuestionExplanation: "%s\n\n%s",
	models.QuestionComparison:  "%s\n\n%s",
}

type Synthesizer struct {
	logger logger.Logger
}

func NewSynthesizer(log logger.Logger) *Synthesizer {
	return &Synthesizer{
		logger: log.WithFields(map[string]interface{}{"stage": "synthesize"}),
	}
}

// Synthesize fills the question type's template with the structured content.
// Confidence and sources pass through unchanged.
func (s *Synthesizer) Synthesize(analyzed *models.AnalyzedContent, query *models.ProcessedQuery) *models.FinalResponse {
	if analyzed == nil || analyzed.MainContent == "" {
		return &models.FinalResponse{
			Response:   apologyNoInformation,
			Confidence: 0.0,
			Sources:    []string{},
		}
	}
	if query == nil {
		synthErr := apperrors.NewSynthesisFailedError(errors.New("missing processed query"))
		s.logger.WithError(synthErr).Error("rendering failed", nil)
		return errorResponse()
	}

	template, ok := responseTemplates[query.QuestionType]
	if !ok {
		template = responseTemplates[models.QuestionExplanation]
	}

	topic := query.CleanedText
	if topic == "" {
		topic = "this topic"
	}
	intro := fmt.Sprintf("Let me explain %s:", topic)

	sources := analyzed.Sources
	if sources == nil {
		sources = []string{}
	}

	return &models.FinalResponse{
		Response:   fmt.Sprintf(template, intro, analyzed.MainContent),
		Confidence: analyzed.Confidence,
		Sources:    sources,
	}
}

func errorResponse() *models.FinalResponse {
	return &models.FinalResponse{
		Response:   apologyError,
		Confidence: 0.0,
		Sources:    []string{},
	}
}
