// internal/pipeline/classify/classifier.go

// Package classify turns raw user questions into a typed query: question
// category, topical entities, alternative search phrasings and the response
// template the later stages render into.
package classify

import (
	"regexp"
	"strings"

	"wikiqa/internal/common/logger"
	"wikiqa/internal/models"
	"wikiqa/internal/nlp"
)

// Ordered by priority: the first matching pattern wins, so "what is" lands on
// definition before the broader factual pattern can claim it.
var questionPatterns = []struct {
	qtype   models.QuestionType
	pattern *regexp.Regexp
}{
	{models.QuestionDefinition, regexp.MustCompile(`^(what is|define|explain|tell me about|describe|what are|what does)\s+`)},
	{models.QuestionFactual, regexp.MustCompile(`^(what|when|where|who|how|why)\s+`)},
	{models.QuestionProcess, regexp.MustCompile(`^(how to|how do|steps to|process of|how does|how can)\s+`)},
	{models.QuestionExplanation, regexp.MustCompile(`^(why|explain why|reason for|what causes|what makes|let me explain|explain)\s+`)},
	{models.QuestionComparison, regexp.MustCompile(`^(compare|difference between|versus|vs|similarities between|differences between)\s+`)},
}

var questionPrefix = regexp.MustCompile(`^(what is|define|explain|tell me about|how to|how do|steps to|process of|why|explain why|reason for|compare|difference between|versus|vs|let me explain)\s+`)

var responseTemplates = map[models.QuestionType]models.ResponseTemplate{
	models.QuestionDefinition: {
		Intro:     "Here's what I found about %s:",
		KeyPoints: "Key points:",
		Context:   "Additional context:",
	},
	models.QuestionFactual: {
		Intro:     "Here's what I found:",
		KeyPoints: "Key points:",
		Context:   "Additional information:",
	},
	models.QuestionProcess: {
		Intro:     "Here's how it works:",
		KeyPoints: "Key steps:",
		Context:   "Important notes:",
	},
	models.QuestionExplanation: {
		Intro:     "Here's what I found about %s:",
		KeyPoints: "Key points:",
		Context:   "Additional context:",
	},
	models.QuestionComparison: {
		Intro:     "Here's the comparison:",
		KeyPoints: "Key differences:",
		Context:   "Additional context:",
	},
}

// Classifier analyzes user questions without touching the network.
type Classifier struct {
	tagger    nlp.Tagger
	stopwords nlp.Stopwords
	logger    logger.Logger
}

func NewClassifier(tagger nlp.Tagger, stop nlp.Stopwords, log logger.Logger) *Classifier {
	return &Classifier{
		tagger:    tagger,
		stopwords: stop,
		logger:    log.WithFields(map[string]interface{}{"stage": "classify"}),
	}
}

// Classify produces the typed query for a raw question. The caller is
// responsible for rejecting blank input first.
func (c *Classifier) Classify(query string) (*models.ProcessedQuery, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))

	qtype := detectType(normalized)
	base := questionPrefix.ReplaceAllString(normalized, "")

	entities, err := c.extractEntities(normalized)
	if err != nil {
		return nil, err
	}

	processed := &models.ProcessedQuery{
		OriginalText:         query,
		CleanedText:          normalized,
		QuestionType:         qtype,
		Entities:             entities,
		AlternativePhrasings: alternativePhrasings(qtype, base),
		Template:             responseTemplates[qtype],
	}

	c.logger.Debug("classified query", map[string]interface{}{
		"questionType": string(qtype),
		"entities":     entities,
	})
	return processed, nil
}

func detectType(normalized string) models.QuestionType {
	for _, qp := range questionPatterns {
		if qp.pattern.MatchString(normalized) {
			return qp.qtype
		}
	}
	return models.QuestionExplanation
}

// extractEntities keeps every noun token over two characters that is not a
// stopword, preserving question order and duplicates.
func (c *Classifier) extractEntities(normalized string) ([]string, error) {
	tagged, err := c.tagger.Tag(normalized)
	if err != nil {
		return nil, err
	}

	var entities []string
	for _, tok := range tagged {
		if !strings.HasPrefix(tok.Tag, "NN") {
			continue
		}
		if c.stopwords.Contains(tok.Text) || len(tok.Text) <= 2 {
			continue
		}
		entities = append(entities, tok.Text)
	}
	return entities, nil
}

func alternativePhrasings(qtype models.QuestionType, base string) []string {
	switch qtype {
	case models.QuestionDefinition:
		return []string{
			"what is " + base,
			"define " + base,
			"explain " + base,
			"describe " + base,
			"what are the characteristics of " + base,
		}
	case models.QuestionFactual:
		return []string{
			"what is " + base,
			"information about " + base,
			"details about " + base,
			"tell me about " + base,
			"what are the facts about " + base,
		}
	case models.QuestionProcess:
		return []string{
			"how to " + base,
			"steps to " + base,
			"process of " + base,
			"how does " + base + " work",
			"what is the process of " + base,
		}
	case models.QuestionComparison:
		return []string{
			"compare " + base,
			"differences between " + base,
			"similarities between " + base,
			"how does " + base + " compare",
			"what are the differences in " + base,
		}
	default:
		return []string{
			"explain " + base,
			"tell me about " + base,
			"what is " + base,
			"describe " + base,
			"what are the key aspects of " + base,
		}
	}
}
