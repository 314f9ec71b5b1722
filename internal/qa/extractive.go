// internal/qa/extractive.go

// Package qa wraps an external extractive question-answering service. Like
// semcache it is auxiliary tooling: the answer pipeline does not depend on
// it.
package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"wikiqa/internal/common/config"
	"wikiqa/internal/common/httpclient"
	"wikiqa/internal/common/logger"
)

var (
	ErrExtractionFailed = errors.New("QA_EXTRACTION_FAILED")

	wsPattern      = regexp.MustCompile(`\s+`)
	specialPattern = regexp.MustCompile(`[^\w\s.,!?-]`)

	comparisonPatterns = []*regexp.Regexp{
		regexp.MustCompile(`compare\s+(\w+)\s+and\s+(\w+)`),
		regexp.MustCompile(`difference\s+between\s+(\w+)\s+and\s+(\w+)`),
		regexp.MustCompile(`(\w+)\s+versus\s+(\w+)`),
		regexp.MustCompile(`(\w+)\s+vs\s+(\w+)`),
	}
)

const comparisonConfidenceFloor = 0.5

// Answer is one extracted span with its confidence and character offsets.
type Answer struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
}

type Client struct {
	endpoint string
	client   *httpclient.Client
	logger   logger.Logger
}

func NewClient(cfg config.QAConfig, log logger.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		client:   httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		logger:   log.WithFields(map[string]interface{}{"component": "qa"}),
	}
}

type extractRequest struct {
	Question               string `json:"question"`
	Context                string `json:"context"`
	MaxAnswerLen           int    `json:"max_answer_len"`
	HandleImpossibleAnswer bool   `json:"handle_impossible_answer"`
}

type extractResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// ExtractAnswer asks the QA service for the best answer span in the context.
func (c *Client) ExtractAnswer(ctx context.Context, question, passage string) (*Answer, error) {
	body, _ := json.Marshal(extractRequest{
		Question:               question,
		Context:                cleanContext(passage),
		MaxAnswerLen:           100,
		HandleImpossibleAnswer: true,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrExtractionFailed, resp.StatusCode)
	}

	var parsed extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	return &Answer{
		Answer:     parsed.Answer,
		Confidence: parsed.Score,
		Start:      parsed.Start,
		End:        parsed.End,
	}, nil
}

// ExtractComparison answers "compare X and Y" style questions by extracting
// a definition of each term from the contexts and joining the best ones.
func (c *Client) ExtractComparison(ctx context.Context, query string, contexts []string) (*Answer, error) {
	terms := extractComparisonTerms(query)
	if len(terms) < 2 {
		return &Answer{Answer: "Could not identify terms to compare.", Confidence: 0.0}, nil
	}

	type termAnswer struct {
		term       string
		answer     string
		confidence float64
	}
	var answers []termAnswer
	for _, term := range terms {
		for _, passage := range contexts {
			ans, err := c.ExtractAnswer(ctx, fmt.Sprintf("What is %s?", term), passage)
			if err != nil {
				c.logger.WithError(err).Warn("comparison extraction failed", map[string]interface{}{"term": term})
				continue
			}
			if ans.Confidence > comparisonConfidenceFloor {
				answers = append(answers, termAnswer{term: term, answer: ans.Answer, confidence: ans.Confidence})
			}
		}
	}

	if len(answers) == 0 {
		return &Answer{Answer: "Could not find sufficient information for comparison.", Confidence: 0.0}, nil
	}

	// Best answer per term, terms in query order.
	best := make(map[string]termAnswer)
	var order []string
	minConfidence := answers[0].confidence
	for _, a := range answers {
		if a.confidence < minConfidence {
			minConfidence = a.confidence
		}
		current, seen := best[a.term]
		if !seen {
			order = append(order, a.term)
		}
		if !seen || a.confidence > current.confidence {
			best[a.term] = a
		}
	}

	lines := make([]string, 0, len(order))
	for _, term := range order {
		lines = append(lines, fmt.Sprintf("%s: %s", capitalize(term), best[term].answer))
	}

	return &Answer{Answer: strings.Join(lines, "\n\n"), Confidence: minConfidence}, nil
}

func extractComparisonTerms(query string) []string {
	lower := strings.ToLower(query)
	for _, p := range comparisonPatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			return []string{m[1], m[2]}
		}
	}
	return nil
}

// cleanContext normalizes whitespace and drops characters the QA service
// tokenizer chokes on.
func cleanContext(passage string) string {
	passage = wsPattern.ReplaceAllString(passage, " ")
	passage = specialPattern.ReplaceAllString(passage, "")
	return strings.TrimSpace(passage)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
