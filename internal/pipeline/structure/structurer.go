// internal/pipeline/structure/structurer.go

// Package structure merges ranked excerpts into a sectioned answer body with
// a confidence estimate and source citations.
package structure

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"wikiqa/internal/common/logger"
	"wikiqa/internal/models"
	"wikiqa/internal/textrank"
)

const (
	fallbackNoInformation = "I couldn't find any relevant information about this topic."
	fallbackUnstructured  = "I found some information about this topic, but couldn't structure it properly. Here's what I found:\n\n"

	minPointWords   = 5
	rawPreviewRunes = 500
)

var (
	refPattern   = regexp.MustCompile(`\[\d+\]`)
	wsPattern    = regexp.MustCompile(`\s+`)
	hedgePattern = regexp.MustCompile(`(?i)^(it is|this is|there is|there are|they are|we can|you can|one can)\s+`)
)

type Structurer struct {
	config *Config
	logger logger.Logger
}

func NewStructurer(cfg *Config, log logger.Logger) *Structurer {
	return &Structurer{
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"stage": "structure"}),
	}
}

// Structure merges the passages into one blob, detects its topic category and
// renders the key sentences into that category's sections. An empty evidence
// set degrades to a canned answer at zero confidence.
func (s *Structurer) Structure(passages []models.ScoredPassage, mainTopic string) *models.AnalyzedContent {
	var excerpts []string
	for _, p := range passages {
		if p.Excerpt != "" {
			excerpts = append(excerpts, p.Excerpt)
		}
	}
	blob := strings.Join(excerpts, " ")

	if strings.TrimSpace(blob) == "" {
		return &models.AnalyzedContent{
			MainContent: fallbackNoInformation,
			Confidence:  0.0,
			Sources:     []string{},
		}
	}

	topic := detectTopic(mainTopic, blob)
	sections := s.buildSections(blob, topic)
	rendered := renderSections(sections)

	confidence := math.Min(1, float64(textrank.WordCount(rendered))/float64(s.config.ConfidenceNormWords))

	if strings.TrimSpace(rendered) == "" {
		rendered = fallbackUnstructured + truncateRunes(blob, rawPreviewRunes) + "..."
	}

	s.logger.Debug("structured content", map[string]interface{}{
		"topicType":  string(topic),
		"sections":   len(sections),
		"confidence": confidence,
	})

	return &models.AnalyzedContent{
		MainContent: rendered,
		Confidence:  confidence,
		Sources:     formatSources(passages),
	}
}

// buildSections classifies each key sentence into the first section of the
// topic's table whose keywords it contains, defaulting to Information.
func (s *Structurer) buildSections(blob string, topic models.TopicType) []models.StructuredSection {
	table := sectionTables[topic]

	keyPoints := extractKeyPoints(blob)
	if len(keyPoints) == 0 {
		keyPoints = naiveKeyPoints(blob, s.config.MaxPointsPerSection)
	}

	points := make(map[string][]string, len(table))
	for _, point := range keyPoints {
		pointLower := strings.ToLower(point)
		section := "Information"
		for _, sp := range table {
			if containsAny(pointLower, sp.keywords) {
				section = sp.title
				break
			}
		}
		points[section] = append(points[section], point)
	}

	sections := make([]models.StructuredSection, 0, len(table))
	for _, sp := range table {
		if bullets := points[sp.title]; len(bullets) > 0 {
			if len(bullets) > s.config.MaxPointsPerSection {
				bullets = bullets[:s.config.MaxPointsPerSection]
			}
			sections = append(sections, models.StructuredSection{Title: sp.title, Bullets: bullets})
		}
	}
	return sections
}

func renderSections(sections []models.StructuredSection) string {
	var lines []string
	for _, sec := range sections {
		lines = append(lines, fmt.Sprintf("\n%s:", sec.Title))
		for _, b := range sec.Bullets {
			lines = append(lines, fmt.Sprintf("• %s", b))
		}
	}
	return strings.Join(lines, "\n")
}

// extractKeyPoints keeps complete sentences of more than five words, with
// citations removed and leading hedge phrases stripped.
func extractKeyPoints(content string) []string {
	var points []string
	for _, sentence := range splitSentences(content) {
		sentence = cleanSentence(sentence)
		if textrank.WordCount(sentence) <= minPointWords {
			continue
		}
		if !strings.HasSuffix(sentence, ".") && !strings.HasSuffix(sentence, "!") && !strings.HasSuffix(sentence, "?") {
			continue
		}
		points = append(points, hedgePattern.ReplaceAllString(sentence, ""))
	}
	return points
}

// naiveKeyPoints is the fallback when no sentence survives the strict filter.
func naiveKeyPoints(content string, limit int) []string {
	var points []string
	for _, s := range strings.Split(content, ".") {
		s = strings.TrimSpace(s)
		if textrank.WordCount(s) > minPointWords {
			points = append(points, s)
		}
		if len(points) == limit {
			break
		}
	}
	return points
}

// splitSentences breaks text after terminal punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) &&
			(runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n' || runes[i+1] == '\r') {
			sentences = append(sentences, string(runes[start:i+1]))
			for i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n' || runes[i+1] == '\r') {
				i++
			}
			start = i + 1
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

// cleanSentence normalizes whitespace and trims stray leading punctuation
// while keeping the terminal punctuation intact.
func cleanSentence(s string) string {
	s = refPattern.ReplaceAllString(s, "")
	s = wsPattern.ReplaceAllString(s, " ")
	s = strings.TrimLeft(s, ".,;: ")
	return strings.TrimRight(s, ",;: ")
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func formatSources(passages []models.ScoredPassage) []string {
	sources := make([]string, 0, len(passages))
	for _, p := range passages {
		if p.Title != "" && p.URL != "" {
			sources = append(sources, fmt.Sprintf("%s - %s", p.Title, p.URL))
		}
	}
	return sources
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
