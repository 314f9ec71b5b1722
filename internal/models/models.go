// internal/models/models.go
package models

// QuestionType classifies the intent of a query. Classification tests a fixed,
// ordered list of prefix patterns; the first match wins and unmatched queries
// fall back to QuestionExplanation.
type QuestionType string

const (
	QuestionDefinition  QuestionType = "DEFINITION"
	QuestionFactual     QuestionType = "FACTUAL"
	QuestionProcess     QuestionType = "PROCESS"
	QuestionExplanation QuestionType = "EXPLANATION"
	QuestionComparison  QuestionType = "COMPARISON"
)

// TopicType selects the section-title vocabulary used when structuring
// retrieved content.
type TopicType string

const (
	TopicTool      TopicType = "TOOL"
	TopicScience   TopicType = "SCIENCE"
	TopicGeography TopicType = "GEOGRAPHY"
	TopicHistory   TopicType = "HISTORY"
	TopicGeneral   TopicType = "GENERAL"
)

// ResponseTemplate is the fixed three-part template attached to a
// ProcessedQuery by question type.
type ResponseTemplate struct {
	Intro     string `json:"intro"`
	KeyPoints string `json:"keyPoints"`
	Context   string `json:"context"`
}

// ProcessedQuery is the structured result of classifying and expanding a raw
// question. Entities keep appearance order and may contain duplicates.
type ProcessedQuery struct {
	OriginalText          string           `json:"originalText"`
	CleanedText           string           `json:"cleanedText"`
	QuestionType          QuestionType     `json:"questionType"`
	Entities              []string         `json:"entities"`
	AlternativePhrasings  []string         `json:"alternativePhrasings"`
	Template              ResponseTemplate `json:"template"`
}

// CandidatePage is a retrieved article stub. Content and URL are populated by
// the fetch stage; the whole record is request-scoped and never persisted.
type CandidatePage struct {
	Title         string  `json:"title"`
	PageID        int64   `json:"pageId"`
	SeedRelevance float64 `json:"seedRelevance"`
	Content       string  `json:"content,omitempty"`
	URL           string  `json:"url,omitempty"`
}

// ScoredPassage is a candidate reduced to its most relevant excerpt with a
// final relevance score in [0,1]. Only passages scoring >= 0.3 survive.
type ScoredPassage struct {
	Title   string  `json:"title"`
	Excerpt string  `json:"excerpt"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
}

// StructuredSection is one titled block of the rendered answer, holding up to
// five short statements.
type StructuredSection struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// AnalyzedContent is the sectioned evidence blob plus confidence and source
// citations ("title - url", in passage order).
type AnalyzedContent struct {
	MainContent string   `json:"mainContent"`
	Confidence  float64  `json:"confidence"`
	Sources     []string `json:"sources"`
}

// FinalResponse is the terminal artifact returned to the caller.
type FinalResponse struct {
	Response   string   `json:"response"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}
