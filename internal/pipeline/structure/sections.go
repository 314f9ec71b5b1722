// internal/pipeline/structure/sections.go
package structure

import (
	"strings"

	"wikiqa/internal/models"
)

// sectionPattern binds a section title to the keywords that pull a sentence
// into it. Order matters: classification takes the first matching section and
// every table ends with the catch-all Information section.
type sectionPattern struct {
	title    string
	keywords []string
}

var sectionTables = map[models.TopicType][]sectionPattern{
	models.TopicGeography: {
		{"Overview", []string{"overview", "introduction", "about", "general", "basic"}},
		{"Location", []string{"located", "situated", "found in", "position", "coordinates"}},
		{"Physical Features", []string{"mountain", "river", "lake", "climate", "terrain", "landscape"}},
		{"History", []string{"history", "historical", "founded", "established", "discovered"}},
		{"Culture", []string{"culture", "people", "population", "language", "traditions"}},
		{"Information", []string{"information", "details", "facts", "data", "statistics"}},
	},
	models.TopicScience: {
		{"Overview", []string{"overview", "introduction", "about", "general", "basic"}},
		{"Definition", []string{"defined as", "refers to", "means", "is a", "consists of"}},
		{"Process", []string{"process", "how it works", "mechanism", "steps", "stages"}},
		{"Applications", []string{"used in", "applied to", "applications", "uses", "practical"}},
		{"Research", []string{"studies", "research", "experiments", "findings", "discoveries"}},
		{"Information", []string{"information", "details", "facts", "data", "statistics"}},
	},
	models.TopicHistory: {
		{"Overview", []string{"overview", "introduction", "about", "general", "basic"}},
		{"Background", []string{"background", "context", "situation", "circumstances"}},
		{"Events", []string{"event", "occurred", "happened", "took place", "began"}},
		{"Impact", []string{"impact", "effect", "influence", "consequences", "resulted in"}},
		{"Significance", []string{"significant", "important", "notable", "memorable", "historic"}},
		{"Information", []string{"information", "details", "facts", "data", "statistics"}},
	},
	models.TopicTool: {
		{"Overview", []string{"overview", "introduction", "about", "general", "basic"}},
		{"Definition", []string{"defined as", "refers to", "means", "is a", "consists of", "tool", "device", "instrument"}},
		{"History", []string{"history", "historical", "origin", "developed", "invented", "created", "first used"}},
		{"Usage", []string{"how to use", "operation", "function", "purpose", "used for", "application"}},
		{"Components", []string{"parts", "components", "structure", "made of", "constructed", "design"}},
		{"Benefits", []string{"benefits", "advantages", "importance", "significance", "value", "useful"}},
		{"Information", []string{"information", "details", "facts", "data", "statistics"}},
	},
	models.TopicGeneral: {
		{"Overview", []string{"overview", "introduction", "about", "general", "basic"}},
		{"Details", []string{"details", "specifics", "particulars", "characteristics", "features"}},
		{"Examples", []string{"example", "instance", "case", "illustration", "sample"}},
		{"Related", []string{"related", "connected", "associated", "similar", "relevant"}},
		{"Information", []string{"information", "details", "facts", "data", "statistics"}},
	},
}

// Topic indicator terms, checked in priority order.
var topicIndicators = []struct {
	topic models.TopicType
	terms []string
}{
	{models.TopicTool, []string{
		"tool", "device", "instrument", "machine", "apparatus",
		"calculator", "abacus", "compass", "ruler", "protractor",
		"used for", "purpose", "function", "operation",
	}},
	{models.TopicScience, []string{
		"species", "genus", "family", "animal", "plant", "organism",
		"theory", "process", "phenomenon", "principle", "law", "concept",
		"biology", "chemistry", "physics", "science", "scientific",
	}},
	{models.TopicGeography, []string{
		"country", "city", "mountain", "river", "lake", "ocean", "continent",
	}},
	{models.TopicHistory, []string{
		"war", "battle", "period", "era", "century", "dynasty", "revolution",
	}},
}

// detectTopic classifies the whole evidence blob. A keyword hit in either the
// main topic or the content decides the category; no hit means general.
func detectTopic(mainTopic, content string) models.TopicType {
	topicLower := strings.ToLower(mainTopic)
	contentLower := strings.ToLower(content)

	for _, ti := range topicIndicators {
		for _, term := range ti.terms {
			if strings.Contains(topicLower, term) || strings.Contains(contentLower, term) {
				return ti.topic
			}
		}
	}
	return models.TopicGeneral
}
