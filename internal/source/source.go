// internal/source/source.go

// Package source abstracts the encyclopedia backend behind a small lookup and
// search interface. The MediaWiki Action API is the default backend; an
// Elasticsearch index of pre-ingested articles is the alternative.
package source

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrPageNotFound is returned when a title resolves to no page.
var ErrPageNotFound = errors.New("PAGE_NOT_FOUND")

// PageRef is the lightweight view of a page used during candidate
// verification: enough to check existence and disambiguation without pulling
// the full article body.
type PageRef struct {
	Title   string `json:"title"`
	PageID  int64  `json:"pageId"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// Section is one top-level article section.
type Section struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Article is the full page view used for content assembly.
type Article struct {
	Title    string    `json:"title"`
	PageID   int64     `json:"pageId"`
	Summary  string    `json:"summary"`
	Sections []Section `json:"sections"`
	FullText string    `json:"fullText"`
	URL      string    `json:"url"`
}

// SearchHit is a single keyword search result, in backend ranking order.
type SearchHit struct {
	Title  string `json:"title"`
	PageID int64  `json:"pageId"`
}

// DocumentSource is the encyclopedia backend consumed by the retrieval stage.
type DocumentSource interface {
	// Resolve returns the page summary view for an exact title, following
	// redirects. Returns ErrPageNotFound when the title has no page.
	Resolve(ctx context.Context, title string) (*PageRef, error)

	// Fetch returns the full article for an exact title.
	Fetch(ctx context.Context, title string) (*Article, error)

	// Search runs a keyword search and returns up to limit hits in
	// backend ranking order.
	Search(ctx context.Context, term string, limit int) ([]SearchHit, error)
}

var headingPattern = regexp.MustCompile(`^(={2,6})\s*(.*?)\s*={2,6}$`)

// splitExtract splits a plain-text extract into the leading summary and its
// top-level sections. Nested headings stay inside their parent section.
func splitExtract(extract string) (string, []Section) {
	lines := strings.Split(extract, "\n")

	var summary []string
	var sections []Section
	current := -1

	for _, line := range lines {
		m := headingPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil && len(m[1]) == 2 {
			sections = append(sections, Section{Title: m[2]})
			current = len(sections) - 1
			continue
		}
		if m != nil {
			// Nested heading, keep the text flowing into the parent.
			continue
		}
		if current == -1 {
			summary = append(summary, line)
		} else {
			if sections[current].Text != "" {
				sections[current].Text += "\n"
			}
			sections[current].Text += line
		}
	}

	for i := range sections {
		sections[i].Text = strings.TrimSpace(sections[i].Text)
	}
	return strings.TrimSpace(strings.Join(summary, "\n")), sections
}
