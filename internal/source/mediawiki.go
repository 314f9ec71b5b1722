// internal/source/mediawiki.go
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"wikiqa/internal/common/config"
	"wikiqa/internal/common/httpclient"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/common/metrics"
)

// MediaWikiSource talks to a MediaWiki Action API endpoint.
type MediaWikiSource struct {
	baseURL   string
	userAgent string
	client    *httpclient.Client
	logger    logger.Logger
}

func NewMediaWikiSource(cfg config.MediaWikiConfig, log logger.Logger) *MediaWikiSource {
	return &MediaWikiSource{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		logger:    log.WithFields(map[string]interface{}{"component": "mediawiki_source"}),
	}
}

type mwPage struct {
	PageID  int64  `json:"pageid"`
	Title   string `json:"title"`
	Missing bool   `json:"missing"`
	Extract string `json:"extract"`
	FullURL string `json:"fullurl"`
}

type mwResponse struct {
	Query struct {
		Pages  []mwPage `json:"pages"`
		Search []struct {
			Title  string `json:"title"`
			PageID int64  `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func (s *MediaWikiSource) Resolve(ctx context.Context, title string) (*PageRef, error) {
	params := url.Values{
		"action":        {"query"},
		"prop":          {"extracts|info"},
		"exintro":       {"1"},
		"explaintext":   {"1"},
		"redirects":     {"1"},
		"inprop":        {"url"},
		"titles":        {title},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	page, err := s.queryPage(ctx, "resolve", params)
	if err != nil {
		return nil, err
	}

	return &PageRef{
		Title:   page.Title,
		PageID:  page.PageID,
		Summary: page.Extract,
		URL:     page.FullURL,
	}, nil
}

func (s *MediaWikiSource) Fetch(ctx context.Context, title string) (*Article, error) {
	params := url.Values{
		"action":        {"query"},
		"prop":          {"extracts|info"},
		"explaintext":   {"1"},
		"redirects":     {"1"},
		"inprop":        {"url"},
		"titles":        {title},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	page, err := s.queryPage(ctx, "fetch", params)
	if err != nil {
		return nil, err
	}

	summary, sections := splitExtract(page.Extract)
	return &Article{
		Title:    page.Title,
		PageID:   page.PageID,
		Summary:  summary,
		Sections: sections,
		FullText: page.Extract,
		URL:      page.FullURL,
	}, nil
}

func (s *MediaWikiSource) Search(ctx context.Context, term string, limit int) ([]SearchHit, error) {
	params := url.Values{
		"action":        {"query"},
		"list":          {"search"},
		"srsearch":      {term},
		"srlimit":       {strconv.Itoa(limit)},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	resp, err := s.call(ctx, "search", params)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(resp.Query.Search))
	for _, h := range resp.Query.Search {
		hits = append(hits, SearchHit{Title: h.Title, PageID: h.PageID})
	}
	return hits, nil
}

func (s *MediaWikiSource) queryPage(ctx context.Context, operation string, params url.Values) (*mwPage, error) {
	resp, err := s.call(ctx, operation, params)
	if err != nil {
		return nil, err
	}

	if len(resp.Query.Pages) == 0 {
		return nil, ErrPageNotFound
	}
	page := resp.Query.Pages[0]
	if page.Missing {
		return nil, ErrPageNotFound
	}
	return &page, nil
}

func (s *MediaWikiSource) call(ctx context.Context, operation string, params url.Values) (*mwResponse, error) {
	endpoint := fmt.Sprintf("%s/w/api.php?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	res, err := s.client.Do(req)
	if err != nil {
		metrics.SourceRequests.WithLabelValues(operation, "error").Inc()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		metrics.SourceRequests.WithLabelValues(operation, "error").Inc()
		return nil, fmt.Errorf("mediawiki api status %d", res.StatusCode)
	}

	var parsed mwResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		metrics.SourceRequests.WithLabelValues(operation, "error").Inc()
		return nil, fmt.Errorf("failed to decode mediawiki response: %w", err)
	}
	if parsed.Error != nil {
		metrics.SourceRequests.WithLabelValues(operation, "error").Inc()
		return nil, fmt.Errorf("mediawiki api error %s: %s", parsed.Error.Code, parsed.Error.Info)
	}

	metrics.SourceRequests.WithLabelValues(operation, "ok").Inc()
	return &parsed, nil
}
