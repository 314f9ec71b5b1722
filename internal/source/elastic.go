// internal/source/elastic.go
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"wikiqa/internal/common/config"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/common/metrics"
)

// ElasticSource serves articles from a pre-ingested Elasticsearch index.
// Documents carry title, summary, content and url fields; content keeps the
// "== Heading ==" markers so sections can be recovered.
type ElasticSource struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticSource(cfg config.ElasticsearchConfig, log logger.Logger) (*ElasticSource, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if len(esCfg.Addresses) == 0 && cfg.URL != "" {
		esCfg.Addresses = []string{cfg.URL}
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticSource{
		client: es,
		index:  cfg.Index,
		logger: log.WithFields(map[string]interface{}{"component": "elastic_source"}),
	}, nil
}

type esDocument struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string     `json:"_id"`
			Source esDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticSource) Resolve(ctx context.Context, title string) (*PageRef, error) {
	doc, err := s.lookupByTitle(ctx, "resolve", title)
	if err != nil {
		return nil, err
	}

	return &PageRef{
		Title:   doc.Title,
		Summary: doc.Summary,
		URL:     doc.URL,
	}, nil
}

func (s *ElasticSource) Fetch(ctx context.Context, title string) (*Article, error) {
	doc, err := s.lookupByTitle(ctx, "fetch", title)
	if err != nil {
		return nil, err
	}

	_, sections := splitExtract(doc.Content)
	return &Article{
		Title:    doc.Title,
		Summary:  doc.Summary,
		Sections: sections,
		FullText: doc.Content,
		URL:      doc.URL,
	}, nil
}

func (s *ElasticSource) Search(ctx context.Context, term string, limit int) ([]SearchHit, error) {
	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  term,
				"fields": []string{"title^2", "content"},
			},
		},
		"size": limit,
	}

	resp, err := s.search(ctx, "search", queryBody)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		hits = append(hits, SearchHit{Title: h.Source.Title})
	}
	return hits, nil
}

func (s *ElasticSource) lookupByTitle(ctx context.Context, operation, title string) (*esDocument, error) {
	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"title.keyword": title,
			},
		},
		"size": 1,
	}

	resp, err := s.search(ctx, operation, queryBody)
	if err != nil {
		return nil, err
	}
	if len(resp.Hits.Hits) == 0 {
		return nil, ErrPageNotFound
	}
	return &resp.Hits.Hits[0].Source, nil
}

func (s *ElasticSource) search(ctx context.Context, operation string, queryBody map[string]interface{}) (*esSearchResponse, error) {
	body, _ := json.Marshal(queryBody)
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		metrics.SourceRequests.WithLabelValues(operation, "error").Inc()
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.SourceRequests.WithLabelValues(operation, "error").Inc()
		return nil, fmt.Errorf("elasticsearch search error: %s", res.Status())
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		metrics.SourceRequests.WithLabelValues(operation, "error").Inc()
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	metrics.SourceRequests.WithLabelValues(operation, "ok").Inc()
	return &parsed, nil
}
