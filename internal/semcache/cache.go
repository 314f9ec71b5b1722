// internal/semcache/cache.go

// Package semcache is a semantic text index with Redis-backed embedding
// caching. It is auxiliary tooling for offline experiments and deliberately
// stays off the answer path, which must remain stateless across requests.
package semcache

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"wikiqa/internal/common/config"
	"wikiqa/internal/common/logger"
	"wikiqa/internal/textrank"
)

const (
	keyPrefix  = "semcache:emb:"
	defaultTTL = time.Hour
)

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Match is one search result.
type Match struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Index caches embeddings in Redis and keeps the searchable corpus in
// memory.
type Index struct {
	embedder Embedder
	client   *redis.Client
	ttl      time.Duration
	logger   logger.Logger

	mu         sync.RWMutex
	texts      []string
	embeddings [][]float64
}

func NewIndex(cfg config.RedisConfig, embedder Embedder, log logger.Logger) *Index {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewIndexWithClient(client, embedder, log)
}

func NewIndexWithClient(client *redis.Client, embedder Embedder, log logger.Logger) *Index {
	return &Index{
		embedder: embedder,
		client:   client,
		ttl:      defaultTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "semcache"}),
	}
}

// Embedding returns the vector for text, consulting the Redis cache first. A
// cache failure falls through to the embedder instead of failing the call.
func (i *Index) Embedding(ctx context.Context, text string) ([]float64, error) {
	key := keyPrefix + text

	if raw, err := i.client.Get(ctx, key).Result(); err == nil {
		var cached []float64
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		i.logger.WithError(err).Warn("embedding cache read failed", nil)
	}

	embedding, err := i.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if raw, err := json.Marshal(embedding); err == nil {
		if err := i.client.Set(ctx, key, raw, i.ttl).Err(); err != nil {
			i.logger.WithError(err).Warn("embedding cache write failed", nil)
		}
	}
	return embedding, nil
}

// AddTexts embeds the texts and appends them to the corpus.
func (i *Index) AddTexts(ctx context.Context, texts []string) error {
	embeddings := make([][]float64, 0, len(texts))
	for _, t := range texts {
		e, err := i.Embedding(ctx, t)
		if err != nil {
			return err
		}
		embeddings = append(embeddings, e)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.texts = append(i.texts, texts...)
	i.embeddings = append(i.embeddings, embeddings...)
	return nil
}

// Search returns the k corpus texts most similar to the query, best first.
func (i *Index) Search(ctx context.Context, query string, k int) ([]Match, error) {
	i.mu.RLock()
	empty := len(i.texts) == 0
	i.mu.RUnlock()
	if empty {
		return nil, nil
	}

	queryEmbedding, err := i.Embedding(ctx, query)
	if err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	sims := make([]float64, len(i.embeddings))
	for idx, e := range i.embeddings {
		sims[idx] = cosine(queryEmbedding, e)
	}

	matches := make([]Match, 0, k)
	for _, idx := range textrank.TopIndices(sims, k) {
		matches = append(matches, Match{Text: i.texts[idx], Score: sims[idx]})
	}
	return matches, nil
}

// Similarity computes the cosine similarity of two texts.
func (i *Index) Similarity(ctx context.Context, a, b string) (float64, error) {
	ea, err := i.Embedding(ctx, a)
	if err != nil {
		return 0, err
	}
	eb, err := i.Embedding(ctx, b)
	if err != nil {
		return 0, err
	}
	return cosine(ea, eb), nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for idx := range a {
		dot += a[idx] * b[idx]
		na += a[idx] * a[idx]
		nb += b[idx] * b[idx]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
