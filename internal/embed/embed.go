// Package embed maps sentence text to fixed-dimension vectors using an
// OpenAI-compatible embedding model. The model is constructed once at
// startup and is read-only afterward, so one Service may be shared across
// concurrent workers without synchronization.
package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder converts free text into a numeric vector. Implementations are
// deterministic for identical (text, model identity) pairs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
}

// Client is the minimal slice of the OpenAI API surface the Service needs.
// *openai.Client satisfies it; tests substitute a fake.
type Client interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Service is the production Embedder backed by an OpenAI-compatible
// endpoint, with an optional content-addressed disk cache.
type Service struct {
	client      Client
	model       string
	dims        int
	cache       *Cache
	callTimeout time.Duration
}

// Config holds construction parameters for NewService.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// CacheDir enables the on-disk vector cache when non-empty.
	CacheDir string
	// CallTimeout bounds each embedding request. Zero applies a 60s default.
	CallTimeout time.Duration
}

// NewService builds a Service and verifies the model is usable by
// embedding a short probe, which also fixes the vector dimension. A probe
// failure means the model cannot be loaded; callers treat it as fatal.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("embedding model name is required")
	}
	transport := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		transport.BaseURL = cfg.BaseURL
	}
	s := &Service{
		client:      openai.NewClientWithConfig(transport),
		model:       cfg.Model,
		callTimeout: cfg.CallTimeout,
	}
	if s.callTimeout <= 0 {
		s.callTimeout = 60 * time.Second
	}
	if cfg.CacheDir != "" {
		s.cache = &Cache{Dir: cfg.CacheDir}
	}
	if err := s.ping(ctx); err != nil {
		return nil, fmt.Errorf("embedding model %q: %w", cfg.Model, err)
	}
	return s, nil
}

// NewServiceWithClient is like NewService but injects the API client.
// Used by tests.
func NewServiceWithClient(ctx context.Context, client Client, model string, cache *Cache) (*Service, error) {
	s := &Service{client: client, model: model, cache: cache, callTimeout: 60 * time.Second}
	if err := s.ping(ctx); err != nil {
		return nil, fmt.Errorf("embedding model %q: %w", model, err)
	}
	return s, nil
}

func (s *Service) ping(ctx context.Context) error {
	vec, err := s.request(ctx, []string{"probe"})
	if err != nil {
		return err
	}
	if len(vec) == 0 || len(vec[0]) == 0 {
		return errors.New("model returned an empty vector")
	}
	s.dims = len(vec[0])
	return nil
}

// ModelName returns the identity of the underlying model.
func (s *Service) ModelName() string { return s.model }

// Dimensions returns the fixed vector size this model produces.
func (s *Service) Dimensions() int { return s.dims }

// Embed returns the vector for one text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch returns one vector per text, order preserved. Cached texts
// are served from disk; the remainder goes out in a single request.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	missing := make([]int, 0, len(texts))
	for i, t := range texts {
		if s.cache != nil {
			if vec, ok := s.cache.Get(s.model, t); ok {
				out[i] = vec
				continue
			}
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	req := make([]string, len(missing))
	for j, i := range missing {
		req[j] = texts[i]
	}
	vecs, err := s.request(ctx, req)
	if err != nil {
		return nil, err
	}
	for j, i := range missing {
		out[i] = vecs[j]
		if s.cache != nil {
			_ = s.cache.Save(s.model, texts[i], vecs[j])
		}
	}
	return out, nil
}

func (s *Service) request(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(s.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return out, nil
}
