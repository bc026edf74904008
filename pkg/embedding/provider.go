package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/bloomscroll/bloomscroll/pkg/config"
	"github.com/bloomscroll/bloomscroll/pkg/curation"
)

// Provider produces embedding vectors via an OpenAI-compatible API.
// It degrades instead of failing: before EnsureReady succeeds, or when the
// API errors, Embed returns a zero vector of the configured dimension so
// callers can fall back to recency-based behavior.
type Provider struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int

	mu    sync.Mutex
	ready bool
}

// New creates an embedding provider. The provider is not ready until
// EnsureReady succeeds.
func New(cfg config.EmbeddingConfig) *Provider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = curation.DefaultDimension
	}

	return &Provider{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: dimensions,
	}
}

// Dimensions returns the vector size this provider produces
func (p *Provider) Dimensions() int { return p.dimensions }

// Ready reports whether the provider has been successfully initialized
func (p *Provider) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// EnsureReady probes the API once and marks the provider ready on success.
// Safe to call repeatedly, later calls are no-ops once ready.
func (p *Provider) EnsureReady(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}

	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("probe embedding endpoint: %w", err)
	}

	p.ready = true
	lgr.Printf("[INFO] embedding provider ready, model %s, %d dimensions", p.model, p.dimensions)
	return nil
}

// Embed returns the embedding for text. Always returns exactly Dimensions()
// floats: on any failure the result is a zero vector and a warning is logged.
func (p *Provider) Embed(ctx context.Context, text string) []float32 {
	vectors := p.EmbedBatch(ctx, []string{text})
	return vectors[0]
}

// EmbedBatch embeds texts in a single request, preserving input order.
// Each result is exactly Dimensions() floats, zero vectors on failure.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	result := make([][]float32, len(texts))
	for i := range result {
		result[i] = make([]float32, p.dimensions)
	}
	if len(texts) == 0 {
		return result
	}

	if !p.Ready() {
		lgr.Printf("[WARN] embedding provider not ready, returning zero vectors for %d texts", len(texts))
		return result
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          texts,
		Model:          p.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		Dimensions:     p.dimensions,
	})
	if err != nil {
		lgr.Printf("[WARN] embedding request failed for %d texts: %v", len(texts), err)
		return result
	}

	if len(resp.Data) != len(texts) {
		lgr.Printf("[WARN] embedding response has %d vectors for %d texts", len(resp.Data), len(texts))
		return result
	}

	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(result) {
			lgr.Printf("[WARN] embedding response index %d out of range", item.Index)
			continue
		}
		if len(item.Embedding) != p.dimensions {
			lgr.Printf("[WARN] embedding has %d dimensions, expected %d", len(item.Embedding), p.dimensions)
			continue
		}
		result[item.Index] = item.Embedding
	}

	return result
}
