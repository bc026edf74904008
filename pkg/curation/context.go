package curation

import (
	"context"
	"fmt"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// CardStore is the storage surface the engine consumes
type CardStore interface {
	GetRecentCards(ctx context.Context, limit int) ([]*domain.Card, error)
	GetCardsByIDs(ctx context.Context, ids []int64) ([]*domain.Card, error)
	GetCandidatePool(ctx context.Context, poolSize int) ([]*domain.Card, error)
}

// ContextBuilder derives a single reading-context vector from the cards a
// user viewed recently
type ContextBuilder struct {
	store     CardStore
	dimension int
}

// NewContextBuilder creates a context builder over the given store
func NewContextBuilder(store CardStore, dimension int) *ContextBuilder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &ContextBuilder{store: store, dimension: dimension}
}

// Build averages the embeddings of the given cards into a context vector.
// Unknown IDs and cards without embeddings are silently dropped, partial
// context is valid. Empty input or no surviving embeddings yield the all-zero
// vector which callers must treat as "no context".
func (b *ContextBuilder) Build(ctx context.Context, cardIDs []int64) ([]float32, error) {
	if len(cardIDs) == 0 {
		return make([]float32, b.dimension), nil
	}

	cards, err := b.store.GetCardsByIDs(ctx, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch context cards: %w", err)
	}

	embeddings := make([][]float32, 0, len(cards))
	for _, card := range cards {
		if card.HasEmbedding() {
			embeddings = append(embeddings, card.Embedding)
		}
	}

	return AverageVector(embeddings, b.dimension), nil
}
