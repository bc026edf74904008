package curation

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-pkgz/lgr"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// oversampleFactor sizes the candidate pool relative to the requested limit
// so enough cards survive zone filtering. Fixed heuristic, no adaptive retry;
// under-filled pages are acceptable.
const oversampleFactor = 3

// Selector picks and orders feed cards within the serendipity zone
type Selector struct {
	store   CardStore
	builder *ContextBuilder
	zone    ZoneConfig
}

// NewSelector creates a feed selector over the given store
func NewSelector(store CardStore, zone ZoneConfig, dimension int) *Selector {
	return &Selector{
		store:   store,
		builder: NewContextBuilder(store, dimension),
		zone:    zone,
	}
}

// Zone returns the selector's zone configuration
func (s *Selector) Zone() ZoneConfig { return s.zone }

// GenerateFeed returns up to limit cards ordered by serendipity. With no
// context IDs, or when ranking degrades (zero context vector, store failure),
// it falls back to plain recency so the feed always produces something. The
// result mode tells the caller which path was taken.
func (s *Selector) GenerateFeed(ctx context.Context, contextIDs []int64, limit int) (domain.FeedResult, error) {
	if limit <= 0 {
		return domain.FeedResult{Mode: domain.FeedModeRecent}, nil
	}

	if len(contextIDs) == 0 {
		return s.recentFeed(ctx, limit, domain.FeedModeRecent, "")
	}

	contextVector, err := s.builder.Build(ctx, contextIDs)
	if err != nil {
		lgr.Printf("[WARN] context build failed, degrading to recent: %v", err)
		return s.recentFeed(ctx, limit, domain.FeedModeDegraded, "context build failed")
	}

	if IsZeroVector(contextVector) {
		lgr.Printf("[WARN] empty context vector for %d context cards, degrading to recent", len(contextIDs))
		return s.recentFeed(ctx, limit, domain.FeedModeDegraded, "no usable context embeddings")
	}

	cards, err := s.rankCandidates(ctx, contextVector, limit)
	if err != nil {
		lgr.Printf("[WARN] candidate ranking failed, degrading to recent: %v", err)
		return s.recentFeed(ctx, limit, domain.FeedModeDegraded, "candidate retrieval failed")
	}

	lgr.Printf("[DEBUG] generated ranked feed with %d cards from %d context cards", len(cards), len(contextIDs))
	return domain.FeedResult{Cards: cards, Mode: domain.FeedModeRanked}, nil
}

// rankCandidates filters the candidate pool by the serendipity zone and
// orders survivors by proximity to the zone midpoint
func (s *Selector) rankCandidates(ctx context.Context, contextVector []float32, limit int) ([]domain.ScoredCard, error) {
	pool, err := s.store.GetCandidatePool(ctx, limit*oversampleFactor)
	if err != nil {
		return nil, fmt.Errorf("get candidate pool: %w", err)
	}

	scored := make([]domain.ScoredCard, 0, len(pool))
	for _, card := range pool {
		if !card.HasEmbedding() {
			continue
		}

		distance := CosineDistance(card.Embedding, contextVector)
		if !s.zone.InZone(distance) {
			continue
		}

		scored = append(scored, domain.ScoredCard{
			Card:     card,
			Distance: distance,
			Score:    s.zone.Score(distance),
			Reason:   s.zone.ReasonFor(card, contextVector),
		})
	}

	// closest to the zone midpoint first; stable, so ties keep newest-first
	// retrieval order and the output is deterministic
	ideal := s.zone.IdealDistance()
	sort.SliceStable(scored, func(i, j int) bool {
		di := scored[i].Distance - ideal
		if di < 0 {
			di = -di
		}
		dj := scored[j].Distance - ideal
		if dj < 0 {
			dj = -dj
		}
		return di < dj
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// recentFeed is the fallback path: newest cards tagged RECENT
func (s *Selector) recentFeed(ctx context.Context, limit int, mode domain.FeedMode, reason string) (domain.FeedResult, error) {
	cards, err := s.store.GetRecentCards(ctx, limit)
	if err != nil {
		return domain.FeedResult{}, fmt.Errorf("get recent cards: %w", err)
	}

	scored := make([]domain.ScoredCard, 0, len(cards))
	for _, card := range cards {
		scored = append(scored, domain.ScoredCard{Card: card, Reason: domain.ReasonRecent})
	}

	return domain.FeedResult{Cards: scored, Mode: mode, Reason: reason}, nil
}
