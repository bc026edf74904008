package curation

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// ErrInvalidRequest marks caller input rejected before any computation.
// This is the only error class surfaced to the caller; everything else
// degrades to a recency feed.
var ErrInvalidRequest = errors.New("invalid feed request")

// DefaultDailyLimit caps cards consumed per user per day
const DefaultDailyLimit = 20

// FeedRequest is one feed page computation request. ReadCount is caller
// supplied and echoed across requests; the engine owns no session state.
type FeedRequest struct {
	ContextIDs []int64
	Page       int
	ReadCount  int
	Limit      int
}

// Service gates feed selection behind the daily quota and assembles pages
type Service struct {
	selector   *Selector
	dailyLimit int
}

// NewService creates the curation service
func NewService(selector *Selector, dailyLimit int) *Service {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	return &Service{selector: selector, dailyLimit: dailyLimit}
}

// DailyLimit returns the per-session daily consumption cap
func (s *Service) DailyLimit() int { return s.dailyLimit }

// ComputeFeedPage validates the request, applies the quota gate and invokes
// the selector with the effective limit. When the budget is exhausted the
// page carries zero items and a completion signal, and the selector is not
// called at all.
func (s *Service) ComputeFeedPage(ctx context.Context, req FeedRequest) (*domain.FeedPage, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	remaining := s.dailyLimit - req.ReadCount
	if remaining <= 0 {
		lgr.Printf("[INFO] daily quota exhausted: read %d of %d", req.ReadCount, s.dailyLimit)
		return &domain.FeedPage{
			Items: []domain.ScoredCard{},
			Mode:  domain.FeedModeRecent,
			Pagination: domain.Pagination{
				Page:           req.Page,
				Limit:          req.Limit,
				HasNextPage:    false,
				TotalReadToday: req.ReadCount,
				DailyLimit:     s.dailyLimit,
			},
			Completion: s.completion(req.ReadCount),
		}, nil
	}

	effectiveLimit := req.Limit
	if effectiveLimit > remaining {
		effectiveLimit = remaining
	}

	result, err := s.selector.GenerateFeed(ctx, req.ContextIDs, effectiveLimit)
	if err != nil {
		// the selector degrades internally; an error here means even the
		// recency fallback failed and there is nothing to serve
		return nil, fmt.Errorf("generate feed: %w", err)
	}

	newCount := req.ReadCount + len(result.Cards)
	page := &domain.FeedPage{
		Items: result.Cards,
		Mode:  result.Mode,
		Pagination: domain.Pagination{
			Page:           req.Page,
			Limit:          effectiveLimit,
			HasNextPage:    newCount < s.dailyLimit,
			TotalReadToday: newCount,
			DailyLimit:     s.dailyLimit,
		},
	}
	if newCount >= s.dailyLimit {
		page.Completion = s.completion(newCount)
	}

	return page, nil
}

// validate rejects malformed caller input synchronously
func (s *Service) validate(req FeedRequest) error {
	if req.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidRequest, req.Page)
	}
	if req.ReadCount < 0 {
		return fmt.Errorf("%w: read count must be >= 0, got %d", ErrInvalidRequest, req.ReadCount)
	}
	if req.Limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1, got %d", ErrInvalidRequest, req.Limit)
	}
	return nil
}

func (s *Service) completion(cardsRead int) *domain.Completion {
	if cardsRead > s.dailyLimit {
		cardsRead = s.dailyLimit
	}
	return &domain.Completion{
		Message: "you have bloomed for today, come back tomorrow",
		Stats:   domain.CompletionStats{CardsRead: cardsRead, DailyLimit: s.dailyLimit},
	}
}
