package curation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

func recentStore(n int) *storeMock {
	return &storeMock{
		getRecentFunc: func(ctx context.Context, limit int) ([]*domain.Card, error) {
			cards := make([]*domain.Card, 0, limit)
			for i := 0; i < limit && i < n; i++ {
				cards = append(cards, &domain.Card{ID: int64(i + 1)})
			}
			return cards, nil
		},
	}
}

func TestService_ComputeFeedPage_Validation(t *testing.T) {
	svc := NewService(NewSelector(recentStore(100), DefaultZone(), 4), 20)
	ctx := context.Background()

	tests := []struct {
		name string
		req  FeedRequest
	}{
		{name: "zero page", req: FeedRequest{Page: 0, ReadCount: 0, Limit: 10}},
		{name: "negative page", req: FeedRequest{Page: -1, ReadCount: 0, Limit: 10}},
		{name: "negative read count", req: FeedRequest{Page: 1, ReadCount: -5, Limit: 10}},
		{name: "zero limit", req: FeedRequest{Page: 1, ReadCount: 0, Limit: 0}},
		{name: "negative limit", req: FeedRequest{Page: 1, ReadCount: 0, Limit: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ComputeFeedPage(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestService_ComputeFeedPage_Exhausted(t *testing.T) {
	selectorCalled := false
	store := &storeMock{
		getRecentFunc: func(ctx context.Context, limit int) ([]*domain.Card, error) {
			selectorCalled = true
			return nil, nil
		},
	}
	svc := NewService(NewSelector(store, DefaultZone(), 4), 20)

	page, err := svc.ComputeFeedPage(context.Background(), FeedRequest{Page: 3, ReadCount: 20, Limit: 10})
	require.NoError(t, err)

	assert.False(t, selectorCalled, "selector must not run when quota is exhausted")
	assert.Empty(t, page.Items)
	assert.False(t, page.Pagination.HasNextPage)
	assert.Equal(t, 20, page.Pagination.TotalReadToday)
	require.NotNil(t, page.Completion)
	assert.Equal(t, 20, page.Completion.Stats.CardsRead)
	assert.Equal(t, 20, page.Completion.Stats.DailyLimit)
}

func TestService_ComputeFeedPage_OverBudget(t *testing.T) {
	svc := NewService(NewSelector(recentStore(100), DefaultZone(), 4), 20)

	page, err := svc.ComputeFeedPage(context.Background(), FeedRequest{Page: 1, ReadCount: 25, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	require.NotNil(t, page.Completion)
	// stats never report more than the cap
	assert.Equal(t, 20, page.Completion.Stats.CardsRead)
}

func TestService_ComputeFeedPage_EffectiveLimit(t *testing.T) {
	svc := NewService(NewSelector(recentStore(100), DefaultZone(), 4), 20)

	// 15 read of 20, asking for 10: only 5 slots remain
	page, err := svc.ComputeFeedPage(context.Background(), FeedRequest{Page: 2, ReadCount: 15, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page.Items, 5)
	assert.Equal(t, 5, page.Pagination.Limit)
	assert.Equal(t, 20, page.Pagination.TotalReadToday)
	assert.False(t, page.Pagination.HasNextPage)
	require.NotNil(t, page.Completion, "last page carries the completion signal")
}

func TestService_ComputeFeedPage_Active(t *testing.T) {
	svc := NewService(NewSelector(recentStore(100), DefaultZone(), 4), 20)

	page, err := svc.ComputeFeedPage(context.Background(), FeedRequest{Page: 1, ReadCount: 0, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page.Items, 10)
	assert.Equal(t, domain.FeedModeRecent, page.Mode)
	assert.True(t, page.Pagination.HasNextPage)
	assert.Equal(t, 10, page.Pagination.TotalReadToday)
	assert.Equal(t, 20, page.Pagination.DailyLimit)
	assert.Nil(t, page.Completion)
}

func TestService_ComputeFeedPage_UnderfilledPageKeepsSession(t *testing.T) {
	// store has only 2 cards; page stays active since newCount < dailyLimit
	svc := NewService(NewSelector(recentStore(2), DefaultZone(), 4), 20)

	page, err := svc.ComputeFeedPage(context.Background(), FeedRequest{Page: 1, ReadCount: 0, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Pagination.TotalReadToday)
	assert.True(t, page.Pagination.HasNextPage)
	assert.Nil(t, page.Completion)
}

func TestService_DefaultDailyLimit(t *testing.T) {
	svc := NewService(NewSelector(recentStore(1), DefaultZone(), 4), 0)
	assert.Equal(t, DefaultDailyLimit, svc.DailyLimit())
}
