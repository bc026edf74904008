package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

func makeTestCard(guid string, embedding []float32) *domain.Card {
	return &domain.Card{
		GUID:        guid,
		SourceType:  domain.SourceRSS,
		Title:       "card " + guid,
		Summary:     "summary for " + guid,
		OriginalURL: "https://example.com/" + guid,
		Payload: domain.Payload{
			Type: domain.SourceRSS,
			News: &domain.NewsPayload{FeedTitle: "Test Feed"},
		},
		Embedding: embedding,
	}
}

func TestCardOperations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("create and get card", func(t *testing.T) {
		card := makeTestCard("guid-1", []float32{0.1, 0.2, 0.3, 0.4})
		card.BlindspotTags = []string{"underreported", "local"}

		err := db.CreateCard(ctx, card)
		require.NoError(t, err)
		assert.NotZero(t, card.ID)

		retrieved, err := db.GetCard(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, card.GUID, retrieved.GUID)
		assert.Equal(t, card.Title, retrieved.Title)
		assert.Equal(t, []string{"underreported", "local"}, retrieved.BlindspotTags)
		require.NotNil(t, retrieved.Payload.News)
		assert.Equal(t, "Test Feed", retrieved.Payload.News.FeedTitle)

		// embedding round-trips through the blob codec
		require.Len(t, retrieved.Embedding, 4)
		assert.InDelta(t, 0.1, float64(retrieved.Embedding[0]), 1e-6)
		assert.InDelta(t, 0.4, float64(retrieved.Embedding[3]), 1e-6)
	})

	t.Run("duplicate card skipped", func(t *testing.T) {
		duplicate := makeTestCard("guid-1", nil)
		err := db.CreateCard(ctx, duplicate)
		require.NoError(t, err)
		assert.Zero(t, duplicate.ID) // ID not set for duplicate

		stats, err := db.GetCardStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Total)
	})

	t.Run("same guid different source allowed", func(t *testing.T) {
		card := makeTestCard("guid-1", nil)
		card.SourceType = domain.SourceOWID
		err := db.CreateCard(ctx, card)
		require.NoError(t, err)
		assert.NotZero(t, card.ID)
	})
}

func TestDB_GetRecentCards(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		card := makeTestCard(string(rune('a'+i)), nil)
		require.NoError(t, db.CreateCard(ctx, card))
	}

	cards, err := db.GetRecentCards(ctx, 3)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	// same created_at for all within the test, so newest-first falls back to
	// id desc
	assert.Greater(t, cards[0].ID, cards[1].ID)
	assert.Greater(t, cards[1].ID, cards[2].ID)
}

func TestDB_GetCardsByIDs(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	c1 := makeTestCard("x1", []float32{1, 0})
	c2 := makeTestCard("x2", nil)
	require.NoError(t, db.CreateCard(ctx, c1))
	require.NoError(t, db.CreateCard(ctx, c2))

	t.Run("unknown ids silently omitted", func(t *testing.T) {
		cards, err := db.GetCardsByIDs(ctx, []int64{c1.ID, c2.ID, 99999})
		require.NoError(t, err)
		assert.Len(t, cards, 2)
	})

	t.Run("empty input returns empty result", func(t *testing.T) {
		cards, err := db.GetCardsByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})
}

func TestDB_GetCandidatePool(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	withEmb := makeTestCard("emb", []float32{0.5, 0.5})
	noEmb := makeTestCard("noemb", nil)
	require.NoError(t, db.CreateCard(ctx, withEmb))
	require.NoError(t, db.CreateCard(ctx, noEmb))

	pool, err := db.GetCandidatePool(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "emb", pool[0].GUID)
	assert.True(t, pool[0].HasEmbedding())
}

func TestDB_EmbeddingBackfill(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	card := makeTestCard("pending", nil)
	require.NoError(t, db.CreateCard(ctx, card))

	pending, err := db.GetCardsNeedingEmbedding(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, card.ID, pending[0].ID)

	require.NoError(t, db.UpdateCardEmbedding(ctx, card.ID, []float32{0.25, 0.75}))

	pending, err = db.GetCardsNeedingEmbedding(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	updated, err := db.GetCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, updated.Embedding, 2)
	assert.InDelta(t, 0.25, float64(updated.Embedding[0]), 1e-6)
}

func TestDB_SummaryBackfill(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	card := makeTestCard("summarize-me", []float32{1, 0})
	card.Summary = ""
	require.NoError(t, db.CreateCard(ctx, card))

	pending, err := db.GetCardsNeedingSummary(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, db.UpdateCardSummary(ctx, card.ID, "a fresh summary"))

	pending, err = db.GetCardsNeedingSummary(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	updated, err := db.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "a fresh summary", updated.Summary)
	// summary update invalidates the embedding for re-embedding
	assert.False(t, updated.HasEmbedding())
}

func TestDB_GetCardStats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, db.CreateCard(ctx, makeTestCard("s1", []float32{1})))
	require.NoError(t, db.CreateCard(ctx, makeTestCard("s2", nil)))

	stats, err := db.GetCardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Embedded)
}
