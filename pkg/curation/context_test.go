package curation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// storeMock is an in-test CardStore with pluggable behavior
type storeMock struct {
	getRecentFunc    func(ctx context.Context, limit int) ([]*domain.Card, error)
	getByIDsFunc     func(ctx context.Context, ids []int64) ([]*domain.Card, error)
	getCandidateFunc func(ctx context.Context, poolSize int) ([]*domain.Card, error)
}

func (m *storeMock) GetRecentCards(ctx context.Context, limit int) ([]*domain.Card, error) {
	return m.getRecentFunc(ctx, limit)
}

func (m *storeMock) GetCardsByIDs(ctx context.Context, ids []int64) ([]*domain.Card, error) {
	return m.getByIDsFunc(ctx, ids)
}

func (m *storeMock) GetCandidatePool(ctx context.Context, poolSize int) ([]*domain.Card, error) {
	return m.getCandidateFunc(ctx, poolSize)
}

func TestContextBuilder_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("empty id list yields zero vector without store call", func(t *testing.T) {
		store := &storeMock{
			getByIDsFunc: func(ctx context.Context, ids []int64) ([]*domain.Card, error) {
				t.Fatal("store should not be called")
				return nil, nil
			},
		}

		builder := NewContextBuilder(store, 4)
		vec, err := builder.Build(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, vec, 4)
		assert.True(t, IsZeroVector(vec))
	})

	t.Run("averages embeddings of surviving cards", func(t *testing.T) {
		store := &storeMock{
			getByIDsFunc: func(ctx context.Context, ids []int64) ([]*domain.Card, error) {
				assert.Equal(t, []int64{1, 2, 3}, ids)
				return []*domain.Card{
					{ID: 1, Embedding: []float32{1, 0, 0, 0}},
					{ID: 2, Embedding: []float32{0, 1, 0, 0}},
				}, nil
			},
		}

		builder := NewContextBuilder(store, 4)
		vec, err := builder.Build(ctx, []int64{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, float64(vec[0]), 1e-6)
		assert.InDelta(t, 0.5, float64(vec[1]), 1e-6)
		assert.Zero(t, vec[2])
	})

	t.Run("embedding-less cards silently dropped", func(t *testing.T) {
		store := &storeMock{
			getByIDsFunc: func(ctx context.Context, ids []int64) ([]*domain.Card, error) {
				return []*domain.Card{
					{ID: 1}, // no embedding
					{ID: 2, Embedding: []float32{1, 0, 0, 0}},
				}, nil
			},
		}

		builder := NewContextBuilder(store, 4)
		vec, err := builder.Build(ctx, []int64{1, 2})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, float64(vec[0]), 1e-6)
	})

	t.Run("no survivors yield zero vector", func(t *testing.T) {
		store := &storeMock{
			getByIDsFunc: func(ctx context.Context, ids []int64) ([]*domain.Card, error) {
				return []*domain.Card{{ID: 1}, {ID: 2}}, nil
			},
		}

		builder := NewContextBuilder(store, 4)
		vec, err := builder.Build(ctx, []int64{1, 2})
		require.NoError(t, err)
		assert.True(t, IsZeroVector(vec))
	})

	t.Run("store error propagates", func(t *testing.T) {
		store := &storeMock{
			getByIDsFunc: func(ctx context.Context, ids []int64) ([]*domain.Card, error) {
				return nil, errors.New("db gone")
			},
		}

		builder := NewContextBuilder(store, 4)
		_, err := builder.Build(ctx, []int64{1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch context cards")
	})

	t.Run("zero dimension falls back to default", func(t *testing.T) {
		builder := NewContextBuilder(&storeMock{}, 0)
		vec, err := builder.Build(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, vec, DefaultDimension)
	})
}
