package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

func TestVectorCodec(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		vec := []float32{0.1, -0.5, 3.25, 0}
		decoded, err := bytesToVector(vectorToBytes(vec))
		require.NoError(t, err)
		assert.Equal(t, vec, decoded)
	})

	t.Run("empty vector", func(t *testing.T) {
		decoded, err := bytesToVector(vectorToBytes(nil))
		require.NoError(t, err)
		assert.Empty(t, decoded)
	})

	t.Run("truncated blob rejected", func(t *testing.T) {
		_, err := bytesToVector([]byte{1, 2, 3})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid embedding blob")
	})
}

func TestCard_DomainConversion(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		card := &domain.Card{
			GUID:        "rt-1",
			SourceType:  domain.SourceOWID,
			Title:       "CO2 emissions",
			Summary:     "twenty years of data",
			OriginalURL: "https://ourworldindata.org/co2",
			Payload: domain.Payload{
				Type: domain.SourceOWID,
				Chart: &domain.ChartPayload{
					ChartType: "line",
					Years:     []int{2000, 2001},
					Values:    []float64{1.5, 1.7},
					Unit:      "tonnes",
					Indicator: "CO2 emissions",
					Entity:    "World",
				},
			},
			BlindspotTags: []string{"climate"},
			Embedding:     []float32{0.25, 0.5},
		}

		dbCard, err := fromDomain(card)
		require.NoError(t, err)

		back := dbCard.toDomain()
		assert.Equal(t, card.GUID, back.GUID)
		assert.Equal(t, card.SourceType, back.SourceType)
		assert.Equal(t, card.BlindspotTags, back.BlindspotTags)
		assert.Equal(t, card.Embedding, back.Embedding)
		require.NotNil(t, back.Payload.Chart)
		assert.Equal(t, "line", back.Payload.Chart.ChartType)
		assert.Equal(t, []int{2000, 2001}, back.Payload.Chart.Years)
	})

	t.Run("malformed stored json degrades to empty values", func(t *testing.T) {
		dbCard := &Card{
			GUID:          "bad-json",
			SourceType:    "rss",
			Title:         "broken",
			Payload:       "{not json",
			BlindspotTags: "[not json",
		}

		card := dbCard.toDomain()
		assert.Empty(t, card.BlindspotTags)
		assert.Nil(t, card.Payload.News)
	})
}
