package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomscroll/bloomscroll/pkg/config"
	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

const testArenaContents = `{
  "contents": [
    {
      "id": 101,
      "title": "Moss on stone",
      "description": "<p>quiet <em>green</em></p>",
      "class": "Image",
      "image": {"display": {"url": "https://images.are.na/moss.jpg"}},
      "source": {"url": "https://example.com/moss"}
    },
    {
      "id": 102,
      "title": "A text block",
      "class": "Text"
    },
    {
      "id": 103,
      "title": "",
      "class": "Image",
      "image": {"display": {"url": "https://images.are.na/fog.jpg"}}
    }
  ]
}`

func TestArena_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/quiet-scenes/contents", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("per"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testArenaContents))
	}))
	defer server.Close()

	connector := NewArena(ArenaOptions{
		Channels: []config.ArenaChannel{{Slug: "quiet-scenes", Aesthetic: "calm"}},
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
	})
	assert.Equal(t, "aesthetics", connector.Name())

	cards, err := connector.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2) // text block excluded

	first := cards[0]
	assert.Equal(t, "arena-101", first.GUID)
	assert.Equal(t, domain.SourceAesthetics, first.SourceType)
	assert.Equal(t, "Moss on stone", first.Title)
	assert.Equal(t, "quiet green", first.Summary) // html stripped
	assert.Equal(t, "https://example.com/moss", first.OriginalURL)
	require.NotNil(t, first.Payload.Image)
	assert.Equal(t, "https://images.are.na/moss.jpg", first.Payload.Image.ImageURL)
	assert.Equal(t, "quiet-scenes", first.Payload.Image.Channel)
	assert.Equal(t, "calm", first.Payload.Image.Aesthetic)

	// untitled block falls back, original url falls back to the image
	second := cards[1]
	assert.Equal(t, "Untitled", second.Title)
	assert.Equal(t, "https://images.are.na/fog.jpg", second.OriginalURL)
}

func TestArena_Fetch_BrokenChannelSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/channels/broken/contents" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(testArenaContents))
	}))
	defer server.Close()

	connector := NewArena(ArenaOptions{
		Channels: []config.ArenaChannel{
			{Slug: "broken"},
			{Slug: "quiet-scenes", Aesthetic: "calm"},
		},
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})

	cards, err := connector.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestArena_Fetch_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{broken"))
	}))
	defer server.Close()

	connector := NewArena(ArenaOptions{
		Channels: []config.ArenaChannel{{Slug: "whatever"}},
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
	})

	cards, err := connector.Fetch(context.Background())
	require.NoError(t, err) // skipped, not fatal
	assert.Empty(t, cards)
}
