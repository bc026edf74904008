package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomscroll/bloomscroll/pkg/config"
)

// embeddingResponse mirrors the OpenAI-compatible embeddings payload
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingItem `json:"data"`
	Model  string          `json:"model"`
}

type embeddingItem struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

func newTestServer(t *testing.T, vectors [][]float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"object":"list","data":[{"id":"test-model","object":"model"}]}`)) //nolint:errcheck
		case "/embeddings":
			resp := embeddingResponse{Object: "list", Model: "test-model"}
			for i, vec := range vectors {
				resp.Data = append(resp.Data, embeddingItem{Object: "embedding", Embedding: vec, Index: i})
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp) //nolint:errcheck
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestProvider(serverURL string, dimensions int) *Provider {
	return New(config.EmbeddingConfig{
		Endpoint:   serverURL,
		APIKey:     "test-key",
		Model:      "test-model",
		Dimensions: dimensions,
	})
}

func TestProvider_EnsureReady(t *testing.T) {
	t.Run("flips ready flag on success", func(t *testing.T) {
		server := newTestServer(t, nil)
		defer server.Close()

		provider := newTestProvider(server.URL, 4)
		assert.False(t, provider.Ready())

		require.NoError(t, provider.EnsureReady(context.Background()))
		assert.True(t, provider.Ready())

		// second call is a no-op
		require.NoError(t, provider.EnsureReady(context.Background()))
	})

	t.Run("probe failure keeps provider not ready", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		provider := newTestProvider(server.URL, 4)
		require.Error(t, provider.EnsureReady(context.Background()))
		assert.False(t, provider.Ready())
	})
}

func TestProvider_Embed(t *testing.T) {
	t.Run("returns vector from API", func(t *testing.T) {
		server := newTestServer(t, [][]float32{{0.1, 0.2, 0.3, 0.4}})
		defer server.Close()

		provider := newTestProvider(server.URL, 4)
		require.NoError(t, provider.EnsureReady(context.Background()))

		vec := provider.Embed(context.Background(), "hello world")
		assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, vec)
	})

	t.Run("zero vector before ready", func(t *testing.T) {
		server := newTestServer(t, [][]float32{{0.1, 0.2, 0.3, 0.4}})
		defer server.Close()

		provider := newTestProvider(server.URL, 4)
		vec := provider.Embed(context.Background(), "hello world")
		assert.Equal(t, []float32{0, 0, 0, 0}, vec)
	})

	t.Run("zero vector on dimension mismatch", func(t *testing.T) {
		server := newTestServer(t, [][]float32{{0.1, 0.2}}) // 2 dims, provider wants 4
		defer server.Close()

		provider := newTestProvider(server.URL, 4)
		require.NoError(t, provider.EnsureReady(context.Background()))

		vec := provider.Embed(context.Background(), "hello world")
		assert.Equal(t, []float32{0, 0, 0, 0}, vec)
	})

	t.Run("zero vector on API failure", func(t *testing.T) {
		server := newTestServer(t, nil)
		provider := newTestProvider(server.URL, 3)
		require.NoError(t, provider.EnsureReady(context.Background()))
		server.Close() // subsequent requests fail

		vec := provider.Embed(context.Background(), "hello world")
		assert.Equal(t, []float32{0, 0, 0}, vec)
	})
}

func TestProvider_EmbedBatch(t *testing.T) {
	t.Run("preserves input order", func(t *testing.T) {
		server := newTestServer(t, [][]float32{{1, 0}, {0, 1}})
		defer server.Close()

		provider := newTestProvider(server.URL, 2)
		require.NoError(t, provider.EnsureReady(context.Background()))

		vectors := provider.EmbedBatch(context.Background(), []string{"first", "second"})
		require.Len(t, vectors, 2)
		assert.Equal(t, []float32{1, 0}, vectors[0])
		assert.Equal(t, []float32{0, 1}, vectors[1])
	})

	t.Run("empty input", func(t *testing.T) {
		server := newTestServer(t, nil)
		defer server.Close()

		provider := newTestProvider(server.URL, 2)
		vectors := provider.EmbedBatch(context.Background(), nil)
		assert.Empty(t, vectors)
	})

	t.Run("count mismatch degrades whole batch", func(t *testing.T) {
		server := newTestServer(t, [][]float32{{1, 0}}) // one vector for two texts
		defer server.Close()

		provider := newTestProvider(server.URL, 2)
		require.NoError(t, provider.EnsureReady(context.Background()))

		vectors := provider.EmbedBatch(context.Background(), []string{"first", "second"})
		require.Len(t, vectors, 2)
		assert.Equal(t, []float32{0, 0}, vectors[0])
		assert.Equal(t, []float32{0, 0}, vectors[1])
	})
}

func TestProvider_DefaultDimensions(t *testing.T) {
	provider := New(config.EmbeddingConfig{Model: "test-model"})
	assert.Equal(t, 384, provider.Dimensions())
}
