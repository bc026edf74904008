package ingest

import (
	"context"
	"net/http"
	"time"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// Connector pulls cards from one external source. Connectors never embed or
// summarize, they only produce raw cards for async enrichment.
type Connector interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Card, error)
}

// newHTTPClient builds the shared client shape used by all connectors
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
