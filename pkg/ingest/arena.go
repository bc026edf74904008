package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/bloomscroll/bloomscroll/pkg/config"
	"github.com/bloomscroll/bloomscroll/pkg/content"
	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// DefaultArenaBaseURL is the Are.na public API endpoint
const DefaultArenaBaseURL = "https://api.are.na/v2"

const defaultArenaPerPage = 50

// Arena ingests image blocks from Are.na channels as aesthetic cards
type Arena struct {
	channels []config.ArenaChannel
	baseURL  string
	client   *http.Client
	perPage  int
}

// ArenaOptions configures the Are.na connector
type ArenaOptions struct {
	Channels []config.ArenaChannel
	BaseURL  string
	Timeout  time.Duration
	PerPage  int
}

// NewArena creates an Are.na connector
func NewArena(opts ArenaOptions) *Arena {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultArenaBaseURL
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultArenaPerPage
	}
	return &Arena{
		channels: opts.Channels,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   newHTTPClient(opts.Timeout),
		perPage:  perPage,
	}
}

// Name implements Connector
func (a *Arena) Name() string { return string(domain.SourceAesthetics) }

// arenaContents mirrors the relevant part of the channel contents response
type arenaContents struct {
	Contents []arenaBlock `json:"contents"`
}

type arenaBlock struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Class       string `json:"class"`
	Image       *struct {
		Display struct {
			URL string `json:"url"`
		} `json:"display"`
	} `json:"image"`
	Source *struct {
		URL string `json:"url"`
	} `json:"source"`
}

// Fetch pulls image blocks from each configured channel. A broken channel is
// logged and skipped.
func (a *Arena) Fetch(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	for _, channel := range a.channels {
		channelCards, err := a.fetchChannel(ctx, channel)
		if err != nil {
			lgr.Printf("[WARN] are.na channel %s failed: %v", channel.Slug, err)
			continue
		}
		cards = append(cards, channelCards...)
	}
	return cards, nil
}

func (a *Arena) fetchChannel(ctx context.Context, channel config.ArenaChannel) ([]domain.Card, error) {
	url := fmt.Sprintf("%s/channels/%s/contents?per=%d", a.baseURL, channel.Slug, a.perPage)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch channel: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var contents arenaContents
	if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
		return nil, fmt.Errorf("decode channel contents: %w", err)
	}

	cards := make([]domain.Card, 0, len(contents.Contents))
	for _, block := range contents.Contents {
		if block.Image == nil || block.Image.Display.URL == "" {
			continue // only image blocks become cards
		}

		title := content.SanitizeDescription(block.Title)
		if title == "" {
			title = "Untitled"
		}

		originalURL := block.Image.Display.URL
		if block.Source != nil && block.Source.URL != "" {
			originalURL = block.Source.URL
		}

		cards = append(cards, domain.Card{
			GUID:        fmt.Sprintf("arena-%d", block.ID),
			SourceType:  domain.SourceAesthetics,
			Title:       title,
			Summary:     content.SanitizeDescription(block.Description),
			OriginalURL: originalURL,
			Payload: domain.Payload{
				Type: domain.SourceAesthetics,
				Image: &domain.ImagePayload{
					ImageURL:  block.Image.Display.URL,
					Channel:   channel.Slug,
					Aesthetic: channel.Aesthetic,
				},
			},
		})
	}

	return cards, nil
}
