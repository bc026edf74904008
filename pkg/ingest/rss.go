package ingest

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"

	"github.com/bloomscroll/bloomscroll/pkg/config"
	"github.com/bloomscroll/bloomscroll/pkg/content"
	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// TextExtractor pulls full article text when the feed description is too thin
type TextExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// RSS ingests articles from RSS/Atom feeds
type RSS struct {
	feeds          []config.SourceFeed
	client         *http.Client
	userAgent      string
	extractor      TextExtractor // optional
	minDescription int
}

// RSSOptions configures the RSS connector
type RSSOptions struct {
	Feeds          []config.SourceFeed
	Timeout        time.Duration
	UserAgent      string
	Extractor      TextExtractor
	MinDescription int
}

// NewRSS creates an RSS connector
func NewRSS(opts RSSOptions) *RSS {
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "BloomScroll/1.0"
	}
	return &RSS{
		feeds:          opts.Feeds,
		client:         newHTTPClient(opts.Timeout),
		userAgent:      userAgent,
		extractor:      opts.Extractor,
		minDescription: opts.MinDescription,
	}
}

// Name implements Connector
func (r *RSS) Name() string { return string(domain.SourceRSS) }

// Fetch parses all configured feeds. A broken feed is logged and skipped,
// the remaining feeds still produce cards.
func (r *RSS) Fetch(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	for _, feed := range r.feeds {
		feedCards, err := r.fetchFeed(ctx, feed)
		if err != nil {
			lgr.Printf("[WARN] rss feed %s failed: %v", feed.Name, err)
			continue
		}
		cards = append(cards, feedCards...)
	}
	return cards, nil
}

func (r *RSS) fetchFeed(ctx context.Context, feed config.SourceFeed) ([]domain.Card, error) {
	body, err := r.fetch(ctx, feed.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	feedTitle := feed.Name
	if feedTitle == "" {
		feedTitle = parsed.Title
	}

	cards := make([]domain.Card, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		card := domain.Card{
			GUID:        itemGUID(parsed.Title, item),
			SourceType:  domain.SourceRSS,
			Title:       content.SanitizeDescription(item.Title),
			Summary:     content.SanitizeDescription(item.Description),
			OriginalURL: item.Link,
			Payload: domain.Payload{
				Type: domain.SourceRSS,
				News: &domain.NewsPayload{FeedTitle: feedTitle},
			},
		}

		if item.Author != nil {
			card.Payload.News.Author = item.Author.Name
		}

		if card.Summary == "" {
			card.Summary = content.SanitizeDescription(item.Content)
		}

		// thin descriptions get a full-text excerpt for better embeddings
		if r.extractor != nil && len(card.Summary) < r.minDescription && item.Link != "" {
			if text, exErr := r.extractor.Extract(ctx, item.Link); exErr == nil {
				card.Payload.News.Excerpt = truncate(text, 500)
			} else {
				lgr.Printf("[DEBUG] full-text extraction failed for %s: %v", item.Link, exErr)
			}
		}

		cards = append(cards, card)
	}

	return cards, nil
}

// itemGUID picks a stable identifier, falling back to link then to titles
func itemGUID(feedTitle string, item *gofeed.Item) string {
	switch {
	case item.GUID != "":
		return item.GUID
	case item.Link != "":
		return item.Link
	default:
		return fmt.Sprintf("%s-%s", feedTitle, item.Title)
	}
}

func (r *RSS) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)
	addFeedHeaders(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

var feedAcceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,es;q=0.8",
	"en-US,en;q=0.9,de;q=0.8",
}

// addFeedHeaders adds browser-like headers, feeds are often fetched by
// browsers too and some hosts reject obvious bots
func addFeedHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,text/html;q=0.7,*/*;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", feedAcceptLanguages[rand.Intn(len(feedAcceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
	req.Header.Set("Connection", "keep-alive")
}
