package domain

import "time"

// SourceType identifies the ingestion connector that produced a card
type SourceType string

// known card sources
const (
	SourceOWID       SourceType = "owid"
	SourceAesthetics SourceType = "aesthetics"
	SourceRSS        SourceType = "rss"
)

// Card represents a single content card in the feed
type Card struct {
	ID          int64
	GUID        string // source-scoped unique identifier
	SourceType  SourceType
	Title       string
	Summary     string
	OriginalURL string
	Payload     Payload

	BiasScore             float64
	ConstructivenessScore float64
	BlindspotTags         []string

	Embedding []float32 // nil when not yet embedded
	CreatedAt time.Time
}

// HasEmbedding reports whether the card carries a usable embedding
func (c *Card) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// EmbeddingText returns the text used to compute the card embedding
func (c *Card) EmbeddingText() string {
	if c.Summary == "" {
		return c.Title
	}
	return c.Title + ". " + c.Summary
}

// Payload is a tagged per-source data payload, one variant per connector
type Payload struct {
	Type  SourceType    `json:"type"`
	Chart *ChartPayload `json:"chart,omitempty"`
	Image *ImagePayload `json:"image,omitempty"`
	News  *NewsPayload  `json:"news,omitempty"`
}

// ChartPayload carries OWID time-series data rendered natively by clients
type ChartPayload struct {
	ChartType string    `json:"chart_type"`
	Years     []int     `json:"years"`
	Values    []float64 `json:"values"`
	Unit      string    `json:"unit"`
	Indicator string    `json:"indicator"`
	Entity    string    `json:"entity"`
}

// ImagePayload carries an aesthetic image block from Are.na
type ImagePayload struct {
	ImageURL  string `json:"image_url"`
	Channel   string `json:"channel"`
	Aesthetic string `json:"aesthetic"`
}

// NewsPayload carries an article reference from an RSS source
type NewsPayload struct {
	FeedTitle string `json:"feed_title"`
	Author    string `json:"author,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
}

// Interaction records a user action on a card, used for context building
type Interaction struct {
	ID        int64
	UserID    string
	CardID    int64
	Action    InteractionAction
	DwellTime int // seconds, 0 when unknown
	CreatedAt time.Time
}

// InteractionAction is the kind of user interaction
type InteractionAction string

// interaction actions; only view and read contribute to reading context
const (
	ActionView InteractionAction = "view"
	ActionRead InteractionAction = "read"
	ActionSkip InteractionAction = "skip"
	ActionSave InteractionAction = "save"
)

// ValidAction reports whether the action is one of the known kinds
func ValidAction(a InteractionAction) bool {
	switch a {
	case ActionView, ActionRead, ActionSkip, ActionSave:
		return true
	}
	return false
}
