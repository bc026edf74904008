package domain

// ReasonTag explains why a card was selected for the feed
type ReasonTag string

// reason tags in precedence order, first match wins
const (
	ReasonRecent           ReasonTag = "RECENT"
	ReasonBlindspotBreaker ReasonTag = "BLINDSPOT_BREAKER"
	ReasonExplore          ReasonTag = "EXPLORE"
	ReasonPerspectiveShift ReasonTag = "PERSPECTIVE_SHIFT"
	ReasonDeepDive         ReasonTag = "DEEP_DIVE"
	ReasonSerendipity      ReasonTag = "SERENDIPITY"
)

// ScoredCard is a card selected for a feed page with its curation verdict
type ScoredCard struct {
	Card     *Card
	Distance float64 // cosine distance to the context vector
	Score    float64 // serendipity score in [0,1]
	Reason   ReasonTag
}

// FeedMode describes how a feed page was produced
type FeedMode string

// feed modes; degraded means ranking was attempted but fell back to recency
const (
	FeedModeRanked   FeedMode = "ranked"
	FeedModeRecent   FeedMode = "recent"
	FeedModeDegraded FeedMode = "degraded"
)

// FeedResult is the typed outcome of feed selection, letting the caller
// observe why a fallback happened without depending on error identity
type FeedResult struct {
	Cards  []ScoredCard
	Mode   FeedMode
	Reason string // populated for FeedModeDegraded
}

// Pagination carries feed page metadata echoed back to the caller
type Pagination struct {
	Page           int  `json:"page"`
	Limit          int  `json:"limit"`
	HasNextPage    bool `json:"has_next_page"`
	TotalReadToday int  `json:"total_read_today"`
	DailyLimit     int  `json:"daily_limit"`
}

// Completion is the terminal signal emitted when the daily quota is exhausted
type Completion struct {
	Message string          `json:"message"`
	Stats   CompletionStats `json:"stats"`
}

// CompletionStats summarizes the finished session
type CompletionStats struct {
	CardsRead  int `json:"cards_read"`
	DailyLimit int `json:"daily_limit"`
}

// FeedPage is the ordered output of one feed computation
type FeedPage struct {
	Items      []ScoredCard
	Mode       FeedMode
	Pagination Pagination
	Completion *Completion // nil while the session is active
}
