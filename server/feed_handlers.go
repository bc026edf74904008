package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bloomscroll/bloomscroll/pkg/curation"
	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// defaultPageLimit is the page size when the caller does not specify one
const defaultPageLimit = 10

// feedItem is the JSON shape of one scored card
type feedItem struct {
	ID                    int64          `json:"id"`
	GUID                  string         `json:"guid"`
	SourceType            string         `json:"source_type"`
	Title                 string         `json:"title"`
	Summary               string         `json:"summary,omitempty"`
	OriginalURL           string         `json:"original_url,omitempty"`
	Payload               domain.Payload `json:"payload"`
	BiasScore             float64        `json:"bias_score"`
	ConstructivenessScore float64        `json:"constructiveness_score"`
	BlindspotTags         []string       `json:"blindspot_tags,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`

	Distance float64 `json:"distance"`
	Score    float64 `json:"score"`
	Reason   string  `json:"reason"`
}

// feedResponse is the JSON shape of one feed page
type feedResponse struct {
	Items      []feedItem         `json:"items"`
	Mode       string             `json:"mode"`
	Pagination domain.Pagination  `json:"pagination"`
	Completion *domain.Completion `json:"completion,omitempty"`
}

// feedHandler serves a curated feed page.
// Query parameters: context (comma-separated card IDs), user (derive context
// from recent interactions when context is absent), page, read_count, limit.
func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	contextIDs, err := parseContextIDs(q.Get("context"))
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	page, err := parseIntParam(q.Get("page"), 1)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid page: %w", err), http.StatusBadRequest)
		return
	}
	readCount, err := parseIntParam(q.Get("read_count"), 0)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid read_count: %w", err), http.StatusBadRequest)
		return
	}
	limit, err := parseIntParam(q.Get("limit"), defaultPageLimit)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid limit: %w", err), http.StatusBadRequest)
		return
	}

	// no explicit context, derive it from the user's recent reads. a lookup
	// failure degrades to an empty context and the recency fallback kicks in
	if len(contextIDs) == 0 {
		if user := q.Get("user"); user != "" {
			ids, derr := s.db.GetRecentCardIDs(ctx, user, s.config.GetCurationConfig().ContextSize)
			if derr != nil {
				log.Printf("[WARN] failed to derive context for user %s: %v", user, derr)
			} else {
				contextIDs = ids
			}
		}
	}

	feedPage, err := s.feed.ComputeFeedPage(ctx, curation.FeedRequest{
		ContextIDs: contextIDs,
		Page:       page,
		ReadCount:  readCount,
		Limit:      limit,
	})
	if err != nil {
		if errors.Is(err, curation.ErrInvalidRequest) {
			RenderError(w, r, err, http.StatusBadRequest)
			return
		}
		log.Printf("[ERROR] failed to compute feed page: %v", err)
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, toFeedResponse(feedPage))
}

// createInteractionHandler records a user action on a card
func (s *Server) createInteractionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"user_id"`
		CardID    int64  `json:"card_id"`
		Action    string `json:"action"`
		DwellTime int    `json:"dwell_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	if req.UserID == "" {
		RenderError(w, r, fmt.Errorf("user_id is required"), http.StatusBadRequest)
		return
	}
	if req.CardID <= 0 {
		RenderError(w, r, fmt.Errorf("card_id is required"), http.StatusBadRequest)
		return
	}
	action := domain.InteractionAction(req.Action)
	if !domain.ValidAction(action) {
		RenderError(w, r, fmt.Errorf("invalid action %q", req.Action), http.StatusBadRequest)
		return
	}
	if req.DwellTime < 0 {
		RenderError(w, r, fmt.Errorf("dwell_time must be >= 0"), http.StatusBadRequest)
		return
	}

	interaction := &domain.Interaction{
		UserID:    req.UserID,
		CardID:    req.CardID,
		Action:    action,
		DwellTime: req.DwellTime,
	}
	if err := s.db.CreateInteraction(r.Context(), interaction); err != nil {
		log.Printf("[ERROR] failed to create interaction: %v", err)
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusCreated, map[string]interface{}{
		"id":      interaction.ID,
		"user_id": interaction.UserID,
		"card_id": interaction.CardID,
		"action":  string(interaction.Action),
	})
}

// recentInteractionsHandler returns the card IDs behind a user's reading context
func (s *Server) recentInteractionsHandler(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	if user == "" {
		RenderError(w, r, fmt.Errorf("user is required"), http.StatusBadRequest)
		return
	}

	limit, err := parseIntParam(r.URL.Query().Get("limit"), s.config.GetCurationConfig().ContextSize)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid limit: %w", err), http.StatusBadRequest)
		return
	}

	ids, err := s.db.GetRecentCardIDs(r.Context(), user, limit)
	if err != nil {
		log.Printf("[ERROR] failed to get recent card ids for %s: %v", user, err)
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	total, err := s.db.CountInteractions(r.Context(), user)
	if err != nil {
		log.Printf("[ERROR] failed to count interactions for %s: %v", user, err)
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{
		"user_id":            user,
		"card_ids":           ids,
		"total_interactions": total,
	})
}

// ingestHandler triggers an immediate ingestion round, for one source or all
func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")

	if err := s.scheduler.IngestNow(r.Context(), source); err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	result := map[string]string{"status": "ok"}
	if source != "" {
		result["source"] = source
	}
	RenderJSON(w, r, http.StatusAccepted, result)
}

// embedHandler triggers an immediate embedding backfill round
func (s *Server) embedHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.scheduler.EmbedNow(r.Context()); err != nil {
		log.Printf("[ERROR] embedding backfill failed: %v", err)
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}
	RenderJSON(w, r, http.StatusAccepted, map[string]string{"status": "ok"})
}

// parseContextIDs parses a comma-separated list of card IDs
func parseContextIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid context card id %q", part)
		}
		if id <= 0 {
			return nil, fmt.Errorf("invalid context card id %d", id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseIntParam parses an optional integer query parameter
func parseIntParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return v, nil
}

// toFeedResponse converts a domain feed page to its JSON shape
func toFeedResponse(page *domain.FeedPage) feedResponse {
	items := make([]feedItem, 0, len(page.Items))
	for _, scored := range page.Items {
		items = append(items, feedItem{
			ID:                    scored.Card.ID,
			GUID:                  scored.Card.GUID,
			SourceType:            string(scored.Card.SourceType),
			Title:                 scored.Card.Title,
			Summary:               scored.Card.Summary,
			OriginalURL:           scored.Card.OriginalURL,
			Payload:               scored.Card.Payload,
			BiasScore:             scored.Card.BiasScore,
			ConstructivenessScore: scored.Card.ConstructivenessScore,
			BlindspotTags:         scored.Card.BlindspotTags,
			CreatedAt:             scored.Card.CreatedAt,
			Distance:              scored.Distance,
			Score:                 scored.Score,
			Reason:                string(scored.Reason),
		})
	}

	return feedResponse{
		Items:      items,
		Mode:       string(page.Mode),
		Pagination: page.Pagination,
		Completion: page.Completion,
	}
}
