package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// CreateCard inserts a new card, deduplicated by (source_type, guid).
// Duplicate inserts are silently skipped and leave card.ID unset.
func (db *DB) CreateCard(ctx context.Context, card *domain.Card) error {
	dbCard, err := fromDomain(card)
	if err != nil {
		return fmt.Errorf("convert card: %w", err)
	}

	query := `
		INSERT INTO cards (
			guid, source_type, title, summary, original_url, payload,
			bias_score, constructiveness_score, blindspot_tags, embedding
		) VALUES (
			:guid, :source_type, :title, :summary, :original_url, :payload,
			:bias_score, :constructiveness_score, :blindspot_tags, :embedding
		)
		ON CONFLICT(source_type, guid) DO NOTHING
	`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		result, err := db.conn.NamedExecContext(ctx, query, dbCard)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("insert card: %w", err)}
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get rows affected: %w", err)}
		}

		if rowsAffected > 0 {
			id, err := result.LastInsertId()
			if err != nil {
				return &criticalError{err: fmt.Errorf("get last insert id: %w", err)}
			}
			card.ID = id
		}
		return nil
	})
}

// GetCard retrieves a card by ID
func (db *DB) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	var dbCard Card
	err := db.conn.GetContext(ctx, &dbCard, "SELECT * FROM cards WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get card %d: %w", id, err)
	}
	return dbCard.toDomain(), nil
}

// GetRecentCards retrieves the newest cards, newest first
func (db *DB) GetRecentCards(ctx context.Context, limit int) ([]*domain.Card, error) {
	var dbCards []Card
	query := `SELECT * FROM cards ORDER BY created_at DESC, id DESC LIMIT ?`
	if err := db.conn.SelectContext(ctx, &dbCards, query, limit); err != nil {
		return nil, fmt.Errorf("get recent cards: %w", err)
	}
	return toDomainCards(dbCards), nil
}

// GetCardsByIDs retrieves cards by their IDs; unknown IDs are silently omitted
func (db *DB) GetCardsByIDs(ctx context.Context, ids []int64) ([]*domain.Card, error) {
	if len(ids) == 0 {
		return []*domain.Card{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM cards WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	query = db.conn.Rebind(query)

	var dbCards []Card
	if err := db.conn.SelectContext(ctx, &dbCards, query, args...); err != nil {
		return nil, fmt.Errorf("get cards by ids: %w", err)
	}
	return toDomainCards(dbCards), nil
}

// GetCandidatePool retrieves the newest cards that carry an embedding
func (db *DB) GetCandidatePool(ctx context.Context, poolSize int) ([]*domain.Card, error) {
	var dbCards []Card
	query := `
		SELECT * FROM cards
		WHERE embedding IS NOT NULL
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	if err := db.conn.SelectContext(ctx, &dbCards, query, poolSize); err != nil {
		return nil, fmt.Errorf("get candidate pool: %w", err)
	}
	return toDomainCards(dbCards), nil
}

// GetCardsNeedingEmbedding retrieves cards without an embedding, oldest first
func (db *DB) GetCardsNeedingEmbedding(ctx context.Context, limit int) ([]*domain.Card, error) {
	var dbCards []Card
	query := `
		SELECT * FROM cards
		WHERE embedding IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`
	if err := db.conn.SelectContext(ctx, &dbCards, query, limit); err != nil {
		return nil, fmt.Errorf("get cards needing embedding: %w", err)
	}
	return toDomainCards(dbCards), nil
}

// UpdateCardEmbedding stores the embedding for a card
func (db *DB) UpdateCardEmbedding(ctx context.Context, cardID int64, embedding []float32) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		_, err := db.conn.ExecContext(ctx,
			"UPDATE cards SET embedding = ?, embedded_at = datetime('now') WHERE id = ?",
			vectorToBytes(embedding), cardID)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("update card embedding: %w", err)}
		}
		return nil
	})
}

// GetCardsNeedingSummary retrieves cards without an LLM summary, oldest first
func (db *DB) GetCardsNeedingSummary(ctx context.Context, limit int) ([]*domain.Card, error) {
	var dbCards []Card
	query := `
		SELECT * FROM cards
		WHERE summarized_at IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`
	if err := db.conn.SelectContext(ctx, &dbCards, query, limit); err != nil {
		return nil, fmt.Errorf("get cards needing summary: %w", err)
	}
	return toDomainCards(dbCards), nil
}

// UpdateCardSummary stores the generated summary for a card. The embedding is
// cleared so the backfill re-embeds with the richer text.
func (db *DB) UpdateCardSummary(ctx context.Context, cardID int64, summary string) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		_, err := db.conn.ExecContext(ctx,
			"UPDATE cards SET summary = ?, summarized_at = datetime('now'), embedding = NULL, embedded_at = NULL WHERE id = ?",
			summary, cardID)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("update card summary: %w", err)}
		}
		return nil
	})
}

// CardAnnotation carries the LLM outputs stored on a card
type CardAnnotation struct {
	Summary               string
	BiasScore             float64
	ConstructivenessScore float64
	BlindspotTags         []string
}

// UpdateCardAnnotation stores the full LLM annotation for a card. The
// embedding is cleared so the backfill re-embeds with the richer text.
func (db *DB) UpdateCardAnnotation(ctx context.Context, cardID int64, ann CardAnnotation) error {
	tags, err := marshalTags(ann.BlindspotTags)
	if err != nil {
		return fmt.Errorf("marshal blindspot tags: %w", err)
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		_, err := db.conn.ExecContext(ctx, `
			UPDATE cards
			SET summary = ?, bias_score = ?, constructiveness_score = ?, blindspot_tags = ?,
			    summarized_at = datetime('now'), embedding = NULL, embedded_at = NULL
			WHERE id = ?`,
			ann.Summary, ann.BiasScore, ann.ConstructivenessScore, tags, cardID)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("update card annotation: %w", err)}
		}
		return nil
	})
}

// CardStats holds aggregate counts over the card table
type CardStats struct {
	Total    int64 `db:"total"`
	Embedded int64 `db:"embedded"`
}

// GetCardStats returns card counts and embedding coverage
func (db *DB) GetCardStats(ctx context.Context) (*CardStats, error) {
	var stats CardStats
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(embedding) AS embedded
		FROM cards
	`
	if err := db.conn.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("get card stats: %w", err)
	}
	return &stats, nil
}

func toDomainCards(dbCards []Card) []*domain.Card {
	cards := make([]*domain.Card, len(dbCards))
	for i := range dbCards {
		cards[i] = dbCards[i].toDomain()
	}
	return cards
}
