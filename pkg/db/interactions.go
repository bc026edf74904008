package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// CreateInteraction records a user interaction with a card
func (db *DB) CreateInteraction(ctx context.Context, interaction *domain.Interaction) error {
	dbInteraction := &Interaction{
		UserID:    interaction.UserID,
		CardID:    interaction.CardID,
		Action:    string(interaction.Action),
		DwellTime: interaction.DwellTime,
	}

	query := `
		INSERT INTO interactions (user_id, card_id, action, dwell_time)
		VALUES (:user_id, :card_id, :action, :dwell_time)
	`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		result, err := db.conn.NamedExecContext(ctx, query, dbInteraction)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("insert interaction: %w", err)}
		}

		id, err := result.LastInsertId()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get last insert id: %w", err)}
		}
		interaction.ID = id
		return nil
	})
}

// GetRecentCardIDs returns the IDs of cards a user recently viewed or read,
// newest first. Only view and read actions carry context signal.
func (db *DB) GetRecentCardIDs(ctx context.Context, userID string, limit int) ([]int64, error) {
	var ids []int64
	query := `
		SELECT card_id FROM interactions
		WHERE user_id = ? AND action IN ('view', 'read')
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	if err := db.conn.SelectContext(ctx, &ids, query, userID, limit); err != nil {
		return nil, fmt.Errorf("get recent card ids: %w", err)
	}
	return ids, nil
}

// CountInteractions returns the number of interactions recorded for a user
func (db *DB) CountInteractions(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := db.conn.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM interactions WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return count, nil
}
