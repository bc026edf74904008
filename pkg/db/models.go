package db

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// Card is the database representation of a content card
type Card struct {
	ID                    int64          `db:"id"`
	GUID                  string         `db:"guid"`
	SourceType            string         `db:"source_type"`
	Title                 string         `db:"title"`
	Summary               string         `db:"summary"`
	OriginalURL           string         `db:"original_url"`
	Payload               string         `db:"payload"`
	BiasScore             float64        `db:"bias_score"`
	ConstructivenessScore float64        `db:"constructiveness_score"`
	BlindspotTags         string         `db:"blindspot_tags"`
	Embedding             []byte         `db:"embedding"`
	EmbeddedAt            sql.NullTime   `db:"embedded_at"`
	SummarizedAt          sql.NullTime   `db:"summarized_at"`
	CreatedAt             time.Time      `db:"created_at"`
}

// Interaction is the database representation of a user interaction
type Interaction struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	CardID    int64     `db:"card_id"`
	Action    string    `db:"action"`
	DwellTime int       `db:"dwell_time"`
	CreatedAt time.Time `db:"created_at"`
}

// toDomain converts a database card to the domain type. Malformed payload or
// tag JSON degrades to empty values rather than failing the whole row.
func (c *Card) toDomain() *domain.Card {
	card := &domain.Card{
		ID:                    c.ID,
		GUID:                  c.GUID,
		SourceType:            domain.SourceType(c.SourceType),
		Title:                 c.Title,
		Summary:               c.Summary,
		OriginalURL:           c.OriginalURL,
		BiasScore:             c.BiasScore,
		ConstructivenessScore: c.ConstructivenessScore,
		CreatedAt:             c.CreatedAt,
	}

	if c.BlindspotTags != "" && c.BlindspotTags != "[]" {
		_ = json.Unmarshal([]byte(c.BlindspotTags), &card.BlindspotTags)
	}
	if c.Payload != "" && c.Payload != "{}" {
		_ = json.Unmarshal([]byte(c.Payload), &card.Payload)
	}
	if len(c.Embedding) > 0 {
		if vec, err := bytesToVector(c.Embedding); err == nil {
			card.Embedding = vec
		}
	}

	return card
}

// fromDomain converts a domain card to its database representation
func fromDomain(card *domain.Card) (*Card, error) {
	payload, err := json.Marshal(card.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	tags, err := marshalTags(card.BlindspotTags)
	if err != nil {
		return nil, fmt.Errorf("marshal blindspot tags: %w", err)
	}

	dbCard := &Card{
		ID:                    card.ID,
		GUID:                  card.GUID,
		SourceType:            string(card.SourceType),
		Title:                 card.Title,
		Summary:               card.Summary,
		OriginalURL:           card.OriginalURL,
		Payload:               string(payload),
		BiasScore:             card.BiasScore,
		ConstructivenessScore: card.ConstructivenessScore,
		BlindspotTags:         tags,
		CreatedAt:             card.CreatedAt,
	}
	if card.HasEmbedding() {
		dbCard.Embedding = vectorToBytes(card.Embedding)
	}

	return dbCard, nil
}

// marshalTags encodes blindspot tags as a JSON array, never null
func marshalTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// vectorToBytes encodes an embedding as little-endian float32 bytes
func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToVector decodes a little-endian float32 blob into an embedding
func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
