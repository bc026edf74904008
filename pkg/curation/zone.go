package curation

import "github.com/bloomscroll/bloomscroll/pkg/domain"

// ZoneConfig defines the serendipity zone, the cosine-distance band where
// content is different enough to be novel but close enough to be understood.
// Below MinDistance is echo chamber, above MaxDistance is noise.
type ZoneConfig struct {
	MinDistance float64
	MaxDistance float64
}

// DefaultZone returns the standard serendipity zone [0.3, 0.8]
func DefaultZone() ZoneConfig {
	return ZoneConfig{MinDistance: 0.3, MaxDistance: 0.8}
}

// IdealDistance is the zone midpoint where the serendipity score peaks
func (z ZoneConfig) IdealDistance() float64 {
	return (z.MinDistance + z.MaxDistance) / 2
}

// MaxDeviation is the half-width of the zone
func (z ZoneConfig) MaxDeviation() float64 {
	return (z.MaxDistance - z.MinDistance) / 2
}

// InZone reports whether the distance falls inside the serendipity zone,
// boundaries included
func (z ZoneConfig) InZone(distance float64) bool {
	return distance >= z.MinDistance && distance <= z.MaxDistance
}

// Score maps a distance to a serendipity score in [0,1]: 1.0 at the zone
// midpoint, falling off linearly to 0.0 at either boundary, 0.0 outside.
func (z ZoneConfig) Score(distance float64) float64 {
	if !z.InZone(distance) {
		return 0.0
	}

	deviation := distance - z.IdealDistance()
	if deviation < 0 {
		deviation = -deviation
	}

	score := 1.0 - deviation/z.MaxDeviation()
	if score < 0 {
		return 0.0
	}
	if score > 1 {
		return 1.0
	}
	return score
}

// ReasonFor explains why a card is shown relative to the reading context.
// Precedence: no context → RECENT, blindspot tags → BLINDSPOT_BREAKER, then
// distance bands.
func (z ZoneConfig) ReasonFor(card *domain.Card, contextVector []float32) domain.ReasonTag {
	if len(contextVector) == 0 || IsZeroVector(contextVector) || !card.HasEmbedding() {
		return domain.ReasonRecent
	}

	if len(card.BlindspotTags) > 0 {
		return domain.ReasonBlindspotBreaker
	}

	return z.reasonForDistance(CosineDistance(card.Embedding, contextVector))
}

// reasonForDistance maps a cosine distance to its reason tag. The bands leave
// a gap at exactly 0.4, which falls through to the SERENDIPITY default; the
// boundary is intentionally left as is.
func (z ZoneConfig) reasonForDistance(distance float64) domain.ReasonTag {
	switch {
	case distance > 0.6:
		return domain.ReasonExplore
	case distance > 0.4:
		return domain.ReasonPerspectiveShift
	case distance < 0.4:
		return domain.ReasonDeepDive
	}
	return domain.ReasonSerendipity
}
