package recommend

import (
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/crowd"
	"github.com/socialrhythm/rhythm-backend/internal/geo"
	"github.com/socialrhythm/rhythm-backend/internal/place"
)

// VisitPreferences is the slice of a user's preference bundle the
// suggestion scoring reads.
type VisitPreferences struct {
	PreferredCrowdLevel crowd.CrowdLevel `json:"preferred_crowd_level,omitempty"`
	MaxWaitMinutes      int              `json:"max_wait_minutes,omitempty"`
	NeedsWheelchair     bool             `json:"needs_wheelchair,omitempty"`
}

// Context is the per-call envelope for suggestion generation. When
// TargetPlace is set the engine suggests for that place alone instead
// of ranking the held list.
type Context struct {
	UserLocation *geo.Coordinates
	Preferences  VisitPreferences
	TargetPlace  *place.Place
	When         time.Time

	// Observations per place, fed into the prediction engine.
	Observations map[string][]crowd.Observation
}

// Options tunes suggestion generation. Zero values take defaults.
type Options struct {
	MaxSuggestions  int
	MaxAlternatives int
}

// AlternativeOption is one same-category fallback attached to a suggestion.
type AlternativeOption struct {
	Place         *place.Place `json:"place"`
	PredictedWait int          `json:"predicted_wait_minutes"`
}

// Suggestion is one ranked "visit now" recommendation.
type Suggestion struct {
	Place          *place.Place         `json:"place"`
	CrowdLevel     crowd.CrowdLevel     `json:"predicted_crowd_level"`
	PredictedWait  int                  `json:"predicted_wait_minutes"`
	Confidence     float64              `json:"confidence"`
	Reason         string               `json:"reason"`
	RecommendedAt  string               `json:"recommended_time,omitempty"` // "HH:MM", empty means visit now
	DistanceMeters *float64             `json:"distance_meters,omitempty"`
	Alternatives   []*AlternativeOption `json:"alternatives,omitempty"`
	GeneratedAt    time.Time            `json:"generated_at"`
}
