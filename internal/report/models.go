package report

import (
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/crowd"
)

// Report is one user-submitted observation of a place's live state.
type Report struct {
	ID          string           `json:"id" db:"id"`
	PlaceID     string           `json:"place_id" db:"place_id"`
	UserID      int64            `json:"user_id" db:"user_id"`
	CrowdLevel  crowd.CrowdLevel `json:"crowd_level" db:"crowd_level"`
	WaitMinutes *int             `json:"wait_minutes,omitempty" db:"wait_minutes"`
	NoiseLevel  *int             `json:"noise_level,omitempty" db:"noise_level"`
	IsOpen      *bool            `json:"is_open,omitempty" db:"is_open"`
	Notes       string           `json:"notes,omitempty" db:"notes"`
	PhotoURL    *string          `json:"photo_url,omitempty" db:"photo_url"`
	Confidence  float64          `json:"confidence" db:"confidence"`
	Verified    bool             `json:"verified" db:"verified"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// Observation converts the report into the form the prediction engine
// consumes. The discrete level maps to its bucket midpoint.
func (r *Report) Observation() crowd.Observation {
	return crowd.Observation{
		PlaceID:    r.PlaceID,
		Value:      r.CrowdLevel.Value(),
		Confidence: r.Confidence,
		ObservedAt: r.CreatedAt,
	}
}

// scoreConfidence weighs a fresh report. Verified reporters and photo
// evidence raise it; the ceiling leaves room for doubt.
func scoreConfidence(verified, hasPhoto bool) float64 {
	confidence := 0.6
	if verified {
		confidence += 0.2
	}
	if hasPhoto {
		confidence += 0.1
	}
	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence
}
