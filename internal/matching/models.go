package matching

import (
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/geo"
)

// MatchQuality is the discrete tier a compatibility score maps to.
type MatchQuality string

const (
	QualityExcellent  MatchQuality = "excellent"
	QualityGood       MatchQuality = "good"
	QualityAcceptable MatchQuality = "acceptable"
	QualityPoor       MatchQuality = "poor"
)

// QualityForScore maps a score to its tier, evaluated high to low.
func QualityForScore(score float64) MatchQuality {
	switch {
	case score >= 0.85:
		return QualityExcellent
	case score >= 0.70:
		return QualityGood
	case score >= 0.50:
		return QualityAcceptable
	default:
		return QualityPoor
	}
}

// MatchPreferences is the per-user bundle the engine reads for the
// requesting side of a comparison.
type MatchPreferences struct {
	MaxDistanceMeters float64 `json:"max_distance_meters" db:"max_distance_meters"`
	MinAge            *int    `json:"min_age,omitempty" db:"pref_min_age"`
	MaxAge            *int    `json:"max_age,omitempty" db:"pref_max_age"`
	PreferredGender   string  `json:"preferred_gender,omitempty" db:"preferred_gender"`
	GroupSize         string  `json:"group_size,omitempty" db:"group_size"`
}

// Profile is the matching view of a user. Optional fields are pointers;
// a missing field zeroes its factor rather than failing the comparison.
type Profile struct {
	ID          int64            `json:"id" db:"id"`
	DisplayName string           `json:"display_name" db:"display_name"`
	Age         *int             `json:"age,omitempty"`
	Gender      string           `json:"gender,omitempty" db:"gender"`
	Location    *geo.Coordinates `json:"location,omitempty"`
	Interests   []string         `json:"interests"`
	TimeSlots   []string         `json:"time_slots"` // preferred activity time slots, e.g. "sat_morning"
	SafetyLevel *int             `json:"safety_level,omitempty"`
	Preferences MatchPreferences `json:"preferences"`
}

// FactorScores is the per-factor breakdown of a compatibility score,
// each normalized to [0,1] before weighting.
type FactorScores struct {
	Location  float64 `json:"location"`
	Interests float64 `json:"interests"`
	Age       float64 `json:"age"`
	Gender    float64 `json:"gender"`
	Safety    float64 `json:"safety"`
	Activity  float64 `json:"activity"`
}

// Proposal is one ranked candidate out of FindMatches.
type Proposal struct {
	Profile *Profile      `json:"profile"`
	Score   float64       `json:"score"`
	Quality MatchQuality  `json:"quality"`
	Factors *FactorScores `json:"factors,omitempty"`
}

// CompanionMatch is a persisted pairing of two users.
type CompanionMatch struct {
	ID                 int64      `json:"id" db:"id"`
	User1ID            int64      `json:"user1_id" db:"user1_id"`
	User2ID            int64      `json:"user2_id" db:"user2_id"`
	CompatibilityScore float64    `json:"compatibility_score" db:"compatibility_score"`
	Quality            string     `json:"quality" db:"quality"`
	IsActive           bool       `json:"is_active" db:"is_active"`
	UnmatchedBy        *int64     `json:"unmatched_by,omitempty" db:"unmatched_by"`
	UnmatchedAt        *time.Time `json:"unmatched_at,omitempty" db:"unmatched_at"`
	MatchedAt          time.Time  `json:"matched_at" db:"matched_at"`

	// Joined field
	MatchedUser *Profile `json:"matched_user,omitempty"`
}
