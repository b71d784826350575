package crowd

import "time"

// CrowdLevel is the 4-level congestion classification exposed to clients.
type CrowdLevel string

const (
	LevelLow      CrowdLevel = "low"
	LevelMedium   CrowdLevel = "medium"
	LevelHigh     CrowdLevel = "high"
	LevelVeryHigh CrowdLevel = "very_high"
)

// LevelFromValue maps a normalized crowd value in [0,1] to a level.
// Thresholds: <=0.25 low, <=0.50 medium, <=0.75 high, else very_high.
func LevelFromValue(v float64) CrowdLevel {
	switch {
	case v <= 0.25:
		return LevelLow
	case v <= 0.50:
		return LevelMedium
	case v <= 0.75:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// Value returns the midpoint crowd value for a level, used when folding
// discrete report levels into the historical averages.
func (l CrowdLevel) Value() float64 {
	switch l {
	case LevelLow:
		return 0.125
	case LevelMedium:
		return 0.375
	case LevelHigh:
		return 0.625
	case LevelVeryHigh:
		return 0.875
	}
	return 0.375
}

// Observation is a single historical crowd data point for a place,
// typically derived from a user report.
type Observation struct {
	PlaceID    string    `json:"place_id"`
	Value      float64   `json:"value"` // normalized crowd value [0,1]
	Confidence float64   `json:"confidence"`
	ObservedAt time.Time `json:"observed_at"`
}

// PredictionFactor is a named, signed adjustment applied to the baseline.
// Impact is in [-1,1]; factors with |impact| <= 0.05 are dropped before
// confidence calculations.
type PredictionFactor struct {
	Name        string  `json:"name"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// TimeWindow brackets the time a prediction applies to.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Prediction is the engine output for a single place and target time.
type Prediction struct {
	PlaceID    string             `json:"place_id"`
	Level      CrowdLevel         `json:"predicted_crowd_level"`
	Confidence float64            `json:"confidence"`
	Window     TimeWindow         `json:"time_window"`
	Factors    []PredictionFactor `json:"factors"`
}

// TrendPoint is one step of a crowd trend series.
type TrendPoint struct {
	At         time.Time  `json:"at"`
	Level      CrowdLevel `json:"predicted_crowd_level"`
	Confidence float64    `json:"confidence"`
}

type patternKey struct {
	Hour    int
	Weekday time.Weekday
}

type patternEntry struct {
	Average float64
	Samples int
}
