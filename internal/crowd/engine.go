package crowd

import (
	"sync"
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/place"
)

const (
	defaultTrendInterval = 30 * time.Minute
	predictionWindow     = 30 * time.Minute

	minConfidence = 0.10
	maxConfidence = 0.95
)

// Engine predicts crowd levels from category baselines, accumulated report
// history and a set of adjustment factors. One instance per process is
// typical, but callers construct and own their instances; all methods are
// safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	history  map[string][]Observation
	patterns map[string]map[patternKey]patternEntry

	weather WeatherProvider
	now     func() time.Time
}

// NewEngine creates an engine. A nil weather provider falls back to the
// random stand-in; a nil clock falls back to time.Now.
func NewEngine(weather WeatherProvider, now func() time.Time) *Engine {
	if weather == nil {
		weather = NewRandomWeatherProvider()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		history:  make(map[string][]Observation),
		patterns: make(map[string]map[patternKey]patternEntry),
		weather:  weather,
		now:      now,
	}
}

// UpdateHistoricalData replaces the stored history for a place and rebuilds
// its (hour, weekday) pattern table from scratch. The rebuild is a full
// recompute on every call, never an incremental merge.
func (e *Engine) UpdateHistoricalData(placeID string, reports []Observation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := make([]Observation, len(reports))
	copy(history, reports)
	e.history[placeID] = history

	pattern := make(map[patternKey]patternEntry)
	for _, obs := range history {
		key := patternKey{Hour: obs.ObservedAt.Hour(), Weekday: obs.ObservedAt.Weekday()}
		entry := pattern[key]
		entry.Average = (entry.Average*float64(entry.Samples) + obs.Value) / float64(entry.Samples+1)
		entry.Samples++
		pattern[key] = entry
	}
	e.patterns[placeID] = pattern
	recordHistoryUpdate()
}

// SampleCount returns the number of stored observations for a place.
func (e *Engine) SampleCount(placeID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.history[placeID])
}

// PredictCrowdLevel refreshes the place's history from the supplied reports
// and predicts the crowd level at the target time.
func (e *Engine) PredictCrowdLevel(p *place.Place, target time.Time, reports []Observation) Prediction {
	e.UpdateHistoricalData(p.ID, reports)
	return e.predict(p, target)
}

// PredictCrowdTrend steps the target time from start to end inclusive and
// predicts each point. History is refreshed once up front.
func (e *Engine) PredictCrowdTrend(p *place.Place, start, end time.Time, interval time.Duration, reports []Observation) []TrendPoint {
	if interval <= 0 {
		interval = defaultTrendInterval
	}
	e.UpdateHistoricalData(p.ID, reports)

	var points []TrendPoint
	for t := start; !t.After(end); t = t.Add(interval) {
		pred := e.predict(p, t)
		points = append(points, TrendPoint{
			At:         t,
			Level:      pred.Level,
			Confidence: pred.Confidence,
		})
	}
	return points
}

func (e *Engine) predict(p *place.Place, target time.Time) Prediction {
	hour := target.Hour()
	weekday := target.Weekday()

	base := baselineFor(p.Category, hour, isWeekend(weekday))

	e.mu.RLock()
	samples := len(e.history[p.ID])
	entry, hasPattern := e.patterns[p.ID][patternKey{Hour: hour, Weekday: weekday}]
	e.mu.RUnlock()

	// Blend the category baseline 50/50 with the learned pattern when
	// reports exist for this exact hour and weekday.
	if hasPattern {
		base = (base + entry.Average) / 2
	}

	factors := filterFactors([]PredictionFactor{
		timeOfDayFactor(p.Category, hour),
		weatherFactor(e.weather.ConditionAt(target), p.Category),
		holidayFactor(target, p.Category),
		specialEventFactor(target),
		seasonFactor(target, p.Category),
	})

	adjusted := base
	for _, f := range factors {
		adjusted += f.Impact * 0.5
	}
	adjusted = clamp01(adjusted)

	level := LevelFromValue(adjusted)
	confidence := e.confidence(samples, factors, target)

	observePrediction(level, confidence)

	return Prediction{
		PlaceID:    p.ID,
		Level:      level,
		Confidence: confidence,
		Window: TimeWindow{
			Start: target.Add(-predictionWindow),
			End:   target.Add(predictionWindow),
		},
		Factors: factors,
	}
}

func (e *Engine) confidence(samples int, factors []PredictionFactor, target time.Time) float64 {
	c := 0.5

	switch {
	case samples > 50:
		c += 0.3
	case samples > 20:
		c += 0.2
	case samples > 5:
		c += 0.1
	}

	consistency := 1 - impactVariance(factors)
	if consistency < 0 {
		consistency = 0
	}
	c += consistency * 0.2

	// Predictions far in the future are softer.
	if target.Sub(e.now()) > 24*time.Hour {
		c -= 0.2
	}

	if c < minConfidence {
		c = minConfidence
	}
	if c > maxConfidence {
		c = maxConfidence
	}
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
