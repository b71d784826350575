package recommend

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/crowd"
	"github.com/socialrhythm/rhythm-backend/internal/geo"
	"github.com/socialrhythm/rhythm-backend/internal/place"
)

const (
	// maxConsideredPlaces caps how many filtered places get a full
	// suggestion computed per call.
	maxConsideredPlaces = 5

	// minSuggestionConfidence drops weak suggestions from the result.
	minSuggestionConfidence = 0.3

	// maxFilterDistanceMeters bounds the candidate pool around the user.
	maxFilterDistanceMeters = 10000.0

	defaultMaxAlternatives = 3

	nearDistanceMeters     = 1000.0
	moderateDistanceMeters = 3000.0
)

// waitRanges maps a predicted crowd level to its sampled wait-time range
// in minutes, inclusive on both ends.
var waitRanges = map[crowd.CrowdLevel][2]int{
	crowd.LevelLow:      {1, 6},
	crowd.LevelMedium:   {5, 15},
	crowd.LevelHigh:     {15, 30},
	crowd.LevelVeryHigh: {30, 50},
}

// Engine turns a held place list plus crowd predictions into ranked
// visit suggestions. The place list is mutable via UpdatePlaces; all
// methods are safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	places []*place.Place

	predictor *crowd.Engine

	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time
}

// NewEngine wires the suggestion engine to a prediction engine. A nil
// rng or now falls back to the production defaults.
func NewEngine(predictor *crowd.Engine, rng *rand.Rand, now func() time.Time) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		predictor: predictor,
		rng:       rng,
		now:       now,
	}
}

// UpdatePlaces replaces the held place list. The slice is copied.
func (e *Engine) UpdatePlaces(places []*place.Place) {
	copied := make([]*place.Place, len(places))
	copy(copied, places)

	e.mu.Lock()
	e.places = copied
	e.mu.Unlock()
}

// PlaceCount reports how many places the engine currently holds.
func (e *Engine) PlaceCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.places)
}

// GenerateSuggestions produces ranked suggestions for the given context.
// With a target place set it returns that single suggestion; otherwise it
// filters the held list by the user's distance and accessibility needs,
// considers at most five places, keeps suggestions above the confidence
// floor, and sorts them by descending confidence.
func (e *Engine) GenerateSuggestions(sctx *Context, opts Options) []*Suggestion {
	when := sctx.When
	if when.IsZero() {
		when = e.now()
	}

	if sctx.TargetPlace != nil {
		s := e.suggestFor(sctx.TargetPlace, sctx, when, opts)
		observeSuggestion(s)
		return []*Suggestion{s}
	}

	pool := e.filterPlaces(sctx)
	if len(pool) > maxConsideredPlaces {
		pool = pool[:maxConsideredPlaces]
	}

	suggestions := make([]*Suggestion, 0, len(pool))
	for _, p := range pool {
		s := e.suggestFor(p, sctx, when, opts)
		if s.Confidence <= minSuggestionConfidence {
			continue
		}
		observeSuggestion(s)
		suggestions = append(suggestions, s)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})

	if opts.MaxSuggestions > 0 && len(suggestions) > opts.MaxSuggestions {
		suggestions = suggestions[:opts.MaxSuggestions]
	}
	return suggestions
}

func (e *Engine) filterPlaces(sctx *Context) []*place.Place {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pool := make([]*place.Place, 0, len(e.places))
	for _, p := range e.places {
		if sctx.Preferences.NeedsWheelchair && !p.Attributes.WheelchairAccessible {
			continue
		}
		if sctx.UserLocation != nil {
			if geo.DistanceMeters(*sctx.UserLocation, p.Location) > maxFilterDistanceMeters {
				continue
			}
		}
		pool = append(pool, p)
	}
	return pool
}

func (e *Engine) suggestFor(p *place.Place, sctx *Context, when time.Time, opts Options) *Suggestion {
	prediction := e.predictor.PredictCrowdLevel(p, when, sctx.Observations[p.ID])
	wait := e.sampleWait(prediction.Level)

	var distance *float64
	if sctx.UserLocation != nil {
		d := geo.DistanceMeters(*sctx.UserLocation, p.Location)
		distance = &d
	}

	shifted := getOptimalTime(p.Category, when)

	s := &Suggestion{
		Place:          p,
		CrowdLevel:     prediction.Level,
		PredictedWait:  wait,
		Confidence:     e.scoreConfidence(prediction.Level, wait, distance, sctx.Preferences),
		Reason:         buildReason(prediction.Level, wait, distance, shifted),
		RecommendedAt:  shifted,
		DistanceMeters: distance,
		GeneratedAt:    e.now(),
		Alternatives:   e.alternatives(p, sctx, when, opts.MaxAlternatives),
	}
	return s
}

// scoreConfidence starts at 0.5 and moves with how well the prediction
// fits the user's stated preferences, wait tolerance, and distance.
func (e *Engine) scoreConfidence(level crowd.CrowdLevel, wait int, distance *float64, prefs VisitPreferences) float64 {
	confidence := 0.5

	if prefs.PreferredCrowdLevel != "" {
		if prefs.PreferredCrowdLevel == level {
			confidence += 0.2
		} else {
			confidence -= 0.2
		}
	}

	if prefs.MaxWaitMinutes > 0 {
		if wait <= prefs.MaxWaitMinutes {
			confidence += 0.3
		} else {
			confidence -= 0.2
		}
	}

	if distance != nil {
		switch {
		case *distance <= nearDistanceMeters:
			confidence += 0.2
		case *distance <= moderateDistanceMeters:
			confidence += 0.1
		}
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// sampleWait draws a wait time from the level's range, inclusive.
func (e *Engine) sampleWait(level crowd.CrowdLevel) int {
	bounds, ok := waitRanges[level]
	if !ok {
		bounds = waitRanges[crowd.LevelMedium]
	}

	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return bounds[0] + e.rng.Intn(bounds[1]-bounds[0]+1)
}

// alternatives collects same-category places sorted by ascending
// predicted wait time.
func (e *Engine) alternatives(target *place.Place, sctx *Context, when time.Time, max int) []*AlternativeOption {
	if max <= 0 {
		max = defaultMaxAlternatives
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var options []*AlternativeOption
	for _, p := range e.places {
		if p.ID == target.ID || p.Category != target.Category {
			continue
		}
		prediction := e.predictor.PredictCrowdLevel(p, when, sctx.Observations[p.ID])
		options = append(options, &AlternativeOption{
			Place:         p,
			PredictedWait: e.sampleWait(prediction.Level),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].PredictedWait < options[j].PredictedWait
	})

	if len(options) > max {
		options = options[:max]
	}
	return options
}

// buildReason assembles the user-facing rationale from clause fragments
// joined with a full-width comma.
func buildReason(level crowd.CrowdLevel, wait int, distance *float64, shifted string) string {
	var clauses []string

	switch level {
	case crowd.LevelLow:
		clauses = append(clauses, "空いている見込みです")
	case crowd.LevelMedium:
		clauses = append(clauses, "ほどよい混み具合の見込みです")
	case crowd.LevelHigh:
		clauses = append(clauses, "やや混雑が予想されます")
	case crowd.LevelVeryHigh:
		clauses = append(clauses, "かなりの混雑が予想されます")
	}

	clauses = append(clauses, fmt.Sprintf("予想待ち時間は約%d分です", wait))

	if distance != nil && *distance <= nearDistanceMeters {
		clauses = append(clauses, "現在地から徒歩圏内です")
	}

	if shifted != "" {
		clauses = append(clauses, fmt.Sprintf("%s頃の訪問がおすすめです", shifted))
	}

	return strings.Join(clauses, "、")
}

// getOptimalTime is the fixed peak-avoidance lookup per category. An
// empty result means visiting at t needs no shift.
func getOptimalTime(category place.Category, t time.Time) string {
	hour := t.Hour()

	switch category {
	case place.CategoryRestaurant:
		switch {
		case hour >= 12 && hour <= 13:
			return "14:00"
		case hour >= 18 && hour <= 19:
			return "20:00"
		}
	case place.CategoryBank, place.CategoryGovernment:
		// Counter hours cluster in the morning; anything earlier than
		// noon lands after the rush.
		if hour < 12 {
			return "14:00"
		}
	case place.CategoryTransport:
		switch {
		case hour >= 7 && hour <= 9:
			return "10:00"
		case hour >= 17 && hour <= 19:
			return "20:00"
		}
	}

	return ""
}
