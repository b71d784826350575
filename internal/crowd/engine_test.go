package crowd

import (
	"testing"
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/place"
)

// Wednesday 2025-03-12; a plain weekday with no seasonal boost.
var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(StaticWeatherProvider{Condition: WeatherCloudy}, func() time.Time { return testNow })
}

func testRestaurant() *place.Place {
	return &place.Place{
		ID:       "pl-rest-1",
		Name:     "Noodle Bar",
		Category: place.CategoryRestaurant,
	}
}

func TestPredictLunchPeakVsDeepNight(t *testing.T) {
	e := testEngine()
	p := testRestaurant()

	noon := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	lunch := e.PredictCrowdLevel(p, noon, nil)
	if lunch.Level != LevelHigh && lunch.Level != LevelVeryHigh {
		t.Errorf("restaurant at weekday noon: got %q, want high or very_high", lunch.Level)
	}

	night := e.PredictCrowdLevel(p, time.Date(2025, 3, 12, 3, 0, 0, 0, time.UTC), nil)
	if night.Level != LevelLow {
		t.Errorf("restaurant at 03:00: got %q, want low", night.Level)
	}
}

func TestConfidenceBounds(t *testing.T) {
	e := testEngine()
	p := testRestaurant()

	targets := []time.Time{
		testNow,
		testNow.Add(48 * time.Hour), // far future penalty
		time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), // weekend
	}

	var reports []Observation
	for i := 0; i < 60; i++ {
		reports = append(reports, Observation{
			PlaceID:    p.ID,
			Value:      0.8,
			Confidence: 0.9,
			ObservedAt: testNow.Add(-time.Duration(i) * time.Hour),
		})
	}

	for _, target := range targets {
		for _, history := range [][]Observation{nil, reports} {
			pred := e.PredictCrowdLevel(p, target, history)
			if pred.Confidence < 0.10 || pred.Confidence > 0.95 {
				t.Errorf("confidence %v out of [0.10, 0.95] for target %v", pred.Confidence, target)
			}
		}
	}
}

func TestConfidenceGrowsWithSamples(t *testing.T) {
	e := testEngine()
	p := testRestaurant()
	target := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	sparse := e.PredictCrowdLevel(p, target, nil)

	var reports []Observation
	for i := 0; i < 60; i++ {
		reports = append(reports, Observation{
			PlaceID:    p.ID,
			Value:      0.7,
			ObservedAt: testNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	dense := e.PredictCrowdLevel(p, target, reports)

	if dense.Confidence <= sparse.Confidence {
		t.Errorf("confidence should grow with history: sparse %v, dense %v",
			sparse.Confidence, dense.Confidence)
	}
}

func TestHistoryFullRecompute(t *testing.T) {
	e := testEngine()
	p := testRestaurant()

	many := make([]Observation, 30)
	for i := range many {
		many[i] = Observation{PlaceID: p.ID, Value: 0.9, ObservedAt: testNow}
	}
	e.UpdateHistoricalData(p.ID, many)
	if got := e.SampleCount(p.ID); got != 30 {
		t.Fatalf("SampleCount after first update: got %d, want 30", got)
	}

	// A smaller report list must replace, not merge.
	e.UpdateHistoricalData(p.ID, many[:5])
	if got := e.SampleCount(p.ID); got != 5 {
		t.Errorf("SampleCount after shrinking update: got %d, want 5 (wholesale rebuild)", got)
	}
}

func TestPatternBlendPullsPredictionDown(t *testing.T) {
	e := testEngine()
	p := testRestaurant()
	noon := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	// Reports saying this particular restaurant is empty at Wednesday noon.
	var reports []Observation
	for i := 0; i < 8; i++ {
		reports = append(reports, Observation{
			PlaceID:    p.ID,
			Value:      0.05,
			ObservedAt: noon.AddDate(0, 0, -7*i), // previous Wednesdays, same hour
		})
	}

	baseline := e.PredictCrowdLevel(p, noon, nil)
	blended := e.PredictCrowdLevel(p, noon, reports)

	if baseline.Level == LevelVeryHigh && blended.Level == LevelVeryHigh {
		t.Errorf("empty-restaurant history should pull prediction below very_high")
	}
	if blended.Level == LevelVeryHigh {
		t.Errorf("blended prediction: got %q, want below very_high", blended.Level)
	}
}

func TestFactorFiltering(t *testing.T) {
	e := testEngine()
	p := testRestaurant()

	pred := e.PredictCrowdLevel(p, time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC), nil)
	for _, f := range pred.Factors {
		if f.Impact <= minFactorImpact && f.Impact >= -minFactorImpact {
			t.Errorf("factor %q with impact %v should have been filtered", f.Name, f.Impact)
		}
	}
}

func TestPredictionDeterministicWithStaticInputs(t *testing.T) {
	target := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	p := testRestaurant()

	a := testEngine().PredictCrowdLevel(p, target, nil)
	b := testEngine().PredictCrowdLevel(p, target, nil)

	if a.Level != b.Level || a.Confidence != b.Confidence {
		t.Errorf("prediction not deterministic with static weather and clock: %+v vs %+v", a, b)
	}
}

func TestPredictionWindow(t *testing.T) {
	e := testEngine()
	target := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	pred := e.PredictCrowdLevel(testRestaurant(), target, nil)
	if !pred.Window.Start.Equal(target.Add(-30 * time.Minute)) {
		t.Errorf("window start: got %v, want target-30m", pred.Window.Start)
	}
	if !pred.Window.End.Equal(target.Add(30 * time.Minute)) {
		t.Errorf("window end: got %v, want target+30m", pred.Window.End)
	}
}

func TestPredictCrowdTrendStepping(t *testing.T) {
	e := testEngine()
	p := testRestaurant()

	start := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	points := e.PredictCrowdTrend(p, start, end, 30*time.Minute, nil)
	if len(points) != 7 { // 9:00 .. 12:00 inclusive
		t.Fatalf("trend points: got %d, want 7", len(points))
	}
	if !points[0].At.Equal(start) {
		t.Errorf("first point at %v, want %v", points[0].At, start)
	}
	if !points[len(points)-1].At.Equal(end) {
		t.Errorf("last point at %v, want %v (end inclusive)", points[len(points)-1].At, end)
	}
}

func TestBankClosedWeekend(t *testing.T) {
	e := testEngine()
	bank := &place.Place{ID: "pl-bank-1", Name: "Central Bank", Category: place.CategoryBank}

	saturday := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	pred := e.PredictCrowdLevel(bank, saturday, nil)
	if pred.Level != LevelLow {
		t.Errorf("bank on Saturday morning: got %q, want low", pred.Level)
	}
}
