package recommend

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/crowd"
	"github.com/socialrhythm/rhythm-backend/internal/geo"
	"github.com/socialrhythm/rhythm-backend/internal/place"
)

var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC) // Wednesday

func testEngine() *Engine {
	predictor := crowd.NewEngine(
		crowd.StaticWeatherProvider{Condition: crowd.WeatherCloudy},
		func() time.Time { return testNow },
	)
	return NewEngine(predictor, rand.New(rand.NewSource(1)), func() time.Time { return testNow })
}

func testPlace(id string, category place.Category, lat, lng float64) *place.Place {
	return &place.Place{
		ID:       id,
		Name:     id,
		Category: category,
		Location: geo.Coordinates{Lat: lat, Lng: lng},
	}
}

func TestTargetPlaceYieldsSingleSuggestion(t *testing.T) {
	e := testEngine()
	target := testPlace("cafe", place.CategoryRestaurant, 35.6812, 139.7671)

	suggestions := e.GenerateSuggestions(&Context{TargetPlace: target, When: testNow}, Options{})
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	if suggestions[0].Place.ID != "cafe" {
		t.Errorf("suggestion place: got %s, want cafe", suggestions[0].Place.ID)
	}
}

func TestBankAtNightShiftsRecommendedTime(t *testing.T) {
	e := testEngine()
	target := testPlace("bank", place.CategoryBank, 35.6812, 139.7671)
	night := time.Date(2025, 3, 12, 3, 0, 0, 0, time.UTC)

	suggestions := e.GenerateSuggestions(&Context{TargetPlace: target, When: night}, Options{})
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	if suggestions[0].RecommendedAt != "14:00" {
		t.Errorf("recommended time: got %q, want 14:00", suggestions[0].RecommendedAt)
	}
	if !strings.Contains(suggestions[0].Reason, "14:00") {
		t.Errorf("reason should mention the shifted time, got %q", suggestions[0].Reason)
	}
}

func TestOptimalTimeTable(t *testing.T) {
	cases := []struct {
		category place.Category
		hour     int
		want     string
	}{
		{place.CategoryRestaurant, 12, "14:00"},
		{place.CategoryRestaurant, 13, "14:00"},
		{place.CategoryRestaurant, 18, "20:00"},
		{place.CategoryRestaurant, 15, ""},
		{place.CategoryBank, 9, "14:00"},
		{place.CategoryBank, 3, "14:00"},
		{place.CategoryBank, 14, ""},
		{place.CategoryGovernment, 10, "14:00"},
		{place.CategoryTransport, 8, "10:00"},
		{place.CategoryTransport, 18, "20:00"},
		{place.CategoryTransport, 12, ""},
		{place.CategoryShopping, 12, ""},
	}

	for _, tc := range cases {
		at := time.Date(2025, 3, 12, tc.hour, 0, 0, 0, time.UTC)
		if got := getOptimalTime(tc.category, at); got != tc.want {
			t.Errorf("getOptimalTime(%s, %02d:00): got %q, want %q", tc.category, tc.hour, got, tc.want)
		}
	}
}

func TestWaitTimeWithinLevelBounds(t *testing.T) {
	e := testEngine()

	for level, bounds := range waitRanges {
		for i := 0; i < 50; i++ {
			wait := e.sampleWait(level)
			if wait < bounds[0] || wait > bounds[1] {
				t.Fatalf("wait %d for level %s outside [%d, %d]", wait, level, bounds[0], bounds[1])
			}
		}
	}
}

func TestFilterByDistanceAndAccessibility(t *testing.T) {
	e := testEngine()
	e.UpdatePlaces([]*place.Place{
		testPlace("near", place.CategoryShopping, 35.6812, 139.7671),
		testPlace("far", place.CategoryShopping, 36.5000, 139.7671), // ~90 km away
		func() *place.Place {
			p := testPlace("accessible", place.CategoryShopping, 35.6820, 139.7675)
			p.Attributes.WheelchairAccessible = true
			return p
		}(),
	})

	loc := &geo.Coordinates{Lat: 35.6812, Lng: 139.7671}

	sctx := &Context{UserLocation: loc, When: testNow}
	suggestions := e.GenerateSuggestions(sctx, Options{})
	for _, s := range suggestions {
		if s.Place.ID == "far" {
			t.Error("place beyond 10 km should be filtered out")
		}
	}

	sctx.Preferences.NeedsWheelchair = true
	suggestions = e.GenerateSuggestions(sctx, Options{})
	for _, s := range suggestions {
		if !s.Place.Attributes.WheelchairAccessible {
			t.Errorf("place %s is not wheelchair accessible", s.Place.ID)
		}
	}
}

func TestSuggestionsSortedByConfidence(t *testing.T) {
	e := testEngine()
	e.UpdatePlaces([]*place.Place{
		testPlace("a", place.CategoryShopping, 35.6812, 139.7671),
		testPlace("b", place.CategoryRestaurant, 35.6820, 139.7675),
		testPlace("c", place.CategoryEntertainment, 35.7000, 139.7500),
	})

	loc := &geo.Coordinates{Lat: 35.6812, Lng: 139.7671}
	suggestions := e.GenerateSuggestions(&Context{UserLocation: loc, When: testNow}, Options{})

	for i := 1; i < len(suggestions); i++ {
		if suggestions[i-1].Confidence < suggestions[i].Confidence {
			t.Errorf("suggestions not sorted descending at index %d", i)
		}
	}
	for _, s := range suggestions {
		if s.Confidence <= minSuggestionConfidence {
			t.Errorf("suggestion %s below confidence floor: %v", s.Place.ID, s.Confidence)
		}
	}
}

func TestConsideredPlacesCapped(t *testing.T) {
	e := testEngine()

	var places []*place.Place
	for i := 0; i < 12; i++ {
		places = append(places, testPlace(string(rune('a'+i)), place.CategoryShopping, 35.6812, 139.7671))
	}
	e.UpdatePlaces(places)

	suggestions := e.GenerateSuggestions(&Context{When: testNow}, Options{})
	if len(suggestions) > maxConsideredPlaces {
		t.Errorf("got %d suggestions, want at most %d", len(suggestions), maxConsideredPlaces)
	}
}

func TestAlternativesSameCategoryAscendingWait(t *testing.T) {
	e := testEngine()
	e.UpdatePlaces([]*place.Place{
		testPlace("cafe1", place.CategoryRestaurant, 35.6812, 139.7671),
		testPlace("cafe2", place.CategoryRestaurant, 35.6820, 139.7675),
		testPlace("cafe3", place.CategoryRestaurant, 35.6830, 139.7680),
		testPlace("atm", place.CategoryBank, 35.6815, 139.7672),
	})

	target := testPlace("cafe0", place.CategoryRestaurant, 35.6810, 139.7670)
	suggestions := e.GenerateSuggestions(&Context{TargetPlace: target, When: testNow}, Options{})

	alternatives := suggestions[0].Alternatives
	if len(alternatives) == 0 {
		t.Fatal("expected same-category alternatives")
	}
	for i, alt := range alternatives {
		if alt.Place.Category != place.CategoryRestaurant {
			t.Errorf("alternative %s has category %s", alt.Place.ID, alt.Place.Category)
		}
		if i > 0 && alternatives[i-1].PredictedWait > alt.PredictedWait {
			t.Errorf("alternatives not sorted by ascending wait at index %d", i)
		}
	}
}

func TestUpdatePlacesIdempotent(t *testing.T) {
	e := testEngine()
	places := []*place.Place{
		testPlace("a", place.CategoryShopping, 35.6812, 139.7671),
		testPlace("b", place.CategoryShopping, 35.6820, 139.7675),
	}

	e.UpdatePlaces(places)
	first := e.PlaceCount()
	e.UpdatePlaces(places)
	second := e.PlaceCount()

	if first != second {
		t.Errorf("place count changed across identical updates: %d vs %d", first, second)
	}

	suggestions := e.GenerateSuggestions(&Context{When: testNow}, Options{})
	if len(suggestions) == 0 {
		t.Error("expected suggestions after repeated updates")
	}
}

func TestReasonUsesFullWidthComma(t *testing.T) {
	e := testEngine()
	target := testPlace("cafe", place.CategoryRestaurant, 35.6812, 139.7671)
	lunch := time.Date(2025, 3, 12, 12, 30, 0, 0, time.UTC)

	suggestions := e.GenerateSuggestions(&Context{TargetPlace: target, When: lunch}, Options{})
	reason := suggestions[0].Reason

	if !strings.Contains(reason, "、") {
		t.Errorf("reason should join clauses with a full-width comma, got %q", reason)
	}
	if !strings.Contains(reason, "分") {
		t.Errorf("reason should mention the predicted wait, got %q", reason)
	}
}

func TestConfidenceScoring(t *testing.T) {
	e := testEngine()

	// Preference match, wait fits, walking distance.
	near := 500.0
	got := e.scoreConfidence(crowd.LevelLow, 5, &near, VisitPreferences{
		PreferredCrowdLevel: crowd.LevelLow,
		MaxWaitMinutes:      30,
	})
	if got != 1.0 {
		t.Errorf("best case confidence: got %v, want 1.0", got)
	}

	// Preference mismatch and a wait beyond the user's tolerance.
	got = e.scoreConfidence(crowd.LevelVeryHigh, 45, nil, VisitPreferences{
		PreferredCrowdLevel: crowd.LevelLow,
		MaxWaitMinutes:      10,
	})
	if math.Abs(got-0.1) > 1e-9 {
		t.Errorf("worst case confidence: got %v, want 0.1", got)
	}

	// No stated preferences stays at the base.
	got = e.scoreConfidence(crowd.LevelMedium, 10, nil, VisitPreferences{})
	if got != 0.5 {
		t.Errorf("neutral confidence: got %v, want 0.5", got)
	}
}
