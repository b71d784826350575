package matching

import (
	"errors"
	"math"
	"testing"

	"github.com/socialrhythm/rhythm-backend/internal/geo"
)

func intPtr(v int) *int { return &v }

func fullProfile(id int64) *Profile {
	return &Profile{
		ID:          id,
		DisplayName: "User",
		Age:         intPtr(28),
		Gender:      "female",
		Location:    &geo.Coordinates{Lat: 35.6812, Lng: 139.7671},
		Interests:   []string{"music", "food", "hiking"},
		TimeSlots:   []string{"sat_morning", "sun_afternoon"},
		SafetyLevel: intPtr(3),
	}
}

func TestIdenticalUsersScorePerfect(t *testing.T) {
	e := NewEngine()
	a := fullProfile(1)
	b := fullProfile(2)

	score, factors := e.CalculateMatchScore(a, b)
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("identical users: got %v, want 1.0 (factors %+v)", score, factors)
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	e := NewEngine()

	profiles := []*Profile{
		{ID: 1}, // everything missing
		fullProfile(2),
		{ID: 3, Age: intPtr(99), Gender: "male", Interests: []string{"chess"}},
		{ID: 4, Location: &geo.Coordinates{Lat: -89, Lng: 170}, SafetyLevel: intPtr(5)},
	}

	for _, a := range profiles {
		for _, b := range profiles {
			score, _ := e.CalculateMatchScore(a, b)
			if score < 0 || score > 1 {
				t.Errorf("score %v out of [0,1] for %d vs %d", score, a.ID, b.ID)
			}
		}
	}
}

func TestMissingFieldsDepressScoreWithoutError(t *testing.T) {
	e := NewEngine()

	bare := &Profile{ID: 1}
	other := &Profile{ID: 2}
	score, factors := e.CalculateMatchScore(bare, other)

	// Only gender (no preference, mutual 0.5 credit) and the activity
	// empty-set default contribute.
	want := 1.0*weightGender + 0.5*weightActivity
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("all-missing score: got %v, want %v (factors %+v)", score, want, factors)
	}
}

func TestEmptySetDefaultsAsymmetry(t *testing.T) {
	e := NewEngine()

	a := &Profile{ID: 1, Interests: nil, TimeSlots: nil}
	b := &Profile{ID: 2, Interests: []string{"food"}, TimeSlots: []string{"sat_morning"}}

	_, factors := e.CalculateMatchScore(a, b)
	if factors.Interests != 0 {
		t.Errorf("empty interests should score 0, got %v", factors.Interests)
	}
	if factors.Activity != 0.5 {
		t.Errorf("empty time slots should score 0.5, got %v", factors.Activity)
	}
}

func TestLocationScoreDecaysWithDistance(t *testing.T) {
	e := NewEngine()

	a := fullProfile(1)
	near := fullProfile(2)
	far := fullProfile(3)
	far.Location = &geo.Coordinates{Lat: 35.7290, Lng: 139.7109} // Ikebukuro, ~6 km

	_, nearFactors := e.CalculateMatchScore(a, near)
	_, farFactors := e.CalculateMatchScore(a, far)

	if nearFactors.Location != 1.0 {
		t.Errorf("co-located users: location factor got %v, want 1.0", nearFactors.Location)
	}
	if farFactors.Location != 0 {
		t.Errorf("beyond default 5000 m: location factor got %v, want 0", farFactors.Location)
	}

	// Raising the requester's preference brings the far candidate back in.
	a.Preferences.MaxDistanceMeters = 20000
	_, widened := e.CalculateMatchScore(a, far)
	if widened.Location <= 0 || widened.Location >= 1 {
		t.Errorf("within widened radius: location factor got %v, want in (0,1)", widened.Location)
	}
}

func TestGenderPreferenceMismatch(t *testing.T) {
	e := NewEngine()

	a := fullProfile(1)
	a.Gender = "female"
	a.Preferences.PreferredGender = "male"
	b := fullProfile(2)
	b.Gender = "female"
	b.Preferences.PreferredGender = "any"

	_, factors := e.CalculateMatchScore(a, b)
	if factors.Gender != 0.5 {
		t.Errorf("one-sided mismatch: gender factor got %v, want 0.5", factors.Gender)
	}
}

func TestAgeSteps(t *testing.T) {
	e := NewEngine()
	cases := []struct {
		diff int
		want float64
	}{
		{0, 1.0}, {2, 1.0}, {4, 0.8}, {8, 0.6}, {13, 0.4}, {18, 0.2}, {25, 0},
	}

	for _, tc := range cases {
		a, b := fullProfile(1), fullProfile(2)
		a.Age = intPtr(30)
		b.Age = intPtr(30 + tc.diff)
		_, factors := e.CalculateMatchScore(a, b)
		if factors.Age != tc.want {
			t.Errorf("age diff %d: got %v, want %v", tc.diff, factors.Age, tc.want)
		}
	}
}

func TestFindMatchesRankingAndLimit(t *testing.T) {
	e := NewEngine()
	current := fullProfile(1)

	strong := fullProfile(2) // near-identical, scores ~1.0
	weak := fullProfile(3)
	weak.Age = intPtr(50)
	weak.Interests = []string{"golf"}
	weak.TimeSlots = []string{"weekday_night"}
	weak.SafetyLevel = intPtr(1)

	proposals := e.FindMatches(current, []*Profile{weak, strong, current}, FindOptions{Limit: 1, MinScore: 0.5})
	if len(proposals) != 1 {
		t.Fatalf("got %d proposals, want exactly 1", len(proposals))
	}
	if proposals[0].Profile.ID != strong.ID {
		t.Errorf("top proposal: got user %d, want %d", proposals[0].Profile.ID, strong.ID)
	}
}

func TestFindMatchesExcludesSelfAndSorts(t *testing.T) {
	e := NewEngine()
	current := fullProfile(1)

	candidates := []*Profile{current}
	for i := int64(2); i <= 6; i++ {
		c := fullProfile(i)
		c.Age = intPtr(28 + int(i)) // spread scores
		candidates = append(candidates, c)
	}

	proposals := e.FindMatches(current, candidates, FindOptions{})
	for i, p := range proposals {
		if p.Profile.ID == current.ID {
			t.Error("results must not contain the requesting user")
		}
		if i > 0 && proposals[i-1].Score < p.Score {
			t.Errorf("results not sorted descending at index %d", i)
		}
	}
	if len(proposals) > DefaultLimit {
		t.Errorf("got %d proposals, want at most %d", len(proposals), DefaultLimit)
	}
}

func TestFindMatchesStableTies(t *testing.T) {
	e := NewEngine()
	current := fullProfile(1)

	// Identical candidates score identically; input order must survive.
	c2, c3, c4 := fullProfile(2), fullProfile(3), fullProfile(4)
	proposals := e.FindMatches(current, []*Profile{c2, c3, c4}, FindOptions{})

	want := []int64{2, 3, 4}
	for i, p := range proposals {
		if p.Profile.ID != want[i] {
			t.Errorf("tie order broken: position %d got user %d, want %d", i, p.Profile.ID, want[i])
		}
	}
}

func TestQuickLocationMatchRequiresLocation(t *testing.T) {
	e := NewEngine()
	current := fullProfile(1)
	current.Location = nil

	_, err := e.QuickLocationMatch(current, []*Profile{fullProfile(2)}, 0, FindOptions{})
	if !errors.Is(err, ErrLocationUnavailable) {
		t.Errorf("got err %v, want ErrLocationUnavailable", err)
	}
}

func TestQuickLocationMatchRadiusFilter(t *testing.T) {
	e := NewEngine()
	current := fullProfile(1)

	near := fullProfile(2)
	far := fullProfile(3)
	far.Location = &geo.Coordinates{Lat: 35.7290, Lng: 139.7109} // ~6 km away

	proposals, err := e.QuickLocationMatch(current, []*Profile{near, far}, 0, FindOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range proposals {
		if p.Profile.ID == far.ID {
			t.Error("candidate outside the 1000 m default radius should be filtered")
		}
	}
	if len(proposals) != 1 {
		t.Errorf("got %d proposals, want 1", len(proposals))
	}
}

func TestInterestBasedMatchFiltersPool(t *testing.T) {
	e := NewEngine()
	current := fullProfile(1)

	overlap := fullProfile(2)
	disjoint := fullProfile(3)
	disjoint.Interests = []string{"golf", "fishing"}

	proposals := e.InterestBasedMatch(current, []*Profile{overlap, disjoint}, FindOptions{MinScore: 0.01})
	for _, p := range proposals {
		if p.Profile.ID == disjoint.ID {
			t.Error("candidate with no shared interests should be filtered")
		}
	}
}

func TestQualityTiers(t *testing.T) {
	cases := []struct {
		score float64
		want  MatchQuality
	}{
		{0.90, QualityExcellent},
		{0.85, QualityExcellent},
		{0.80, QualityGood},
		{0.70, QualityGood},
		{0.60, QualityAcceptable},
		{0.50, QualityAcceptable},
		{0.49, QualityPoor},
		{0.0, QualityPoor},
	}

	for _, tc := range cases {
		if got := QualityForScore(tc.score); got != tc.want {
			t.Errorf("QualityForScore(%v): got %q, want %q", tc.score, got, tc.want)
		}
	}
}
