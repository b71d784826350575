package matching

import (
	"errors"
	"sort"

	"github.com/socialrhythm/rhythm-backend/internal/geo"
)

var ErrLocationUnavailable = errors.New("user location unavailable")

// Factor weights; they sum to 1.00.
const (
	weightLocation  = 0.30
	weightInterests = 0.25
	weightAge       = 0.15
	weightGender    = 0.10
	weightSafety    = 0.10
	weightActivity  = 0.10
)

const (
	// DefaultMaxDistanceMeters bounds the location factor when the
	// requesting user has no distance preference set.
	DefaultMaxDistanceMeters = 5000.0

	// DefaultQuickMatchRadius is the candidate-pool radius for
	// QuickLocationMatch.
	DefaultQuickMatchRadius = 1000.0

	DefaultMinScore = 0.3
	DefaultLimit    = 10
)

// FindOptions tunes FindMatches. Zero values take the defaults above.
type FindOptions struct {
	Limit          int
	MinScore       float64
	IncludeFactors bool
}

// Engine computes weighted compatibility between users. It is stateless
// and safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// CalculateMatchScore computes the weighted compatibility score between the
// requesting user and a candidate, always in [0,1]. Factors that lack data
// score 0 and still carry their full weight, so missing fields depress the
// maximum attainable score.
func (e *Engine) CalculateMatchScore(current, candidate *Profile) (float64, *FactorScores) {
	factors := &FactorScores{
		Location:  e.locationScore(current, candidate),
		Interests: jaccard(current.Interests, candidate.Interests, 0),
		Age:       e.ageScore(current.Age, candidate.Age),
		Gender:    e.genderScore(current, candidate),
		Safety:    e.safetyScore(current.SafetyLevel, candidate.SafetyLevel),
		Activity:  jaccard(current.TimeSlots, candidate.TimeSlots, 0.5),
	}

	score := factors.Location*weightLocation +
		factors.Interests*weightInterests +
		factors.Age*weightAge +
		factors.Gender*weightGender +
		factors.Safety*weightSafety +
		factors.Activity*weightActivity

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	RecordMatchScore(score)
	return score, factors
}

// FindMatches scores candidates against the current user, drops the user
// themselves and anyone below MinScore, and returns at most Limit proposals
// sorted by descending score. Ties keep their input order.
func (e *Engine) FindMatches(current *Profile, candidates []*Profile, opts FindOptions) []*Proposal {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.MinScore <= 0 {
		opts.MinScore = DefaultMinScore
	}

	proposals := make([]*Proposal, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == current.ID {
			continue
		}

		score, factors := e.CalculateMatchScore(current, candidate)
		if score < opts.MinScore {
			continue
		}

		p := &Proposal{
			Profile: candidate,
			Score:   score,
			Quality: QualityForScore(score),
		}
		if opts.IncludeFactors {
			p.Factors = factors
		}
		proposals = append(proposals, p)
	}

	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].Score > proposals[j].Score
	})

	if len(proposals) > opts.Limit {
		proposals = proposals[:opts.Limit]
	}
	return proposals
}

// QuickLocationMatch narrows the candidate pool to users within radiusMeters
// of the current user before ranking. The current user must have a location.
func (e *Engine) QuickLocationMatch(current *Profile, candidates []*Profile, radiusMeters float64, opts FindOptions) ([]*Proposal, error) {
	if current.Location == nil {
		return nil, ErrLocationUnavailable
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultQuickMatchRadius
	}

	pool := make([]*Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Location == nil {
			continue
		}
		if geo.WithinRadius(*current.Location, *candidate.Location, radiusMeters) {
			pool = append(pool, candidate)
		}
	}

	return e.FindMatches(current, pool, opts), nil
}

// InterestBasedMatch narrows the candidate pool to users sharing at least
// one interest before ranking.
func (e *Engine) InterestBasedMatch(current *Profile, candidates []*Profile, opts FindOptions) []*Proposal {
	pool := make([]*Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if sharedCount(current.Interests, candidate.Interests) > 0 {
			pool = append(pool, candidate)
		}
	}
	return e.FindMatches(current, pool, opts)
}

func (e *Engine) locationScore(current, candidate *Profile) float64 {
	if current.Location == nil || candidate.Location == nil {
		return 0
	}

	maxDistance := current.Preferences.MaxDistanceMeters
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistanceMeters
	}

	distance := geo.DistanceMeters(*current.Location, *candidate.Location)
	if distance > maxDistance {
		return 0
	}
	return 1 - distance/maxDistance
}

// ageScore steps down with the absolute age difference.
func (e *Engine) ageScore(a, b *int) float64 {
	if a == nil || b == nil {
		return 0
	}

	diff := *a - *b
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff <= 2:
		return 1.0
	case diff <= 5:
		return 0.8
	case diff <= 10:
		return 0.6
	case diff <= 15:
		return 0.4
	case diff <= 20:
		return 0.2
	default:
		return 0
	}
}

// genderScore grants 0.5 credit per direction when that side's preference
// is absent, "any", or matches the other's gender.
func (e *Engine) genderScore(current, candidate *Profile) float64 {
	score := genderCredit(current.Preferences.PreferredGender, candidate.Gender) +
		genderCredit(candidate.Preferences.PreferredGender, current.Gender)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func genderCredit(preference, gender string) float64 {
	if preference == "" || preference == "any" || preference == gender {
		return 0.5
	}
	return 0
}

// safetyScore steps down with the absolute safety-level difference.
func (e *Engine) safetyScore(a, b *int) float64 {
	if a == nil || b == nil {
		return 0
	}

	diff := *a - *b
	if diff < 0 {
		diff = -diff
	}

	switch diff {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.6
	case 3:
		return 0.4
	default:
		return 0.2
	}
}

// jaccard computes set similarity over two string slices. emptyDefault is
// returned when either side is empty: 0 for interests, 0.5 for time slots.
func jaccard(a, b []string, emptyDefault float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return emptyDefault
	}

	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}

	matches := 0
	seen := make(map[string]bool, len(b))
	for _, v := range b {
		if seen[v] {
			continue
		}
		seen[v] = true
		if set[v] {
			matches++
		}
	}

	union := len(set) + len(seen) - matches
	if union == 0 {
		return 0
	}
	return float64(matches) / float64(union)
}

func sharedCount(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}

	count := 0
	for _, v := range b {
		if set[v] {
			count++
			delete(set, v)
		}
	}
	return count
}
