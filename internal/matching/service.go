package matching

import (
	"context"
	"errors"
)

var (
	ErrProfileNotFound = errors.New("user profile not found")
	ErrMatchNotFound   = errors.New("companion match not found")
	ErrCannotMatchSelf = errors.New("cannot match with yourself")
	ErrAlreadyMatched  = errors.New("already matched with this user")
)

// candidatePoolLimit caps how many profiles a discovery run loads before
// scoring. Ranking and MinScore filtering happen in memory.
const candidatePoolLimit = 200

// Notifier receives companion-match events. The notify package provides
// the production implementation.
type Notifier interface {
	CompanionMatched(ctx context.Context, match *CompanionMatch)
}

type Service interface {
	// Scoring
	CalculateCompatibility(ctx context.Context, user1ID, user2ID int64) (float64, *FactorScores, error)

	// Discovery
	DiscoverCompanions(ctx context.Context, userID int64, opts FindOptions) ([]*Proposal, error)
	QuickNearbyCompanions(ctx context.Context, userID int64, radiusMeters float64, opts FindOptions) ([]*Proposal, error)
	InterestCompanions(ctx context.Context, userID int64, opts FindOptions) ([]*Proposal, error)

	// Companion matches
	CreateCompanionMatch(ctx context.Context, userID, otherUserID int64) (*CompanionMatch, error)
	GetCompanionMatches(ctx context.Context, userID int64, active bool) ([]*CompanionMatch, error)
	Unmatch(ctx context.Context, matchID, userID int64) error
	IsMatched(ctx context.Context, user1ID, user2ID int64) (bool, error)
}

type service struct {
	repo     Repository
	engine   *Engine
	notifier Notifier
}

func NewService(repo Repository, engine *Engine, notifier Notifier) Service {
	return &service{
		repo:     repo,
		engine:   engine,
		notifier: notifier,
	}
}

func (s *service) CalculateCompatibility(ctx context.Context, user1ID, user2ID int64) (float64, *FactorScores, error) {
	profile1, err := s.repo.GetProfile(ctx, user1ID)
	if err != nil {
		return 0, nil, err
	}

	profile2, err := s.repo.GetProfile(ctx, user2ID)
	if err != nil {
		return 0, nil, err
	}

	score, factors := s.engine.CalculateMatchScore(profile1, profile2)
	return score, factors, nil
}

func (s *service) DiscoverCompanions(ctx context.Context, userID int64, opts FindOptions) ([]*Proposal, error) {
	current, candidates, err := s.loadPool(ctx, userID)
	if err != nil {
		return nil, err
	}

	RecordDiscovery("general")
	return s.engine.FindMatches(current, candidates, opts), nil
}

func (s *service) QuickNearbyCompanions(ctx context.Context, userID int64, radiusMeters float64, opts FindOptions) ([]*Proposal, error) {
	current, candidates, err := s.loadPool(ctx, userID)
	if err != nil {
		return nil, err
	}

	RecordDiscovery("nearby")
	return s.engine.QuickLocationMatch(current, candidates, radiusMeters, opts)
}

func (s *service) InterestCompanions(ctx context.Context, userID int64, opts FindOptions) ([]*Proposal, error) {
	current, candidates, err := s.loadPool(ctx, userID)
	if err != nil {
		return nil, err
	}

	RecordDiscovery("interests")
	return s.engine.InterestBasedMatch(current, candidates, opts), nil
}

func (s *service) CreateCompanionMatch(ctx context.Context, userID, otherUserID int64) (*CompanionMatch, error) {
	if userID == otherUserID {
		return nil, ErrCannotMatchSelf
	}

	matched, err := s.repo.IsMatched(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if matched {
		return nil, ErrAlreadyMatched
	}

	score, _, err := s.CalculateCompatibility(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}

	match := &CompanionMatch{
		User1ID:            userID,
		User2ID:            otherUserID,
		CompatibilityScore: score,
		Quality:            string(QualityForScore(score)),
		IsActive:           true,
	}

	if err := s.repo.CreateMatch(ctx, match); err != nil {
		return nil, err
	}

	RecordCompanionMatch()
	if s.notifier != nil {
		s.notifier.CompanionMatched(ctx, match)
	}

	return match, nil
}

func (s *service) GetCompanionMatches(ctx context.Context, userID int64, active bool) ([]*CompanionMatch, error) {
	return s.repo.GetUserMatches(ctx, userID, active)
}

func (s *service) Unmatch(ctx context.Context, matchID, userID int64) error {
	return s.repo.DeactivateMatch(ctx, matchID, userID)
}

func (s *service) IsMatched(ctx context.Context, user1ID, user2ID int64) (bool, error) {
	return s.repo.IsMatched(ctx, user1ID, user2ID)
}

func (s *service) loadPool(ctx context.Context, userID int64) (*Profile, []*Profile, error) {
	current, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := s.repo.ListCandidateProfiles(ctx, userID, candidatePoolLimit)
	if err != nil {
		return nil, nil, err
	}

	return current, candidates, nil
}
