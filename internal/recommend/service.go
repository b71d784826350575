package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/socialrhythm/rhythm-backend/internal/crowd"
	"github.com/socialrhythm/rhythm-backend/internal/geo"
	"github.com/socialrhythm/rhythm-backend/internal/place"
	"github.com/socialrhythm/rhythm-backend/internal/user"
)

// cacheTTL bounds how stale a cached suggestion list can get. Wait times
// are resampled after expiry anyway.
const cacheTTL = 2 * time.Minute

// PlaceSource supplies the engine's place list and resolves targets.
type PlaceSource interface {
	GetPlace(ctx context.Context, id string) (*place.Place, error)
	ListPlaces(ctx context.Context, category place.Category, limit int) ([]*place.Place, error)
}

// PreferenceSource resolves a user's preference bundle.
type PreferenceSource interface {
	GetPreferences(ctx context.Context, userID int64) (*user.Preferences, error)
}

type Service interface {
	SuggestionsForUser(ctx context.Context, userID int64, location *geo.Coordinates, targetPlaceID string, opts Options) ([]*Suggestion, error)
	RefreshPlaces(ctx context.Context) error
}

type service struct {
	engine       *Engine
	places       PlaceSource
	prefs        PreferenceSource
	observations crowd.ObservationSource
	cache        *redis.Client
}

func NewService(engine *Engine, places PlaceSource, prefs PreferenceSource, observations crowd.ObservationSource, cache *redis.Client) Service {
	return &service{
		engine:       engine,
		places:       places,
		prefs:        prefs,
		observations: observations,
		cache:        cache,
	}
}

// RefreshPlaces reloads the engine's held place list from storage.
func (s *service) RefreshPlaces(ctx context.Context) error {
	places, err := s.places.ListPlaces(ctx, "", 0)
	if err != nil {
		return err
	}
	s.engine.UpdatePlaces(places)
	return nil
}

func (s *service) SuggestionsForUser(ctx context.Context, userID int64, location *geo.Coordinates, targetPlaceID string, opts Options) ([]*Suggestion, error) {
	key := s.cacheKey(userID, location, targetPlaceID)
	if cached := s.readCache(ctx, key); cached != nil {
		return cached, nil
	}

	sctx := &Context{
		UserLocation: location,
		Observations: map[string][]crowd.Observation{},
	}

	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}
	if prefs != nil {
		sctx.Preferences = VisitPreferences{
			PreferredCrowdLevel: crowd.CrowdLevel(prefs.PreferredCrowdLevel),
			MaxWaitMinutes:      prefs.MaxWaitMinutes,
			NeedsWheelchair:     prefs.NeedsWheelchair,
		}
	}

	if targetPlaceID != "" {
		target, err := s.places.GetPlace(ctx, targetPlaceID)
		if err != nil {
			return nil, err
		}
		sctx.TargetPlace = target

		observations, err := s.observations.ObservationsForPlace(ctx, targetPlaceID)
		if err == nil {
			sctx.Observations[targetPlaceID] = observations
		}
	}

	suggestions := s.engine.GenerateSuggestions(sctx, opts)
	s.writeCache(ctx, key, suggestions)
	return suggestions, nil
}

func (s *service) cacheKey(userID int64, location *geo.Coordinates, targetPlaceID string) string {
	if location == nil {
		return fmt.Sprintf("suggestions:%d:%s", userID, targetPlaceID)
	}
	// Round coordinates so nearby lookups share an entry (~100 m grid).
	return fmt.Sprintf("suggestions:%d:%s:%.3f:%.3f", userID, targetPlaceID, location.Lat, location.Lng)
}

func (s *service) readCache(ctx context.Context, key string) []*Suggestion {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		recordCacheLookup("miss")
		return nil
	}

	var suggestions []*Suggestion
	if err := json.Unmarshal([]byte(data), &suggestions); err != nil {
		recordCacheLookup("miss")
		return nil
	}

	recordCacheLookup("hit")
	return suggestions
}

func (s *service) writeCache(ctx context.Context, key string, suggestions []*Suggestion) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(suggestions)
	if err != nil {
		return
	}

	s.cache.Set(ctx, key, data, cacheTTL)
}
