package crowd

import (
	"context"
	"errors"
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/place"
)

var ErrInvalidTimeRange = errors.New("trend end must be after start")

// PlaceSource resolves place identifiers for prediction requests.
type PlaceSource interface {
	GetPlace(ctx context.Context, id string) (*place.Place, error)
}

// ObservationSource supplies the report history that feeds the engine.
type ObservationSource interface {
	ObservationsForPlace(ctx context.Context, placeID string) ([]Observation, error)
}

type Service interface {
	PredictForPlace(ctx context.Context, placeID string, target time.Time) (*Prediction, error)
	TrendForPlace(ctx context.Context, placeID string, start, end time.Time, interval time.Duration) ([]TrendPoint, error)
}

type service struct {
	engine       *Engine
	places       PlaceSource
	observations ObservationSource
}

func NewService(engine *Engine, places PlaceSource, observations ObservationSource) Service {
	return &service{
		engine:       engine,
		places:       places,
		observations: observations,
	}
}

func (s *service) PredictForPlace(ctx context.Context, placeID string, target time.Time) (*Prediction, error) {
	p, err := s.places.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	reports, err := s.observations.ObservationsForPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	pred := s.engine.PredictCrowdLevel(p, target, reports)
	return &pred, nil
}

func (s *service) TrendForPlace(ctx context.Context, placeID string, start, end time.Time, interval time.Duration) ([]TrendPoint, error) {
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	p, err := s.places.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	reports, err := s.observations.ObservationsForPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	return s.engine.PredictCrowdTrend(p, start, end, interval, reports), nil
}
