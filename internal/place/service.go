package place

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/socialrhythm/rhythm-backend/internal/geo"
)

var ErrInvalidCategory = errors.New("invalid place category")

const metersPerDegreeLat = 111320.0

// NearbyResult pairs a place with its distance from the search point.
type NearbyResult struct {
	Place          *Place  `json:"place"`
	DistanceMeters float64 `json:"distance_meters"`
}

type Service interface {
	CreatePlace(ctx context.Context, dto *CreatePlaceDTO) (*Place, error)
	GetPlace(ctx context.Context, id string) (*Place, error)
	UpdatePlace(ctx context.Context, id string, dto *UpdatePlaceDTO) (*Place, error)
	DeletePlace(ctx context.Context, id string) error
	ListPlaces(ctx context.Context, category Category, limit int) ([]*Place, error)
	NearbyPlaces(ctx context.Context, center geo.Coordinates, radiusMeters float64, category Category) ([]*NearbyResult, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreatePlace(ctx context.Context, dto *CreatePlaceDTO) (*Place, error) {
	category := Category(dto.Category)
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	p := &Place{
		ID:       uuid.New().String(),
		Name:     dto.Name,
		Category: category,
		Location: geo.Coordinates{Lat: dto.Latitude, Lng: dto.Longitude},
		Status:   Status{IsOpen: true},
		Attributes: Attributes{
			NoiseLevel:           dto.NoiseLevel,
			WheelchairAccessible: dto.WheelchairAccessible,
			Hours:                dto.Hours,
		},
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	recordPlaceCreated(string(category))
	return p, nil
}

func (s *service) GetPlace(ctx context.Context, id string) (*Place, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) UpdatePlace(ctx context.Context, id string, dto *UpdatePlaceDTO) (*Place, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Category != nil {
		category := Category(*dto.Category)
		if !category.Valid() {
			return nil, ErrInvalidCategory
		}
		p.Category = category
	}
	if dto.Latitude != nil {
		p.Location.Lat = *dto.Latitude
	}
	if dto.Longitude != nil {
		p.Location.Lng = *dto.Longitude
	}
	if dto.NoiseLevel != nil {
		p.Attributes.NoiseLevel = *dto.NoiseLevel
	}
	if dto.WheelchairAccessible != nil {
		p.Attributes.WheelchairAccessible = *dto.WheelchairAccessible
	}
	if dto.Hours != nil {
		p.Attributes.Hours = dto.Hours
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeletePlace(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListPlaces(ctx context.Context, category Category, limit int) ([]*Place, error) {
	if category != "" && !category.Valid() {
		return nil, ErrInvalidCategory
	}
	return s.repo.List(ctx, category, limit)
}

// NearbyPlaces finds places within radiusMeters of center, closest first.
// A bounding box narrows the database scan; the exact haversine check
// trims the corners.
func (s *service) NearbyPlaces(ctx context.Context, center geo.Coordinates, radiusMeters float64, category Category) ([]*NearbyResult, error) {
	deltaLat := radiusMeters / metersPerDegreeLat
	deltaLng := radiusMeters / (metersPerDegreeLat * math.Cos(center.Lat*math.Pi/180))

	candidates, err := s.repo.ListInBoundingBox(
		ctx,
		center.Lat-deltaLat, center.Lat+deltaLat,
		center.Lng-deltaLng, center.Lng+deltaLng,
	)
	if err != nil {
		return nil, err
	}

	results := make([]*NearbyResult, 0, len(candidates))
	for _, p := range candidates {
		if category != "" && p.Category != category {
			continue
		}
		distance := geo.DistanceMeters(center, p.Location)
		if distance > radiusMeters {
			continue
		}
		results = append(results, &NearbyResult{Place: p, DistanceMeters: distance})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})

	return results, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	recordStatusUpdate()
	return nil
}
