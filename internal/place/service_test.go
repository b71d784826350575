package place

import (
	"context"
	"testing"

	"github.com/socialrhythm/rhythm-backend/internal/geo"
)

type fakeRepository struct {
	places []*Place
}

func (f *fakeRepository) Create(ctx context.Context, p *Place) error {
	f.places = append(f.places, p)
	return nil
}

func (f *fakeRepository) Get(ctx context.Context, id string) (*Place, error) {
	for _, p := range f.places {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) Update(ctx context.Context, p *Place) error { return nil }

func (f *fakeRepository) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeRepository) List(ctx context.Context, category Category, limit int) ([]*Place, error) {
	return f.places, nil
}

func (f *fakeRepository) ListInBoundingBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]*Place, error) {
	var out []*Place
	for _, p := range f.places {
		if p.Location.Lat >= minLat && p.Location.Lat <= maxLat &&
			p.Location.Lng >= minLng && p.Location.Lng <= maxLng {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	return nil
}

func testPlace(id string, category Category, lat, lng float64) *Place {
	return &Place{
		ID:       id,
		Name:     id,
		Category: category,
		Location: geo.Coordinates{Lat: lat, Lng: lng},
	}
}

func TestNearbyPlacesSortsByDistance(t *testing.T) {
	repo := &fakeRepository{places: []*Place{
		testPlace("far", CategoryRestaurant, 35.6900, 139.7671),  // ~1 km north
		testPlace("near", CategoryRestaurant, 35.6820, 139.7671), // ~90 m north
		testPlace("out", CategoryRestaurant, 35.8000, 139.7671),  // ~13 km north
	}}
	svc := NewService(repo)

	center := geo.Coordinates{Lat: 35.6812, Lng: 139.7671}
	results, err := svc.NearbyPlaces(context.Background(), center, 2000, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Place.ID != "near" || results[1].Place.ID != "far" {
		t.Errorf("results not sorted by distance: %s, %s", results[0].Place.ID, results[1].Place.ID)
	}
	if results[0].DistanceMeters >= results[1].DistanceMeters {
		t.Error("distances should be ascending")
	}
}

func TestNearbyPlacesCategoryFilter(t *testing.T) {
	repo := &fakeRepository{places: []*Place{
		testPlace("cafe", CategoryRestaurant, 35.6820, 139.7671),
		testPlace("atm", CategoryBank, 35.6820, 139.7675),
	}}
	svc := NewService(repo)

	center := geo.Coordinates{Lat: 35.6812, Lng: 139.7671}
	results, err := svc.NearbyPlaces(context.Background(), center, 2000, CategoryBank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 || results[0].Place.ID != "atm" {
		t.Errorf("category filter failed, got %d results", len(results))
	}
}

func TestCreatePlaceRejectsUnknownCategory(t *testing.T) {
	svc := NewService(&fakeRepository{})

	_, err := svc.CreatePlace(context.Background(), &CreatePlaceDTO{
		Name:     "Mystery Spot",
		Category: "arcade",
	})
	if err != ErrInvalidCategory {
		t.Errorf("got err %v, want ErrInvalidCategory", err)
	}
}

func TestCreatePlaceAssignsID(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)

	p, err := svc.CreatePlace(context.Background(), &CreatePlaceDTO{
		Name:     "Station Cafe",
		Category: "restaurant",
		Latitude: 35.6812, Longitude: 139.7671,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Error("created place should get an ID")
	}
	if !p.Status.IsOpen {
		t.Error("new place should start open")
	}
}
