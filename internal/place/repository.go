package place

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/socialrhythm/rhythm-backend/internal/geo"
)

var ErrNotFound = errors.New("place not found")

type Repository interface {
	Create(ctx context.Context, p *Place) error
	Get(ctx context.Context, id string) (*Place, error)
	Update(ctx context.Context, p *Place) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, category Category, limit int) ([]*Place, error)
	ListInBoundingBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]*Place, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// placeRow flattens Place for scanning. Attributes round-trip through a
// JSONB column; status fields are inline columns so the refresher can
// update them without touching the rest of the row.
type placeRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	Lat           float64         `db:"location_lat"`
	Lng           float64         `db:"location_lng"`
	IsOpen        bool            `db:"is_open"`
	QueueLength   int             `db:"queue_length"`
	EstimatedWait int             `db:"estimated_wait_minutes"`
	Density       float64         `db:"density"`
	StatusUpdated time.Time       `db:"status_updated_at"`
	Attributes    json.RawMessage `db:"attributes"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (row *placeRow) toPlace() (*Place, error) {
	p := &Place{
		ID:       row.ID,
		Name:     row.Name,
		Category: Category(row.Category),
		Location: geo.Coordinates{Lat: row.Lat, Lng: row.Lng},
		Status: Status{
			IsOpen:        row.IsOpen,
			QueueLength:   row.QueueLength,
			EstimatedWait: row.EstimatedWait,
			Density:       row.Density,
			UpdatedAt:     row.StatusUpdated,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if len(row.Attributes) > 0 {
		if err := json.Unmarshal(row.Attributes, &p.Attributes); err != nil {
			return nil, err
		}
	}

	return p, nil
}

const placeColumns = `
    id, name, category, location_lat, location_lng,
    is_open, queue_length, estimated_wait_minutes, density, status_updated_at,
    attributes, created_at, updated_at
`

func (r *postgresRepository) Create(ctx context.Context, p *Place) error {
	attrs, err := json.Marshal(p.Attributes)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO places (
            id, name, category, location_lat, location_lng,
            is_open, queue_length, estimated_wait_minutes, density,
            status_updated_at, attributes
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, $10)
        RETURNING created_at, updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		p.ID, p.Name, p.Category, p.Location.Lat, p.Location.Lng,
		p.Status.IsOpen, p.Status.QueueLength, p.Status.EstimatedWait,
		p.Status.Density, attrs,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepository) Get(ctx context.Context, id string) (*Place, error) {
	var row placeRow
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.toPlace()
}

func (r *postgresRepository) Update(ctx context.Context, p *Place) error {
	attrs, err := json.Marshal(p.Attributes)
	if err != nil {
		return err
	}

	query := `
        UPDATE places
        SET name = $2, category = $3, location_lat = $4, location_lng = $5,
            attributes = $6, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1
    `

	result, err := r.db.ExecContext(
		ctx, query,
		p.ID, p.Name, p.Category, p.Location.Lat, p.Location.Lng, attrs,
	)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *postgresRepository) List(ctx context.Context, category Category, limit int) ([]*Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places`
	args := []interface{}{}

	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`
	if limit > 0 {
		args = append(args, limit)
		if category != "" {
			query += ` LIMIT $2`
		} else {
			query += ` LIMIT $1`
		}
	}

	return r.queryPlaces(ctx, query, args...)
}

func (r *postgresRepository) ListInBoundingBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]*Place, error) {
	query := `
        SELECT ` + placeColumns + `
        FROM places
        WHERE location_lat BETWEEN $1 AND $2
          AND location_lng BETWEEN $3 AND $4
    `
	return r.queryPlaces(ctx, query, minLat, maxLat, minLng, maxLng)
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	query := `
        UPDATE places
        SET is_open = $2, queue_length = $3, estimated_wait_minutes = $4,
            density = $5, status_updated_at = CURRENT_TIMESTAMP
        WHERE id = $1
    `

	result, err := r.db.ExecContext(
		ctx, query,
		id, status.IsOpen, status.QueueLength, status.EstimatedWait, status.Density,
	)
	if err != nil {
		return err
	}

	return requireAffected(result)
}

func (r *postgresRepository) queryPlaces(ctx context.Context, query string, args ...interface{}) ([]*Place, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []*Place
	for rows.Next() {
		var row placeRow
		if err := rows.StructScan(&row); err != nil {
			continue
		}
		p, err := row.toPlace()
		if err != nil {
			continue
		}
		places = append(places, p)
	}

	return places, rows.Err()
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
