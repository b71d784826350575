package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdateLocation(ctx context.Context, id int64, lat, lng float64) error
	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	UpsertPreferences(ctx context.Context, p *Preferences) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	query := `
        INSERT INTO users (username, display_name, email, phone, gender, birth_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		u.Username, u.DisplayName, u.Email, u.Phone, u.Gender, u.BirthDate,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *postgresRepository) Get(ctx context.Context, id int64) (*User, error) {
	var u User
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &u, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	query := `SELECT * FROM users WHERE username = $1`

	err := r.db.GetContext(ctx, &u, query, username)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *postgresRepository) Update(ctx context.Context, u *User) error {
	query := `
        UPDATE users
        SET display_name = $2, email = $3, phone = $4, gender = $5,
            birth_date = $6, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1
    `

	result, err := r.db.ExecContext(
		ctx, query,
		u.ID, u.DisplayName, u.Email, u.Phone, u.Gender, u.BirthDate,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) UpdateLocation(ctx context.Context, id int64, lat, lng float64) error {
	query := `
        UPDATE users
        SET location_lat = $2, location_lng = $3, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1
    `

	result, err := r.db.ExecContext(ctx, query, id, lat, lng)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	var p Preferences
	query := `SELECT * FROM user_preferences WHERE user_id = $1`

	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *postgresRepository) UpsertPreferences(ctx context.Context, p *Preferences) error {
	query := `
        INSERT INTO user_preferences (
            user_id, preferred_crowd_level, max_wait_minutes, needs_wheelchair,
            noise_tolerance, preferred_time_slots, max_distance_meters,
            pref_min_age, pref_max_age, preferred_gender, group_size,
            interests, safety_level
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (user_id) DO UPDATE SET
            preferred_crowd_level = $2, max_wait_minutes = $3,
            needs_wheelchair = $4, noise_tolerance = $5,
            preferred_time_slots = $6, max_distance_meters = $7,
            pref_min_age = $8, pref_max_age = $9, preferred_gender = $10,
            group_size = $11, interests = $12, safety_level = $13,
            updated_at = CURRENT_TIMESTAMP
        RETURNING updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.PreferredCrowdLevel, p.MaxWaitMinutes, p.NeedsWheelchair,
		p.NoiseTolerance, pq.Array(p.PreferredTimeSlots), p.MaxDistanceMeters,
		p.PrefMinAge, p.PrefMaxAge, p.PreferredGender, p.GroupSize,
		pq.Array(p.Interests), p.SafetyLevel,
	).Scan(&p.UpdatedAt)
}
