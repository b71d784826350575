package report

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("report not found")

type Repository interface {
	Create(ctx context.Context, r *Report) error
	Get(ctx context.Context, id string) (*Report, error)
	ListForPlace(ctx context.Context, placeID string, since time.Time, limit int) ([]*Report, error)
	SetPhotoURL(ctx context.Context, id, photoURL string, confidence float64) error
	Delete(ctx context.Context, id string, userID int64) error
	CountForUserSince(ctx context.Context, userID int64, since time.Time) (int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, report *Report) error {
	query := `
        INSERT INTO reports (
            id, place_id, user_id, crowd_level, wait_minutes,
            noise_level, is_open, notes, confidence, verified
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING created_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		report.ID, report.PlaceID, report.UserID, report.CrowdLevel,
		report.WaitMinutes, report.NoiseLevel, report.IsOpen,
		report.Notes, report.Confidence, report.Verified,
	).Scan(&report.CreatedAt)
}

func (r *postgresRepository) Get(ctx context.Context, id string) (*Report, error) {
	var report Report
	query := `SELECT * FROM reports WHERE id = $1`

	err := r.db.GetContext(ctx, &report, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *postgresRepository) ListForPlace(ctx context.Context, placeID string, since time.Time, limit int) ([]*Report, error) {
	var reports []*Report
	query := `
        SELECT * FROM reports
        WHERE place_id = $1 AND created_at >= $2
        ORDER BY created_at DESC
        LIMIT $3
    `

	err := r.db.SelectContext(ctx, &reports, query, placeID, since, limit)
	return reports, err
}

func (r *postgresRepository) SetPhotoURL(ctx context.Context, id, photoURL string, confidence float64) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE reports SET photo_url = $2, confidence = $3 WHERE id = $1`,
		id, photoURL, confidence,
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

func (r *postgresRepository) Delete(ctx context.Context, id string, userID int64) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM reports WHERE id = $1 AND user_id = $2`,
		id, userID,
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

func (r *postgresRepository) CountForUserSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM reports WHERE user_id = $1 AND created_at >= $2`

	err := r.db.GetContext(ctx, &count, query, userID, since)
	return count, err
}
