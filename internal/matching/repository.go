package matching

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/socialrhythm/rhythm-backend/internal/geo"
)

type Repository interface {
	// Profiles for scoring
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	ListCandidateProfiles(ctx context.Context, excludeUserID int64, limit int) ([]*Profile, error)

	// Companion matches
	CreateMatch(ctx context.Context, match *CompanionMatch) error
	GetMatch(ctx context.Context, id int64) (*CompanionMatch, error)
	GetUserMatches(ctx context.Context, userID int64, active bool) ([]*CompanionMatch, error)
	DeactivateMatch(ctx context.Context, matchID, userID int64) error
	IsMatched(ctx context.Context, user1ID, user2ID int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// profileRow is the raw join of users and user_preferences; nullable
// columns stay nullable here and collapse into Profile pointers.
type profileRow struct {
	ID          int64           `db:"id"`
	DisplayName string          `db:"display_name"`
	Gender      sql.NullString  `db:"gender"`
	BirthDate   sql.NullTime    `db:"birth_date"`
	Lat         sql.NullFloat64 `db:"location_lat"`
	Lng         sql.NullFloat64 `db:"location_lng"`
	Interests   pq.StringArray  `db:"interests"`
	TimeSlots   pq.StringArray  `db:"preferred_time_slots"`
	SafetyLevel sql.NullInt64   `db:"safety_level"`
	MaxDistance sql.NullFloat64 `db:"max_distance_meters"`
	PrefMinAge  sql.NullInt64   `db:"pref_min_age"`
	PrefMaxAge  sql.NullInt64   `db:"pref_max_age"`
	PrefGender  sql.NullString  `db:"preferred_gender"`
	GroupSize   sql.NullString  `db:"group_size"`
}

func (row *profileRow) toProfile() *Profile {
	p := &Profile{
		ID:          row.ID,
		DisplayName: row.DisplayName,
		Gender:      row.Gender.String,
		Interests:   row.Interests,
		TimeSlots:   row.TimeSlots,
		Preferences: MatchPreferences{
			MaxDistanceMeters: row.MaxDistance.Float64,
			PreferredGender:   row.PrefGender.String,
			GroupSize:         row.GroupSize.String,
		},
	}

	if row.BirthDate.Valid {
		age := yearsSince(row.BirthDate.Time, time.Now())
		p.Age = &age
	}
	if row.Lat.Valid && row.Lng.Valid {
		p.Location = &geo.Coordinates{Lat: row.Lat.Float64, Lng: row.Lng.Float64}
	}
	if row.SafetyLevel.Valid {
		level := int(row.SafetyLevel.Int64)
		p.SafetyLevel = &level
	}
	if row.PrefMinAge.Valid {
		v := int(row.PrefMinAge.Int64)
		p.Preferences.MinAge = &v
	}
	if row.PrefMaxAge.Valid {
		v := int(row.PrefMaxAge.Int64)
		p.Preferences.MaxAge = &v
	}

	return p
}

func yearsSince(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if birth.AddDate(years, 0, 0).After(now) {
		years--
	}
	return years
}

const profileColumns = `
    u.id, u.display_name, u.gender, u.birth_date,
    u.location_lat, u.location_lng,
    p.interests, p.preferred_time_slots, p.safety_level,
    p.max_distance_meters, p.pref_min_age, p.pref_max_age,
    p.preferred_gender, p.group_size
`

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	query := `
        SELECT ` + profileColumns + `
        FROM users u
        LEFT JOIN user_preferences p ON p.user_id = u.id
        WHERE u.id = $1
    `

	var row profileRow
	err := r.db.GetContext(ctx, &row, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.toProfile(), nil
}

func (r *postgresRepository) ListCandidateProfiles(ctx context.Context, excludeUserID int64, limit int) ([]*Profile, error) {
	query := `
        SELECT ` + profileColumns + `
        FROM users u
        LEFT JOIN user_preferences p ON p.user_id = u.id
        WHERE u.id != $1
        ORDER BY u.updated_at DESC
        LIMIT $2
    `

	rows, err := r.db.QueryxContext(ctx, query, excludeUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var row profileRow
		if err := rows.StructScan(&row); err != nil {
			continue
		}
		profiles = append(profiles, row.toProfile())
	}

	return profiles, rows.Err()
}

func (r *postgresRepository) CreateMatch(ctx context.Context, match *CompanionMatch) error {
	// Ensure user1_id < user2_id for consistency
	if match.User1ID > match.User2ID {
		match.User1ID, match.User2ID = match.User2ID, match.User1ID
	}

	query := `
        INSERT INTO companion_matches (
            user1_id, user2_id, compatibility_score, quality
        ) VALUES ($1, $2, $3, $4)
        ON CONFLICT (user1_id, user2_id)
        DO UPDATE SET
            is_active = TRUE,
            unmatched_by = NULL,
            unmatched_at = NULL,
            compatibility_score = $3,
            quality = $4,
            matched_at = CURRENT_TIMESTAMP
        RETURNING id, matched_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		match.User1ID, match.User2ID, match.CompatibilityScore, match.Quality,
	).Scan(&match.ID, &match.MatchedAt)
}

func (r *postgresRepository) GetMatch(ctx context.Context, id int64) (*CompanionMatch, error) {
	var match CompanionMatch
	query := `SELECT * FROM companion_matches WHERE id = $1`

	err := r.db.GetContext(ctx, &match, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}

	return &match, nil
}

func (r *postgresRepository) GetUserMatches(ctx context.Context, userID int64, active bool) ([]*CompanionMatch, error) {
	query := `
        SELECT m.id, m.user1_id, m.user2_id, m.compatibility_score, m.quality,
               m.is_active, m.unmatched_by, m.unmatched_at, m.matched_at,
               CASE WHEN m.user1_id = $1 THEN u2.id ELSE u1.id END AS other_id,
               CASE WHEN m.user1_id = $1 THEN u2.display_name ELSE u1.display_name END AS other_name
        FROM companion_matches m
        JOIN users u1 ON m.user1_id = u1.id
        JOIN users u2 ON m.user2_id = u2.id
        WHERE (m.user1_id = $1 OR m.user2_id = $1) AND m.is_active = $2
        ORDER BY m.matched_at DESC
    `

	rows, err := r.db.QueryxContext(ctx, query, userID, active)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*CompanionMatch
	for rows.Next() {
		var match CompanionMatch
		var other Profile

		err := rows.Scan(
			&match.ID, &match.User1ID, &match.User2ID,
			&match.CompatibilityScore, &match.Quality,
			&match.IsActive, &match.UnmatchedBy, &match.UnmatchedAt, &match.MatchedAt,
			&other.ID, &other.DisplayName,
		)
		if err != nil {
			continue
		}

		match.MatchedUser = &other
		matches = append(matches, &match)
	}

	return matches, rows.Err()
}

func (r *postgresRepository) DeactivateMatch(ctx context.Context, matchID, userID int64) error {
	query := `
        UPDATE companion_matches
        SET is_active = FALSE, unmatched_by = $2, unmatched_at = CURRENT_TIMESTAMP
        WHERE id = $1 AND (user1_id = $2 OR user2_id = $2) AND is_active = TRUE
    `

	result, err := r.db.ExecContext(ctx, query, matchID, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMatchNotFound
	}

	return nil
}

func (r *postgresRepository) IsMatched(ctx context.Context, user1ID, user2ID int64) (bool, error) {
	// Ensure consistent ordering
	if user1ID > user2ID {
		user1ID, user2ID = user2ID, user1ID
	}

	var exists bool
	query := `
        SELECT EXISTS(
            SELECT 1 FROM companion_matches
            WHERE user1_id = $1 AND user2_id = $2 AND is_active = TRUE
        )
    `

	err := r.db.GetContext(ctx, &exists, query, user1ID, user2ID)
	return exists, err
}
