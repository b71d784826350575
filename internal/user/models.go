package user

import (
	"time"

	"github.com/lib/pq"
)

// User is an account row. Location is optional; users opt in to sharing it.
type User struct {
	ID          int64      `json:"id" db:"id"`
	Username    string     `json:"username" db:"username"`
	DisplayName string     `json:"display_name" db:"display_name"`
	Email       *string    `json:"email,omitempty" db:"email"`
	Phone       *string    `json:"phone,omitempty" db:"phone"`
	Gender      string     `json:"gender,omitempty" db:"gender"`
	BirthDate   *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Latitude    *float64   `json:"latitude,omitempty" db:"location_lat"`
	Longitude   *float64   `json:"longitude,omitempty" db:"location_lng"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Age derives the user's age at the given time, or nil without a birth date.
func (u *User) Age(at time.Time) *int {
	if u.BirthDate == nil {
		return nil
	}
	years := at.Year() - u.BirthDate.Year()
	anniversary := u.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return &years
}

// Preferences bundles everything the scoring engines read for a user:
// the visit-preference fields consumed by the recommendation engine and
// the match-preference fields consumed by the matching engine.
type Preferences struct {
	UserID int64 `json:"user_id" db:"user_id"`

	// Visit preferences
	PreferredCrowdLevel string         `json:"preferred_crowd_level,omitempty" db:"preferred_crowd_level"`
	MaxWaitMinutes      int            `json:"max_wait_minutes" db:"max_wait_minutes"`
	NeedsWheelchair     bool           `json:"needs_wheelchair" db:"needs_wheelchair"`
	NoiseTolerance      int            `json:"noise_tolerance" db:"noise_tolerance"` // 1..5
	PreferredTimeSlots  pq.StringArray `json:"preferred_time_slots" db:"preferred_time_slots"`

	// Match preferences
	MaxDistanceMeters float64        `json:"max_distance_meters" db:"max_distance_meters"`
	PrefMinAge        *int           `json:"pref_min_age,omitempty" db:"pref_min_age"`
	PrefMaxAge        *int           `json:"pref_max_age,omitempty" db:"pref_max_age"`
	PreferredGender   string         `json:"preferred_gender,omitempty" db:"preferred_gender"`
	GroupSize         string         `json:"group_size,omitempty" db:"group_size"`
	Interests         pq.StringArray `json:"interests" db:"interests"`
	SafetyLevel       *int           `json:"safety_level,omitempty" db:"safety_level"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
