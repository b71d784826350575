package place

import (
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/geo"
)

// Category classifies a place for baseline crowd behavior.
type Category string

const (
	CategoryRestaurant    Category = "restaurant"
	CategoryHospital      Category = "hospital"
	CategoryBank          Category = "bank"
	CategoryGovernment    Category = "government"
	CategoryShopping      Category = "shopping"
	CategoryTransport     Category = "transport"
	CategoryEducation     Category = "education"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryRestaurant, CategoryHospital, CategoryBank, CategoryGovernment,
		CategoryShopping, CategoryTransport, CategoryEducation,
		CategoryEntertainment, CategoryOther:
		return true
	}
	return false
}

// Status is the live state of a place, refreshed on each status tick.
type Status struct {
	IsOpen        bool      `json:"is_open" db:"is_open"`
	QueueLength   int       `json:"queue_length" db:"queue_length"`
	EstimatedWait int       `json:"estimated_wait_minutes" db:"estimated_wait_minutes"`
	Density       float64   `json:"density" db:"density"` // 0..1
	UpdatedAt     time.Time `json:"updated_at" db:"status_updated_at"`
}

// DayHours is one weekday row of the weekly open-hours table.
// Open/Close are "HH:MM" local time; Closed overrides both.
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// WeeklyHours maps weekday (0=Sunday) to that day's hours.
type WeeklyHours map[time.Weekday]DayHours

// Attributes are the static properties of a place.
type Attributes struct {
	NoiseLevel           int         `json:"noise_level"` // 1 (quiet) .. 5 (loud)
	WheelchairAccessible bool        `json:"wheelchair_accessible"`
	Hours                WeeklyHours `json:"hours,omitempty"`
}

// Place is a physical location users report on and get suggestions for.
type Place struct {
	ID         string          `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Category   Category        `json:"category" db:"category"`
	Location   geo.Coordinates `json:"location"`
	Status     Status          `json:"status"`
	Attributes Attributes      `json:"attributes"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// OpenAt reports whether the place's weekly hours cover the given time.
// Places without an hours table are treated as always open.
func (p *Place) OpenAt(t time.Time) bool {
	if len(p.Attributes.Hours) == 0 {
		return true
	}
	day, ok := p.Attributes.Hours[t.Weekday()]
	if !ok || day.Closed {
		return false
	}
	hhmm := t.Format("15:04")
	return hhmm >= day.Open && hhmm < day.Close
}
