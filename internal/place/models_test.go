package place

import (
	"testing"
	"time"
)

func TestOpenAtWithoutHoursAlwaysOpen(t *testing.T) {
	p := &Place{Category: CategoryOther}
	if !p.OpenAt(time.Date(2025, 3, 12, 3, 0, 0, 0, time.UTC)) {
		t.Error("place without an hours table should always be open")
	}
}

func TestOpenAtRespectsWeeklyHours(t *testing.T) {
	p := &Place{
		Category: CategoryBank,
		Attributes: Attributes{
			Hours: WeeklyHours{
				time.Monday:   {Open: "09:00", Close: "15:00"},
				time.Saturday: {Closed: true},
			},
		},
	}

	monday := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC) // Monday
	if !p.OpenAt(monday) {
		t.Error("bank should be open Monday 10:00")
	}

	mondayEvening := time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)
	if p.OpenAt(mondayEvening) {
		t.Error("bank should be closed Monday 16:00")
	}

	saturday := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	if p.OpenAt(saturday) {
		t.Error("bank should be closed Saturday")
	}

	// Days with no entry are closed once any hours exist.
	sunday := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)
	if p.OpenAt(sunday) {
		t.Error("bank should be closed on a day without an hours entry")
	}
}

func TestOpenAtClosingTimeExclusive(t *testing.T) {
	p := &Place{
		Attributes: Attributes{
			Hours: WeeklyHours{
				time.Monday: {Open: "09:00", Close: "15:00"},
			},
		},
	}

	closing := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	if p.OpenAt(closing) {
		t.Error("place should be closed exactly at closing time")
	}
}

func TestCategoryValid(t *testing.T) {
	if !CategoryRestaurant.Valid() {
		t.Error("restaurant should be a valid category")
	}
	if Category("arcade").Valid() {
		t.Error("unknown category should be invalid")
	}
}
