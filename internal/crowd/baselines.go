package crowd

import (
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/place"
)

// categoryDefault is the fallback crowd value when no time slot matches.
var categoryDefault = map[place.Category]float64{
	place.CategoryRestaurant:    0.40,
	place.CategoryHospital:      0.45,
	place.CategoryBank:          0.35,
	place.CategoryGovernment:    0.35,
	place.CategoryShopping:      0.45,
	place.CategoryTransport:     0.50,
	place.CategoryEducation:     0.30,
	place.CategoryEntertainment: 0.40,
	place.CategoryOther:         0.20,
}

// timeSlot is a per-category baseline row: [fromHour, toHour) with separate
// weekday/weekend values.
type timeSlot struct {
	from, to         int
	weekday, weekend float64
}

var categorySlots = map[place.Category][]timeSlot{
	place.CategoryRestaurant: {
		{7, 9, 0.45, 0.35},   // breakfast
		{11, 14, 0.85, 0.80}, // lunch peak
		{17, 21, 0.80, 0.90}, // dinner peak
		{21, 24, 0.35, 0.50},
		{0, 6, 0.10, 0.15}, // overnight
	},
	place.CategoryHospital: {
		{8, 12, 0.80, 0.40},
		{13, 17, 0.60, 0.35},
		{0, 7, 0.20, 0.20}, // emergency only
	},
	place.CategoryBank: {
		{9, 12, 0.80, 0.10}, // opening rush; closed weekends
		{12, 15, 0.55, 0.10},
		{15, 17, 0.40, 0.10},
		{0, 9, 0.05, 0.05},
		{17, 24, 0.05, 0.05},
	},
	place.CategoryGovernment: {
		{9, 12, 0.75, 0.10},
		{13, 16, 0.50, 0.10},
		{0, 9, 0.05, 0.05},
		{16, 24, 0.05, 0.05},
	},
	place.CategoryShopping: {
		{10, 13, 0.50, 0.75},
		{13, 18, 0.60, 0.85},
		{18, 21, 0.55, 0.70},
		{0, 10, 0.10, 0.10},
	},
	place.CategoryTransport: {
		{7, 10, 0.90, 0.45}, // morning commute
		{10, 16, 0.45, 0.55},
		{17, 20, 0.85, 0.55}, // evening commute
		{20, 24, 0.35, 0.45},
		{0, 5, 0.10, 0.15},
	},
	place.CategoryEducation: {
		{8, 16, 0.75, 0.15},
		{16, 19, 0.35, 0.15},
		{0, 8, 0.05, 0.05},
		{19, 24, 0.05, 0.05},
	},
	place.CategoryEntertainment: {
		{12, 18, 0.45, 0.65},
		{18, 23, 0.70, 0.85}, // evening peak
		{0, 6, 0.15, 0.30},
	},
}

// baselineFor returns the category/hour/weekend baseline crowd value.
// Unknown categories and unlisted hours fall back to the category default.
func baselineFor(cat place.Category, hour int, weekend bool) float64 {
	for _, slot := range categorySlots[cat] {
		if hour >= slot.from && hour < slot.to {
			if weekend {
				return slot.weekend
			}
			return slot.weekday
		}
	}
	if v, ok := categoryDefault[cat]; ok {
		return v
	}
	return categoryDefault[place.CategoryOther]
}

func isWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}
