package crowd

import (
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/place"
)

// minFactorImpact is the filtering threshold: factors with |impact| at or
// below it are dropped before the adjustment and confidence calculations.
const minFactorImpact = 0.05

func timeOfDayFactor(cat place.Category, hour int) PredictionFactor {
	f := PredictionFactor{Name: "time_of_day"}

	switch cat {
	case place.CategoryRestaurant:
		switch {
		case hour >= 11 && hour < 14:
			f.Impact, f.Description = 0.20, "lunch rush"
		case hour >= 17 && hour < 21:
			f.Impact, f.Description = 0.15, "dinner rush"
		case hour < 6:
			f.Impact, f.Description = -0.30, "overnight lull"
		}
	case place.CategoryTransport:
		switch {
		case hour >= 7 && hour < 10:
			f.Impact, f.Description = 0.25, "morning commute"
		case hour >= 17 && hour < 20:
			f.Impact, f.Description = 0.25, "evening commute"
		case hour < 5:
			f.Impact, f.Description = -0.30, "first trains not running"
		}
	case place.CategoryBank, place.CategoryGovernment:
		switch {
		case hour >= 9 && hour < 11:
			f.Impact, f.Description = 0.20, "opening-hours rush"
		case hour >= 14 && hour < 16:
			f.Impact, f.Description = -0.10, "afternoon lull"
		}
	default:
		if hour < 6 {
			f.Impact, f.Description = -0.20, "overnight lull"
		}
	}

	return f
}

func weatherFactor(cond WeatherCondition, cat place.Category) PredictionFactor {
	f := PredictionFactor{Name: "weather"}

	switch cond {
	case WeatherRain:
		if cat == place.CategoryShopping || cat == place.CategoryEntertainment {
			// covered venues pick up foot traffic in bad weather
			f.Impact, f.Description = 0.10, "rain pushing visitors indoors"
		} else {
			f.Impact, f.Description = -0.15, "rain keeping visitors away"
		}
	case WeatherSnow:
		f.Impact, f.Description = -0.25, "snow keeping visitors away"
	case WeatherClear:
		f.Impact, f.Description = 0.08, "clear weather"
	case WeatherCloudy:
		f.Impact, f.Description = 0.0, "overcast"
	}

	return f
}

func holidayFactor(t time.Time, cat place.Category) PredictionFactor {
	f := PredictionFactor{Name: "holiday_weekend"}
	if !isWeekend(t.Weekday()) {
		return f
	}

	switch cat {
	case place.CategoryShopping, place.CategoryEntertainment, place.CategoryRestaurant:
		f.Impact, f.Description = 0.20, "weekend crowds"
	case place.CategoryBank, place.CategoryGovernment, place.CategoryEducation:
		f.Impact, f.Description = -0.30, "closed or quiet on weekends"
	case place.CategoryTransport:
		f.Impact, f.Description = -0.10, "no commuter traffic"
	}

	return f
}

// specialEventFactor is a placeholder until an events feed exists.
// TODO: wire the city events calendar once the ingestion job lands.
func specialEventFactor(t time.Time) PredictionFactor {
	return PredictionFactor{Name: "special_event", Impact: 0, Description: "no event data"}
}

func seasonFactor(t time.Time, cat place.Category) PredictionFactor {
	f := PredictionFactor{Name: "season"}

	switch t.Month() {
	case time.July, time.August:
		if cat == place.CategoryEntertainment || cat == place.CategoryShopping {
			f.Impact, f.Description = 0.10, "summer holiday season"
		}
	case time.December:
		if cat == place.CategoryShopping || cat == place.CategoryRestaurant {
			f.Impact, f.Description = 0.15, "year-end season"
		}
	case time.January, time.February:
		f.Impact, f.Description = -0.08, "winter slowdown"
	}

	return f
}

// filterFactors drops near-zero impacts so they neither move the prediction
// nor dilute the consistency calculation.
func filterFactors(factors []PredictionFactor) []PredictionFactor {
	kept := make([]PredictionFactor, 0, len(factors))
	for _, f := range factors {
		if f.Impact > minFactorImpact || f.Impact < -minFactorImpact {
			kept = append(kept, f)
		}
	}
	return kept
}

func impactVariance(factors []PredictionFactor) float64 {
	if len(factors) == 0 {
		return 0
	}

	var sum float64
	for _, f := range factors {
		sum += f.Impact
	}
	mean := sum / float64(len(factors))

	var variance float64
	for _, f := range factors {
		d := f.Impact - mean
		variance += d * d
	}
	return variance / float64(len(factors))
}
