package crowd

import (
	"math/rand"
	"sync"
	"time"
)

// WeatherCondition is the coarse weather signal the prediction factors use.
type WeatherCondition string

const (
	WeatherClear  WeatherCondition = "clear"
	WeatherCloudy WeatherCondition = "cloudy"
	WeatherRain   WeatherCondition = "rain"
	WeatherSnow   WeatherCondition = "snow"
)

// WeatherProvider supplies the weather condition for a point in time.
// The production default samples randomly; tests substitute a static one.
type WeatherProvider interface {
	ConditionAt(t time.Time) WeatherCondition
}

// RandomWeatherProvider is the stand-in used when no live feed is wired.
type RandomWeatherProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomWeatherProvider seeds a provider from the wall clock.
func NewRandomWeatherProvider() *RandomWeatherProvider {
	return &RandomWeatherProvider{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *RandomWeatherProvider) ConditionAt(t time.Time) WeatherCondition {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := p.rng.Float64()
	switch {
	case r < 0.45:
		return WeatherClear
	case r < 0.75:
		return WeatherCloudy
	case r < 0.95:
		return WeatherRain
	default:
		return WeatherSnow
	}
}

// StaticWeatherProvider always returns the same condition. Test double.
type StaticWeatherProvider struct {
	Condition WeatherCondition
}

func (p StaticWeatherProvider) ConditionAt(t time.Time) WeatherCondition {
	return p.Condition
}
