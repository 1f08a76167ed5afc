package weather

import (
	"context"
	"strings"
)

// Condition is the coarse forecast classification the planner reasons about.
type Condition string

const (
	Sunny   Condition = "sunny"
	Cloudy  Condition = "cloudy"
	Rainy   Condition = "rainy"
	Stormy  Condition = "stormy"
	Unknown Condition = "unknown"
)

// Forecast is a simplified weather reading for a single location.
type Forecast struct {
	Condition   Condition `json:"forecast"`
	HighF       int       `json:"high"`
	LowF        int       `json:"low"`
	Description string    `json:"description"`
	RainChance  int       `json:"rain_chance"`
}

// Fallback is the forecast substituted when the weather service is
// unreachable or returns a malformed response. Planning continues with it;
// Unknown is reserved for exactly this case.
func Fallback() Forecast {
	return Forecast{
		Condition:   Unknown,
		HighF:       70,
		LowF:        60,
		Description: "Weather data unavailable",
		RainChance:  0,
	}
}

// Classify reduces a free-text condition description to a Condition.
// Rules are evaluated top-down; anything unrecognized counts as cloudy.
func Classify(description string) Condition {
	condition := strings.ToLower(description)
	switch {
	case strings.Contains(condition, "rain"), strings.Contains(condition, "drizzle"), strings.Contains(condition, "shower"):
		return Rainy
	case strings.Contains(condition, "storm"), strings.Contains(condition, "thunder"):
		return Stormy
	case strings.Contains(condition, "cloud"), strings.Contains(condition, "overcast"):
		return Cloudy
	case strings.Contains(condition, "sun"), strings.Contains(condition, "clear"):
		return Sunny
	default:
		return Cloudy
	}
}

// Client is an interface for a weather lookup service.
type Client interface {
	Forecast(ctx context.Context, zipCode string) (Forecast, error)
}
