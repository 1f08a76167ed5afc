package planner

import (
	"saturday-planner/internal/places"
	"saturday-planner/internal/weather"
)

// FilterByWeather drops weather-inappropriate candidates. Each candidate is
// judged independently and survivors keep their relative order; the filter
// can only shrink the list, never grow or reorder it.
func FilterByWeather(f weather.Forecast, candidates []places.Venue) []places.Venue {
	filtered := make([]places.Venue, 0, len(candidates))

	for _, candidate := range candidates {
		switch {
		case f.Condition == weather.Rainy || f.Condition == weather.Stormy || f.RainChance > 70:
			// High rain: indoor activities only.
			if candidate.Category == places.CategoryOutdoor {
				continue
			}
		case f.RainChance > 40:
			// Moderate rain: only keep outdoor venues worth the risk.
			if candidate.Category == places.CategoryOutdoor && candidate.Rating < 4.0 {
				continue
			}
		}
		filtered = append(filtered, candidate)
	}

	return filtered
}
