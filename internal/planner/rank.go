package planner

import (
	"sort"
	"strings"

	"saturday-planner/internal/places"
	"saturday-planner/internal/weather"
)

// TopN is the size of the final ranking.
const TopN = 3

// Score weights. Weather contributes its bonus above the 1.0 baseline.
const (
	ratingWeight  = 0.4
	historyWeight = 0.4
	weatherWeight = 0.2
)

// historyScore computes the preference-history component. Labels are
// scanned in store order: the first label that appears (case-insensitively)
// inside the venue name wins outright with 1.0; a venue category appearing
// inside a label sets 0.5 but keeps scanning, so a later name match can
// still upgrade. Order dependence is intentional, preserved behavior.
func historyScore(v places.Venue, history []string) float64 {
	nameLower := strings.ToLower(v.Name)

	score := 0.0
	for _, liked := range history {
		likedLower := strings.ToLower(liked)
		if strings.Contains(nameLower, likedLower) {
			return 1.0
		}
		if strings.Contains(likedLower, v.Category) {
			score = 0.5
		}
	}
	return score
}

// weatherScore computes the weather-fit component.
func weatherScore(v places.Venue, f weather.Forecast) float64 {
	switch {
	case f.RainChance < 30 && v.Category == places.CategoryOutdoor:
		return 1.2 // outdoor in good weather
	case f.RainChance > 70 && v.Category != places.CategoryOutdoor:
		return 1.1 // indoor in bad weather
	default:
		return 1.0
	}
}

// Score computes the full score breakdown for one candidate.
func Score(v places.Venue, history []string, f weather.Forecast) ScoredVenue {
	rating := v.Rating / 5.0
	hist := historyScore(v, history)
	wx := weatherScore(v, f)

	return ScoredVenue{
		Venue:          v,
		RatingScore:    rating,
		HistoryScore:   hist,
		WeatherScore:   wx,
		CompositeScore: rating*ratingWeight + hist*historyWeight + (wx-1.0)*weatherWeight,
	}
}

// Rank scores every filtered candidate and returns the top N by composite
// score. The sort is stable: equal scores keep their filtered-list order.
func Rank(filtered []places.Venue, history []string, f weather.Forecast) []ScoredVenue {
	scored := make([]ScoredVenue, 0, len(filtered))
	for _, v := range filtered {
		scored = append(scored, Score(v, history, f))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})

	if len(scored) > TopN {
		scored = scored[:TopN]
	}
	return scored
}

// RankByRating is the degraded ranking used when preference history cannot
// be consulted at all: top N by raw rating, stable.
func RankByRating(filtered []places.Venue) []ScoredVenue {
	scored := make([]ScoredVenue, 0, len(filtered))
	for _, v := range filtered {
		scored = append(scored, ScoredVenue{
			Venue:          v,
			RatingScore:    v.Rating / 5.0,
			WeatherScore:   1.0,
			CompositeScore: v.Rating / 5.0 * ratingWeight,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Rating > scored[j].Rating
	})

	if len(scored) > TopN {
		scored = scored[:TopN]
	}
	return scored
}
