package planner

import (
	"saturday-planner/internal/places"
	"saturday-planner/internal/weather"
)

// ChooseCategories maps a forecast to the ordered list of venue categories
// to search. It is pure and deterministic: the base rule keys on rain
// chance, then a temperature override replaces (never extends) the base
// list.
func ChooseCategories(f weather.Forecast) []string {
	var categories []string
	switch {
	case f.RainChance > 70 || f.Condition == weather.Rainy:
		// Indoor only
		categories = []string{places.CategoryRestaurant, places.CategoryEntertainment}
	case f.RainChance > 30:
		// Mostly indoor, with some options
		categories = []string{places.CategoryRestaurant, places.CategoryEntertainment, places.CategoryShopping}
	default:
		categories = []string{places.CategoryRestaurant, places.CategoryOutdoor, places.CategoryEntertainment}
	}

	// Temperature overrides replace the base-rule list outright.
	if f.HighF < 50 {
		// Cold favors warm indoor venues
		categories = []string{places.CategoryRestaurant, places.CategoryEntertainment, places.CategoryShopping}
	} else if f.HighF > 85 {
		// Hot weather still allows shaded outdoor options
		categories = []string{places.CategoryRestaurant, places.CategoryEntertainment, places.CategoryOutdoor}
	}

	return categories
}
