package places

import "context"

// Recognized venue categories. The category policy emits these and the
// weather filter and ranker key off them.
const (
	CategoryRestaurant    = "restaurant"
	CategoryEntertainment = "entertainment"
	CategoryOutdoor       = "outdoor"
	CategoryShopping      = "shopping"
)

// Venue is a single candidate activity returned by a catalog search.
// The category tag is attached by the search layer, not the remote API.
type Venue struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Rating     float64 `json:"rating"`
	PriceLevel int     `json:"price_level"`
	Category   string  `json:"category"`
}

// Query describes a single catalog search.
type Query struct {
	Category    string
	ZipCode     string
	RadiusMiles int
	MaxPrice    int
}

// Client is an interface for a venue search service.
type Client interface {
	Search(ctx context.Context, q Query) ([]Venue, error)
}
