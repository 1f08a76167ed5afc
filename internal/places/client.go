package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"saturday-planner/internal/config"
)

const maxResults = 10

// Default coordinates (San Francisco) used when geocoding fails.
const (
	defaultLat = 37.7749
	defaultLng = -122.4194
)

// typeMapping maps planner categories to Google Places types.
var typeMapping = map[string]string{
	CategoryRestaurant:    "restaurant",
	CategoryEntertainment: "tourist_attraction|amusement_park|movie_theater|museum",
	CategoryOutdoor:       "park|tourist_attraction",
	CategoryShopping:      "shopping_mall|store",
}

// googleClient is a client for the Google Places and Geocoding APIs.
type googleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Google Places client.
func NewClient(cfg *config.Config) Client {
	return &googleClient{
		apiKey:  cfg.PlacesAPIKey,
		baseURL: cfg.PlacesAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// geocode converts a zip code to coordinates. Failures fall back to the
// default coordinates so a bad zip code degrades search results instead of
// failing the whole category.
func (c *googleClient) geocode(ctx context.Context, zipCode string) (float64, float64) {
	params := url.Values{}
	params.Set("address", zipCode)
	params.Set("key", c.apiKey)

	reqURL := fmt.Sprintf("%s/geocode/json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return defaultLat, defaultLng
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return defaultLat, defaultLng
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return defaultLat, defaultLng
	}

	var payload struct {
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Results) == 0 {
		return defaultLat, defaultLng
	}

	loc := payload.Results[0].Geometry.Location
	return loc.Lat, loc.Lng
}

// Search finds venues for a category near a zip code. Results are capped at
// maxResults, filtered by the price ceiling, and tagged with the category.
func (c *googleClient) Search(ctx context.Context, q Query) ([]Venue, error) {
	lat, lng := c.geocode(ctx, q.ZipCode)

	radiusMeters := int(float64(q.RadiusMiles) * 1609.34)

	placeType, ok := typeMapping[q.Category]
	if !ok {
		placeType = typeMapping[CategoryRestaurant]
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("type", placeType)
	params.Set("key", c.apiKey)

	reqURL := fmt.Sprintf("%s/place/nearbysearch/json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api error: status %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			Name       string  `json:"name"`
			Vicinity   string  `json:"vicinity"`
			Rating     float64 `json:"rating"`
			PriceLevel *int    `json:"price_level"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := payload.Results
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	var venues []Venue
	for _, place := range results {
		// Places without a listed price count as cheap.
		priceLevel := 1
		if place.PriceLevel != nil {
			priceLevel = *place.PriceLevel
		}
		if priceLevel > q.MaxPrice {
			continue
		}

		name := place.Name
		if name == "" {
			name = "Unknown Place"
		}
		address := place.Vicinity
		if address == "" {
			address = "Address not available"
		}

		venues = append(venues, Venue{
			Name:       name,
			Address:    address,
			Rating:     place.Rating,
			PriceLevel: priceLevel,
			Category:   q.Category,
		})
	}

	return venues, nil
}
