package places

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"saturday-planner/internal/config"
)

func newTestServer(t *testing.T, searchBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/geocode/"):
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{"results": [{"geometry": {"location": {"lat": 37.78, "lng": -122.42}}}]}`)
		case strings.HasPrefix(r.URL.Path, "/place/nearbysearch/"):
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, searchBody)
		default:
			t.Errorf("Unexpected request path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSearch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := newTestServer(t, `{"results": [
			{"name": "Golden Gate Cafe", "vicinity": "123 Union St", "rating": 4.5, "price_level": 2},
			{"name": "Fancy Bistro", "vicinity": "1 Nob Hill", "rating": 4.9, "price_level": 4},
			{"name": "Corner Diner", "vicinity": "5 Mission St", "rating": 4.0}
		]}`)
		defer server.Close()

		client := NewClient(&config.Config{PlacesAPIKey: "test_key", PlacesAPIURL: server.URL})
		venues, err := client.Search(context.Background(), Query{
			Category:    CategoryRestaurant,
			ZipCode:     "94102",
			RadiusMiles: 5,
			MaxPrice:    3,
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		// Fancy Bistro exceeds the price ceiling.
		if len(venues) != 2 {
			t.Fatalf("Expected 2 venues, got %d", len(venues))
		}
		if venues[0].Name != "Golden Gate Cafe" {
			t.Errorf("Expected first venue 'Golden Gate Cafe', got '%s'", venues[0].Name)
		}
		if venues[0].Category != CategoryRestaurant {
			t.Errorf("Expected category tag '%s', got '%s'", CategoryRestaurant, venues[0].Category)
		}
		// Missing price_level defaults to 1.
		if venues[1].PriceLevel != 1 {
			t.Errorf("Expected default price level 1, got %d", venues[1].PriceLevel)
		}
	})

	t.Run("ResultCap", func(t *testing.T) {
		var entries []string
		for i := 0; i < 15; i++ {
			entries = append(entries, fmt.Sprintf(`{"name": "Place %d", "vicinity": "Street %d", "rating": 4.0, "price_level": 1}`, i, i))
		}
		server := newTestServer(t, `{"results": [`+strings.Join(entries, ",")+`]}`)
		defer server.Close()

		client := NewClient(&config.Config{PlacesAPIKey: "test_key", PlacesAPIURL: server.URL})
		venues, err := client.Search(context.Background(), Query{Category: CategoryOutdoor, ZipCode: "94102", RadiusMiles: 5, MaxPrice: 3})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(venues) != 10 {
			t.Errorf("Expected results capped at 10, got %d", len(venues))
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(&config.Config{PlacesAPIKey: "test_key", PlacesAPIURL: server.URL})
		if _, err := client.Search(context.Background(), Query{Category: CategoryRestaurant, ZipCode: "94102", RadiusMiles: 5, MaxPrice: 3}); err == nil {
			t.Fatal("Expected an error for server failure, got nil")
		}
	})
}
