package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"saturday-planner/internal/config"
)

// weatherAPIClient is a client for the WeatherAPI.com forecast API.
type weatherAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new WeatherAPI.com client.
func NewClient(cfg *config.Config) Client {
	return &weatherAPIClient{
		apiKey:  cfg.WeatherAPIKey,
		baseURL: cfg.WeatherAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// forecastResponse is the subset of the WeatherAPI payload the planner needs.
type forecastResponse struct {
	Current struct {
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Day struct {
				MaxTempF          float64 `json:"maxtemp_f"`
				MinTempF          float64 `json:"mintemp_f"`
				DailyChanceOfRain int     `json:"daily_chance_of_rain"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Forecast fetches today's forecast for a zip code and reduces it to the
// simplified form. Callers substitute Fallback() on error.
func (c *weatherAPIClient) Forecast(ctx context.Context, zipCode string) (Forecast, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", zipCode)
	params.Set("days", "2") // Today + tomorrow, enough for Saturday planning
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	reqURL := fmt.Sprintf("%s/forecast.json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Forecast{}, fmt.Errorf("weather api error: status %d", resp.StatusCode)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Forecast{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(payload.Forecast.ForecastDay) == 0 {
		return Forecast{}, fmt.Errorf("no forecast data available")
	}
	day := payload.Forecast.ForecastDay[0].Day

	return Forecast{
		Condition:   Classify(payload.Current.Condition.Text),
		HighF:       int(day.MaxTempF),
		LowF:        int(day.MinTempF),
		Description: payload.Current.Condition.Text,
		RainChance:  day.DailyChanceOfRain,
	}, nil
}
