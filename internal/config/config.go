package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the application.
type Config struct {
	// Weather Service Settings (WeatherAPI.com)
	WeatherAPIKey string `envconfig:"WEATHER_API_KEY"`
	WeatherAPIURL string `envconfig:"WEATHER_API_URL" default:"http://api.weatherapi.com/v1"`

	// Places/Venue Search Settings (Google Places)
	PlacesAPIKey string `envconfig:"PLACES_API_KEY"`
	PlacesAPIURL string `envconfig:"PLACES_API_URL" default:"https://maps.googleapis.com/maps/api"`

	// Calendar Integration Settings
	GoogleClientEmail string `envconfig:"GOOGLE_CLIENT_EMAIL"`
	GooglePrivateKey  string `envconfig:"GOOGLE_PRIVATE_KEY"`
	DefaultCalendarID string `envconfig:"DEFAULT_CALENDAR_ID" default:"primary"`

	// Notification Settings
	NotificationChannel string `envconfig:"NOTIFICATION_CHANNEL" default:"sms"`
	TwilioAccountSID    string `envconfig:"NOTIFICATION_API_KEY"`
	TwilioAuthToken     string `envconfig:"NOTIFICATION_AUTH_TOKEN"`
	NotificationFrom    string `envconfig:"NOTIFICATION_FROM"`
	NotificationTo      string `envconfig:"NOTIFICATION_TO"`
	TelegramBotToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID      int64  `envconfig:"TELEGRAM_CHAT_ID"`

	// Narration Settings (optional; planner works without it)
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`

	// Memory Storage Settings
	MemoryType string `envconfig:"MEMORY_TYPE" default:"sqlite"`
	MemoryPath string `envconfig:"MEMORY_PATH" default:"./data/agent_memory.json"`
	DBPath     string `envconfig:"DB_PATH" default:"./data/planner.db"`

	// User Preference Defaults
	DefaultZipCode     string `envconfig:"DEFAULT_ZIP_CODE" default:"10001"`
	DefaultRadiusMiles int    `envconfig:"DEFAULT_RADIUS_MILES" default:"5"`
	DefaultMaxPrice    int    `envconfig:"DEFAULT_MAX_PRICE" default:"3"`

	// Per-collaborator wall clock budget, in seconds.
	CollaboratorTimeoutSecs int `envconfig:"COLLABORATOR_TIMEOUT_SECS" default:"15"`

	// Server Settings
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
}

// NewFromEnv creates a new Config object from environment variables,
// loading a local .env file first when one is present.
func NewFromEnv() (*Config, error) {
	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

// MissingRequiredKeys returns the names of required API keys that are unset.
// The planner can still run without them (every collaborator has a fallback),
// so callers log these as warnings rather than refusing to start.
func (c *Config) MissingRequiredKeys() []string {
	var missing []string
	if c.WeatherAPIKey == "" {
		missing = append(missing, "WEATHER_API_KEY")
	}
	if c.PlacesAPIKey == "" {
		missing = append(missing, "PLACES_API_KEY")
	}
	return missing
}
