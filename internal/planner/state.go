package planner

import (
	"saturday-planner/internal/calendar"
	"saturday-planner/internal/notify"
	"saturday-planner/internal/places"
	"saturday-planner/internal/weather"
)

// ScoredVenue is a venue plus its ranking score breakdown. The composite
// score is a pure function of the three components.
type ScoredVenue struct {
	places.Venue
	CompositeScore float64 `json:"composite_score"`
	RatingScore    float64 `json:"rating_score"`
	HistoryScore   float64 `json:"history_score"`
	WeatherScore   float64 `json:"weather_score"`
}

// Result is the terminal aggregate of one planning run. Each stage receives
// the prior snapshot by value and returns a new Result with its own fields
// merged in; no stage reads fields a later stage produces.
type Result struct {
	RunID       string `json:"run_id"`
	ZipCode     string `json:"zip_code"`
	UserMessage string `json:"user_message,omitempty"`

	Weather      weather.Forecast `json:"weather"`
	Categories   []string         `json:"categories"`
	Candidates   []places.Venue   `json:"candidates"`
	Filtered     []places.Venue   `json:"filtered"`
	Ranking      []ScoredVenue    `json:"ranking"`
	Choice       *ScoredVenue     `json:"choice"`
	Calendar     calendar.Outcome `json:"calendar"`
	Notification notify.Result    `json:"notification"`

	// Reasoning is a cosmetic side-channel log; no stage reads it back.
	Reasoning []string `json:"reasoning,omitempty"`
	// Errors collects non-fatal collaborator warnings.
	Errors []string `json:"errors,omitempty"`
}
