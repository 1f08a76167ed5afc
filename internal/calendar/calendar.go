package calendar

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"saturday-planner/internal/config"
)

// Event duration used for every scheduled activity.
const eventDuration = 2 * time.Hour

// Outcome statuses. A mock_scheduled outcome is still a success: the plan is
// reported to the user even when the real calendar is out of reach.
const (
	StatusScheduled     = "scheduled"
	StatusMockScheduled = "mock_scheduled"
	StatusFailed        = "failed"
	StatusNoSelection   = "no_selection"
)

// Event describes a calendar write request.
type Event struct {
	CalendarID string
	Title      string
	Start      time.Time
}

// Outcome is the status record returned by a calendar write.
type Outcome struct {
	Status          string `json:"status"`
	EventID         string `json:"event_id,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
	Provider        string `json:"provider,omitempty"`
	Title           string `json:"title,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Writer schedules an event and returns a status record. Implementations are
// selected once at startup, not detected per call.
type Writer interface {
	Schedule(ctx context.Context, ev Event) (Outcome, error)
}

// NewWriter picks the calendar strategy from configuration: a real Google
// Calendar writer when service-account credentials are present, backed by the
// local placeholder writer so an unreachable calendar still yields a plan.
func NewWriter(cfg *config.Config) Writer {
	fallback := NewFallbackWriter()
	if cfg.GoogleClientEmail == "" || cfg.GooglePrivateKey == "" {
		log.Println("Google Calendar credentials not configured, using placeholder calendar writer")
		return fallback
	}
	return &hybridWriter{
		primary:  newGoogleWriter(cfg),
		fallback: fallback,
	}
}

// hybridWriter tries the real calendar first and degrades to the placeholder
// on any failure.
type hybridWriter struct {
	primary  Writer
	fallback Writer
}

func (w *hybridWriter) Schedule(ctx context.Context, ev Event) (Outcome, error) {
	outcome, err := w.primary.Schedule(ctx, ev)
	if err != nil {
		log.Printf("Warning: calendar write failed, using placeholder event: %v", err)
		return w.fallback.Schedule(ctx, ev)
	}
	return outcome, nil
}

// fallbackWriter produces a local placeholder event with a prefilled
// calendar link so the user can create the event manually.
type fallbackWriter struct{}

// NewFallbackWriter creates the placeholder calendar writer.
func NewFallbackWriter() Writer {
	return &fallbackWriter{}
}

func (w *fallbackWriter) Schedule(_ context.Context, ev Event) (Outcome, error) {
	end := ev.Start.Add(eventDuration)
	return Outcome{
		Status:          StatusMockScheduled,
		EventID:         fmt.Sprintf("saturday_plan_%d", ev.Start.Unix()),
		ConfirmationURL: fmt.Sprintf("https://calendar.google.com/calendar/r/create?text=%s", url.QueryEscape(ev.Title)),
		Provider:        "fallback",
		Title:           ev.Title,
		StartTime:       ev.Start.Format("2006-01-02T15:04:05"),
		EndTime:         end.Format("2006-01-02T15:04:05"),
	}, nil
}
