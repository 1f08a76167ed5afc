package planner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"saturday-planner/internal/calendar"
	"saturday-planner/internal/config"
	"saturday-planner/internal/memory"
	"saturday-planner/internal/notify"
	"saturday-planner/internal/places"
	"saturday-planner/internal/weather"
)

type stubWeather struct {
	forecast weather.Forecast
	err      error
}

func (s *stubWeather) Forecast(ctx context.Context, zipCode string) (weather.Forecast, error) {
	return s.forecast, s.err
}

type stubPlaces struct {
	mu         sync.Mutex
	byCategory map[string][]places.Venue
	errs       map[string]error
	queries    []places.Query
}

func (s *stubPlaces) Search(ctx context.Context, q places.Query) ([]places.Venue, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	if err := s.errs[q.Category]; err != nil {
		return nil, err
	}
	return s.byCategory[q.Category], nil
}

type stubMemory struct {
	history  []string
	fetchErr error
	stored   []string
	storeErr error
}

func (s *stubMemory) Fetch(ctx context.Context, key string) ([]string, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.history, nil
}

func (s *stubMemory) Store(ctx context.Context, key, value string) (memory.StoreStatus, error) {
	if s.storeErr != nil {
		return memory.StatusError, s.storeErr
	}
	s.stored = append(s.stored, value)
	return memory.StatusStored, nil
}

type stubCalendar struct {
	outcome calendar.Outcome
	err     error
	got     calendar.Event
}

func (s *stubCalendar) Schedule(ctx context.Context, ev calendar.Event) (calendar.Outcome, error) {
	s.got = ev
	if s.err != nil {
		return calendar.Outcome{}, s.err
	}
	out := s.outcome
	out.Title = ev.Title
	return out, nil
}

type stubNotifier struct {
	result  notify.Result
	err     error
	message string
}

func (s *stubNotifier) Send(ctx context.Context, channel, message string) (notify.Result, error) {
	s.message = message
	if s.err != nil {
		return notify.Result{}, s.err
	}
	return s.result, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultCalendarID:       "primary",
		NotificationChannel:     "sms",
		DefaultRadiusMiles:      5,
		DefaultMaxPrice:         3,
		CollaboratorTimeoutSecs: 5,
	}
}

func testPlanner(w weather.Client, p places.Client, m memory.Store, c calendar.Writer, n notify.Notifier) *Planner {
	pl := New(testConfig(), w, p, m, c, n, nil, nil)
	// Wednesday 2025-06-04; next Saturday is 2025-06-07.
	pl.now = func() time.Time { return time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC) }
	return pl
}

func TestPlanSunnyDay(t *testing.T) {
	w := &stubWeather{forecast: weather.Forecast{Condition: weather.Sunny, HighF: 75, LowF: 60, Description: "Sunny", RainChance: 10}}
	p := &stubPlaces{byCategory: map[string][]places.Venue{
		places.CategoryRestaurant:    {{Name: "Corner Bistro", Address: "1 Main St", Rating: 4.2, PriceLevel: 2, Category: places.CategoryRestaurant}},
		places.CategoryOutdoor:       {{Name: "Riverside Park", Address: "2 River Rd", Rating: 4.8, PriceLevel: 1, Category: places.CategoryOutdoor}},
		places.CategoryEntertainment: {{Name: "Pixel Arcade", Address: "3 Game Ave", Rating: 4.0, PriceLevel: 2, Category: places.CategoryEntertainment}},
	}}
	m := &stubMemory{}
	c := &stubCalendar{outcome: calendar.Outcome{Status: calendar.StatusMockScheduled, EventID: "saturday_plan_1", Provider: "mock_calendar"}}
	n := &stubNotifier{result: notify.Result{Status: notify.StatusSent, Channel: "sms", Provider: "twilio", MessageSID: "SM123"}}

	result, err := testPlanner(w, p, m, c, n).Plan(context.Background(), "94102", "plan my saturday")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if result.RunID == "" {
		t.Error("expected a run ID")
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected warnings: %v", result.Errors)
	}
	if len(result.Categories) != 3 || result.Categories[1] != places.CategoryOutdoor {
		t.Errorf("unexpected categories: %v", result.Categories)
	}
	if len(result.Candidates) != 3 {
		t.Fatalf("len(Candidates) = %d, want 3", len(result.Candidates))
	}
	// Sunny day: outdoor gets the 1.2 weather bonus and wins.
	if result.Choice == nil || result.Choice.Name != "Riverside Park" {
		t.Fatalf("Choice = %+v, want Riverside Park", result.Choice)
	}
	if c.got.Title != "Saturday Plan: Riverside Park" {
		t.Errorf("event title = %q", c.got.Title)
	}
	wantStart := time.Date(2025, 6, 7, 11, 0, 0, 0, time.UTC)
	if !c.got.Start.Equal(wantStart) {
		t.Errorf("event start = %v, want %v", c.got.Start, wantStart)
	}
	if result.Calendar.Status != calendar.StatusMockScheduled {
		t.Errorf("calendar status = %q", result.Calendar.Status)
	}
	if result.Notification.Status != notify.StatusSent {
		t.Errorf("notification status = %q", result.Notification.Status)
	}
	if !strings.Contains(n.message, "Riverside Park") || !strings.Contains(n.message, "Saturday 11:00 AM") {
		t.Errorf("unexpected notification message: %q", n.message)
	}
	if len(m.stored) != 1 || m.stored[0] != "Riverside Park" {
		t.Errorf("stored preferences = %v, want [Riverside Park]", m.stored)
	}
	if len(result.Reasoning) == 0 {
		t.Error("expected reasoning entries")
	}
}

func TestPlanRainyDay(t *testing.T) {
	w := &stubWeather{forecast: weather.Forecast{Condition: weather.Rainy, HighF: 65, RainChance: 85}}
	// The entertainment search leaks an outdoor-tagged venue; the weather
	// filter must drop it even though outdoor was never searched.
	p := &stubPlaces{byCategory: map[string][]places.Venue{
		places.CategoryRestaurant: {{Name: "Corner Bistro", Rating: 4.2, Category: places.CategoryRestaurant}},
		places.CategoryEntertainment: {
			{Name: "Open Air Cinema", Rating: 4.9, Category: places.CategoryOutdoor},
			{Name: "Pixel Arcade", Rating: 4.0, Category: places.CategoryEntertainment},
		},
	}}
	m := &stubMemory{}
	c := &stubCalendar{outcome: calendar.Outcome{Status: calendar.StatusMockScheduled}}
	n := &stubNotifier{result: notify.Result{Status: notify.StatusSent}}

	result, err := testPlanner(w, p, m, c, n).Plan(context.Background(), "94102", "")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	want := []string{places.CategoryRestaurant, places.CategoryEntertainment}
	if len(result.Categories) != 2 || result.Categories[0] != want[0] || result.Categories[1] != want[1] {
		t.Errorf("Categories = %v, want %v", result.Categories, want)
	}
	if len(result.Candidates) != 3 {
		t.Fatalf("len(Candidates) = %d, want 3", len(result.Candidates))
	}
	for _, v := range result.Filtered {
		if v.Category == places.CategoryOutdoor {
			t.Errorf("outdoor venue %q survived the rainy-day filter", v.Name)
		}
	}
	if result.Choice == nil {
		t.Fatal("expected an indoor selection")
	}
	if result.Choice.Category == places.CategoryOutdoor {
		t.Errorf("selected an outdoor venue on a rainy day: %+v", result.Choice)
	}
}

func TestPlanDegradedCollaborators(t *testing.T) {
	// Weather is down and one category search fails; the plan still
	// completes on the fallback forecast and the surviving categories.
	w := &stubWeather{err: errors.New("connection refused")}
	p := &stubPlaces{
		byCategory: map[string][]places.Venue{
			places.CategoryRestaurant: {{Name: "Corner Bistro", Rating: 4.2, Category: places.CategoryRestaurant}},
			places.CategoryShopping:   {{Name: "City Mall", Rating: 3.9, Category: places.CategoryShopping}},
		},
		errs: map[string]error{places.CategoryEntertainment: errors.New("quota exceeded")},
	}
	m := &stubMemory{}
	c := &stubCalendar{outcome: calendar.Outcome{Status: calendar.StatusMockScheduled}}
	n := &stubNotifier{result: notify.Result{Status: notify.StatusSent}}

	result, err := testPlanner(w, p, m, c, n).Plan(context.Background(), "94102", "")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	// Fallback forecast: unknown, 70F, 0% rain chance.
	if result.Weather.Condition != weather.Unknown || result.Weather.HighF != 70 {
		t.Errorf("expected fallback forecast, got %+v", result.Weather)
	}
	// 0% rain, 70F -> restaurant, outdoor, entertainment.
	if len(result.Categories) != 3 {
		t.Errorf("unexpected categories: %v", result.Categories)
	}
	if result.Choice == nil {
		t.Fatal("expected a selection despite degraded collaborators")
	}
	if len(result.Errors) != 2 {
		t.Errorf("warnings = %v, want weather + entertainment search", result.Errors)
	}
	if result.Calendar.Status != calendar.StatusMockScheduled {
		t.Errorf("calendar status = %q", result.Calendar.Status)
	}
}

func TestPlanNoCandidates(t *testing.T) {
	w := &stubWeather{forecast: weather.Forecast{Condition: weather.Rainy, HighF: 55, RainChance: 90}}
	p := &stubPlaces{byCategory: map[string][]places.Venue{}}
	m := &stubMemory{}
	c := &stubCalendar{}
	n := &stubNotifier{}

	result, err := testPlanner(w, p, m, c, n).Plan(context.Background(), "94102", "")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if result.Choice != nil {
		t.Errorf("Choice = %+v, want nil", result.Choice)
	}
	if result.Calendar.Status != calendar.StatusNoSelection {
		t.Errorf("calendar status = %q, want %q", result.Calendar.Status, calendar.StatusNoSelection)
	}
	if result.Notification.Status != notify.StatusNoSelection {
		t.Errorf("notification status = %q, want %q", result.Notification.Status, notify.StatusNoSelection)
	}
	if len(m.stored) != 0 {
		t.Errorf("nothing should be remembered, got %v", m.stored)
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "No activities available") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a no-activities warning, got %v", result.Errors)
	}
}

func TestPlanHistoryBoost(t *testing.T) {
	w := &stubWeather{forecast: weather.Forecast{Condition: weather.Sunny, HighF: 72, RainChance: 10}}
	p := &stubPlaces{byCategory: map[string][]places.Venue{
		places.CategoryRestaurant: {
			{Name: "Top Rated Grill", Rating: 5.0, Category: places.CategoryRestaurant},
			{Name: "Golden Gate Park Cafe", Rating: 4.0, Category: places.CategoryRestaurant},
		},
	}}
	m := &stubMemory{history: []string{"Golden Gate Park"}}
	c := &stubCalendar{outcome: calendar.Outcome{Status: calendar.StatusMockScheduled}}
	n := &stubNotifier{result: notify.Result{Status: notify.StatusSent}}

	result, err := testPlanner(w, p, m, c, n).Plan(context.Background(), "94102", "")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if result.Choice == nil || result.Choice.Name != "Golden Gate Park Cafe" {
		t.Fatalf("Choice = %+v, want the history-boosted cafe", result.Choice)
	}
	if result.Choice.HistoryScore != 1.0 {
		t.Errorf("HistoryScore = %v, want 1.0", result.Choice.HistoryScore)
	}
}

func TestPlanHistoryUnavailable(t *testing.T) {
	w := &stubWeather{forecast: weather.Forecast{Condition: weather.Sunny, HighF: 72, RainChance: 10}}
	p := &stubPlaces{byCategory: map[string][]places.Venue{
		places.CategoryRestaurant: {
			{Name: "Corner Bistro", Rating: 4.2, Category: places.CategoryRestaurant},
			{Name: "Top Rated Grill", Rating: 5.0, Category: places.CategoryRestaurant},
		},
	}}
	m := &stubMemory{fetchErr: errors.New("database locked")}
	c := &stubCalendar{outcome: calendar.Outcome{Status: calendar.StatusMockScheduled}}
	n := &stubNotifier{result: notify.Result{Status: notify.StatusSent}}

	result, err := testPlanner(w, p, m, c, n).Plan(context.Background(), "94102", "")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	// Degraded ranking: raw rating order.
	if result.Choice == nil || result.Choice.Name != "Top Rated Grill" {
		t.Fatalf("Choice = %+v, want Top Rated Grill", result.Choice)
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "Ranking failed") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a ranking warning, got %v", result.Errors)
	}
}

func TestPlanSchedulingAndNotificationFailures(t *testing.T) {
	w := &stubWeather{forecast: weather.Forecast{Condition: weather.Sunny, HighF: 72, RainChance: 10}}
	p := &stubPlaces{byCategory: map[string][]places.Venue{
		places.CategoryRestaurant: {{Name: "Corner Bistro", Rating: 4.2, Category: places.CategoryRestaurant}},
	}}
	m := &stubMemory{}
	c := &stubCalendar{err: errors.New("calendar API unreachable")}
	n := &stubNotifier{err: errors.New("SMS gateway down")}

	result, err := testPlanner(w, p, m, c, n).Plan(context.Background(), "94102", "")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if result.Calendar.Status != calendar.StatusFailed {
		t.Errorf("calendar status = %q, want %q", result.Calendar.Status, calendar.StatusFailed)
	}
	if result.Calendar.Error == "" {
		t.Error("expected calendar error detail")
	}
	if result.Notification.Status != notify.StatusFailed {
		t.Errorf("notification status = %q, want %q", result.Notification.Status, notify.StatusFailed)
	}
	// Selection is still remembered even when notification fails.
	if len(m.stored) != 1 {
		t.Errorf("stored = %v, want the selection remembered", m.stored)
	}
}

func TestPlanSearchFansOutAllCategories(t *testing.T) {
	w := &stubWeather{forecast: weather.Forecast{Condition: weather.Sunny, HighF: 72, RainChance: 10}}
	p := &stubPlaces{byCategory: map[string][]places.Venue{
		places.CategoryRestaurant:    {{Name: "A", Rating: 4.0, Category: places.CategoryRestaurant}},
		places.CategoryOutdoor:       {{Name: "B", Rating: 4.0, Category: places.CategoryOutdoor}},
		places.CategoryEntertainment: {{Name: "C", Rating: 4.0, Category: places.CategoryEntertainment}},
	}}
	m := &stubMemory{}
	c := &stubCalendar{outcome: calendar.Outcome{Status: calendar.StatusMockScheduled}}
	n := &stubNotifier{result: notify.Result{Status: notify.StatusSent}}

	result, err := testPlanner(w, p, m, c, n).Plan(context.Background(), "94102", "")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if len(p.queries) != 3 {
		t.Fatalf("search calls = %d, want 3", len(p.queries))
	}
	for _, q := range p.queries {
		if q.ZipCode != "94102" || q.RadiusMiles != 5 || q.MaxPrice != 3 {
			t.Errorf("unexpected query: %+v", q)
		}
	}
	// Candidates concatenate in category order regardless of goroutine
	// completion order.
	want := []string{"A", "B", "C"}
	for i, v := range result.Candidates {
		if v.Name != want[i] {
			t.Errorf("Candidates[%d] = %s, want %s", i, v.Name, want[i])
		}
	}
}

func TestPlanCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pl := testPlanner(&stubWeather{}, &stubPlaces{}, &stubMemory{}, &stubCalendar{}, &stubNotifier{})
	if _, err := pl.Plan(ctx, "94102", ""); err == nil {
		t.Fatal("expected an error for a dead context")
	}
}
