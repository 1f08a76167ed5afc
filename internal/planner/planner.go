package planner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"saturday-planner/internal/calendar"
	"saturday-planner/internal/config"
	"saturday-planner/internal/llm"
	"saturday-planner/internal/memory"
	"saturday-planner/internal/metrics"
	"saturday-planner/internal/notify"
	"saturday-planner/internal/places"
	"saturday-planner/internal/weather"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Stage names, in execution order.
const (
	StageWeatherCheck     = "weather_check"
	StageCategoryDecision = "category_decision"
	StageActivitySearch   = "activity_search"
	StageWeatherFilter    = "weather_filter"
	StageRanking          = "ranking"
	StageFinalSelection   = "final_selection"
	StageScheduling       = "scheduling"
	StageNotification     = "notification"
)

// Planner runs the eight-stage Saturday planning pipeline. Collaborators
// are injected once at construction; a nil narrator or metrics store simply
// disables that concern.
type Planner struct {
	weather  weather.Client
	places   places.Client
	memory   memory.Store
	calendar calendar.Writer
	notifier notify.Notifier
	narrator llm.TextGenerator
	metrics  *metrics.Store

	calendarID  string
	channel     string
	radiusMiles int
	maxPrice    int
	callTimeout time.Duration

	// now is injectable for scheduling tests.
	now func() time.Time
}

// New creates a new Planner instance.
func New(
	cfg *config.Config,
	weatherClient weather.Client,
	placesClient places.Client,
	memoryStore memory.Store,
	calendarWriter calendar.Writer,
	notifier notify.Notifier,
	narrator llm.TextGenerator,
	metricsStore *metrics.Store,
) *Planner {
	return &Planner{
		weather:     weatherClient,
		places:      placesClient,
		memory:      memoryStore,
		calendar:    calendarWriter,
		notifier:    notifier,
		narrator:    narrator,
		metrics:     metricsStore,
		calendarID:  cfg.DefaultCalendarID,
		channel:     cfg.NotificationChannel,
		radiusMiles: cfg.DefaultRadiusMiles,
		maxPrice:    cfg.DefaultMaxPrice,
		callTimeout: time.Duration(cfg.CollaboratorTimeoutSecs) * time.Second,
		now:         time.Now,
	}
}

type stage struct {
	name string
	run  func(context.Context, Result) Result
}

// Plan runs the full pipeline for one request and returns the terminal
// result. Collaborator failures degrade individual fields; only a dead
// context before the first stage aborts the run.
func (p *Planner) Plan(ctx context.Context, zipCode, userMessage string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("planning aborted before start: %w", err)
	}

	result := Result{
		RunID:       uuid.NewString(),
		ZipCode:     zipCode,
		UserMessage: userMessage,
	}

	stages := []stage{
		{StageWeatherCheck, p.weatherCheck},
		{StageCategoryDecision, p.categoryDecision},
		{StageActivitySearch, p.activitySearch},
		{StageWeatherFilter, p.weatherFilter},
		{StageRanking, p.ranking},
		{StageFinalSelection, p.finalSelection},
		{StageScheduling, p.scheduling},
		{StageNotification, p.notification},
	}

	for _, s := range stages {
		warningsBefore := len(result.Errors)
		start := p.now()
		result = s.run(ctx, result)
		p.recordMetric(ctx, result.RunID, s.name, len(result.Errors) > warningsBefore, time.Since(start))
	}

	return result, nil
}

// callCtx derives the per-collaborator wall-clock budget.
func (p *Planner) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.callTimeout)
}

func (p *Planner) recordMetric(ctx context.Context, runID, stageName string, failed bool, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}
	status := "ok"
	if failed {
		status = "failed"
	}
	if err := p.metrics.Record(ctx, metrics.StageMetric{
		RunID:     runID,
		Stage:     stageName,
		Status:    status,
		LatencyMS: elapsed.Milliseconds(),
	}); err != nil {
		log.Printf("Warning: failed to record metric for %s: %v", stageName, err)
	}
}

// narrate appends a reasoning entry for a stage. With a narrator configured
// the entry comes from the model; otherwise the deterministic summary is
// used as-is. Narration failures never affect the pipeline.
func (p *Planner) narrate(ctx context.Context, r *Result, label, summary, prompt string) {
	entry := summary
	if p.narrator != nil {
		callCtx, cancel := p.callCtx(ctx)
		defer cancel()
		generated, err := p.narrator.GenerateContent(callCtx, systemPrompt+"\n\n"+prompt)
		if err != nil {
			log.Printf("Narration error: %v", err)
			entry = fmt.Sprintf("AI reasoning unavailable: %v", err)
		} else {
			entry = generated
		}
	}
	r.Reasoning = append(r.Reasoning, fmt.Sprintf("%s: %s", label, entry))
}

// weatherCheck is stage 1: look up the forecast, degrading to the fallback
// forecast when the weather service fails.
func (p *Planner) weatherCheck(ctx context.Context, r Result) Result {
	log.Printf("Step 1: Checking weather for %s", r.ZipCode)

	callCtx, cancel := p.callCtx(ctx)
	forecast, err := p.weather.Forecast(callCtx, r.ZipCode)
	cancel()
	if err != nil {
		log.Printf("Warning: weather check failed: %v", err)
		r.Errors = append(r.Errors, fmt.Sprintf("Weather check failed: %v", err))
		forecast = weather.Fallback()
	}
	r.Weather = forecast

	summary := forecastSummary(r.Weather)
	p.narrate(ctx, &r, "Weather Check", fmt.Sprintf("Forecast for %s: %s", r.ZipCode, summary),
		fmt.Sprintf(weatherCheckPrompt, r.ZipCode, summary))
	return r
}

// categoryDecision is stage 2: pure policy, no collaborators.
func (p *Planner) categoryDecision(ctx context.Context, r Result) Result {
	log.Println("Step 2: Deciding activity categories based on weather")

	r.Categories = ChooseCategories(r.Weather)

	cats := strings.Join(r.Categories, ", ")
	p.narrate(ctx, &r, "Category Decision", fmt.Sprintf("Chose categories: %s", cats),
		fmt.Sprintf(categoryDecisionPrompt, forecastSummary(r.Weather), cats))
	return r
}

// activitySearch is stage 3: fan out one catalog search per category and
// concatenate in category order. A failed category is a warning, not a
// pipeline failure, and all searches join before the next stage starts.
func (p *Planner) activitySearch(ctx context.Context, r Result) Result {
	log.Println("Step 3: Searching for activities")

	found := make([][]places.Venue, len(r.Categories))
	errs := make([]error, len(r.Categories))

	var g errgroup.Group
	for i, category := range r.Categories {
		g.Go(func() error {
			callCtx, cancel := p.callCtx(ctx)
			defer cancel()
			found[i], errs[i] = p.places.Search(callCtx, places.Query{
				Category:    category,
				ZipCode:     r.ZipCode,
				RadiusMiles: p.radiusMiles,
				MaxPrice:    p.maxPrice,
			})
			// A failed category degrades to a warning, never a group error.
			return nil
		})
	}
	g.Wait()

	var candidates []places.Venue
	for i, category := range r.Categories {
		if errs[i] != nil {
			log.Printf("Warning: search failed for %s: %v", category, errs[i])
			r.Errors = append(r.Errors, fmt.Sprintf("Search failed for %s: %v", category, errs[i]))
			continue
		}
		candidates = append(candidates, found[i]...)
	}
	r.Candidates = candidates

	p.narrate(ctx, &r, "Activity Search", fmt.Sprintf("Found %d total candidates", len(candidates)),
		fmt.Sprintf(activitySearchPrompt, strings.Join(r.Categories, ", "), r.ZipCode, p.radiusMiles, p.maxPrice, len(candidates)))
	return r
}

// weatherFilter is stage 4.
func (p *Planner) weatherFilter(ctx context.Context, r Result) Result {
	log.Println("Step 4: Filtering activities by weather appropriateness")

	r.Filtered = FilterByWeather(r.Weather, r.Candidates)

	p.narrate(ctx, &r, "Weather Filtering",
		fmt.Sprintf("%d of %d candidates remain after weather filtering", len(r.Filtered), len(r.Candidates)),
		fmt.Sprintf(weatherFilterPrompt, len(r.Candidates), forecastSummary(r.Weather), len(r.Filtered)))
	return r
}

// ranking is stage 5: score against preference history. If the history
// cannot be fetched at all, rank by raw rating instead of aborting.
func (p *Planner) ranking(ctx context.Context, r Result) Result {
	log.Println("Step 5: Ranking activities")

	callCtx, cancel := p.callCtx(ctx)
	history, err := p.memory.Fetch(callCtx, memory.LikedPlacesKey)
	cancel()
	if err != nil {
		log.Printf("Warning: ranking degraded, history unavailable: %v", err)
		r.Errors = append(r.Errors, fmt.Sprintf("Ranking failed: %v", err))
		r.Ranking = RankByRating(r.Filtered)
	} else {
		r.Ranking = Rank(r.Filtered, history, r.Weather)
	}

	historyText := strings.Join(history, ", ")
	if historyText == "" {
		historyText = "No previous history"
	}
	var top strings.Builder
	for i, sv := range r.Ranking {
		fmt.Fprintf(&top, "%d. %s - Score: %.2f (Rating: %.1f, Category: %s)\n",
			i+1, sv.Name, sv.CompositeScore, sv.Rating, sv.Category)
	}
	p.narrate(ctx, &r, "Activity Ranking", fmt.Sprintf("Top %d activities ranked", len(r.Ranking)),
		fmt.Sprintf(rankingPrompt, len(r.Filtered), historyText, top.String()))
	return r
}

// finalSelection is stage 6: pick the top-ranked venue, or record the
// explicit no-candidates condition later stages treat as a no-op.
func (p *Planner) finalSelection(ctx context.Context, r Result) Result {
	log.Println("Step 6: Making final selection")

	if len(r.Ranking) == 0 {
		log.Println("Warning: no activities available for selection")
		r.Errors = append(r.Errors, "No activities available for selection")
		return r
	}

	choice := r.Ranking[0]
	r.Choice = &choice

	p.narrate(ctx, &r, "Final Selection", fmt.Sprintf("Selected %s (%.1f stars)", choice.Name, choice.Rating),
		fmt.Sprintf(finalSelectionPrompt, choice.Name, choice.CompositeScore, choice.Rating, choice.Category))
	return r
}

// scheduling is stage 7: compute next Saturday 11:00 and write the event.
// A writer error degrades to a failed booking record; the pipeline goes on.
func (p *Planner) scheduling(ctx context.Context, r Result) Result {
	log.Println("Step 7: Scheduling calendar event")

	if r.Choice == nil {
		r.Calendar = calendar.Outcome{Status: calendar.StatusNoSelection}
		return r
	}

	start := NextSaturday(p.now())
	title := EventTitle(r.Choice.Name)

	callCtx, cancel := p.callCtx(ctx)
	outcome, err := p.calendar.Schedule(callCtx, calendar.Event{
		CalendarID: p.calendarID,
		Title:      title,
		Start:      start,
	})
	cancel()
	if err != nil {
		log.Printf("Warning: scheduling failed: %v", err)
		r.Errors = append(r.Errors, fmt.Sprintf("Scheduling failed: %v", err))
		r.Calendar = calendar.Outcome{Status: calendar.StatusFailed, Title: title, Error: err.Error()}
		return r
	}
	r.Calendar = outcome

	log.Printf("Calendar event created: %s at %s", title, start.Format("2006-01-02 15:04"))
	return r
}

// notification is stage 8: notify the user and remember the selection.
// Without a selection this is a no-op that still returns a well-formed
// no-selection result.
func (p *Planner) notification(ctx context.Context, r Result) Result {
	log.Println("Step 8: Sending notification")

	if r.Choice == nil {
		r.Notification = notify.Result{Status: notify.StatusNoSelection}
		return r
	}

	message := planMessage(r)

	callCtx, cancel := p.callCtx(ctx)
	sendResult, err := p.notifier.Send(callCtx, p.channel, message)
	cancel()
	if err != nil {
		log.Printf("Warning: notification failed: %v", err)
		r.Errors = append(r.Errors, fmt.Sprintf("Notification failed: %v", err))
		r.Notification = notify.Result{Status: notify.StatusFailed, Channel: p.channel, Error: err.Error()}
	} else {
		r.Notification = sendResult
	}

	// Remember the choice for future rankings; duplicates are a no-op.
	callCtx, cancel = p.callCtx(ctx)
	status, err := p.memory.Store(callCtx, memory.LikedPlacesKey, r.Choice.Name)
	cancel()
	if err != nil {
		log.Printf("Warning: failed to store preference: %v", err)
		r.Errors = append(r.Errors, fmt.Sprintf("Memory store failed: %v", err))
	} else {
		log.Printf("Preference store: %s -> %s (%s)", memory.LikedPlacesKey, r.Choice.Name, status)
	}

	return r
}

// planMessage builds the human-readable notification text.
func planMessage(r Result) string {
	return fmt.Sprintf(`Your Saturday Plan is Ready!

Activity: %s
Address: %s
Rating: %.1f stars
Time: Saturday 11:00 AM
Weather: %s, %dF

Calendar event created! Have a great Saturday!`,
		r.Choice.Name, r.Choice.Address, r.Choice.Rating, r.Weather.Condition, r.Weather.HighF)
}

func forecastSummary(f weather.Forecast) string {
	return fmt.Sprintf("%s, %dF, %d%% rain", f.Condition, f.HighF, f.RainChance)
}
