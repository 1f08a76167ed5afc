package app

import (
	"context"
	"fmt"
	"log"

	"saturday-planner/internal/config"
	"saturday-planner/internal/metrics"
	"saturday-planner/internal/planner"
)

// PlanRunner runs one full planning pipeline.
type PlanRunner interface {
	Plan(ctx context.Context, zipCode, userMessage string) (planner.Result, error)
}

// App holds the application's dependencies.
type App struct {
	planner      PlanRunner
	planRepo     *planner.PlanRepository
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewApp creates and initializes a new App instance.
func NewApp(p PlanRunner, planRepo *planner.PlanRepository, metricsStore *metrics.Store, cfg *config.Config) *App {
	return &App{
		planner:      p,
		planRepo:     planRepo,
		metricsStore: metricsStore,
		cfg:          cfg,
	}
}

// RunPlan executes the planning pipeline for a zip code, archives the
// result, and prints it. An empty zip code falls back to the configured
// default.
func (a *App) RunPlan(ctx context.Context, zipCode, message string) error {
	if zipCode == "" {
		zipCode = a.cfg.DefaultZipCode
	}
	fmt.Printf("Planning Saturday for zip code %s...\n", zipCode)

	result, err := a.planner.Plan(ctx, zipCode, message)
	if err != nil {
		return fmt.Errorf("failed to plan: %w", err)
	}

	if a.planRepo != nil {
		if err := a.planRepo.Save(ctx, result); err != nil {
			log.Printf("Warning: failed to archive plan: %v", err)
		}
	}

	printResult(result)
	return nil
}

func printResult(r planner.Result) {
	fmt.Println("\n=== SATURDAY PLAN ===")
	fmt.Printf("Run ID:  %s\n", r.RunID)
	fmt.Printf("Weather: %s, high %dF / low %dF, %d%% chance of rain\n",
		r.Weather.Condition, r.Weather.HighF, r.Weather.LowF, r.Weather.RainChance)

	if r.Choice == nil {
		fmt.Println("\nNo suitable activity found for this Saturday.")
	} else {
		fmt.Printf("\nActivity: %s\n", r.Choice.Name)
		fmt.Printf("Address:  %s\n", r.Choice.Address)
		fmt.Printf("Rating:   %.1f stars\n", r.Choice.Rating)
		fmt.Printf("Score:    %.2f\n", r.Choice.CompositeScore)
	}

	switch r.Calendar.Status {
	case "":
	default:
		fmt.Printf("\nCalendar: %s", r.Calendar.Status)
		if r.Calendar.StartTime != "" {
			fmt.Printf(" (%s)", r.Calendar.StartTime)
		}
		fmt.Println()
	}
	fmt.Printf("Notification: %s", r.Notification.Status)
	if r.Notification.Provider != "" {
		fmt.Printf(" via %s", r.Notification.Provider)
	}
	fmt.Println()

	if len(r.Reasoning) > 0 {
		fmt.Println("\n=== REASONING ===")
		for _, entry := range r.Reasoning {
			fmt.Printf("- %s\n", entry)
		}
	}

	if len(r.Errors) > 0 {
		fmt.Println("\n=== WARNINGS ===")
		for _, e := range r.Errors {
			fmt.Printf("- %s\n", e)
		}
	}
}

// ShowHistory prints the most recent archived plans.
func (a *App) ShowHistory(ctx context.Context, limit int) error {
	plans, err := a.planRepo.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load plan history: %w", err)
	}
	if len(plans) == 0 {
		fmt.Println("No plans archived yet.")
		return nil
	}

	fmt.Println("=== PLAN HISTORY ===")
	for _, p := range plans {
		choice := "no selection"
		if p.Result.Choice != nil {
			choice = p.Result.Choice.Name
		}
		fmt.Printf("%s  %s  %-7s %s\n",
			p.CreatedAt.Format("2006-01-02 15:04"), p.RunID, p.ZipCode, choice)
	}
	return nil
}

// ShowMetrics prints per-stage execution summaries for the last N days.
func (a *App) ShowMetrics(ctx context.Context, days int) error {
	summaries, err := a.metricsStore.Summarize(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to summarize metrics: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Println("No metrics recorded yet.")
		return nil
	}

	fmt.Printf("=== STAGE METRICS (last %d days) ===\n", days)
	for _, s := range summaries {
		fmt.Printf("%-20s runs: %-4d failures: %-4d avg latency: %.0fms\n",
			s.Stage, s.Executions, s.Failures, s.AvgLatencyMS)
	}
	return nil
}
