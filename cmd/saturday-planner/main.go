package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"saturday-planner/internal/app"
	"saturday-planner/internal/calendar"
	"saturday-planner/internal/config"
	"saturday-planner/internal/database"
	"saturday-planner/internal/llm"
	"saturday-planner/internal/memory"
	"saturday-planner/internal/metrics"
	"saturday-planner/internal/notify"
	"saturday-planner/internal/places"
	"saturday-planner/internal/planner"
	"saturday-planner/internal/weather"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	for _, key := range cfg.MissingRequiredKeys() {
		log.Printf("Warning: %s is not set; the planner will run with degraded data", key)
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	memStore, err := newMemoryStore(cfg, db)
	if err != nil {
		log.Fatalf("Failed to initialize preference memory: %v", err)
	}

	var narrator llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Printf("Warning: narration disabled, Gemini init failed: %v", err)
		} else {
			narrator = geminiClient
			if closer, ok := narrator.(llm.Closer); ok {
				defer closer.Close()
			}
		}
	}

	metricsStore := metrics.NewStore(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)

	saturdayPlanner := planner.New(
		cfg,
		weather.NewClient(cfg),
		places.NewClient(cfg),
		memStore,
		calendar.NewWriter(cfg),
		notify.NewNotifier(cfg),
		narrator,
		metricsStore,
	)

	application := app.NewApp(saturdayPlanner, planRepo, metricsStore, cfg)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		zip := planCmd.String("zip", "", "Zip code to plan for (defaults to DEFAULT_ZIP_CODE)")
		message := planCmd.String("message", "", "Optional free-form request to record with the plan")
		planCmd.Parse(os.Args[2:])

		if err := application.RunPlan(ctx, *zip, *message); err != nil {
			log.Fatalf("Planning failed: %v", err)
		}
	case "history":
		historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
		limit := historyCmd.Int("limit", 10, "Number of archived plans to show")
		historyCmd.Parse(os.Args[2:])

		if err := application.ShowHistory(ctx, *limit); err != nil {
			log.Fatalf("Failed to show history: %v", err)
		}
	case "metrics":
		metricsCmd := flag.NewFlagSet("metrics", flag.ExitOnError)
		days := metricsCmd.Int("days", 7, "Summarize stage metrics for the last N days")
		metricsCmd.Parse(os.Args[2:])

		if err := application.ShowMetrics(ctx, *days); err != nil {
			log.Fatalf("Failed to show metrics: %v", err)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(ctx, *days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func newMemoryStore(cfg *config.Config, db *database.DB) (memory.Store, error) {
	switch cfg.MemoryType {
	case "file":
		return memory.NewFileStore(cfg.MemoryPath)
	default:
		return memory.NewSQLStore(db.SQL), nil
	}
}

func printUsage() {
	fmt.Println("Usage: saturday-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Plan the next Saturday for a zip code")
	fmt.Println("  history            Show recently archived plans")
	fmt.Println("  metrics            Summarize pipeline stage metrics")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
