package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"time"

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

// A plan run is eight collaborator calls plus narration; give it room.
const planRequestTimeout = 2 * time.Minute

type server struct {
	planner  *planner.Planner
	planRepo *planner.PlanRepository
	cfg      *config.Config
}

type planRequest struct {
	ZipCode string `json:"zip_code"`
	Message string `json:"message"`
}

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

	s := &server{
		planner: planner.New(
			cfg,
			weather.NewClient(cfg),
			places.NewClient(cfg),
			memStore,
			calendar.NewWriter(cfg),
			notify.NewNotifier(cfg),
			narrator,
			metrics.NewStore(db.SQL),
		),
		planRepo: planner.NewPlanRepository(db.SQL),
		cfg:      cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /plan", s.handlePlan)
	mux.HandleFunc("GET /health", s.handleHealth)

	log.Printf("Planner server listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
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

func (s *server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.ZipCode == "" {
		req.ZipCode = s.cfg.DefaultZipCode
	}

	ctx, cancel := context.WithTimeout(r.Context(), planRequestTimeout)
	defer cancel()

	result, err := s.planner.Plan(ctx, req.ZipCode, req.Message)
	if err != nil {
		log.Printf("Plan request failed: %v", err)
		http.Error(w, "planning failed", http.StatusInternalServerError)
		return
	}

	if err := s.planRepo.Save(ctx, result); err != nil {
		log.Printf("Warning: failed to archive plan %s: %v", result.RunID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Failed to encode plan response: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := metrics.GetSysHealth(filepath.Dir(s.cfg.DBPath))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		log.Printf("Failed to encode health response: %v", err)
	}
}
