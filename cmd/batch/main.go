package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/arcmind/prism/internal/batch"
	"github.com/arcmind/prism/internal/config"
	"github.com/arcmind/prism/internal/core/solver"
	"github.com/arcmind/prism/internal/llm"
	"github.com/arcmind/prism/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := flag.String("config", "config/config.toml", "path to TOML config")
	tasksDir := flag.String("tasks", "", "directory of puzzle JSON files (overrides config)")
	promptID := flag.String("prompt", "solver", "prompt mode to run")
	workers := flag.Int("workers", 0, "concurrent workers (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults with env overrides", *cfgPath, err)
		cfg = config.Default()
	}
	if envProvider := os.Getenv("LLM_PROVIDER"); envProvider != "" {
		cfg.LLM.Provider = envProvider
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if envAPIKey := os.Getenv("LLM_API_KEY"); envAPIKey != "" {
		cfg.LLM.APIKey = envAPIKey
	}
	if envBaseURL := os.Getenv("LLM_BASE_URL"); envBaseURL != "" {
		cfg.LLM.BaseURL = envBaseURL
	}
	if *tasksDir != "" {
		cfg.Data.TasksDir = *tasksDir
	}
	if *workers > 0 {
		cfg.Concurrency.BatchWorkers = *workers
	}

	ctx := context.Background()

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open explanation store: %v", err)
	}
	defer st.Close()

	runner := batch.NewRunner(solver.NewSolver(llmClient, cfg.LLM.Model, cfg.Prompts), st, cfg.Concurrency.BatchWorkers)

	summary, err := runner.Run(ctx, cfg.Data.TasksDir, *promptID)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	log.Printf("Batch complete: %d puzzles, %d solved, %d failed, average score %.3f",
		summary.Total, summary.Solved, summary.Failed, summary.AverageScore)
}
