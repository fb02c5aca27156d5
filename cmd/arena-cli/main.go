// Package main - arena-cli
// One-shot tournament runner: plays the configured round-robin and
// prints the ranking table, with optional JSON export and SQLite
// persistence for later inspection through the server API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/engine"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/events"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/infra/storage"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/platform/config"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/platform/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON run configuration (defaults when empty)")
	rounds := flag.Int("rounds", 0, "Override rounds per match")
	seed := flag.Int64("seed", 0, "Override root seed (0 = clock)")
	workers := flag.Int("workers", 0, "Override worker count")
	selfPlay := flag.Bool("self-play", false, "Include self-play matches")
	jsonOut := flag.String("json", "", "Write full results as JSON to this file")
	dbPath := flag.String("db", "", "Persist results to this SQLite database")
	flag.Parse()

	appLogger := logger.NewLogger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *rounds > 0 {
		cfg.Rounds = *rounds
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *selfPlay {
		cfg.SelfPlay = true
	}

	builders, err := cfg.Builders()
	if err != nil {
		fmt.Fprintf(os.Stderr, "roster error: %v\n", err)
		os.Exit(1)
	}

	var repo storage.ResultsRepository
	if *dbPath != "" {
		db, err := storage.InitSQLite(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "storage error: %v\n", err)
			os.Exit(1)
		}
		repo = storage.NewSQLiteResultsRepository(db)
	}

	runner := engine.NewRunner(events.NewLog(nil), appLogger, repo)
	runID, result, err := runner.Run(context.Background(), builders, cfg.Payoffs, cfg.Rounds, engine.Options{
		SelfPlay: cfg.SelfPlay,
		Workers:  cfg.Workers,
		Seed:     cfg.Seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tournament error: %v\n", err)
		os.Exit(1)
	}

	printStandings(runID, result)

	if *jsonOut != "" {
		export := map[string]interface{}{
			"run_id":    runID,
			"seed":      result.Seed,
			"rounds":    result.Rounds,
			"standings": result.Standings,
		}
		data, _ := json.MarshalIndent(export, "", "  ")
		if err := os.WriteFile(*jsonOut, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "export error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nResults saved to %s\n", *jsonOut)
	}
}

func printStandings(runID string, result *engine.TournamentResult) {
	fmt.Println("=========================================")
	fmt.Println("TOURNAMENT RESULTS")
	fmt.Println("=========================================")
	fmt.Printf("Run:      %s\n", runID)
	fmt.Printf("Seed:     %d\n", result.Seed)
	fmt.Printf("Rounds:   %d per match\n", result.Rounds)
	fmt.Printf("Matches:  %d\n", len(result.Matches))
	fmt.Printf("Duration: %v\n", result.Duration)
	fmt.Println("-----------------------------------------")
	fmt.Printf("%-4s %-28s %9s %8s %4s %4s %4s\n", "#", "STRATEGY", "TOTAL", "AVG", "W", "L", "T")
	for _, s := range result.Standings {
		fmt.Printf("%-4d %-28s %9.1f %8.2f %4d %4d %4d\n",
			s.Rank, s.Name, s.Total, s.Average, s.Wins, s.Losses, s.Ties)
	}
	fmt.Println("=========================================")
}
