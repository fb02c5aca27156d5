// Package main is the entry point for the arena tournament server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/engine"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/events"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/infra/storage"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/network"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/platform/config"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/platform/logger"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/platform/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON run configuration (defaults when empty)")
	flag.Parse()

	log.Println("[ARENA-SERVER] Initializing tournament arena server...")

	appLogger := logger.NewLogger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			appLogger.Error("Failed to load config: " + err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}

	builders, err := cfg.Builders()
	if err != nil {
		appLogger.Error("Invalid strategy roster: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Initializing SQLite database '" + cfg.DatabasePath + "'...")
	db, err := storage.InitSQLite(cfg.DatabasePath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	repo := storage.NewSQLiteResultsRepository(db)

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewLog(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	runner := engine.NewRunner(eventLog, appLogger, repo)

	// One tournament at a time; spectators watch the feed in between.
	var runMu sync.Mutex
	launchRun := func() {
		go func() {
			runMu.Lock()
			defer runMu.Unlock()
			_, _, err := runner.Run(ctx, builders, cfg.Payoffs, cfg.Rounds, engine.Options{
				SelfPlay: cfg.SelfPlay,
				Workers:  cfg.Workers,
				Seed:     cfg.Seed,
			})
			if err != nil {
				appLogger.Error("Tournament run failed: " + err.Error())
			}
		}()
	}

	// Setup API Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	resultsAPI := network.NewResultsAPI(repo, hub, appLogger)
	resultsAPI.RegisterRoutes(mux)

	mux.HandleFunc("/api/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		launchRun()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "Tournament run launched"})
	})

	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	// Run the configured tournament once at startup so a fresh server
	// has standings to serve.
	launchRun()

	go func() {
		log.Printf("[ARENA-SERVER] HTTP API & WS Server listening on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[ARENA-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[ARENA-SERVER] Shutting down...")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests for dashboard dev servers
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
