// Package network - api.go
// REST API for reading tournament results. External collaborators
// (dashboards, analysis notebooks) consume final score tables from
// here; the simulation itself never reads back through this surface.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/infra/storage"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/platform/logger"
)

// ResultsAPI serves persisted run results over HTTP.
type ResultsAPI struct {
	repo   storage.ResultsRepository
	wsHub  *Hub
	logger *logger.Logger
}

// NewResultsAPI creates a results API handler.
func NewResultsAPI(repo storage.ResultsRepository, hub *Hub, log *logger.Logger) *ResultsAPI {
	return &ResultsAPI{
		repo:   repo,
		wsHub:  hub,
		logger: log,
	}
}

// HandleRuns lists recent runs, newest first.
// GET /api/runs?limit=20
func (api *ResultsAPI) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 {
			api.jsonError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := api.repo.ListRuns(r.Context(), limit)
	if err != nil {
		api.logger.Error("Failed to list runs: " + err.Error())
		api.jsonError(w, "Storage error", http.StatusInternalServerError)
		return
	}

	api.jsonSuccess(w, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// HandleStandings returns one run's final score table in rank order.
// GET /api/standings?run_id=...
func (api *ResultsAPI) HandleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		api.jsonError(w, "Missing run_id", http.StatusBadRequest)
		return
	}

	run, err := api.repo.GetRun(r.Context(), runID)
	if err != nil {
		api.logger.Error("Failed to load run: " + err.Error())
		api.jsonError(w, "Storage error", http.StatusInternalServerError)
		return
	}
	if run == nil {
		api.jsonError(w, "Unknown run_id", http.StatusNotFound)
		return
	}

	standings, err := api.repo.GetStandings(r.Context(), runID)
	if err != nil {
		api.logger.Error("Failed to load standings: " + err.Error())
		api.jsonError(w, "Storage error", http.StatusInternalServerError)
		return
	}

	api.jsonSuccess(w, map[string]interface{}{
		"run":       run,
		"standings": standings,
	})
}

// HandleMatches returns one run's match outcomes in pairing order.
// GET /api/matches?run_id=...
func (api *ResultsAPI) HandleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		api.jsonError(w, "Missing run_id", http.StatusBadRequest)
		return
	}

	matches, err := api.repo.GetMatches(r.Context(), runID)
	if err != nil {
		api.logger.Error("Failed to load matches: " + err.Error())
		api.jsonError(w, "Storage error", http.StatusInternalServerError)
		return
	}

	api.jsonSuccess(w, map[string]interface{}{
		"run_id":  runID,
		"matches": matches,
		"count":   len(matches),
	})
}

// HandleStatus returns basic liveness info for spectator frontends.
// GET /api/status
func (api *ResultsAPI) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	api.jsonSuccess(w, map[string]interface{}{
		"spectators": api.wsHub.ClientCount(),
		"timestamp":  time.Now().Unix(),
	})
}

// RegisterRoutes sets up the results API routes.
func (api *ResultsAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/runs", api.HandleRuns)
	mux.HandleFunc("/api/standings", api.HandleStandings)
	mux.HandleFunc("/api/matches", api.HandleMatches)
	mux.HandleFunc("/api/status", api.HandleStatus)
}

// jsonError sends an error response.
func (api *ResultsAPI) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func (api *ResultsAPI) jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
