package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"pitch-engine/models"
	"pitch-engine/reducer"
	"pitch-engine/storage"
)

// ReduceResponse is the result of reducing a single game
type ReduceResponse struct {
	GameID     string              `json:"game_id"`
	Level      models.Level        `json:"level,omitempty"`
	HomeTeamID string              `json:"home_team_id,omitempty"`
	AwayTeamID string              `json:"away_team_id,omitempty"`
	Weather    *models.Weather     `json:"weather,omitempty"`
	Attendance *int                `json:"attendance,omitempty"`
	Umpires    models.UmpireCrew   `json:"umpires"`
	Count      int                 `json:"count"`
	Pitches    []models.PitchState `json:"pitches"`
	Anomalies  []reducer.Anomaly   `json:"anomalies,omitempty"`
}

// RunRequest starts a batch reduction
type RunRequest struct {
	Games []models.Game `json:"games"`
}

type RunResponse struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type RunStatusResponse struct {
	RunID          string     `json:"run_id"`
	Status         string     `json:"status"`
	TotalGames     int        `json:"total_games"`
	CompletedGames int        `json:"completed_games"`
	FailedGames    []string   `json:"failed_games,omitempty"`
	Pitches        int        `json:"pitches,omitempty"`
	Anomalies      int        `json:"anomalies,omitempty"`
	Progress       float64    `json:"progress"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

type GamePitchesResponse struct {
	GameID  string              `json:"game_id"`
	Count   int                 `json:"count"`
	Cached  bool                `json:"cached"`
	Pitches []models.PitchState `json:"pitches"`
}

// Handlers
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":   "healthy",
		"time":     time.Now().UTC(),
		"workers":  s.config.Workers,
		"database": "connected",
	}

	if !s.config.StoreEnabled {
		health["database"] = "disabled"
		writeJSON(w, health)
		return
	}

	// Check database connection
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		health["database"] = "disconnected"
		health["status"] = "unhealthy"
		writeJSONStatus(w, health, http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, health)
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeErrorWithDetails(w, "Invalid request body", "invalid_body",
			map[string]interface{}{"reason": err.Error()}, http.StatusBadRequest)
		return false
	}
	return true
}

// validateGame rejects games the service cannot file
func validateGame(g *models.Game, requireID bool) error {
	if requireID && g.ID == "" {
		return errors.New("game id is required")
	}
	if g.Level != "" {
		if _, err := models.ParseLevel(string(g.Level)); err != nil {
			return err
		}
	}
	return g.Normalize()
}

func (s *Server) reduceHandler(w http.ResponseWriter, r *http.Request) {
	var game models.Game
	if !s.decodeBody(w, r, &game) {
		return
	}

	if err := validateGame(&game, false); err != nil {
		writeErrorWithDetails(w, "Invalid game", "invalid_game",
			map[string]interface{}{"reason": err.Error()}, http.StatusBadRequest)
		return
	}

	pitches, anomalies := s.engine.ReduceGame(&game)
	s.metrics.RecordReduction(len(pitches), len(anomalies))

	if pitches == nil {
		pitches = []models.PitchState{}
	}
	if game.ID != "" {
		s.cache.Set(game.ID, pitches)
	}

	writeJSON(w, ReduceResponse{
		GameID:     game.ID,
		Level:      game.Level,
		HomeTeamID: game.HomeTeamID,
		AwayTeamID: game.AwayTeamID,
		Weather:    game.Weather,
		Attendance: game.Attendance,
		Umpires:    models.PivotUmpires(game.Umpires),
		Count:      len(pitches),
		Pitches:    pitches,
		Anomalies:  anomalies,
	})
}

func (s *Server) createRunHandler(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if len(req.Games) == 0 {
		writeError(w, "At least one game is required", http.StatusBadRequest)
		return
	}

	gameIDs := make([]string, 0, len(req.Games))
	seen := make(map[string]int, len(req.Games))
	for i := range req.Games {
		if err := validateGame(&req.Games[i], true); err != nil {
			writeErrorWithDetails(w, "Invalid game", "invalid_game",
				map[string]interface{}{"index": i, "reason": err.Error()}, http.StatusBadRequest)
			return
		}
		id := req.Games[i].ID
		if first, dup := seen[id]; dup {
			writeErrorWithDetails(w, "Duplicate game", "duplicate_game",
				map[string]interface{}{"index": i, "first_index": first, "game_id": id}, http.StatusBadRequest)
			return
		}
		seen[id] = i
		gameIDs = append(gameIDs, id)
	}

	// Stale results would shadow the new reduction
	s.cache.Invalidate(gameIDs...)

	runID, err := s.engine.StartRun(r.Context(), req.Games)
	if err != nil {
		log.Printf("Failed to start run: %v", err)
		writeError(w, "Failed to start run", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, RunResponse{
		RunID:     runID,
		Status:    "started",
		Message:   fmt.Sprintf("Reduction started for %d games", len(req.Games)),
		CreatedAt: time.Now().UTC(),
	}, http.StatusAccepted)
}

func (s *Server) runStatusHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["id"]

	// First check in-memory status
	if runStatus, exists := s.engine.GetRunStatus(runID); exists {
		writeJSON(w, RunStatusResponse{
			RunID:          runStatus.RunID,
			Status:         runStatus.Status,
			TotalGames:     runStatus.TotalGames,
			CompletedGames: runStatus.CompletedGames,
			FailedGames:    runStatus.FailedGames,
			Pitches:        runStatus.Pitches,
			Anomalies:      runStatus.Anomalies,
			Progress:       runStatus.Progress(),
			CreatedAt:      runStatus.StartTime,
			CompletedAt:    runStatus.CompletedTime,
		})
		return
	}

	// Fallback to store lookup
	run, err := s.store.GetRun(r.Context(), runID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Failed to load run %s: %v", runID, err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var progress float64
	if run.TotalGames > 0 {
		progress = float64(run.CompletedGames) / float64(run.TotalGames)
	}

	writeJSON(w, RunStatusResponse{
		RunID:          run.ID,
		Status:         run.Status,
		TotalGames:     run.TotalGames,
		CompletedGames: run.CompletedGames,
		Progress:       progress,
		CreatedAt:      run.CreatedAt,
		CompletedAt:    run.CompletedAt,
	})
}

func (s *Server) gamePitchesHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]

	filter, err := parsePitchFilter(r)
	if err != nil {
		writeErrorWithDetails(w, "Invalid query parameter", "invalid_param",
			map[string]interface{}{"reason": err.Error()}, http.StatusBadRequest)
		return
	}

	pitches, cached := s.cache.Get(gameID)
	if !cached {
		pitches, err = s.store.LoadPitches(r.Context(), gameID)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, "Game not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("Failed to load pitches for %s: %v", gameID, err)
			writeError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		s.cache.Set(gameID, pitches)
	}

	pitches = filter.Apply(pitches)

	writeJSON(w, GamePitchesResponse{
		GameID:  gameID,
		Count:   len(pitches),
		Cached:  cached,
		Pitches: pitches,
	})
}
