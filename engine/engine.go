package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"pitch-engine/models"
	"pitch-engine/reducer"
	"pitch-engine/storage"
)

// ErrNoGames is returned when a run is started without games
var ErrNoGames = errors.New("no games to reduce")

// progressInterval is how many finished games pass between progress writes
const progressInterval = 10

// Store is where the engine records runs and reduced games
type Store interface {
	CreateRun(ctx context.Context, run storage.Run) error
	UpdateRunStatus(ctx context.Context, runID, status string) error
	UpdateRunProgress(ctx context.Context, runID string, completed int) error
	SavePitches(ctx context.Context, runID, gameID string, pitches []models.PitchState) error
}

// Engine reduces batches of games across a fixed number of workers
type Engine struct {
	store      Store
	workers    int
	mu         sync.RWMutex
	activeRuns map[string]*RunStatus
	wg         sync.WaitGroup
}

// RunStatus tracks the progress of a reduction run
type RunStatus struct {
	RunID          string     `json:"run_id"`
	Status         string     `json:"status"`
	TotalGames     int        `json:"total_games"`
	CompletedGames int        `json:"completed_games"`
	FailedGames    []string   `json:"failed_games,omitempty"`
	Pitches        int        `json:"pitches"`
	Anomalies      int        `json:"anomalies"`
	StartTime      time.Time  `json:"start_time"`
	CompletedTime  *time.Time `json:"completed_time,omitempty"`
}

// Progress returns the finished fraction of the run
func (rs RunStatus) Progress() float64 {
	if rs.TotalGames == 0 {
		return 0
	}
	return float64(rs.CompletedGames) / float64(rs.TotalGames)
}

// gameResult is what a worker reports for one game
type gameResult struct {
	gameID    string
	pitches   int
	anomalies int
	err       error
}

// NewEngine creates a new engine
func NewEngine(store Store, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		store:      store,
		workers:    workers,
		activeRuns: make(map[string]*RunStatus),
	}
}

// ReduceGame reduces a single game synchronously. Feed anomalies are logged
// and returned alongside the pitch states.
func (e *Engine) ReduceGame(g *models.Game) ([]models.PitchState, []reducer.Anomaly) {
	var anomalies []reducer.Anomaly
	r := &reducer.Reducer{Observe: func(a reducer.Anomaly) {
		log.Printf("Feed anomaly in game %s: %s", g.ID, a)
		anomalies = append(anomalies, a)
	}}
	return r.Game(g), anomalies
}

// StartRun registers a run for the given games and reduces them in the
// background. It returns as soon as the run is recorded.
func (e *Engine) StartRun(ctx context.Context, games []models.Game) (string, error) {
	if len(games) == 0 {
		return "", ErrNoGames
	}

	runID := uuid.New().String()
	now := time.Now()

	run := storage.Run{
		ID:         runID,
		Status:     storage.StatusPending,
		TotalGames: len(games),
		CreatedAt:  now,
	}
	if err := e.store.CreateRun(ctx, run); err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	e.mu.Lock()
	e.activeRuns[runID] = &RunStatus{
		RunID:      runID,
		Status:     storage.StatusPending,
		TotalGames: len(games),
		StartTime:  now,
	}
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(runID, games)
	}()

	return runID, nil
}

// run reduces all games of a run and records the outcome
func (e *Engine) run(runID string, games []models.Game) {
	ctx := context.Background()

	e.setStatus(ctx, runID, storage.StatusRunning)

	jobs := make(chan *models.Game)
	resultsChan := make(chan gameResult, len(games))
	var wg sync.WaitGroup

	workers := e.workers
	if workers > len(games) {
		workers = len(games)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range jobs {
				resultsChan <- e.reduceAndStore(ctx, runID, g)
			}
		}()
	}

	go func() {
		for i := range games {
			jobs <- &games[i]
		}
		close(jobs)
	}()

	// Collect results
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for result := range resultsChan {
		if result.err != nil {
			log.Printf("Failed to reduce game %s: %v", result.gameID, result.err)
		}
		e.updateProgress(ctx, runID, result)
	}

	final := storage.StatusCompleted
	e.mu.Lock()
	status := e.activeRuns[runID]
	if len(status.FailedGames) > 0 {
		final = storage.StatusError
	}
	status.Status = final
	completedTime := time.Now()
	status.CompletedTime = &completedTime
	elapsed := completedTime.Sub(status.StartTime)
	e.mu.Unlock()

	if err := e.store.UpdateRunStatus(ctx, runID, final); err != nil {
		log.Printf("Failed to update run status for %s: %v", runID, err)
	}

	log.Printf("Reduction run %s %s: %d games in %v", runID, final, len(games), elapsed)
}

// reduceAndStore reduces one game and persists its pitch states
func (e *Engine) reduceAndStore(ctx context.Context, runID string, g *models.Game) gameResult {
	pitches, anomalies := e.ReduceGame(g)
	result := gameResult{gameID: g.ID, pitches: len(pitches), anomalies: len(anomalies)}

	storeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := e.store.SavePitches(storeCtx, runID, g.ID, pitches); err != nil {
		result.err = fmt.Errorf("failed to store pitches: %w", err)
	}
	return result
}

// setStatus updates the run status in memory and in the store
func (e *Engine) setStatus(ctx context.Context, runID, status string) {
	e.mu.Lock()
	if rs, exists := e.activeRuns[runID]; exists {
		rs.Status = status
	}
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := e.store.UpdateRunStatus(ctx, runID, status); err != nil {
		log.Printf("Failed to update run status for %s: %v", runID, err)
	}
}

// updateProgress counts a finished game and periodically persists progress
func (e *Engine) updateProgress(ctx context.Context, runID string, result gameResult) {
	e.mu.Lock()
	status, exists := e.activeRuns[runID]
	if !exists {
		e.mu.Unlock()
		return
	}
	status.CompletedGames++
	status.Pitches += result.pitches
	status.Anomalies += result.anomalies
	if result.err != nil {
		status.FailedGames = append(status.FailedGames, result.gameID)
	}
	completed := status.CompletedGames
	total := status.TotalGames
	e.mu.Unlock()

	// Update the store every progressInterval games or when done
	if completed%progressInterval != 0 && completed != total {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := e.store.UpdateRunProgress(ctx, runID, completed); err != nil {
		log.Printf("Failed to update progress for %s: %v", runID, err)
	}
}

// GetRunStatus returns a snapshot of a run's status
func (e *Engine) GetRunStatus(runID string) (RunStatus, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status, exists := e.activeRuns[runID]
	if !exists {
		return RunStatus{}, false
	}
	snapshot := *status
	snapshot.FailedGames = append([]string(nil), status.FailedGames...)
	return snapshot, true
}

// ActiveRuns returns the number of runs still tracked in memory
func (e *Engine) ActiveRuns() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.activeRuns)
}

// Wait blocks until every background run has finished
func (e *Engine) Wait() {
	e.wg.Wait()
}

// CleanupOldRuns drops finished runs older than maxAge from memory
func (e *Engine) CleanupOldRuns(maxAge time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)

	for runID, status := range e.activeRuns {
		if status.CompletedTime != nil && status.StartTime.Before(cutoff) {
			delete(e.activeRuns, runID)
		}
	}
}
