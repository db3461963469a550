package storage

import (
	"context"
	"sync"
	"time"

	"pitch-engine/models"
)

// MemoryStore keeps runs and pitch states in process memory. It is used
// when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]*Run
	pitches map[string][]models.PitchState
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]*Run),
		pitches: make(map[string][]models.PitchState),
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) CreateRun(ctx context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs[run.ID] = &run
	return nil
}

func (m *MemoryStore) UpdateRunStatus(ctx context.Context, runID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, exists := m.runs[runID]
	if !exists {
		return ErrNotFound
	}
	run.Status = status
	if run.IsTerminal() {
		now := time.Now()
		run.CompletedAt = &now
	}
	return nil
}

func (m *MemoryStore) UpdateRunProgress(ctx context.Context, runID string, completed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, exists := m.runs[runID]
	if !exists {
		return ErrNotFound
	}
	run.CompletedGames = completed
	return nil
}

func (m *MemoryStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, exists := m.runs[runID]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *run
	return &copied, nil
}

func (m *MemoryStore) SavePitches(ctx context.Context, runID, gameID string, pitches []models.PitchState) error {
	stored := make([]models.PitchState, len(pitches))
	copy(stored, pitches)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pitches[gameID] = stored
	return nil
}

func (m *MemoryStore) LoadPitches(ctx context.Context, gameID string) ([]models.PitchState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, exists := m.pitches[gameID]
	if !exists || len(stored) == 0 {
		return nil, ErrNotFound
	}
	pitches := make([]models.PitchState, len(stored))
	copy(pitches, stored)
	return pitches, nil
}
