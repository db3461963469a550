package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitch-engine/models"
	"pitch-engine/reducer"
	"pitch-engine/storage"
)

// flakyStore fails to save the listed games
type flakyStore struct {
	*storage.MemoryStore
	failGames map[string]bool
	failRun   bool
}

func (f *flakyStore) CreateRun(ctx context.Context, run storage.Run) error {
	if f.failRun {
		return errors.New("database unavailable")
	}
	return f.MemoryStore.CreateRun(ctx, run)
}

func (f *flakyStore) SavePitches(ctx context.Context, runID, gameID string, pitches []models.PitchState) error {
	if f.failGames[gameID] {
		return errors.New("connection reset")
	}
	return f.MemoryStore.SavePitches(ctx, runID, gameID, pitches)
}

// testGame builds a one-inning game with a walk and a stolen base
func testGame(id string) models.Game {
	ball := models.PitchEvent{Result: models.ResultBall, Description: "Ball"}
	top := models.HalfInning{Items: []models.HalfInningItem{
		&models.PlateAppearance{Num: 1, BatterID: "545361", PitcherID: "519242", Events: []models.Event{
			ball, ball, ball, ball,
			models.RunnerEvent{RunnerID: "545361", Start: "", End: "1B", Event: "Walk"},
		}},
		&models.PlateAppearance{Num: 2, BatterID: "660271", PitcherID: "519242", OutsEnd: 1, Events: []models.Event{
			ball,
			models.RunnerEvent{RunnerID: "545361", Start: "1B", End: "2B", Event: "Stolen Base 2B"},
			models.PitchEvent{Result: models.ResultInPlay, Description: "In play, out(s)"},
			models.RunnerEvent{RunnerID: "660271", Start: "", End: "", Event: "Flyout"},
		}},
	}}
	return models.Game{
		ID:      id,
		Level:   models.LevelMajors,
		Umpires: []models.Umpire{{Position: models.UmpireHome, Name: "Joe West", ID: "427541"}},
		Innings: []models.Inning{{Num: 1, Top: top}},
	}
}

func testGames(n int) []models.Game {
	games := make([]models.Game, n)
	for i := range games {
		games[i] = testGame(fmt.Sprintf("2019_04_%02d_nynmlb_phimlb_1", i+1))
	}
	return games
}

// TestReduceGame tests synchronous reduction
func TestReduceGame(t *testing.T) {
	e := NewEngine(storage.NewMemoryStore(), 2)
	game := testGame("2019_04_01_nynmlb_phimlb_1")

	pitches, anomalies := e.ReduceGame(&game)

	require.Len(t, pitches, 6)
	assert.Empty(t, anomalies)
	assert.Equal(t, models.OnFirst, pitches[3].BasesAfter)
	assert.False(t, pitches[4].BatterResponsible)
	assert.Equal(t, uint8(1), pitches[5].OutsAfter)
	for _, p := range pitches {
		assert.Equal(t, game.ID, p.GameID)
		assert.Equal(t, "427541", p.UmpireID)
	}
}

// TestReduceGameReportsAnomalies tests that feed anomalies are surfaced
func TestReduceGameReportsAnomalies(t *testing.T) {
	e := NewEngine(storage.NewMemoryStore(), 1)
	game := models.Game{ID: "bad", Innings: []models.Inning{{Num: 1, Top: models.HalfInning{Items: []models.HalfInningItem{
		&models.PlateAppearance{Num: 1, Events: []models.Event{
			models.PitchEvent{Result: models.ResultBall, Description: "Ball"},
			models.RunnerEvent{Start: "2B", End: "3B", Event: "Wild Pitch"},
		}},
	}}}}}

	pitches, anomalies := e.ReduceGame(&game)

	require.Len(t, pitches, 1)
	require.Len(t, anomalies, 1)
	assert.Equal(t, reducer.AnomalyVacantStart, anomalies[0].Kind)
	assert.Equal(t, models.OnThird, pitches[0].BasesAfter)
}

// TestStartRun tests a batch run through to completion
func TestStartRun(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		games   int
	}{
		{"single worker", 1, 3},
		{"more workers than games", 8, 2},
		{"progress interval crossed", 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			e := NewEngine(store, tt.workers)
			games := testGames(tt.games)

			runID, err := e.StartRun(context.Background(), games)
			require.NoError(t, err)
			require.NotEmpty(t, runID)

			e.Wait()

			status, ok := e.GetRunStatus(runID)
			require.True(t, ok)
			assert.Equal(t, storage.StatusCompleted, status.Status)
			assert.Equal(t, tt.games, status.CompletedGames)
			assert.Equal(t, 6*tt.games, status.Pitches)
			assert.Empty(t, status.FailedGames)
			assert.InDelta(t, 1.0, status.Progress(), 0.0001)
			assert.NotNil(t, status.CompletedTime)

			run, err := store.GetRun(context.Background(), runID)
			require.NoError(t, err)
			assert.Equal(t, storage.StatusCompleted, run.Status)
			assert.Equal(t, tt.games, run.CompletedGames)

			for _, g := range games {
				pitches, err := store.LoadPitches(context.Background(), g.ID)
				require.NoError(t, err)
				assert.Len(t, pitches, 6)
			}
		})
	}
}

// TestStartRunStoreFailures tests that failed saves mark the run as errored
func TestStartRunStoreFailures(t *testing.T) {
	games := testGames(4)
	store := &flakyStore{
		MemoryStore: storage.NewMemoryStore(),
		failGames:   map[string]bool{games[2].ID: true},
	}
	e := NewEngine(store, 2)

	runID, err := e.StartRun(context.Background(), games)
	require.NoError(t, err)
	e.Wait()

	status, ok := e.GetRunStatus(runID)
	require.True(t, ok)
	assert.Equal(t, storage.StatusError, status.Status)
	assert.Equal(t, 4, status.CompletedGames)
	assert.Equal(t, []string{games[2].ID}, status.FailedGames)

	_, err = store.LoadPitches(context.Background(), games[2].ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	run, err := store.GetRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusError, run.Status)
}

// TestStartRunRejected tests runs that never start
func TestStartRunRejected(t *testing.T) {
	e := NewEngine(storage.NewMemoryStore(), 2)
	_, err := e.StartRun(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoGames)

	failing := NewEngine(&flakyStore{MemoryStore: storage.NewMemoryStore(), failRun: true}, 2)
	_, err = failing.StartRun(context.Background(), testGames(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create run")
	assert.Zero(t, failing.ActiveRuns())
}

// TestCleanupOldRuns tests that only finished, expired runs are dropped
func TestCleanupOldRuns(t *testing.T) {
	e := NewEngine(storage.NewMemoryStore(), 1)

	runID, err := e.StartRun(context.Background(), testGames(1))
	require.NoError(t, err)
	e.Wait()

	e.CleanupOldRuns(time.Hour)
	assert.Equal(t, 1, e.ActiveRuns())

	e.CleanupOldRuns(-time.Second)
	assert.Zero(t, e.ActiveRuns())

	_, ok := e.GetRunStatus(runID)
	assert.False(t, ok)
}

// TestGetRunStatusUnknown tests lookups of runs that were never started
func TestGetRunStatusUnknown(t *testing.T) {
	e := NewEngine(storage.NewMemoryStore(), 1)
	_, ok := e.GetRunStatus("missing")
	assert.False(t, ok)
}
