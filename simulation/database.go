package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shane-shim/statz-kr/models"
	"github.com/shane-shim/statz-kr/sabermetrics"
	"github.com/shane-shim/statz-kr/store"
)

// EventSink is the persistence a season run writes into. store.Recorder
// satisfies it.
type EventSink interface {
	Game(ctx context.Context, id string) (models.GameRecord, error)
	AddGame(ctx context.Context, game models.GameRecord) (models.GameRecord, error)
	AddAtBats(ctx context.Context, events []models.AtBatEvent) ([]models.AtBatEvent, error)
	AddPitching(ctx context.Context, event models.PitchingEvent) (models.PitchingEvent, error)
}

// checkGameIDs fails when any simulated game id is already in the sink
func (se *SimulationEngine) checkGameIDs(ctx context.Context, results []*GameResult) error {
	if se.sink == nil {
		return nil
	}

	for _, result := range results {
		_, err := se.sink.Game(ctx, result.Game.ID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: game %s already exists", models.ErrInvalidParameter, result.Game.ID)
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("failed to check game %s: %w", result.Game.ID, err)
		}
	}
	return nil
}

// storeGameResult persists one game: the record first, then the at-bats in
// a single batch, then the pitching lines.
func (se *SimulationEngine) storeGameResult(ctx context.Context, result *GameResult) error {
	if se.sink == nil {
		return nil
	}

	if _, err := se.sink.AddGame(ctx, result.Game); err != nil {
		return fmt.Errorf("failed to store game %s: %w", result.Game.ID, err)
	}
	if _, err := se.sink.AddAtBats(ctx, result.AtBats); err != nil {
		return fmt.Errorf("failed to store at-bats for game %s: %w", result.Game.ID, err)
	}
	for _, line := range result.Pitching {
		if _, err := se.sink.AddPitching(ctx, line); err != nil {
			return fmt.Errorf("failed to store pitching for game %s: %w", result.Game.ID, err)
		}
	}
	return nil
}

// updateRunStatus moves a run to a new state, registering it if needed
func (se *SimulationEngine) updateRunStatus(runID string, totalGames int, status string) {
	se.mu.Lock()
	defer se.mu.Unlock()

	run, exists := se.activeRuns[runID]
	if !exists {
		run = &RunStatus{RunID: runID, StartTime: time.Now()}
		se.activeRuns[runID] = run
	}
	run.TotalGames = totalGames
	run.Status = status
}

// updateProgress updates the completed games count
func (se *SimulationEngine) updateProgress(runID string) {
	se.mu.Lock()
	defer se.mu.Unlock()

	if status, exists := se.activeRuns[runID]; exists {
		status.CompletedGames++
	}
}

func (se *SimulationEngine) finishRun(runID string, summary *SeasonSummary, err error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	status, exists := se.activeRuns[runID]
	if !exists {
		status = &RunStatus{RunID: runID, StartTime: time.Now()}
		se.activeRuns[runID] = status
	}

	completedTime := time.Now()
	status.CompletedTime = &completedTime
	if err != nil {
		status.Status = StatusError
		status.Error = err.Error()
		return
	}
	status.Status = StatusCompleted
	status.CompletedGames = status.TotalGames
	status.Summary = summary
}

// summarizeSeason reduces the game records of a run to the team record
func summarizeSeason(runID string, results []*GameResult, elapsed time.Duration) *SeasonSummary {
	games := make([]models.GameRecord, 0, len(results))
	for _, r := range results {
		games = append(games, r.Game)
	}
	return &SeasonSummary{
		RunID:   runID,
		Record:  sabermetrics.ComputeTeamRecord(games),
		Games:   games,
		Elapsed: elapsed,
	}
}

// GetRunStatus returns a snapshot of a season run
func (se *SimulationEngine) GetRunStatus(runID string) (RunStatus, bool) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	status, exists := se.activeRuns[runID]
	if !exists {
		return RunStatus{}, false
	}
	return *status, true
}

// CleanupOldRuns removes old simulation runs from memory
func (se *SimulationEngine) CleanupOldRuns() {
	se.mu.Lock()
	defer se.mu.Unlock()

	cutoff := time.Now().Add(-24 * time.Hour) // Keep for 24 hours

	for runID, status := range se.activeRuns {
		if status.StartTime.Before(cutoff) {
			delete(se.activeRuns, runID)
		}
	}
}
