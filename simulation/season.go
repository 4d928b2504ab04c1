package simulation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shane-shim/statz-kr/models"
	"github.com/shane-shim/statz-kr/sabermetrics"
)

// Run states reported by RunStatus
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// SimulationEngine runs simulated seasons on a bounded worker pool and
// persists what they produce.
type SimulationEngine struct {
	sink       EventSink
	gen        Resolver
	workers    int
	mu         sync.RWMutex
	activeRuns map[string]*RunStatus
}

// RunStatus tracks the progress of a season run
type RunStatus struct {
	RunID          string         `json:"run_id"`
	TotalGames     int            `json:"total_games"`
	CompletedGames int            `json:"completed_games"`
	Status         string         `json:"status"`
	Error          string         `json:"error,omitempty"`
	StartTime      time.Time      `json:"start_time"`
	CompletedTime  *time.Time     `json:"completed_time,omitempty"`
	Summary        *SeasonSummary `json:"summary,omitempty"`
}

// SeasonConfig describes a batch of games against a list of opponents
type SeasonConfig struct {
	Roster         models.Roster
	Games          int
	Seed           int64
	Innings        int
	LineupSize     int       // 0 means a full nine
	InningsPitched *float64  // encoded override for every starter
	StartDate      time.Time // zero means the season ends today
	Opponents      []string
	Venues         []string
}

// SeasonSummary is the outcome of a whole season run
type SeasonSummary struct {
	RunID   string                  `json:"run_id"`
	Record  sabermetrics.TeamRecord `json:"record"`
	Games   []models.GameRecord     `json:"games"`
	Elapsed time.Duration           `json:"elapsed_ns"`
}

// NewSimulationEngine creates a new simulation engine
func NewSimulationEngine(sink EventSink, gen Resolver, workers int) *SimulationEngine {
	if workers < 1 {
		workers = 1
	}
	return &SimulationEngine{
		sink:       sink,
		gen:        gen,
		workers:    workers,
		activeRuns: make(map[string]*RunStatus),
	}
}

// StartSeason registers a run and simulates it in the background
func (se *SimulationEngine) StartSeason(runID string, cfg SeasonConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	se.mu.Lock()
	if _, exists := se.activeRuns[runID]; exists {
		se.mu.Unlock()
		return fmt.Errorf("%w: simulation run %s already exists", models.ErrInvalidParameter, runID)
	}
	se.activeRuns[runID] = &RunStatus{
		RunID:      runID,
		TotalGames: cfg.Games,
		Status:     StatusPending,
		StartTime:  time.Now(),
	}
	se.mu.Unlock()

	go func() {
		if _, err := se.RunSeason(context.Background(), runID, cfg); err != nil {
			log.Printf("Season run %s failed: %v", runID, err)
		}
	}()
	return nil
}

// RunSeason simulates every game of the season in parallel, each with its
// own random stream seeded from the season seed and the game number, then
// persists the results in game order. Nothing is written when any game id
// is already taken. A store failure part way through leaves the games
// before it in place; each game is written record, at-bats, pitching.
func (se *SimulationEngine) RunSeason(ctx context.Context, runID string, cfg SeasonConfig) (*SeasonSummary, error) {
	if err := cfg.validate(); err != nil {
		se.finishRun(runID, nil, err)
		return nil, err
	}

	start := time.Now()
	if cfg.StartDate.IsZero() {
		cfg.StartDate = start.AddDate(0, 0, -cfg.Games)
	}
	se.updateRunStatus(runID, cfg.Games, StatusRunning)
	log.Printf("Starting season run %s: %d games with %d workers", runID, cfg.Games, se.workers)

	results := make([]*GameResult, cfg.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(se.workers)

	for n := 1; n <= cfg.Games; n++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(cfg.Seed + int64(n)))
			setup, err := buildGameSetup(runID, n, cfg, rng)
			if err != nil {
				return err
			}

			result, err := SimulateGame(setup, se.gen, rng)
			if err != nil {
				return fmt.Errorf("failed to simulate game %d: %w", n, err)
			}

			results[n-1] = result
			se.updateProgress(runID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		se.finishRun(runID, nil, err)
		return nil, err
	}

	if err := se.checkGameIDs(ctx, results); err != nil {
		se.finishRun(runID, nil, err)
		return nil, err
	}
	for _, result := range results {
		if err := se.storeGameResult(ctx, result); err != nil {
			se.finishRun(runID, nil, err)
			return nil, err
		}
	}

	summary := summarizeSeason(runID, results, time.Since(start))
	se.finishRun(runID, summary, nil)

	log.Printf("Season run %s completed: %d games in %v (%d-%d-%d)",
		runID, cfg.Games, summary.Elapsed, summary.Record.Wins, summary.Record.Losses, summary.Record.Draws)
	return summary, nil
}

func (cfg SeasonConfig) validate() error {
	if cfg.Games <= 0 {
		return fmt.Errorf("%w: number of games must be positive, got %d", models.ErrConfiguration, cfg.Games)
	}
	if cfg.Innings < 0 {
		return fmt.Errorf("%w: innings per game must be positive, got %d", models.ErrConfiguration, cfg.Innings)
	}
	if len(cfg.Roster.Players) == 0 {
		return fmt.Errorf("%w: roster is empty", models.ErrConfiguration)
	}
	if len(cfg.Roster.Pitchers()) == 0 {
		return fmt.Errorf("%w: roster has no pitchers", models.ErrConfiguration)
	}
	return nil
}
