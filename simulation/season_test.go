package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shane-shim/statz-kr/models"
	"github.com/shane-shim/statz-kr/store"
)

func testRoster() models.Roster {
	players := make([]models.Player, 12)
	for i := range players {
		players[i] = models.Player{ID: fmt.Sprintf("R%02d", i+1), Name: fmt.Sprintf("선수%d", i+1), Position: "IF"}
	}
	players[0].Position = models.PositionPitcher
	players[5].Position = models.PositionPitcher
	players[3].SkillBonus = 0.04
	return models.Roster{TeamName: "테스트", Players: players}
}

func testSeason(games int) SeasonConfig {
	return SeasonConfig{
		Roster:    testRoster(),
		Games:     games,
		Seed:      11,
		StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestEngine(t *testing.T, sink EventSink, workers int) *SimulationEngine {
	t.Helper()
	gen, err := NewOutcomeGenerator(DefaultOutcomeTable())
	require.NoError(t, err)
	return NewSimulationEngine(sink, gen, workers)
}

// TestRunSeasonPersists tests a season written into the memory store
func TestRunSeasonPersists(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	engine := newTestEngine(t, mem, 4)

	summary, err := engine.RunSeason(ctx, "run-0001-abcdef", testSeason(10))
	require.NoError(t, err)

	assert.Equal(t, 10, summary.Record.Games)
	assert.Equal(t, 10, summary.Record.Wins+summary.Record.Losses+summary.Record.Draws)
	require.Len(t, summary.Games, 10)

	games, err := mem.Games(ctx)
	require.NoError(t, err)
	require.Len(t, games, 10)
	assert.Equal(t, "SIM001_run-0001-abcdef", games[0].ID)
	assert.Equal(t, "2024-04-02", games[0].Date)

	for _, g := range games {
		atBats, err := mem.AtBats(ctx, store.Filter{GameID: g.ID})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(atBats), 27)

		runs := 0
		for _, ev := range atBats {
			runs += ev.Runs
		}
		assert.LessOrEqual(t, runs, g.OurScore)

		pitching, err := mem.Pitching(ctx, store.Filter{GameID: g.ID})
		require.NoError(t, err)
		require.Len(t, pitching, 1)
		assert.Equal(t, g.TheirScore, pitching[0].RunsAllowed)
	}

	status, ok := engine.GetRunStatus("run-0001-abcdef")
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, status.Status)
	assert.Equal(t, 10, status.CompletedGames)
}

// TestRunSeasonSharedPrefix tests that run ids differing only after their
// first characters keep separate game ids
func TestRunSeasonSharedPrefix(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	engine := newTestEngine(t, mem, 2)

	_, err := engine.RunSeason(ctx, "season-2024", testSeason(3))
	require.NoError(t, err)
	_, err = engine.RunSeason(ctx, "season-2025", testSeason(3))
	require.NoError(t, err)

	games, err := mem.Games(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 6)

	_, err = mem.Game(ctx, "SIM001_season-2025")
	assert.NoError(t, err)
}

// TestRunSeasonExistingGames tests that a run whose game ids are taken
// writes nothing
func TestRunSeasonExistingGames(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()

	_, err := newTestEngine(t, mem, 2).RunSeason(ctx, "replay", testSeason(3))
	require.NoError(t, err)
	before, err := mem.AtBats(ctx, store.Filter{})
	require.NoError(t, err)

	// a fresh engine has no record of the earlier run
	engine := newTestEngine(t, mem, 2)
	_, err = engine.RunSeason(ctx, "replay", testSeason(4))
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	games, err := mem.Games(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 3)
	after, err := mem.AtBats(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Len(t, after, len(before))

	_, err = mem.Game(ctx, "SIM004_replay")
	assert.ErrorIs(t, err, store.ErrNotFound)

	status, ok := engine.GetRunStatus("replay")
	require.True(t, ok)
	assert.Equal(t, StatusError, status.Status)
}

// TestRunSeasonDefaultStartDate tests that an unset start date ends the
// season today with consecutive dates
func TestRunSeasonDefaultStartDate(t *testing.T) {
	cfg := testSeason(4)
	cfg.StartDate = time.Time{}

	summary, err := newTestEngine(t, nil, 4).RunSeason(context.Background(), "today", cfg)
	require.NoError(t, err)
	require.Len(t, summary.Games, 4)

	first, err := time.Parse("2006-01-02", summary.Games[0].Date)
	require.NoError(t, err)
	for i, g := range summary.Games {
		assert.Equal(t, first.AddDate(0, 0, i).Format("2006-01-02"), g.Date)
	}
	assert.LessOrEqual(t, summary.Games[3].Date, time.Now().Format("2006-01-02"))
}

// TestRunSeasonReproducible tests that the seed fixes the whole season
// regardless of the worker count
func TestRunSeasonReproducible(t *testing.T) {
	ctx := context.Background()

	serial, err := newTestEngine(t, nil, 1).RunSeason(ctx, "same", testSeason(6))
	require.NoError(t, err)
	parallel, err := newTestEngine(t, nil, 6).RunSeason(ctx, "same", testSeason(6))
	require.NoError(t, err)

	assert.Equal(t, serial.Games, parallel.Games)
	assert.Equal(t, serial.Record, parallel.Record)
}

// TestRunSeasonConfigurationErrors tests seasons that cannot start
func TestRunSeasonConfigurationErrors(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, nil, 2)

	noPitchers := testSeason(3)
	noPitchers.Roster.Players = noPitchers.Roster.Players[1:5]

	tests := []struct {
		name string
		cfg  SeasonConfig
	}{
		{"zero games", testSeason(0)},
		{"empty roster", SeasonConfig{Games: 3}},
		{"no pitchers", noPitchers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.RunSeason(ctx, tt.name, tt.cfg)
			assert.ErrorIs(t, err, models.ErrConfiguration)

			status, ok := engine.GetRunStatus(tt.name)
			require.True(t, ok)
			assert.Equal(t, StatusError, status.Status)
		})
	}
}

// TestStartSeason tests the asynchronous run lifecycle
func TestStartSeason(t *testing.T) {
	engine := newTestEngine(t, store.NewMemoryStore(), 2)

	require.NoError(t, engine.StartSeason("async", testSeason(3)))
	assert.ErrorIs(t, engine.StartSeason("async", testSeason(3)), models.ErrInvalidParameter)

	assert.Eventually(t, func() bool {
		status, ok := engine.GetRunStatus("async")
		return ok && status.Status == StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	status, _ := engine.GetRunStatus("async")
	require.NotNil(t, status.Summary)
	assert.Equal(t, 3, status.Summary.Record.Games)
}

// TestCleanupOldRuns tests removal of runs older than a day
func TestCleanupOldRuns(t *testing.T) {
	engine := newTestEngine(t, nil, 1)
	engine.activeRuns["old"] = &RunStatus{RunID: "old", StartTime: time.Now().Add(-48 * time.Hour)}
	engine.activeRuns["new"] = &RunStatus{RunID: "new", StartTime: time.Now()}

	engine.CleanupOldRuns()

	_, oldExists := engine.GetRunStatus("old")
	_, newExists := engine.GetRunStatus("new")
	assert.False(t, oldExists)
	assert.True(t, newExists)
	assert.Equal(t, 1, engine.getActiveRunsCount())
}

// TestCreateLineup tests sampling without replacement
func TestCreateLineup(t *testing.T) {
	roster := testRoster()
	lineup, err := createLineup(roster, LineupSize, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	require.Len(t, lineup, LineupSize)

	seen := map[string]bool{}
	for _, p := range lineup {
		assert.False(t, seen[p.ID], "player %s drawn twice", p.ID)
		seen[p.ID] = true
	}

	short, err := createLineup(models.Roster{Players: roster.Players[:4]}, LineupSize, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	assert.Len(t, short, 4)

	_, err = createLineup(models.Roster{}, LineupSize, rand.New(rand.NewSource(8)))
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

// TestBuildGameSetup tests per-game scheduling
func TestBuildGameSetup(t *testing.T) {
	cfg := testSeason(5)
	cfg.Opponents = []string{"청룡", "백호"}

	setup, err := buildGameSetup("abc", 3, cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, "SIM003_abc", setup.GameID)
	assert.Equal(t, "2024-04-04", setup.Date)
	assert.Equal(t, "청룡", setup.Opponent)
	assert.Contains(t, DefaultVenues, setup.Venue)
	assert.Len(t, setup.Pitchers, 2)
	assert.Len(t, setup.Lineup, LineupSize)
}
