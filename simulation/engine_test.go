package simulation

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shane-shim/statz-kr/models"
)

// fixedResolver returns the same outcome for every plate appearance
type fixedResolver struct {
	outcome models.Outcome
	err     error
}

func (f fixedResolver) Resolve(float64, RandomSource) (models.Outcome, error) {
	return f.outcome, f.err
}

// sequenceResolver cycles through a list of outcomes
type sequenceResolver struct {
	outcomes []models.Outcome
	next     int
}

func (s *sequenceResolver) Resolve(float64, RandomSource) (models.Outcome, error) {
	o := s.outcomes[s.next%len(s.outcomes)]
	s.next++
	return o, nil
}

func testLineup(n int) []models.Player {
	lineup := make([]models.Player, n)
	for i := range lineup {
		lineup[i] = models.Player{ID: string(rune('A' + i)), Name: string(rune('a' + i))}
	}
	return lineup
}

func testSetup() GameSetup {
	return GameSetup{
		GameID:   "G1",
		Date:     "2024-05-01",
		Opponent: "청룡",
		HomeAway: models.Home,
		Lineup:   testLineup(9),
		Pitchers: []models.Player{{ID: "P", Name: "투수", Position: models.PositionPitcher}},
	}
}

// TestSimulateGameAllOuts tests a game where every batter is retired
func TestSimulateGameAllOuts(t *testing.T) {
	result, err := SimulateGame(testSetup(), fixedResolver{outcome: models.Of(models.CategoryOut)}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Game.OurScore)
	assert.Len(t, result.AtBats, 27)
	assert.Len(t, result.OurLine, 9)
	assert.Len(t, result.TheirLine, 9)

	// The order wraps: 27 batters over a nine-man lineup is three trips
	for i, ev := range result.AtBats {
		assert.Equal(t, i%9+1, ev.BattingOrder)
		assert.Equal(t, i/3+1, ev.Inning)
	}

	require.Len(t, result.Pitching, 1)
	assert.Equal(t, 9.0, result.Pitching[0].Innings)
	assert.Equal(t, result.Game.TheirScore, result.Pitching[0].RunsAllowed)
}

// TestSimulateGameBattingOrderCarriesOver tests the lineup index across innings
func TestSimulateGameBattingOrderCarriesOver(t *testing.T) {
	setup := testSetup()
	setup.Lineup = testLineup(4)
	setup.Innings = 2

	result, err := SimulateGame(setup, fixedResolver{outcome: models.Of(models.CategoryStrikeout)}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	require.Len(t, result.AtBats, 6)

	// Second inning starts with the batter after the last out of the first
	assert.Equal(t, 4, result.AtBats[3].BattingOrder)
	assert.Equal(t, 1, result.AtBats[4].BattingOrder)
	for _, ev := range result.AtBats {
		assert.Equal(t, 1, ev.Strikeouts)
	}
}

// TestSimulateGameScoring tests runs flowing from the base state into the score
func TestSimulateGameScoring(t *testing.T) {
	setup := testSetup()
	setup.Innings = 1

	// Home run, then three outs
	gen := &sequenceResolver{outcomes: []models.Outcome{
		models.Hit(models.HitHomeRun),
		models.Of(models.CategoryOut),
		models.Of(models.CategoryOut),
		models.Of(models.CategoryOut),
	}}
	result, err := SimulateGame(setup, gen, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Game.OurScore)
	assert.Equal(t, []int{1}, result.OurLine)
	assert.Equal(t, 1, result.AtBats[0].RBIs)
	assert.Equal(t, 1, result.AtBats[0].Runs)
}

// TestSimulateGameDeterministic tests that the seed fixes the game
func TestSimulateGameDeterministic(t *testing.T) {
	gen, err := NewOutcomeGenerator(DefaultOutcomeTable())
	require.NoError(t, err)

	first, err := SimulateGame(testSetup(), gen, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := SimulateGame(testSetup(), gen, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestSimulateGameStartingPitcher tests the explicit starter and innings override
func TestSimulateGameStartingPitcher(t *testing.T) {
	setup := testSetup()
	ace := models.Player{ID: "ACE", Name: "에이스", Position: models.PositionPitcher}
	ip := 6.2
	setup.StartingPitcher = &ace
	setup.InningsPitched = &ip

	result, err := SimulateGame(setup, fixedResolver{outcome: models.Of(models.CategoryOut)}, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	line := result.Pitching[0]
	assert.Equal(t, "ACE", line.PlayerID)
	assert.Equal(t, 6.2, line.Innings)
	assert.NoError(t, line.Validate())
}

// TestSimulateGameConfigurationErrors tests setups that cannot be played
func TestSimulateGameConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GameSetup)
		want   error
	}{
		{"empty lineup", func(s *GameSetup) { s.Lineup = nil }, models.ErrConfiguration},
		{"no pitchers", func(s *GameSetup) { s.Pitchers = nil }, models.ErrConfiguration},
		{"negative innings", func(s *GameSetup) { s.Innings = -1 }, models.ErrConfiguration},
		{"bad innings pitched", func(s *GameSetup) { ip := 4.5; s.InningsPitched = &ip }, models.ErrDataIntegrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := testSetup()
			tt.modify(&setup)
			_, err := SimulateGame(setup, fixedResolver{outcome: models.Of(models.CategoryOut)}, rand.New(rand.NewSource(1)))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

// TestSimulateGameNeverEndingInning tests the plate appearance guard
func TestSimulateGameNeverEndingInning(t *testing.T) {
	_, err := SimulateGame(testSetup(), fixedResolver{outcome: models.Of(models.CategoryWalk)}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, models.ErrDataIntegrity)
}

// TestSimulateGameResolverError tests that resolver failures abort the game
func TestSimulateGameResolverError(t *testing.T) {
	_, err := SimulateGame(testSetup(), fixedResolver{err: models.ErrInvalidParameter}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

// stubSource returns scripted values
type stubSource struct {
	floats []float64
	ints   []int
}

func (s *stubSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *stubSource) Intn(int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

// TestWeightedDraw tests the opponent run distribution boundaries
func TestWeightedDraw(t *testing.T) {
	tests := []struct {
		pick     int
		expected int
	}{
		{0, 0},
		{84, 0},
		{85, 1},
		{96, 1},
		{97, 2},
		{98, 2},
		{99, 3},
	}
	for _, tt := range tests {
		got := weightedDraw(&stubSource{ints: []int{tt.pick}}, opponentRunValues, opponentRunWeights)
		assert.Equal(t, tt.expected, got, "pick %d", tt.pick)
	}
}

// TestSampleSteal tests the steal attempt draw
func TestSampleSteal(t *testing.T) {
	stolen, caught := sampleSteal(&stubSource{floats: []float64{0.5}})
	assert.Equal(t, 0, stolen)
	assert.Equal(t, 0, caught)

	stolen, caught = sampleSteal(&stubSource{floats: []float64{0.1, 0.9}, ints: []int{1}})
	assert.Equal(t, 1, stolen)
	assert.Equal(t, 0, caught)

	stolen, caught = sampleSteal(&stubSource{floats: []float64{0.1, 0.2}, ints: []int{1}})
	assert.Equal(t, 1, stolen)
	assert.Equal(t, 1, caught)
}
