package simulation

import (
	"fmt"

	"github.com/shane-shim/statz-kr/models"
)

// DefaultInnings is the length of a regulation game
const DefaultInnings = 9

// maxPlateAppearances bounds a single half-inning so a resolver that never
// records an out cannot spin forever.
const maxPlateAppearances = 100

// Opponent runs per inning are not simulated batter by batter; they are a
// weighted draw over these values.
var (
	opponentRunValues  = []int{0, 0, 0, 0, 1, 1, 2, 3}
	opponentRunWeights = []int{40, 20, 15, 10, 8, 4, 2, 1}
)

// Stolen bases are sampled after a single only.
const (
	stealAttemptRate  = 0.15
	caughtStealingPct = 0.30
)

// GameSetup describes one game to simulate for the modeled team
type GameSetup struct {
	GameID          string
	Date            string
	Opponent        string
	HomeAway        models.HomeAway
	Venue           string
	Note            string
	Lineup          []models.Player // batting order, slot 1 first
	Pitchers        []models.Player // pool the starter is drawn from
	StartingPitcher *models.Player  // overrides the draw when set
	Innings         int             // 0 means DefaultInnings
	InningsPitched  *float64        // encoded override for the starter's line
}

// GameResult is everything one simulated game produced
type GameResult struct {
	Game      models.GameRecord      `json:"game"`
	AtBats    []models.AtBatEvent    `json:"at_bats"`
	Pitching  []models.PitchingEvent `json:"pitching"`
	OurLine   []int                  `json:"our_line"`
	TheirLine []int                  `json:"their_line"`
}

func (s GameSetup) validate() error {
	if len(s.Lineup) == 0 {
		return fmt.Errorf("%w: batting order is empty", models.ErrConfiguration)
	}
	if s.StartingPitcher == nil && len(s.Pitchers) == 0 {
		return fmt.Errorf("%w: no pitcher available to start", models.ErrConfiguration)
	}
	if s.Innings < 0 {
		return fmt.Errorf("%w: innings per game must be positive, got %d", models.ErrConfiguration, s.Innings)
	}
	if s.InningsPitched != nil {
		if _, err := models.InningsToOuts(*s.InningsPitched); err != nil {
			return err
		}
	}
	return nil
}

// SimulateGame plays every inning of one game. The batting order index
// carries over between innings. The opponent's half of each inning is a
// weighted draw and never touches the base state.
func SimulateGame(setup GameSetup, gen Resolver, rng RandomSource) (*GameResult, error) {
	if err := setup.validate(); err != nil {
		return nil, err
	}
	innings := setup.Innings
	if innings == 0 {
		innings = DefaultInnings
	}

	state := models.NewGameState(setup.GameID)
	atBats := make([]models.AtBatEvent, 0, innings*4)
	batter := 0

	for inning := 1; inning <= innings; inning++ {
		state.StartInning()

		for pa := 0; !state.Bases.IsInningOver(); pa++ {
			if pa >= maxPlateAppearances {
				return nil, fmt.Errorf("%w: inning %d exceeded %d plate appearances without three outs",
					models.ErrDataIntegrity, inning, maxPlateAppearances)
			}

			player := setup.Lineup[batter]
			outcome, err := gen.Resolve(player.SkillBonus, rng)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve plate appearance for %s: %w", player.Name, err)
			}

			next, play, err := state.Bases.Apply(outcome)
			if err != nil {
				return nil, fmt.Errorf("failed to apply %s in inning %d: %w", outcome, inning, err)
			}

			event := models.NewAtBatEvent(setup.GameID, player, inning, batter+1, outcome, play)
			if outcome == models.Hit(models.HitSingle) {
				event.StolenBases, event.CaughtStealing = sampleSteal(rng)
			}
			atBats = append(atBats, event)

			state.Bases = next
			state.AddRuns(play.RunsScored)
			batter = (batter + 1) % len(setup.Lineup)
		}

		state.AddOpponentRuns(weightedDraw(rng, opponentRunValues, opponentRunWeights))
	}
	state.IsComplete = true

	starter := setup.StartingPitcher
	if starter == nil {
		starter = &setup.Pitchers[rng.Intn(len(setup.Pitchers))]
	}

	game := models.NewGameRecord(setup.GameID, setup.Date, setup.Opponent, setup.HomeAway,
		state.OurScore, state.TheirScore, setup.Venue, setup.Note)

	return &GameResult{
		Game:      game,
		AtBats:    atBats,
		Pitching:  []models.PitchingEvent{pitchingLine(setup, *starter, innings, state, rng)},
		OurLine:   state.OurLine,
		TheirLine: state.TheirLine,
	}, nil
}

// pitchingLine credits the starter with the whole game. Only runs allowed
// and the decision come from the simulated score; the rest of the line is
// drawn.
func pitchingLine(setup GameSetup, starter models.Player, innings int, state *models.GameState, rng RandomSource) models.PitchingEvent {
	ip := float64(innings)
	if setup.InningsPitched != nil {
		ip = *setup.InningsPitched
	}

	runs := state.TheirScore
	unearned := rng.Intn(min(2, runs) + 1)

	return models.PitchingEvent{
		GameID:          setup.GameID,
		PlayerID:        starter.ID,
		PlayerName:      starter.Name,
		Innings:         ip,
		HitsAllowed:     4 + rng.Intn(7),
		RunsAllowed:     runs,
		EarnedRuns:      runs - unearned,
		Walks:           1 + rng.Intn(5),
		Strikeouts:      3 + rng.Intn(8),
		HomeRunsAllowed: rng.Intn(3),
		Win:             state.Result() == models.ResultWin,
		Loss:            state.Result() == models.ResultLoss,
	}
}

// sampleSteal returns stolen bases and caught stealing for the runner who
// just singled.
func sampleSteal(rng RandomSource) (stolen, caught int) {
	if rng.Float64() >= stealAttemptRate {
		return 0, 0
	}
	stolen = rng.Intn(2)
	if stolen > 0 && rng.Float64() < caughtStealingPct {
		caught = 1
	}
	return stolen, caught
}

func weightedDraw(rng RandomSource, values, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	pick := rng.Intn(total)
	for i, w := range weights {
		if pick < w {
			return values[i]
		}
		pick -= w
	}
	return values[len(values)-1]
}
