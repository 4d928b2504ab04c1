package models

import (
	"fmt"
)

// OutsPerInning ends a half-inning
const OutsPerInning = 3

// BaseState is the occupancy of first, second and third base plus the out
// count of the current half-inning. It is a value: Apply returns the next
// state and never mutates the receiver.
type BaseState struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
	Third  bool `json:"third"`
	Outs   int  `json:"outs"`
}

// PlayResult is what a single plate appearance produced
type PlayResult struct {
	RunsScored int  `json:"runs_scored"`
	RBIs       int  `json:"rbis"`
	BatterRuns int  `json:"batter_runs"`
	InningOver bool `json:"inning_over"`
}

// Credit carries caller-declared RBIs and batter runs for sacrifices and
// error reaches, which the machine does not derive from occupancy.
type Credit struct {
	RBIs int `json:"rbis"`
	Runs int `json:"runs"`
}

// NewBaseState returns the state at the start of every half-inning
func NewBaseState() BaseState {
	return BaseState{}
}

// Occupied returns the number of runners on base
func (bs BaseState) Occupied() int {
	count := 0
	if bs.First {
		count++
	}
	if bs.Second {
		count++
	}
	if bs.Third {
		count++
	}
	return count
}

// IsEmpty checks if all bases are empty
func (bs BaseState) IsEmpty() bool {
	return !bs.First && !bs.Second && !bs.Third
}

// IsLoaded checks if all three bases are occupied
func (bs BaseState) IsLoaded() bool {
	return bs.First && bs.Second && bs.Third
}

// IsInningOver checks if the half-inning has ended
func (bs BaseState) IsInningOver() bool {
	return bs.Outs >= OutsPerInning
}

// Apply resolves one plate appearance against the state
func (bs BaseState) Apply(o Outcome) (BaseState, PlayResult, error) {
	return bs.ApplyWithCredit(o, Credit{})
}

// ApplyWithCredit resolves one plate appearance. Credit is only accepted for
// sacrifice flies, sacrifice bunts and error reaches.
func (bs BaseState) ApplyWithCredit(o Outcome, credit Credit) (BaseState, PlayResult, error) {
	if err := o.Validate(); err != nil {
		return bs, PlayResult{}, err
	}
	if bs.Outs < 0 || bs.Outs >= OutsPerInning {
		return bs, PlayResult{}, fmt.Errorf("%w: cannot resolve a plate appearance with %d outs", ErrDataIntegrity, bs.Outs)
	}
	if !o.CallerCredited() && credit != (Credit{}) {
		return bs, PlayResult{}, fmt.Errorf("%w: %s does not accept declared RBIs or runs", ErrInvalidParameter, o)
	}

	next := bs
	var result PlayResult

	switch o.Category {
	case CategoryOut, CategoryStrikeout:
		next.Outs++

	case CategorySacrificeFly, CategorySacrificeBunt, CategoryErrorReach:
		if credit.RBIs < 0 || credit.RBIs > bs.Occupied() {
			return bs, PlayResult{}, fmt.Errorf("%w: %d RBIs declared with %d runners on base", ErrDataIntegrity, credit.RBIs, bs.Occupied())
		}
		if credit.Runs < 0 || credit.Runs > 1 {
			return bs, PlayResult{}, fmt.Errorf("%w: batter can score at most one run, got %d", ErrDataIntegrity, credit.Runs)
		}
		next.Outs++
		result.RBIs = credit.RBIs
		result.BatterRuns = credit.Runs
		result.RunsScored = credit.RBIs + credit.Runs

	case CategoryWalk, CategoryHitByPitch:
		if bs.IsLoaded() {
			// Forced in from third; the rest shift and the bases stay loaded.
			result.RunsScored = 1
			result.RBIs = 1
		} else {
			if bs.First {
				if bs.Second {
					next.Third = true
				}
				next.Second = true
			}
			next.First = true
		}

	case CategoryHit:
		switch o.HitKind {
		case HitHomeRun:
			result.RunsScored = bs.Occupied() + 1
			result.RBIs = result.RunsScored
			result.BatterRuns = 1
			next.First, next.Second, next.Third = false, false, false

		case HitTriple:
			result.RunsScored = bs.Occupied()
			result.RBIs = result.RunsScored
			next.First, next.Second, next.Third = false, false, true

		case HitDouble:
			if bs.Second {
				result.RunsScored++
			}
			if bs.Third {
				result.RunsScored++
			}
			result.RBIs = result.RunsScored
			next.First, next.Second, next.Third = false, true, bs.First

		case HitSingle:
			// Forced shift by one base; whoever was on third is pushed home.
			if bs.Third {
				result.RunsScored = 1
				result.RBIs = 1
			}
			next.First, next.Second, next.Third = true, bs.First, bs.Second
		}
	}

	result.InningOver = next.IsInningOver()
	return next, result, nil
}

// Result is the outcome of a game from our team's side
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// DeriveResult compares the final score
func DeriveResult(ourScore, theirScore int) Result {
	switch {
	case ourScore > theirScore:
		return ResultWin
	case ourScore < theirScore:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// GameState tracks one simulated game for the modeled team
type GameState struct {
	GameID     string    `json:"game_id"`
	Inning     int       `json:"inning"`
	Bases      BaseState `json:"bases"`
	OurScore   int       `json:"our_score"`
	TheirScore int       `json:"their_score"`
	OurLine    []int     `json:"our_line"`
	TheirLine  []int     `json:"their_line"`
	IsComplete bool      `json:"is_complete"`
}

// NewGameState creates a new game state before the first inning
func NewGameState(gameID string) *GameState {
	return &GameState{
		GameID:    gameID,
		OurLine:   []int{},
		TheirLine: []int{},
	}
}

// StartInning moves to the next inning and clears the bases
func (gs *GameState) StartInning() {
	gs.Inning++
	gs.Bases = NewBaseState()
	gs.OurLine = append(gs.OurLine, 0)
}

// AddRuns credits runs to our team in the current inning
func (gs *GameState) AddRuns(runs int) {
	gs.OurScore += runs
	if n := len(gs.OurLine); n > 0 {
		gs.OurLine[n-1] += runs
	}
}

// AddOpponentRuns records the opponent's half of the current inning
func (gs *GameState) AddOpponentRuns(runs int) {
	gs.TheirScore += runs
	gs.TheirLine = append(gs.TheirLine, runs)
}

// Result derives win, loss or draw from the current score
func (gs *GameState) Result() Result {
	return DeriveResult(gs.OurScore, gs.TheirScore)
}
