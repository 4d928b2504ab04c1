package models

import (
	"fmt"
	"time"
)

// AtBatEvent is the immutable record of one plate appearance
type AtBatEvent struct {
	ID             string    `json:"id,omitempty"`
	GameID         string    `json:"game_id"`
	PlayerID       string    `json:"player_id"`
	PlayerName     string    `json:"player_name"`
	Inning         int       `json:"inning"`
	BattingOrder   int       `json:"batting_order_slot"`
	Result         Category  `json:"result_category"`
	HitType        HitKind   `json:"hit_subtype"`
	RBIs           int       `json:"rbis"`
	Runs           int       `json:"runs"`
	StolenBases    int       `json:"stolen_bases"`
	CaughtStealing int       `json:"caught_stealing"`
	Walks          int       `json:"walks"`
	Strikeouts     int       `json:"strikeouts"`
	HitByPitch     int       `json:"hit_by_pitch"`
	SacrificeFlies int       `json:"sacrifice_flies"`
	SacrificeBunts int       `json:"sacrifice_bunts"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAtBatEvent builds the record for a resolved plate appearance. The
// counting flags are derived from the outcome category.
func NewAtBatEvent(gameID string, batter Player, inning, slot int, o Outcome, play PlayResult) AtBatEvent {
	ev := AtBatEvent{
		GameID:       gameID,
		PlayerID:     batter.ID,
		PlayerName:   batter.Name,
		Inning:       inning,
		BattingOrder: slot,
		Result:       o.Category,
		HitType:      o.HitKind,
		RBIs:         play.RBIs,
		Runs:         play.BatterRuns,
	}
	switch o.Category {
	case CategoryWalk:
		ev.Walks = 1
	case CategoryStrikeout:
		ev.Strikeouts = 1
	case CategoryHitByPitch:
		ev.HitByPitch = 1
	case CategorySacrificeFly:
		ev.SacrificeFlies = 1
	case CategorySacrificeBunt:
		ev.SacrificeBunts = 1
	}
	return ev
}

// Outcome returns the plate appearance outcome stored on the record
func (e AtBatEvent) Outcome() Outcome {
	return Outcome{Category: e.Result, HitKind: e.HitType}
}

// Validate rejects records no plate appearance could have produced
func (e AtBatEvent) Validate() error {
	if err := e.Outcome().Validate(); err != nil {
		return err
	}
	for name, v := range map[string]int{
		"rbis": e.RBIs, "runs": e.Runs, "stolen_bases": e.StolenBases,
		"caught_stealing": e.CaughtStealing, "walks": e.Walks, "strikeouts": e.Strikeouts,
		"hit_by_pitch": e.HitByPitch, "sacrifice_flies": e.SacrificeFlies, "sacrifice_bunts": e.SacrificeBunts,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s cannot be negative (%d)", ErrDataIntegrity, name, v)
		}
	}
	if e.RBIs > 4 {
		return fmt.Errorf("%w: at most 4 RBIs per plate appearance, got %d", ErrDataIntegrity, e.RBIs)
	}
	if e.Runs > 1 {
		return fmt.Errorf("%w: the batter scores at most once per plate appearance, got %d", ErrDataIntegrity, e.Runs)
	}

	// Each counting flag is 1 exactly when it names the recorded result
	for _, f := range []struct {
		name     string
		value    int
		category Category
	}{
		{"walks", e.Walks, CategoryWalk},
		{"strikeouts", e.Strikeouts, CategoryStrikeout},
		{"hit_by_pitch", e.HitByPitch, CategoryHitByPitch},
		{"sacrifice_flies", e.SacrificeFlies, CategorySacrificeFly},
		{"sacrifice_bunts", e.SacrificeBunts, CategorySacrificeBunt},
	} {
		want := 0
		if e.Result == f.category {
			want = 1
		}
		if f.value != want {
			return fmt.Errorf("%w: %s must be %d for a %s, got %d", ErrDataIntegrity, f.name, want, e.Result, f.value)
		}
	}
	return nil
}

// PitchingEvent is one pitcher's line for one game
type PitchingEvent struct {
	ID              string    `json:"id,omitempty"`
	GameID          string    `json:"game_id"`
	PlayerID        string    `json:"player_id"`
	PlayerName      string    `json:"player_name"`
	Innings         float64   `json:"innings"` // N.d encoding, see InningsToOuts
	HitsAllowed     int       `json:"hits_allowed"`
	RunsAllowed     int       `json:"runs_allowed"`
	EarnedRuns      int       `json:"earned_runs"`
	Walks           int       `json:"walks"`
	Strikeouts      int       `json:"strikeouts"`
	HomeRunsAllowed int       `json:"home_runs_allowed"`
	Win             bool      `json:"win"`
	Loss            bool      `json:"loss"`
	Save            bool      `json:"save"`
	CreatedAt       time.Time `json:"created_at"`
}

// Outs returns the encoded innings as a total out count
func (e PitchingEvent) Outs() (int, error) {
	return InningsToOuts(e.Innings)
}

// Validate rejects pitching lines with impossible values
func (e PitchingEvent) Validate() error {
	if _, err := e.Outs(); err != nil {
		return err
	}
	for name, v := range map[string]int{
		"hits_allowed": e.HitsAllowed, "runs_allowed": e.RunsAllowed, "earned_runs": e.EarnedRuns,
		"walks": e.Walks, "strikeouts": e.Strikeouts, "home_runs_allowed": e.HomeRunsAllowed,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s cannot be negative (%d)", ErrDataIntegrity, name, v)
		}
	}
	if e.EarnedRuns > e.RunsAllowed {
		return fmt.Errorf("%w: earned runs %d exceed runs allowed %d", ErrDataIntegrity, e.EarnedRuns, e.RunsAllowed)
	}
	if e.Win && e.Loss {
		return fmt.Errorf("%w: a pitcher cannot be credited with both win and loss", ErrDataIntegrity)
	}
	return nil
}

// HomeAway tells whether our team hosted the game
type HomeAway string

const (
	Home HomeAway = "home"
	Away HomeAway = "away"
)

// GameRecord is the summary of one game
type GameRecord struct {
	ID         string    `json:"game_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Opponent   string    `json:"opponent"`
	HomeAway   HomeAway  `json:"home_away"`
	OurScore   int       `json:"our_score"`
	TheirScore int       `json:"their_score"`
	Result     Result    `json:"result"`
	Venue      string    `json:"venue"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewGameRecord creates a game record with the result derived from the score
func NewGameRecord(id, date, opponent string, homeAway HomeAway, ourScore, theirScore int, venue, note string) GameRecord {
	return GameRecord{
		ID:         id,
		Date:       date,
		Opponent:   opponent,
		HomeAway:   homeAway,
		OurScore:   ourScore,
		TheirScore: theirScore,
		Result:     DeriveResult(ourScore, theirScore),
		Venue:      venue,
		Note:       note,
	}
}
