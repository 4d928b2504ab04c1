package models

import (
	"errors"
	"testing"
)

// TestNewAtBatEvent tests flag derivation from the outcome
func TestNewAtBatEvent(t *testing.T) {
	batter := Player{ID: "P1", Name: "김성호"}

	tests := []struct {
		outcome Outcome
		check   func(AtBatEvent) bool
	}{
		{Of(CategoryWalk), func(e AtBatEvent) bool { return e.Walks == 1 }},
		{Of(CategoryStrikeout), func(e AtBatEvent) bool { return e.Strikeouts == 1 }},
		{Of(CategoryHitByPitch), func(e AtBatEvent) bool { return e.HitByPitch == 1 }},
		{Of(CategorySacrificeFly), func(e AtBatEvent) bool { return e.SacrificeFlies == 1 }},
		{Of(CategorySacrificeBunt), func(e AtBatEvent) bool { return e.SacrificeBunts == 1 }},
		{Hit(HitDouble), func(e AtBatEvent) bool { return e.HitType == HitDouble && e.Walks == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			ev := NewAtBatEvent("G1", batter, 3, 4, tt.outcome, PlayResult{})
			if !tt.check(ev) {
				t.Errorf("unexpected flags for %s: %+v", tt.outcome, ev)
			}
			if ev.PlayerName != "김성호" || ev.Inning != 3 || ev.BattingOrder != 4 {
				t.Errorf("identity fields not copied: %+v", ev)
			}
			if ev.Outcome() != tt.outcome {
				t.Errorf("Outcome() = %v, want %v", ev.Outcome(), tt.outcome)
			}
		})
	}
}

// TestNewAtBatEventCredit tests that runs come from the batter only
func TestNewAtBatEventCredit(t *testing.T) {
	ev := NewAtBatEvent("G1", Player{ID: "P1"}, 1, 1, Hit(HitHomeRun), PlayResult{RunsScored: 4, RBIs: 4, BatterRuns: 1})
	if ev.RBIs != 4 || ev.Runs != 1 {
		t.Errorf("RBIs/Runs = %d/%d, want 4/1", ev.RBIs, ev.Runs)
	}
}

// TestAtBatEventValidate tests rejection of impossible records
func TestAtBatEventValidate(t *testing.T) {
	valid := NewAtBatEvent("G1", Player{ID: "P1"}, 1, 1, Hit(HitSingle), PlayResult{})
	if err := valid.Validate(); err != nil {
		t.Errorf("valid event rejected: %v", err)
	}

	negative := valid
	negative.RBIs = -1
	if err := negative.Validate(); !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("negative RBIs returned %v, want ErrDataIntegrity", err)
	}

	tooMany := valid
	tooMany.RBIs = 5
	if err := tooMany.Validate(); !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("5 RBIs returned %v, want ErrDataIntegrity", err)
	}

	unknown := valid
	unknown.Result = "balk"
	if err := unknown.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown category returned %v, want ErrInvalidParameter", err)
	}
}

// TestAtBatEventValidateFlags tests that counting flags agree with the result
func TestAtBatEventValidateFlags(t *testing.T) {
	batter := Player{ID: "P1"}
	single := NewAtBatEvent("G1", batter, 1, 1, Hit(HitSingle), PlayResult{})
	walk := NewAtBatEvent("G1", batter, 1, 1, Of(CategoryWalk), PlayResult{})
	out := NewAtBatEvent("G1", batter, 1, 1, Of(CategoryOut), PlayResult{})

	tests := []struct {
		name   string
		modify func(*AtBatEvent)
		base   AtBatEvent
	}{
		{"walk flag on a hit", func(e *AtBatEvent) { e.Walks = 1 }, single},
		{"two walks on one walk", func(e *AtBatEvent) { e.Walks = 2 }, walk},
		{"walk without its flag", func(e *AtBatEvent) { e.Walks = 0 }, walk},
		{"strikeout flag on a walk", func(e *AtBatEvent) { e.Strikeouts = 1 }, walk},
		{"hit by pitch on an out", func(e *AtBatEvent) { e.HitByPitch = 1 }, out},
		{"sacrifice fly on an out", func(e *AtBatEvent) { e.SacrificeFlies = 1 }, out},
		{"sacrifice bunt on a hit", func(e *AtBatEvent) { e.SacrificeBunts = 1 }, single},
		{"batter scores twice", func(e *AtBatEvent) { e.Runs = 2 }, single},
		{"three runs on an out", func(e *AtBatEvent) { e.Runs = 3 }, out},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tt.base
			tt.modify(&ev)
			if err := ev.Validate(); !errors.Is(err, ErrDataIntegrity) {
				t.Errorf("Validate() = %v, want ErrDataIntegrity", err)
			}
		})
	}

	for _, c := range []Category{CategoryWalk, CategoryStrikeout, CategoryHitByPitch,
		CategorySacrificeFly, CategorySacrificeBunt, CategoryOut, CategoryErrorReach} {
		if err := NewAtBatEvent("G1", batter, 1, 1, Of(c), PlayResult{BatterRuns: 1}).Validate(); err != nil {
			t.Errorf("NewAtBatEvent(%s) produced an invalid record: %v", c, err)
		}
	}
}

// TestPitchingEventValidate tests pitching line checks
func TestPitchingEventValidate(t *testing.T) {
	tests := []struct {
		name  string
		event PitchingEvent
		valid bool
	}{
		{"complete game", PitchingEvent{Innings: 9.0, RunsAllowed: 2, EarnedRuns: 1, Win: true}, true},
		{"partial inning", PitchingEvent{Innings: 6.2, RunsAllowed: 6, EarnedRuns: 6, Loss: true}, true},
		{"bad innings", PitchingEvent{Innings: 6.3}, false},
		{"earned above runs", PitchingEvent{Innings: 5.0, RunsAllowed: 1, EarnedRuns: 2}, false},
		{"win and loss", PitchingEvent{Innings: 5.0, Win: true, Loss: true}, false},
		{"negative walks", PitchingEvent{Innings: 5.0, Walks: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrDataIntegrity) {
				t.Errorf("Validate() = %v, want ErrDataIntegrity", err)
			}
		})
	}
}

// TestNewGameRecord tests result derivation on game creation
func TestNewGameRecord(t *testing.T) {
	g := NewGameRecord("G1", "2024-03-10", "청룡", Home, 5, 3, "잠실구장", "")
	if g.Result != ResultWin {
		t.Errorf("Result = %s, want win", g.Result)
	}
}

// TestRosterPitchers tests pitcher lookup
func TestRosterPitchers(t *testing.T) {
	r := Roster{Players: []Player{
		{ID: "1", Name: "a", Position: PositionPitcher},
		{ID: "2", Name: "b", Position: "C"},
		{ID: "3", Name: "c", Position: PositionPitcher},
	}}

	pitchers := r.Pitchers()
	if len(pitchers) != 2 || pitchers[0].ID != "1" || pitchers[1].ID != "3" {
		t.Errorf("Pitchers() = %+v", pitchers)
	}
	if p, ok := r.FindByName("b"); !ok || p.ID != "2" {
		t.Errorf("FindByName(b) = %+v, %v", p, ok)
	}
	if _, ok := r.Find("9"); ok {
		t.Error("Find(9) should not find a player")
	}
}
