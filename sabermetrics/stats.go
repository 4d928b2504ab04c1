package sabermetrics

import (
	"fmt"

	"github.com/shane-shim/statz-kr/models"
)

// BattingStats is the element-wise sum of a set of at-bat events. It is a
// value: Merge returns a new accumulator and neither operand changes.
type BattingStats struct {
	PlateAppearances int `json:"plate_appearances"`
	Hits             int `json:"hits"`
	Doubles          int `json:"doubles"`
	Triples          int `json:"triples"`
	HomeRuns         int `json:"home_runs"`
	Walks            int `json:"walks"`
	Strikeouts       int `json:"strikeouts"`
	HitByPitch       int `json:"hit_by_pitch"`
	SacrificeFlies   int `json:"sacrifice_flies"`
	SacrificeBunts   int `json:"sacrifice_bunts"`
	RBIs             int `json:"rbis"`
	Runs             int `json:"runs"`
	StolenBases      int `json:"stolen_bases"`
	CaughtStealing   int `json:"caught_stealing"`
}

// AtBats excludes walks, hit-by-pitch and sacrifices from plate appearances
func (s BattingStats) AtBats() int {
	return s.PlateAppearances - (s.Walks + s.HitByPitch + s.SacrificeFlies + s.SacrificeBunts)
}

// Singles is derived from hits; it is never stored
func (s BattingStats) Singles() int {
	return s.Hits - s.Doubles - s.Triples - s.HomeRuns
}

// TotalBases counts one base per single up to four per home run
func (s BattingStats) TotalBases() int {
	return s.Singles() + 2*s.Doubles + 3*s.Triples + 4*s.HomeRuns
}

// Merge adds two accumulators
func (s BattingStats) Merge(o BattingStats) BattingStats {
	return BattingStats{
		PlateAppearances: s.PlateAppearances + o.PlateAppearances,
		Hits:             s.Hits + o.Hits,
		Doubles:          s.Doubles + o.Doubles,
		Triples:          s.Triples + o.Triples,
		HomeRuns:         s.HomeRuns + o.HomeRuns,
		Walks:            s.Walks + o.Walks,
		Strikeouts:       s.Strikeouts + o.Strikeouts,
		HitByPitch:       s.HitByPitch + o.HitByPitch,
		SacrificeFlies:   s.SacrificeFlies + o.SacrificeFlies,
		SacrificeBunts:   s.SacrificeBunts + o.SacrificeBunts,
		RBIs:             s.RBIs + o.RBIs,
		Runs:             s.Runs + o.Runs,
		StolenBases:      s.StolenBases + o.StolenBases,
		CaughtStealing:   s.CaughtStealing + o.CaughtStealing,
	}
}

// Validate rejects accumulators no valid event set can produce
func (s BattingStats) Validate() error {
	if ab := s.AtBats(); ab < 0 {
		return fmt.Errorf("%w: at-bats would be %d (%d PA, %d BB, %d HBP, %d SF, %d SH)", models.ErrDataIntegrity,
			ab, s.PlateAppearances, s.Walks, s.HitByPitch, s.SacrificeFlies, s.SacrificeBunts)
	}
	if s.Singles() < 0 {
		return fmt.Errorf("%w: extra-base hits exceed hits (%d)", models.ErrDataIntegrity, s.Hits)
	}
	return nil
}

func battingFromEvent(ev models.AtBatEvent) (BattingStats, error) {
	if err := ev.Validate(); err != nil {
		return BattingStats{}, err
	}

	s := BattingStats{
		PlateAppearances: 1,
		Walks:            ev.Walks,
		Strikeouts:       ev.Strikeouts,
		HitByPitch:       ev.HitByPitch,
		SacrificeFlies:   ev.SacrificeFlies,
		SacrificeBunts:   ev.SacrificeBunts,
		RBIs:             ev.RBIs,
		Runs:             ev.Runs,
		StolenBases:      ev.StolenBases,
		CaughtStealing:   ev.CaughtStealing,
	}
	if ev.Result == models.CategoryHit {
		s.Hits = 1
		switch ev.HitType {
		case models.HitDouble:
			s.Doubles = 1
		case models.HitTriple:
			s.Triples = 1
		case models.HitHomeRun:
			s.HomeRuns = 1
		}
	}
	return s, nil
}

// ComputeBattingStats folds at-bat events into one accumulator. The result
// does not depend on event order.
func ComputeBattingStats(events []models.AtBatEvent) (BattingStats, error) {
	var total BattingStats
	for _, ev := range events {
		s, err := battingFromEvent(ev)
		if err != nil {
			return BattingStats{}, fmt.Errorf("invalid at-bat %s in game %s: %w", ev.ID, ev.GameID, err)
		}
		total = total.Merge(s)
	}
	if err := total.Validate(); err != nil {
		return BattingStats{}, err
	}
	return total, nil
}

// PitchingStats is the element-wise sum of pitching lines. Innings are kept
// as total outs so that summing stays exact.
type PitchingStats struct {
	Appearances     int `json:"appearances"`
	Outs            int `json:"outs"`
	HitsAllowed     int `json:"hits_allowed"`
	RunsAllowed     int `json:"runs_allowed"`
	EarnedRuns      int `json:"earned_runs"`
	Walks           int `json:"walks"`
	Strikeouts      int `json:"strikeouts"`
	HomeRunsAllowed int `json:"home_runs_allowed"`
	Wins            int `json:"wins"`
	Losses          int `json:"losses"`
	Saves           int `json:"saves"`
}

// InningsPitched returns the total in N.d encoding
func (s PitchingStats) InningsPitched() float64 {
	return models.OutsToInnings(s.Outs)
}

// InningsDecimal returns true innings for rate computations
func (s PitchingStats) InningsDecimal() float64 {
	return models.OutsToDecimal(s.Outs)
}

// Merge adds two accumulators
func (s PitchingStats) Merge(o PitchingStats) PitchingStats {
	return PitchingStats{
		Appearances:     s.Appearances + o.Appearances,
		Outs:            s.Outs + o.Outs,
		HitsAllowed:     s.HitsAllowed + o.HitsAllowed,
		RunsAllowed:     s.RunsAllowed + o.RunsAllowed,
		EarnedRuns:      s.EarnedRuns + o.EarnedRuns,
		Walks:           s.Walks + o.Walks,
		Strikeouts:      s.Strikeouts + o.Strikeouts,
		HomeRunsAllowed: s.HomeRunsAllowed + o.HomeRunsAllowed,
		Wins:            s.Wins + o.Wins,
		Losses:          s.Losses + o.Losses,
		Saves:           s.Saves + o.Saves,
	}
}

func pitchingFromEvent(ev models.PitchingEvent) (PitchingStats, error) {
	if err := ev.Validate(); err != nil {
		return PitchingStats{}, err
	}
	outs, err := ev.Outs()
	if err != nil {
		return PitchingStats{}, err
	}

	s := PitchingStats{
		Appearances:     1,
		Outs:            outs,
		HitsAllowed:     ev.HitsAllowed,
		RunsAllowed:     ev.RunsAllowed,
		EarnedRuns:      ev.EarnedRuns,
		Walks:           ev.Walks,
		Strikeouts:      ev.Strikeouts,
		HomeRunsAllowed: ev.HomeRunsAllowed,
	}
	if ev.Win {
		s.Wins = 1
	}
	if ev.Loss {
		s.Losses = 1
	}
	if ev.Save {
		s.Saves = 1
	}
	return s, nil
}

// ComputePitchingStats folds pitching lines into one accumulator
func ComputePitchingStats(events []models.PitchingEvent) (PitchingStats, error) {
	var total PitchingStats
	for _, ev := range events {
		s, err := pitchingFromEvent(ev)
		if err != nil {
			return PitchingStats{}, fmt.Errorf("invalid pitching line %s in game %s: %w", ev.ID, ev.GameID, err)
		}
		total = total.Merge(s)
	}
	return total, nil
}
