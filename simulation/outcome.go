package simulation

import (
	"fmt"

	"github.com/shane-shim/statz-kr/models"
)

// RandomSource is the random stream threaded through a simulation.
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

// Resolver produces the outcome of one plate appearance
type Resolver interface {
	Resolve(skillBonus float64, rng RandomSource) (models.Outcome, error)
}

// OutcomeTable holds the probability mass of each plate appearance class.
// The non-hit rates are consumed in order after the hit rate; the
// remainder is an out.
type OutcomeTable struct {
	HitRate        float64 `toml:"hit_rate" json:"hit_rate"`
	WalkRate       float64 `toml:"walk_rate" json:"walk_rate"`
	StrikeoutRate  float64 `toml:"strikeout_rate" json:"strikeout_rate"`
	HitByPitchRate float64 `toml:"hit_by_pitch_rate" json:"hit_by_pitch_rate"`

	// Cumulative thresholds for the hit kind draw; anything above
	// TripleBelow is a home run.
	SingleBelow float64 `toml:"single_below" json:"single_below"`
	DoubleBelow float64 `toml:"double_below" json:"double_below"`
	TripleBelow float64 `toml:"triple_below" json:"triple_below"`
}

// DefaultOutcomeTable is the run environment of the club's recreational league
func DefaultOutcomeTable() OutcomeTable {
	return OutcomeTable{
		HitRate:        0.25,
		WalkRate:       0.10,
		StrikeoutRate:  0.18,
		HitByPitchRate: 0.03,
		SingleBelow:    0.65,
		DoubleBelow:    0.85,
		TripleBelow:    0.95,
	}
}

// Validate checks every rate is a probability and the table never assigns
// more than the whole mass.
func (t OutcomeTable) Validate() error {
	rates := []struct {
		name  string
		value float64
	}{
		{"hit_rate", t.HitRate},
		{"walk_rate", t.WalkRate},
		{"strikeout_rate", t.StrikeoutRate},
		{"hit_by_pitch_rate", t.HitByPitchRate},
		{"single_below", t.SingleBelow},
		{"double_below", t.DoubleBelow},
		{"triple_below", t.TripleBelow},
	}
	for _, r := range rates {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", models.ErrInvalidParameter, r.name, r.value)
		}
	}

	if !(t.SingleBelow <= t.DoubleBelow && t.DoubleBelow <= t.TripleBelow) {
		return fmt.Errorf("%w: hit kind thresholds must be ascending", models.ErrInvalidParameter)
	}

	if total := t.total(0); total > 1 {
		return fmt.Errorf("%w: outcome rates sum to %.3f, more than 1", models.ErrInvalidParameter, total)
	}
	return nil
}

func (t OutcomeTable) total(skillBonus float64) float64 {
	return t.HitRate + skillBonus + t.WalkRate + t.StrikeoutRate + t.HitByPitchRate
}

// OutcomeGenerator draws plate appearance outcomes from an OutcomeTable.
// It holds no random state; every call draws from the source it is given.
type OutcomeGenerator struct {
	table OutcomeTable
}

// NewOutcomeGenerator validates the table and returns a generator for it
func NewOutcomeGenerator(table OutcomeTable) (*OutcomeGenerator, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create outcome generator: %w", err)
	}
	return &OutcomeGenerator{table: table}, nil
}

// Table returns the generator's outcome table
func (g *OutcomeGenerator) Table() OutcomeTable {
	return g.table
}

// Resolve draws one outcome for a batter with the given skill bonus
func (g *OutcomeGenerator) Resolve(skillBonus float64, rng RandomSource) (models.Outcome, error) {
	if skillBonus < 0 || skillBonus > 1 {
		return models.Outcome{}, fmt.Errorf("%w: skill bonus must be within [0,1], got %v", models.ErrInvalidParameter, skillBonus)
	}
	if total := g.table.total(skillBonus); total > 1 {
		return models.Outcome{}, fmt.Errorf("%w: skill bonus %v pushes outcome mass to %.3f", models.ErrInvalidParameter, skillBonus, total)
	}

	t := g.table
	r := rng.Float64()

	threshold := t.HitRate + skillBonus
	if r < threshold {
		return models.Hit(g.hitKind(rng.Float64())), nil
	}

	threshold += t.WalkRate
	if r < threshold {
		return models.Of(models.CategoryWalk), nil
	}

	threshold += t.StrikeoutRate
	if r < threshold {
		return models.Of(models.CategoryStrikeout), nil
	}

	threshold += t.HitByPitchRate
	if r < threshold {
		return models.Of(models.CategoryHitByPitch), nil
	}

	return models.Of(models.CategoryOut), nil
}

func (g *OutcomeGenerator) hitKind(r float64) models.HitKind {
	switch {
	case r < g.table.SingleBelow:
		return models.HitSingle
	case r < g.table.DoubleBelow:
		return models.HitDouble
	case r < g.table.TripleBelow:
		return models.HitTriple
	default:
		return models.HitHomeRun
	}
}
