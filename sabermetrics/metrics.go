package sabermetrics

import "math"

// Every metric returns nil when its denominator is zero. A nil input to a
// composite metric makes the composite nil as well.

// Weights applied to each way of reaching base in wOBA
type Weights struct {
	Walk       float64
	HitByPitch float64
	Single     float64
	Double     float64
	Triple     float64
	HomeRun    float64
}

// WOBAWeights are the linear weights used by WOBA
var WOBAWeights = Weights{
	Walk:       0.69,
	HitByPitch: 0.72,
	Single:     0.87,
	Double:     1.27,
	Triple:     1.62,
	HomeRun:    2.10,
}

// FIPConstant puts FIP on the ERA scale
var FIPConstant = 3.10

func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}

func perNine(count int, s PitchingStats) *float64 {
	return ratio(float64(count)*9, s.InningsDecimal())
}

// AVG is hits per at-bat
func AVG(s BattingStats) *float64 {
	return ratio(float64(s.Hits), float64(s.AtBats()))
}

// OBP is times on base per plate appearance, excluding sacrifice bunts
func OBP(s BattingStats) *float64 {
	return ratio(
		float64(s.Hits+s.Walks+s.HitByPitch),
		float64(s.AtBats()+s.Walks+s.HitByPitch+s.SacrificeFlies),
	)
}

// SLG is total bases per at-bat
func SLG(s BattingStats) *float64 {
	return ratio(float64(s.TotalBases()), float64(s.AtBats()))
}

// OPS is OBP plus SLG
func OPS(s BattingStats) *float64 {
	obp, slg := OBP(s), SLG(s)
	if obp == nil || slg == nil {
		return nil
	}
	v := *obp + *slg
	return &v
}

// ISO is SLG minus AVG
func ISO(s BattingStats) *float64 {
	slg, avg := SLG(s), AVG(s)
	if slg == nil || avg == nil {
		return nil
	}
	v := *slg - *avg
	return &v
}

// WOBA weighs each way of reaching base by its run value
func WOBA(s BattingStats) *float64 {
	w := WOBAWeights
	num := w.Walk*float64(s.Walks) +
		w.HitByPitch*float64(s.HitByPitch) +
		w.Single*float64(s.Singles()) +
		w.Double*float64(s.Doubles) +
		w.Triple*float64(s.Triples) +
		w.HomeRun*float64(s.HomeRuns)
	return ratio(num, float64(s.AtBats()+s.Walks+s.SacrificeFlies+s.HitByPitch))
}

// BBRate is walks per plate appearance
func BBRate(s BattingStats) *float64 {
	return ratio(float64(s.Walks), float64(s.PlateAppearances))
}

// KRate is strikeouts per plate appearance
func KRate(s BattingStats) *float64 {
	return ratio(float64(s.Strikeouts), float64(s.PlateAppearances))
}

// BABIP is the average on balls put in play
func BABIP(s BattingStats) *float64 {
	return ratio(
		float64(s.Hits-s.HomeRuns),
		float64(s.AtBats()-s.Strikeouts-s.HomeRuns+s.SacrificeFlies),
	)
}

// ERA is earned runs per nine innings
func ERA(s PitchingStats) *float64 {
	return perNine(s.EarnedRuns, s)
}

// WHIP is walks plus hits per inning
func WHIP(s PitchingStats) *float64 {
	return ratio(float64(s.Walks+s.HitsAllowed), s.InningsDecimal())
}

// KPer9 is strikeouts per nine innings
func KPer9(s PitchingStats) *float64 {
	return perNine(s.Strikeouts, s)
}

// BBPer9 is walks per nine innings
func BBPer9(s PitchingStats) *float64 {
	return perNine(s.Walks, s)
}

// HRPer9 is home runs allowed per nine innings
func HRPer9(s PitchingStats) *float64 {
	return perNine(s.HomeRunsAllowed, s)
}

// KBBRatio is strikeouts per walk. With no walks and at least one
// strikeout the ratio is unbounded and the result is +Inf; callers must
// check math.IsInf before formatting or encoding it.
func KBBRatio(s PitchingStats) *float64 {
	if s.Walks == 0 {
		if s.Strikeouts == 0 {
			return nil
		}
		v := math.Inf(1)
		return &v
	}
	return ratio(float64(s.Strikeouts), float64(s.Walks))
}

// FIP is fielding independent pitching
func FIP(s PitchingStats) *float64 {
	raw := ratio(float64(13*s.HomeRunsAllowed+3*s.Walks-2*s.Strikeouts), s.InningsDecimal())
	if raw == nil {
		return nil
	}
	v := *raw + FIPConstant
	return &v
}
