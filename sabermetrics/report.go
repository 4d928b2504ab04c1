package sabermetrics

import (
	"encoding/json"
	"math"
)

// Rate is a metric value that encodes to JSON even when unbounded.
// Absent values are nil pointers and encode as null.
type Rate float64

// MarshalJSON writes +Inf as the string "inf"
func (r Rate) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(r), 1) {
		return json.Marshal("inf")
	}
	return json.Marshal(float64(r))
}

func rate(v *float64) *Rate {
	if v == nil {
		return nil
	}
	r := Rate(*v)
	return &r
}

// BattingReport is a player's batting counting stats with every metric
type BattingReport struct {
	PlayerID   string            `json:"player_id"`
	PlayerName string            `json:"player_name"`
	Stats      BattingStats      `json:"stats"`
	AtBats     int               `json:"at_bats"`
	Singles    int               `json:"singles"`
	TotalBases int               `json:"total_bases"`
	AVG        *Rate             `json:"avg"`
	OBP        *Rate             `json:"obp"`
	SLG        *Rate             `json:"slg"`
	OPS        *Rate             `json:"ops"`
	ISO        *Rate             `json:"iso"`
	WOBA       *Rate             `json:"woba"`
	BBRate     *Rate             `json:"bb_rate"`
	KRate      *Rate             `json:"k_rate"`
	BABIP      *Rate             `json:"babip"`
	Display    map[string]string `json:"display"`
}

// NewBattingReport computes every batting metric for one accumulator
func NewBattingReport(p PlayerBatting) BattingReport {
	s := p.Stats
	avg, obp, slg, ops := AVG(s), OBP(s), SLG(s), OPS(s)
	iso, woba, bb, k, babip := ISO(s), WOBA(s), BBRate(s), KRate(s), BABIP(s)

	return BattingReport{
		PlayerID:   p.PlayerID,
		PlayerName: p.PlayerName,
		Stats:      s,
		AtBats:     s.AtBats(),
		Singles:    s.Singles(),
		TotalBases: s.TotalBases(),
		AVG:        rate(avg),
		OBP:        rate(obp),
		SLG:        rate(slg),
		OPS:        rate(ops),
		ISO:        rate(iso),
		WOBA:       rate(woba),
		BBRate:     rate(bb),
		KRate:      rate(k),
		BABIP:      rate(babip),
		Display: map[string]string{
			"avg":     FormatAvg(avg),
			"obp":     FormatAvg(obp),
			"slg":     FormatAvg(slg),
			"ops":     FormatAvg(ops),
			"iso":     FormatAvg(iso),
			"woba":    FormatAvg(woba),
			"bb_rate": FormatPercentage(bb),
			"k_rate":  FormatPercentage(k),
			"babip":   FormatAvg(babip),
		},
	}
}

// PitchingReport is a pitcher's counting stats with every metric
type PitchingReport struct {
	PlayerID       string            `json:"player_id"`
	PlayerName     string            `json:"player_name"`
	Stats          PitchingStats     `json:"stats"`
	InningsPitched float64           `json:"innings_pitched"`
	ERA            *Rate             `json:"era"`
	WHIP           *Rate             `json:"whip"`
	KPer9          *Rate             `json:"k_per_9"`
	BBPer9         *Rate             `json:"bb_per_9"`
	HRPer9         *Rate             `json:"hr_per_9"`
	KBB            *Rate             `json:"k_bb"`
	FIP            *Rate             `json:"fip"`
	Display        map[string]string `json:"display"`
}

// NewPitchingReport computes every pitching metric for one accumulator
func NewPitchingReport(p PlayerPitching) PitchingReport {
	s := p.Stats
	era, whip, k9, bb9 := ERA(s), WHIP(s), KPer9(s), BBPer9(s)
	hr9, kbb, fip := HRPer9(s), KBBRatio(s), FIP(s)
	ip := s.InningsPitched()

	return PitchingReport{
		PlayerID:       p.PlayerID,
		PlayerName:     p.PlayerName,
		Stats:          s,
		InningsPitched: ip,
		ERA:            rate(era),
		WHIP:           rate(whip),
		KPer9:          rate(k9),
		BBPer9:         rate(bb9),
		HRPer9:         rate(hr9),
		KBB:            rate(kbb),
		FIP:            rate(fip),
		Display: map[string]string{
			"innings_pitched": FormatStat(&ip, 1),
			"era":             FormatERA(era),
			"whip":            FormatERA(whip),
			"k_per_9":         FormatERA(k9),
			"bb_per_9":        FormatERA(bb9),
			"hr_per_9":        FormatERA(hr9),
			"k_bb":            FormatERA(kbb),
			"fip":             FormatERA(fip),
		},
	}
}
