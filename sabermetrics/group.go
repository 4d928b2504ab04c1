package sabermetrics

import (
	"fmt"
	"sort"

	"github.com/shane-shim/statz-kr/models"
)

// PlayerBatting is one player's batting accumulator
type PlayerBatting struct {
	PlayerID   string       `json:"player_id"`
	PlayerName string       `json:"player_name"`
	Stats      BattingStats `json:"stats"`
}

// PlayerPitching is one player's pitching accumulator
type PlayerPitching struct {
	PlayerID   string        `json:"player_id"`
	PlayerName string        `json:"player_name"`
	Stats      PitchingStats `json:"stats"`
}

// GroupBattingByPlayer sums at-bat events per player. Players appear in the
// order of their first event.
func GroupBattingByPlayer(events []models.AtBatEvent) ([]PlayerBatting, error) {
	index := make(map[string]int)
	var players []PlayerBatting

	for _, ev := range events {
		s, err := battingFromEvent(ev)
		if err != nil {
			return nil, fmt.Errorf("invalid at-bat %s in game %s: %w", ev.ID, ev.GameID, err)
		}
		i, ok := index[ev.PlayerID]
		if !ok {
			i = len(players)
			index[ev.PlayerID] = i
			players = append(players, PlayerBatting{PlayerID: ev.PlayerID, PlayerName: ev.PlayerName})
		}
		players[i].Stats = players[i].Stats.Merge(s)
	}

	for _, p := range players {
		if err := p.Stats.Validate(); err != nil {
			return nil, fmt.Errorf("player %s: %w", p.PlayerID, err)
		}
	}
	return players, nil
}

// GroupPitchingByPlayer sums pitching lines per player
func GroupPitchingByPlayer(events []models.PitchingEvent) ([]PlayerPitching, error) {
	index := make(map[string]int)
	var players []PlayerPitching

	for _, ev := range events {
		s, err := pitchingFromEvent(ev)
		if err != nil {
			return nil, fmt.Errorf("invalid pitching line %s in game %s: %w", ev.ID, ev.GameID, err)
		}
		i, ok := index[ev.PlayerID]
		if !ok {
			i = len(players)
			index[ev.PlayerID] = i
			players = append(players, PlayerPitching{PlayerID: ev.PlayerID, PlayerName: ev.PlayerName})
		}
		players[i].Stats = players[i].Stats.Merge(s)
	}
	return players, nil
}

// BattingMetrics lists the batting metrics a leaderboard can rank by
var BattingMetrics = map[string]func(BattingStats) *float64{
	"avg":  AVG,
	"obp":  OBP,
	"slg":  SLG,
	"ops":  OPS,
	"iso":  ISO,
	"woba": WOBA,
}

// LeaderboardEntry is one ranked player
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	AtBats     int     `json:"at_bats"`
	Value      float64 `json:"value"`
	Display    string  `json:"display"`
}

// Leaderboard ranks players by a batting metric, highest first. Players
// under minAtBats or with an absent metric are left out. A limit of zero
// or less returns everyone who qualifies.
func Leaderboard(players []PlayerBatting, metric string, minAtBats, limit int) ([]LeaderboardEntry, error) {
	fn, ok := BattingMetrics[metric]
	if !ok {
		return nil, fmt.Errorf("%w: unknown leaderboard metric %q", models.ErrInvalidParameter, metric)
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		if p.Stats.AtBats() < minAtBats {
			continue
		}
		v := fn(p.Stats)
		if v == nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			AtBats:     p.Stats.AtBats(),
			Value:      *v,
			Display:    FormatAvg(v),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].PlayerName < entries[j].PlayerName
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// TeamRecord is the club's results over a set of games
type TeamRecord struct {
	Games              int      `json:"games"`
	Wins               int      `json:"wins"`
	Losses             int      `json:"losses"`
	Draws              int      `json:"draws"`
	RunsFor            int      `json:"runs_for"`
	RunsAgainst        int      `json:"runs_against"`
	WinRate            *float64 `json:"win_rate"` // wins over all games
	WinPct             *float64 `json:"win_pct"`  // wins over decisions
	RunsPerGame        *float64 `json:"runs_per_game"`
	RunsAllowedPerGame *float64 `json:"runs_allowed_per_game"`
}

// ComputeTeamRecord tallies game results. The stored result is not trusted;
// it is derived again from the score.
func ComputeTeamRecord(games []models.GameRecord) TeamRecord {
	var r TeamRecord
	for _, g := range games {
		r.Games++
		r.RunsFor += g.OurScore
		r.RunsAgainst += g.TheirScore
		switch models.DeriveResult(g.OurScore, g.TheirScore) {
		case models.ResultWin:
			r.Wins++
		case models.ResultLoss:
			r.Losses++
		default:
			r.Draws++
		}
	}

	r.WinRate = ratio(float64(r.Wins), float64(r.Games))
	r.WinPct = ratio(float64(r.Wins), float64(r.Wins+r.Losses))
	r.RunsPerGame = ratio(float64(r.RunsFor), float64(r.Games))
	r.RunsAllowedPerGame = ratio(float64(r.RunsAgainst), float64(r.Games))
	return r
}
