package store

import (
	"time"

	"github.com/shane-shim/statz-kr/models"
)

// Demonstration season: five players, three games and a handful of
// plate appearances.

func sampleDate(date string) time.Time {
	t, _ := time.Parse("2006-01-02", date)
	return t
}

func samplePlayers() []models.Player {
	created := sampleDate("2024-01-01")
	return []models.Player{
		{ID: "P001", Name: "김민수", Number: 1, Position: models.PositionPitcher, BatThrow: "R/R", CreatedAt: created},
		{ID: "P002", Name: "이정훈", Number: 7, Position: "OF", BatThrow: "R/L", CreatedAt: created},
		{ID: "P003", Name: "박성호", Number: 25, Position: "IF", BatThrow: "R/R", CreatedAt: created},
		{ID: "P004", Name: "최동욱", Number: 13, Position: "C", BatThrow: "R/R", CreatedAt: created},
		{ID: "P005", Name: "정재원", Number: 3, Position: "IF", BatThrow: "R/L", CreatedAt: created},
	}
}

func sampleGames() []models.GameRecord {
	games := []models.GameRecord{
		models.NewGameRecord("G001", "2024-03-10", "청룡", models.Home, 5, 3, "잠실구장", "개막전"),
		models.NewGameRecord("G002", "2024-03-17", "백호", models.Away, 2, 4, "인천구장", ""),
		models.NewGameRecord("G003", "2024-03-24", "현무", models.Home, 7, 7, "잠실구장", "연장 없음"),
	}
	for i := range games {
		games[i].CreatedAt = sampleDate(games[i].Date)
	}
	return games
}

func sampleAtBats() []models.AtBatEvent {
	single := models.Hit(models.HitSingle)
	double := models.Hit(models.HitDouble)
	homer := models.Hit(models.HitHomeRun)
	out := models.Of(models.CategoryOut)

	ab := func(id, game, player, name string, inning, slot int, o models.Outcome, rbis, runs int) models.AtBatEvent {
		return models.AtBatEvent{
			ID: id, GameID: game, PlayerID: player, PlayerName: name,
			Inning: inning, BattingOrder: slot, Result: o.Category, HitType: o.HitKind,
			RBIs: rbis, Runs: runs,
		}
	}

	events := []models.AtBatEvent{
		ab("AB001", "G001", "P002", "이정훈", 1, 1, single, 0, 1),
		ab("AB002", "G001", "P002", "이정훈", 3, 1, double, 2, 0),
		ab("AB003", "G001", "P002", "이정훈", 5, 1, models.Of(models.CategoryStrikeout), 0, 0),
		ab("AB004", "G001", "P002", "이정훈", 7, 1, models.Of(models.CategoryWalk), 0, 1),
		ab("AB005", "G001", "P003", "박성호", 1, 3, out, 0, 0),
		ab("AB006", "G001", "P003", "박성호", 3, 3, single, 1, 0),
		ab("AB007", "G001", "P003", "박성호", 5, 3, homer, 2, 1),
		ab("AB008", "G002", "P002", "이정훈", 1, 1, single, 0, 0),
		ab("AB009", "G002", "P002", "이정훈", 4, 1, models.Of(models.CategoryStrikeout), 0, 0),
		ab("AB010", "G002", "P002", "이정훈", 7, 1, out, 0, 0),
	}
	events[2].Strikeouts = 1
	events[3].Walks = 1
	events[3].StolenBases = 1
	events[8].Strikeouts = 1

	for i := range events {
		date := "2024-03-10"
		if events[i].GameID == "G002" {
			date = "2024-03-17"
		}
		events[i].CreatedAt = sampleDate(date)
	}
	return events
}

func samplePitching() []models.PitchingEvent {
	return []models.PitchingEvent{
		{
			ID: "PT001", GameID: "G001", PlayerID: "P001", PlayerName: "김민수",
			Innings: 7.0, HitsAllowed: 5, RunsAllowed: 3, EarnedRuns: 2, Walks: 2, Strikeouts: 8,
			HomeRunsAllowed: 1, Win: true, CreatedAt: sampleDate("2024-03-10"),
		},
		{
			ID: "PT002", GameID: "G002", PlayerID: "P001", PlayerName: "김민수",
			Innings: 6.0, HitsAllowed: 8, RunsAllowed: 4, EarnedRuns: 4, Walks: 3, Strikeouts: 5,
			Loss: true, CreatedAt: sampleDate("2024-03-17"),
		},
	}
}
