package main

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/shane-shim/statz-kr/models"
	"github.com/shane-shim/statz-kr/sabermetrics"
	"github.com/shane-shim/statz-kr/simulation"
	"github.com/shane-shim/statz-kr/store"
)

type GameRequest struct {
	ID         string `json:"game_id"`
	Date       string `json:"date"`
	Opponent   string `json:"opponent"`
	HomeAway   string `json:"home_away"`
	OurScore   int    `json:"our_score"`
	TheirScore int    `json:"their_score"`
	Venue      string `json:"venue"`
	Note       string `json:"note"`
}

// AtBatRequest records one plate appearance by hand. RBIs and runs are
// declared by the scorer; the counting flags follow from the result.
type AtBatRequest struct {
	GameID         string `json:"game_id"`
	PlayerID       string `json:"player_id"`
	Inning         int    `json:"inning"`
	BattingOrder   int    `json:"batting_order_slot"`
	Result         string `json:"result_category"`
	HitType        string `json:"hit_subtype"`
	RBIs           int    `json:"rbis"`
	Runs           int    `json:"runs"`
	StolenBases    int    `json:"stolen_bases"`
	CaughtStealing int    `json:"caught_stealing"`
}

type GameDetail struct {
	Game     models.GameRecord      `json:"game"`
	AtBats   []models.AtBatEvent    `json:"at_bats"`
	Pitching []models.PitchingEvent `json:"pitching"`
}

type SeasonRequest struct {
	RunID          string   `json:"run_id,omitempty"`
	Games          int      `json:"games,omitempty"`
	Seed           *int64   `json:"seed,omitempty"`
	Innings        int      `json:"innings,omitempty"`
	LineupSize     int      `json:"lineup_size,omitempty"`
	InningsPitched *float64 `json:"innings_pitched,omitempty"`
	StartDate      string   `json:"start_date,omitempty"`
	Opponents      []string `json:"opponents,omitempty"`
	Venues         []string `json:"venues,omitempty"`
}

type SimulationResponse struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":   "healthy",
		"time":     time.Now().UTC(),
		"workers":  s.config.Simulation.Workers,
		"database": s.config.Database.Driver,
	}

	if p, ok := s.store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			health["status"] = "unhealthy"
			health["error"] = err.Error()
			writeJSONStatus(w, http.StatusServiceUnavailable, health)
			return
		}
	}

	writeJSON(w, health)
}

func (s *Server) listPlayersHandler(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.Players(r.Context())
	if err != nil {
		writeStoreError(w, "list players", err)
		return
	}
	writeJSON(w, nonNil(players))
}

func (s *Server) createPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var p models.Player
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := s.store.AddPlayer(r.Context(), p)
	if err != nil {
		writeStoreError(w, "add player", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, created)
}

func (s *Server) listGamesHandler(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.Games(r.Context())
	if err != nil {
		writeStoreError(w, "list games", err)
		return
	}
	writeJSON(w, nonNil(games))
}

func (s *Server) createGameHandler(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := normalizeDate(req.Date)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	game := models.NewGameRecord(req.ID, date, req.Opponent, models.HomeAway(req.HomeAway),
		req.OurScore, req.TheirScore, req.Venue, req.Note)
	created, err := s.store.AddGame(r.Context(), game)
	if err != nil {
		writeStoreError(w, "add game", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, created)
}

func (s *Server) gameHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := r.Context()

	game, err := s.store.Game(ctx, id)
	if err != nil {
		writeStoreError(w, "load game", err)
		return
	}
	atBats, err := s.store.AtBats(ctx, store.Filter{GameID: id})
	if err != nil {
		writeStoreError(w, "load at-bats", err)
		return
	}
	pitching, err := s.store.Pitching(ctx, store.Filter{GameID: id})
	if err != nil {
		writeStoreError(w, "load pitching", err)
		return
	}

	writeJSON(w, GameDetail{Game: game, AtBats: nonNil(atBats), Pitching: nonNil(pitching)})
}

func (s *Server) listAtBatsHandler(w http.ResponseWriter, r *http.Request) {
	params, err := parseQueryParams(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := s.store.AtBats(r.Context(), params.filter())
	if err != nil {
		writeStoreError(w, "list at-bats", err)
		return
	}
	writeJSON(w, nonNil(events))
}

func (s *Server) createAtBatHandler(w http.ResponseWriter, r *http.Request) {
	var req AtBatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	outcome := models.Outcome{Category: models.Category(req.Result), HitKind: models.HitKind(req.HitType)}
	if err := outcome.Validate(); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := s.store.Game(ctx, req.GameID); err != nil {
		writeStoreError(w, "load game", err)
		return
	}
	player, err := s.store.Player(ctx, req.PlayerID)
	if err != nil {
		writeStoreError(w, "load player", err)
		return
	}

	runs := req.Runs
	if outcome.HitKind == models.HitHomeRun {
		runs = 1
	}
	ev := models.NewAtBatEvent(req.GameID, player, req.Inning, req.BattingOrder, outcome,
		models.PlayResult{RBIs: req.RBIs, BatterRuns: runs})
	ev.StolenBases = req.StolenBases
	ev.CaughtStealing = req.CaughtStealing

	created, err := s.store.AddAtBat(ctx, ev)
	if err != nil {
		writeStoreError(w, "add at-bat", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, created)
}

func (s *Server) listPitchingHandler(w http.ResponseWriter, r *http.Request) {
	params, err := parseQueryParams(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := s.store.Pitching(r.Context(), params.filter())
	if err != nil {
		writeStoreError(w, "list pitching", err)
		return
	}
	writeJSON(w, nonNil(events))
}

func (s *Server) createPitchingHandler(w http.ResponseWriter, r *http.Request) {
	var ev models.PitchingEvent
	if err := decodeJSON(r, &ev); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	if _, err := s.store.Game(ctx, ev.GameID); err != nil {
		writeStoreError(w, "load game", err)
		return
	}
	if ev.PlayerName == "" {
		player, err := s.store.Player(ctx, ev.PlayerID)
		if err != nil {
			writeStoreError(w, "load player", err)
			return
		}
		ev.PlayerName = player.Name
	}

	created, err := s.store.AddPitching(ctx, ev)
	if err != nil {
		writeStoreError(w, "add pitching line", err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, created)
}

// playerName resolves the display name for a player with no records yet
func (s *Server) playerName(ctx context.Context, id string) (string, error) {
	p, err := s.store.Player(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

func (s *Server) playerBattingHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := r.Context()

	events, err := s.store.AtBats(ctx, store.Filter{PlayerID: id})
	if err != nil {
		writeStoreError(w, "load at-bats", err)
		return
	}
	grouped, err := sabermetrics.GroupBattingByPlayer(events)
	if err != nil {
		writeStoreError(w, "compute batting stats", err)
		return
	}

	player := sabermetrics.PlayerBatting{PlayerID: id}
	if len(grouped) > 0 {
		player = grouped[0]
	} else if player.PlayerName, err = s.playerName(ctx, id); err != nil {
		writeStoreError(w, "load player", err)
		return
	}
	writeJSON(w, sabermetrics.NewBattingReport(player))
}

func (s *Server) playerPitchingHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := r.Context()

	events, err := s.store.Pitching(ctx, store.Filter{PlayerID: id})
	if err != nil {
		writeStoreError(w, "load pitching", err)
		return
	}
	grouped, err := sabermetrics.GroupPitchingByPlayer(events)
	if err != nil {
		writeStoreError(w, "compute pitching stats", err)
		return
	}

	player := sabermetrics.PlayerPitching{PlayerID: id}
	if len(grouped) > 0 {
		player = grouped[0]
	} else if player.PlayerName, err = s.playerName(ctx, id); err != nil {
		writeStoreError(w, "load player", err)
		return
	}
	writeJSON(w, sabermetrics.NewPitchingReport(player))
}

func (s *Server) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	params, err := parseQueryParams(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := s.store.AtBats(r.Context(), store.Filter{})
	if err != nil {
		writeStoreError(w, "load at-bats", err)
		return
	}
	players, err := sabermetrics.GroupBattingByPlayer(events)
	if err != nil {
		writeStoreError(w, "compute batting stats", err)
		return
	}

	entries, err := sabermetrics.Leaderboard(players, params.Metric, params.MinAtBats, params.Limit)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]interface{}{
		"metric":  params.Metric,
		"min_ab":  params.MinAtBats,
		"entries": entries,
	})
}

func (s *Server) teamRecordHandler(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.Games(r.Context())
	if err != nil {
		writeStoreError(w, "list games", err)
		return
	}

	record := sabermetrics.ComputeTeamRecord(games)
	writeJSON(w, map[string]interface{}{
		"team":   s.config.Team.Name,
		"record": record,
		"display": map[string]string{
			"win_rate": sabermetrics.FormatPercentage(record.WinRate),
			"win_pct":  sabermetrics.FormatAvg(record.WinPct),
		},
	})
}

// seasonConfig fills a season request from the configured defaults
func (s *Server) seasonConfig(req SeasonRequest) (simulation.SeasonConfig, error) {
	sim := s.config.Simulation
	cfg := simulation.SeasonConfig{
		Roster:         s.config.Team.Roster(),
		Games:          sim.Games,
		Seed:           sim.Seed,
		Innings:        sim.Innings,
		LineupSize:     sim.LineupSize,
		InningsPitched: req.InningsPitched,
		Opponents:      sim.Opponents,
		Venues:         sim.Venues,
	}
	if req.Games > 0 {
		cfg.Games = req.Games
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.Innings > 0 {
		cfg.Innings = req.Innings
	}
	if req.LineupSize > 0 {
		cfg.LineupSize = req.LineupSize
	}
	if len(req.Opponents) > 0 {
		cfg.Opponents = req.Opponents
	}
	if len(req.Venues) > 0 {
		cfg.Venues = req.Venues
	}
	if req.StartDate != "" {
		date, err := normalizeDate(req.StartDate)
		if err != nil {
			return cfg, err
		}
		cfg.StartDate, _ = time.Parse("2006-01-02", date)
	}
	return cfg, nil
}

func (s *Server) simulateSeasonHandler(w http.ResponseWriter, r *http.Request) {
	var req SeasonRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	cfg, err := s.seasonConfig(req)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	if err := s.simEngine.StartSeason(runID, cfg); err != nil {
		writeStoreError(w, "start simulation", err)
		return
	}

	writeJSONStatus(w, http.StatusAccepted, SimulationResponse{
		RunID:     runID,
		Status:    simulation.StatusPending,
		Message:   "Season simulation started",
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Server) simulationStatusHandler(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	status, ok := s.simEngine.GetRunStatus(runID)
	if !ok {
		writeError(w, "Simulation run not found", http.StatusNotFound)
		return
	}

	progress := 0.0
	if status.TotalGames > 0 {
		progress = float64(status.CompletedGames) / float64(status.TotalGames) * 100
	}
	writeJSON(w, map[string]interface{}{
		"run":      status,
		"progress": progress,
	})
}

// nonNil keeps empty lists encoding as [] instead of null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
