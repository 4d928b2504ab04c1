package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shane-shim/statz-kr/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Filter narrows at-bat and pitching reads. Empty fields match everything.
type Filter struct {
	GameID   string
	PlayerID string
}

// Matches reports whether a record with the given game and player passes the filter
func (f Filter) Matches(gameID, playerID string) bool {
	if f.GameID != "" && f.GameID != gameID {
		return false
	}
	if f.PlayerID != "" && f.PlayerID != playerID {
		return false
	}
	return true
}

// Recorder is the append-and-read record store behind the club's scorebook.
// Implementations are safe for concurrent use and preserve insertion order
// on reads.
type Recorder interface {
	AddPlayer(ctx context.Context, p models.Player) (models.Player, error)
	Players(ctx context.Context) ([]models.Player, error)
	Player(ctx context.Context, id string) (models.Player, error)

	AddGame(ctx context.Context, g models.GameRecord) (models.GameRecord, error)
	Games(ctx context.Context) ([]models.GameRecord, error)
	Game(ctx context.Context, id string) (models.GameRecord, error)

	AddAtBat(ctx context.Context, ev models.AtBatEvent) (models.AtBatEvent, error)
	AddAtBats(ctx context.Context, events []models.AtBatEvent) ([]models.AtBatEvent, error)
	AtBats(ctx context.Context, f Filter) ([]models.AtBatEvent, error)

	AddPitching(ctx context.Context, ev models.PitchingEvent) (models.PitchingEvent, error)
	Pitching(ctx context.Context, f Filter) ([]models.PitchingEvent, error)

	Close() error
}

func newID() string {
	return uuid.NewString()
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func preparePlayer(p models.Player) (models.Player, error) {
	if p.Name == "" {
		return p, fmt.Errorf("%w: player name is required", models.ErrInvalidParameter)
	}
	if p.SkillBonus < 0 || p.SkillBonus > 1 {
		return p, fmt.Errorf("%w: skill bonus must be within [0,1], got %v", models.ErrInvalidParameter, p.SkillBonus)
	}
	if p.ID == "" {
		p.ID = newID()
	}
	p.CreatedAt = stamp(p.CreatedAt)
	return p, nil
}

func prepareGame(g models.GameRecord) (models.GameRecord, error) {
	if g.OurScore < 0 || g.TheirScore < 0 {
		return g, fmt.Errorf("%w: scores cannot be negative (%d-%d)", models.ErrDataIntegrity, g.OurScore, g.TheirScore)
	}
	switch g.HomeAway {
	case models.Home, models.Away:
	default:
		return g, fmt.Errorf("%w: home_away must be %q or %q, got %q", models.ErrInvalidParameter, models.Home, models.Away, g.HomeAway)
	}
	if g.ID == "" {
		g.ID = newID()
	}
	g.Result = models.DeriveResult(g.OurScore, g.TheirScore)
	g.CreatedAt = stamp(g.CreatedAt)
	return g, nil
}

func prepareAtBat(ev models.AtBatEvent) (models.AtBatEvent, error) {
	if ev.GameID == "" || ev.PlayerID == "" {
		return ev, fmt.Errorf("%w: at-bat requires game_id and player_id", models.ErrInvalidParameter)
	}
	if err := ev.Validate(); err != nil {
		return ev, err
	}
	if ev.ID == "" {
		ev.ID = newID()
	}
	ev.CreatedAt = stamp(ev.CreatedAt)
	return ev, nil
}

func preparePitching(ev models.PitchingEvent) (models.PitchingEvent, error) {
	if ev.GameID == "" || ev.PlayerID == "" {
		return ev, fmt.Errorf("%w: pitching line requires game_id and player_id", models.ErrInvalidParameter)
	}
	if err := ev.Validate(); err != nil {
		return ev, err
	}
	if ev.ID == "" {
		ev.ID = newID()
	}
	ev.CreatedAt = stamp(ev.CreatedAt)
	return ev, nil
}

func prepareAtBats(events []models.AtBatEvent) ([]models.AtBatEvent, error) {
	prepared := make([]models.AtBatEvent, len(events))
	seen := make(map[string]bool, len(events))
	for i, ev := range events {
		p, err := prepareAtBat(ev)
		if err != nil {
			return nil, fmt.Errorf("at-bat %d of batch: %w", i+1, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: at-bat %s appears twice in the batch", models.ErrInvalidParameter, p.ID)
		}
		seen[p.ID] = true
		prepared[i] = p
	}
	return prepared, nil
}
