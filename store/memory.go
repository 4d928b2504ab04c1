package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/shane-shim/statz-kr/models"
)

// MemoryStore keeps every record in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	players  []models.Player
	games    []models.GameRecord
	atBats   []models.AtBatEvent
	pitching []models.PitchingEvent
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithSampleData seeds the store with a small demonstration season
func WithSampleData() MemoryOption {
	return func(m *MemoryStore) {
		m.players = append(m.players, samplePlayers()...)
		m.games = append(m.games, sampleGames()...)
		m.atBats = append(m.atBats, sampleAtBats()...)
		m.pitching = append(m.pitching, samplePitching()...)
	}
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStore) AddPlayer(_ context.Context, p models.Player) (models.Player, error) {
	p, err := preparePlayer(p)
	if err != nil {
		return p, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.players {
		if existing.ID == p.ID {
			return p, fmt.Errorf("%w: player %s already exists", models.ErrInvalidParameter, p.ID)
		}
	}
	m.players = append(m.players, p)
	return p, nil
}

func (m *MemoryStore) Players(_ context.Context) ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Player(nil), m.players...), nil
}

func (m *MemoryStore) Player(_ context.Context, id string) (models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Player{}, fmt.Errorf("player %s: %w", id, ErrNotFound)
}

func (m *MemoryStore) AddGame(_ context.Context, g models.GameRecord) (models.GameRecord, error) {
	g, err := prepareGame(g)
	if err != nil {
		return g, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.games {
		if existing.ID == g.ID {
			return g, fmt.Errorf("%w: game %s already exists", models.ErrInvalidParameter, g.ID)
		}
	}
	m.games = append(m.games, g)
	return g, nil
}

func (m *MemoryStore) Games(_ context.Context) ([]models.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.GameRecord(nil), m.games...), nil
}

func (m *MemoryStore) Game(_ context.Context, id string) (models.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.games {
		if g.ID == id {
			return g, nil
		}
	}
	return models.GameRecord{}, fmt.Errorf("game %s: %w", id, ErrNotFound)
}

func (m *MemoryStore) AddAtBat(ctx context.Context, ev models.AtBatEvent) (models.AtBatEvent, error) {
	added, err := m.AddAtBats(ctx, []models.AtBatEvent{ev})
	if err != nil {
		return ev, err
	}
	return added[0], nil
}

// AddAtBats appends the whole batch or nothing
func (m *MemoryStore) AddAtBats(_ context.Context, events []models.AtBatEvent) ([]models.AtBatEvent, error) {
	prepared, err := prepareAtBats(events)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.atBats {
		for _, ev := range prepared {
			if existing.ID == ev.ID {
				return nil, fmt.Errorf("%w: at-bat %s already exists", models.ErrInvalidParameter, ev.ID)
			}
		}
	}
	m.atBats = append(m.atBats, prepared...)
	return prepared, nil
}

func (m *MemoryStore) AtBats(_ context.Context, f Filter) ([]models.AtBatEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.AtBatEvent
	for _, ev := range m.atBats {
		if f.Matches(ev.GameID, ev.PlayerID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *MemoryStore) AddPitching(_ context.Context, ev models.PitchingEvent) (models.PitchingEvent, error) {
	ev, err := preparePitching(ev)
	if err != nil {
		return ev, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.pitching {
		if existing.ID == ev.ID {
			return ev, fmt.Errorf("%w: pitching line %s already exists", models.ErrInvalidParameter, ev.ID)
		}
	}
	m.pitching = append(m.pitching, ev)
	return ev, nil
}

func (m *MemoryStore) Pitching(_ context.Context, f Filter) ([]models.PitchingEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.PitchingEvent
	for _, ev := range m.pitching {
		if f.Matches(ev.GameID, ev.PlayerID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
