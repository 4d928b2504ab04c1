package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shane-shim/statz-kr/models"
)

// pgxIface is the part of *pgxpool.Pool the store uses
type pgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresConfig holds connection settings for PostgresStore
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	MaxConns int32
}

// URL returns the connection URL for the configured database with the
// credentials escaped
func (c PostgresConfig) URL() string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	return u.String()
}

// PostgresStore persists records in PostgreSQL
type PostgresStore struct {
	db pgxIface
}

// NewPostgresStore connects a pool to the configured database
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dbConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	if cfg.MaxConns > 0 {
		dbConfig.MaxConns = cfg.MaxConns
	}
	dbConfig.MaxConnLifetime = time.Hour
	dbConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

func newPostgresStore(db pgxIface) *PostgresStore {
	return &PostgresStore{db: db}
}

const (
	playerColumns   = `id, name, number, position, bat_throw, skill_bonus, created_at`
	gameColumns     = `id, game_date, opponent, home_away, our_score, their_score, result, venue, note, created_at`
	atBatColumns    = `id, game_id, player_id, player_name, inning, batting_order, result_category, hit_subtype, rbis, runs, stolen_bases, caught_stealing, walks, strikeouts, hit_by_pitch, sacrifice_flies, sacrifice_bunts, created_at`
	pitchingColumns = `id, game_id, player_id, player_name, innings, hits_allowed, runs_allowed, earned_runs, walks, strikeouts, home_runs_allowed, win, loss, save, created_at`
)

const pgUniqueViolation = "23505"

const pgInsertAtBat = `INSERT INTO at_bats (` + atBatColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

// insertError reports a unique violation as a duplicate record
func insertError(record string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s already exists", models.ErrInvalidParameter, record)
	}
	return fmt.Errorf("failed to insert %s: %w", record, err)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) AddPlayer(ctx context.Context, p models.Player) (models.Player, error) {
	p, err := preparePlayer(p)
	if err != nil {
		return p, err
	}

	_, err = s.db.Exec(ctx, `INSERT INTO players (`+playerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Number, p.Position, p.BatThrow, p.SkillBonus, p.CreatedAt)
	if err != nil {
		return p, insertError("player "+p.ID, err)
	}
	return p, nil
}

func scanPlayer(row pgx.Row) (models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.Name, &p.Number, &p.Position, &p.BatThrow, &p.SkillBonus, &p.CreatedAt)
	return p, err
}

func (s *PostgresStore) Players(ctx context.Context) ([]models.Player, error) {
	rows, err := s.db.Query(ctx, `SELECT `+playerColumns+` FROM players ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *PostgresStore) Player(ctx context.Context, id string) (models.Player, error) {
	p, err := scanPlayer(s.db.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return p, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("failed to load player: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) AddGame(ctx context.Context, g models.GameRecord) (models.GameRecord, error) {
	g, err := prepareGame(g)
	if err != nil {
		return g, err
	}

	_, err = s.db.Exec(ctx, `INSERT INTO games (`+gameColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		g.ID, g.Date, g.Opponent, string(g.HomeAway), g.OurScore, g.TheirScore, string(g.Result), g.Venue, g.Note, g.CreatedAt)
	if err != nil {
		return g, insertError("game "+g.ID, err)
	}
	return g, nil
}

func scanGame(row pgx.Row) (models.GameRecord, error) {
	var g models.GameRecord
	var homeAway, result string
	err := row.Scan(&g.ID, &g.Date, &g.Opponent, &homeAway, &g.OurScore, &g.TheirScore, &result, &g.Venue, &g.Note, &g.CreatedAt)
	g.HomeAway = models.HomeAway(homeAway)
	g.Result = models.Result(result)
	return g, err
}

func (s *PostgresStore) Games(ctx context.Context) ([]models.GameRecord, error) {
	rows, err := s.db.Query(ctx, `SELECT `+gameColumns+` FROM games ORDER BY game_date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []models.GameRecord
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *PostgresStore) Game(ctx context.Context, id string) (models.GameRecord, error) {
	g, err := scanGame(s.db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return g, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return g, fmt.Errorf("failed to load game: %w", err)
	}
	return g, nil
}

func atBatArgs(ev models.AtBatEvent) []any {
	return []any{
		ev.ID, ev.GameID, ev.PlayerID, ev.PlayerName, ev.Inning, ev.BattingOrder,
		string(ev.Result), string(ev.HitType), ev.RBIs, ev.Runs, ev.StolenBases, ev.CaughtStealing,
		ev.Walks, ev.Strikeouts, ev.HitByPitch, ev.SacrificeFlies, ev.SacrificeBunts, ev.CreatedAt,
	}
}

func (s *PostgresStore) AddAtBat(ctx context.Context, ev models.AtBatEvent) (models.AtBatEvent, error) {
	ev, err := prepareAtBat(ev)
	if err != nil {
		return ev, err
	}
	if _, err := s.db.Exec(ctx, pgInsertAtBat, atBatArgs(ev)...); err != nil {
		return ev, insertError("at-bat "+ev.ID, err)
	}
	return ev, nil
}

// AddAtBats inserts the batch in one transaction
func (s *PostgresStore) AddAtBats(ctx context.Context, events []models.AtBatEvent) ([]models.AtBatEvent, error) {
	prepared, err := prepareAtBats(events)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, ev := range prepared {
		if _, err := tx.Exec(ctx, pgInsertAtBat, atBatArgs(ev)...); err != nil {
			return nil, insertError("at-bat "+ev.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit at-bats: %w", err)
	}
	return prepared, nil
}

// filterClause builds the WHERE clause for a Filter starting at $1
func filterClause(f Filter) (string, []any) {
	var clause string
	var args []any
	if f.GameID != "" {
		args = append(args, f.GameID)
		clause += fmt.Sprintf(" AND game_id = $%d", len(args))
	}
	if f.PlayerID != "" {
		args = append(args, f.PlayerID)
		clause += fmt.Sprintf(" AND player_id = $%d", len(args))
	}
	return " WHERE TRUE" + clause, args
}

func (s *PostgresStore) AtBats(ctx context.Context, f Filter) ([]models.AtBatEvent, error) {
	where, args := filterClause(f)
	rows, err := s.db.Query(ctx, `SELECT `+atBatColumns+` FROM at_bats`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query at-bats: %w", err)
	}
	defer rows.Close()

	var events []models.AtBatEvent
	for rows.Next() {
		var ev models.AtBatEvent
		var result, hitType string
		if err := rows.Scan(&ev.ID, &ev.GameID, &ev.PlayerID, &ev.PlayerName, &ev.Inning, &ev.BattingOrder,
			&result, &hitType, &ev.RBIs, &ev.Runs, &ev.StolenBases, &ev.CaughtStealing,
			&ev.Walks, &ev.Strikeouts, &ev.HitByPitch, &ev.SacrificeFlies, &ev.SacrificeBunts, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan at-bat: %w", err)
		}
		ev.Result = models.Category(result)
		ev.HitType = models.HitKind(hitType)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *PostgresStore) AddPitching(ctx context.Context, ev models.PitchingEvent) (models.PitchingEvent, error) {
	ev, err := preparePitching(ev)
	if err != nil {
		return ev, err
	}

	_, err = s.db.Exec(ctx, `INSERT INTO pitching (`+pitchingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		ev.ID, ev.GameID, ev.PlayerID, ev.PlayerName, ev.Innings, ev.HitsAllowed, ev.RunsAllowed, ev.EarnedRuns,
		ev.Walks, ev.Strikeouts, ev.HomeRunsAllowed, ev.Win, ev.Loss, ev.Save, ev.CreatedAt)
	if err != nil {
		return ev, insertError("pitching line "+ev.ID, err)
	}
	return ev, nil
}

func (s *PostgresStore) Pitching(ctx context.Context, f Filter) ([]models.PitchingEvent, error) {
	where, args := filterClause(f)
	rows, err := s.db.Query(ctx, `SELECT `+pitchingColumns+` FROM pitching`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pitching: %w", err)
	}
	defer rows.Close()

	var events []models.PitchingEvent
	for rows.Next() {
		var ev models.PitchingEvent
		if err := rows.Scan(&ev.ID, &ev.GameID, &ev.PlayerID, &ev.PlayerName, &ev.Innings, &ev.HitsAllowed,
			&ev.RunsAllowed, &ev.EarnedRuns, &ev.Walks, &ev.Strikeouts, &ev.HomeRunsAllowed,
			&ev.Win, &ev.Loss, &ev.Save, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pitching line: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
