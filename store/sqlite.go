package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/shane-shim/statz-kr/models"
)

// SQLiteStore persists records in a local SQLite file
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite migrates the database at path and opens it
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := Migrate(DriverSQLite, path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

const (
	sqlInsertAtBat = `INSERT INTO at_bats (` + atBatColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// sqliteInsertError reports a unique or primary key violation as a
// duplicate record
func sqliteInsertError(record string, err error) error {
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s already exists", models.ErrInvalidParameter, record)
		}
	}
	return fmt.Errorf("failed to insert %s: %w", record, err)
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *SQLiteStore) AddPlayer(ctx context.Context, p models.Player) (models.Player, error) {
	p, err := preparePlayer(p)
	if err != nil {
		return p, err
	}

	_, err = s.conn.ExecContext(ctx, `INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Number, p.Position, p.BatThrow, p.SkillBonus, formatTime(p.CreatedAt))
	if err != nil {
		return p, sqliteInsertError("player "+p.ID, err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLitePlayer(row scanner) (models.Player, error) {
	var p models.Player
	var created string
	err := row.Scan(&p.ID, &p.Name, &p.Number, &p.Position, &p.BatThrow, &p.SkillBonus, &created)
	p.CreatedAt = parseTime(created)
	return p, err
}

func (s *SQLiteStore) Players(ctx context.Context) ([]models.Player, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanSQLitePlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) Player(ctx context.Context, id string) (models.Player, error) {
	p, err := scanSQLitePlayer(s.conn.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("failed to load player: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) AddGame(ctx context.Context, g models.GameRecord) (models.GameRecord, error) {
	g, err := prepareGame(g)
	if err != nil {
		return g, err
	}

	_, err = s.conn.ExecContext(ctx, `INSERT INTO games (`+gameColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Date, g.Opponent, string(g.HomeAway), g.OurScore, g.TheirScore, string(g.Result), g.Venue, g.Note, formatTime(g.CreatedAt))
	if err != nil {
		return g, sqliteInsertError("game "+g.ID, err)
	}
	return g, nil
}

func scanSQLiteGame(row scanner) (models.GameRecord, error) {
	var g models.GameRecord
	var homeAway, result, created string
	err := row.Scan(&g.ID, &g.Date, &g.Opponent, &homeAway, &g.OurScore, &g.TheirScore, &result, &g.Venue, &g.Note, &created)
	g.HomeAway = models.HomeAway(homeAway)
	g.Result = models.Result(result)
	g.CreatedAt = parseTime(created)
	return g, err
}

func (s *SQLiteStore) Games(ctx context.Context) ([]models.GameRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY game_date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []models.GameRecord
	for rows.Next() {
		g, err := scanSQLiteGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *SQLiteStore) Game(ctx context.Context, id string) (models.GameRecord, error) {
	g, err := scanSQLiteGame(s.conn.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return g, fmt.Errorf("failed to load game: %w", err)
	}
	return g, nil
}

func sqliteAtBatArgs(ev models.AtBatEvent) []any {
	args := atBatArgs(ev)
	args[len(args)-1] = formatTime(ev.CreatedAt)
	return args
}

func (s *SQLiteStore) AddAtBat(ctx context.Context, ev models.AtBatEvent) (models.AtBatEvent, error) {
	ev, err := prepareAtBat(ev)
	if err != nil {
		return ev, err
	}
	if _, err := s.conn.ExecContext(ctx, sqlInsertAtBat, sqliteAtBatArgs(ev)...); err != nil {
		return ev, sqliteInsertError("at-bat "+ev.ID, err)
	}
	return ev, nil
}

// AddAtBats inserts the batch in one transaction
func (s *SQLiteStore) AddAtBats(ctx context.Context, events []models.AtBatEvent) ([]models.AtBatEvent, error) {
	prepared, err := prepareAtBats(events)
	if err != nil {
		return nil, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqlInsertAtBat)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare at-bat insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range prepared {
		if _, err := stmt.ExecContext(ctx, sqliteAtBatArgs(ev)...); err != nil {
			return nil, sqliteInsertError("at-bat "+ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit at-bats: %w", err)
	}
	return prepared, nil
}

func sqliteFilterClause(f Filter) (string, []any) {
	var clause string
	var args []any
	if f.GameID != "" {
		clause += " AND game_id = ?"
		args = append(args, f.GameID)
	}
	if f.PlayerID != "" {
		clause += " AND player_id = ?"
		args = append(args, f.PlayerID)
	}
	return " WHERE 1 = 1" + clause, args
}

func (s *SQLiteStore) AtBats(ctx context.Context, f Filter) ([]models.AtBatEvent, error) {
	where, args := sqliteFilterClause(f)
	rows, err := s.conn.QueryContext(ctx, `SELECT `+atBatColumns+` FROM at_bats`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query at-bats: %w", err)
	}
	defer rows.Close()

	var events []models.AtBatEvent
	for rows.Next() {
		var ev models.AtBatEvent
		var result, hitType, created string
		if err := rows.Scan(&ev.ID, &ev.GameID, &ev.PlayerID, &ev.PlayerName, &ev.Inning, &ev.BattingOrder,
			&result, &hitType, &ev.RBIs, &ev.Runs, &ev.StolenBases, &ev.CaughtStealing,
			&ev.Walks, &ev.Strikeouts, &ev.HitByPitch, &ev.SacrificeFlies, &ev.SacrificeBunts, &created); err != nil {
			return nil, fmt.Errorf("failed to scan at-bat: %w", err)
		}
		ev.Result = models.Category(result)
		ev.HitType = models.HitKind(hitType)
		ev.CreatedAt = parseTime(created)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) AddPitching(ctx context.Context, ev models.PitchingEvent) (models.PitchingEvent, error) {
	ev, err := preparePitching(ev)
	if err != nil {
		return ev, err
	}

	_, err = s.conn.ExecContext(ctx, `INSERT INTO pitching (`+pitchingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.GameID, ev.PlayerID, ev.PlayerName, ev.Innings, ev.HitsAllowed, ev.RunsAllowed, ev.EarnedRuns,
		ev.Walks, ev.Strikeouts, ev.HomeRunsAllowed, ev.Win, ev.Loss, ev.Save, formatTime(ev.CreatedAt))
	if err != nil {
		return ev, sqliteInsertError("pitching line "+ev.ID, err)
	}
	return ev, nil
}

func (s *SQLiteStore) Pitching(ctx context.Context, f Filter) ([]models.PitchingEvent, error) {
	where, args := sqliteFilterClause(f)
	rows, err := s.conn.QueryContext(ctx, `SELECT `+pitchingColumns+` FROM pitching`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pitching: %w", err)
	}
	defer rows.Close()

	var events []models.PitchingEvent
	for rows.Next() {
		var ev models.PitchingEvent
		var created string
		if err := rows.Scan(&ev.ID, &ev.GameID, &ev.PlayerID, &ev.PlayerName, &ev.Innings, &ev.HitsAllowed,
			&ev.RunsAllowed, &ev.EarnedRuns, &ev.Walks, &ev.Strikeouts, &ev.HomeRunsAllowed,
			&ev.Win, &ev.Loss, &ev.Save, &created); err != nil {
			return nil, fmt.Errorf("failed to scan pitching line: %w", err)
		}
		ev.CreatedAt = parseTime(created)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
