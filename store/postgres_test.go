package store

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shane-shim/statz-kr/models"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return newPostgresStore(mock), mock
}

// TestPostgresAddPlayer tests the player insert
func TestPostgresAddPlayer(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO players").
		WithArgs("P1", "김민수", 1, "P", "R/R", 0.0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	p, err := s.AddPlayer(context.Background(), models.Player{ID: "P1", Name: "김민수", Number: 1, Position: "P", BatThrow: "R/R"})
	require.NoError(t, err)
	assert.Equal(t, "P1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresPlayerNotFound tests the no-rows mapping
func TestPostgresPlayerNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .* FROM players WHERE id").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Player(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresGames tests reading game records
func TestPostgresGames(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "game_date", "opponent", "home_away", "our_score", "their_score", "result", "venue", "note", "created_at"}).
		AddRow("G001", "2024-03-10", "청룡", "home", 5, 3, "win", "잠실구장", "개막전", created).
		AddRow("G002", "2024-03-17", "백호", "away", 2, 4, "loss", "인천구장", "", created)
	mock.ExpectQuery("SELECT .* FROM games ORDER BY game_date").WillReturnRows(rows)

	games, err := s.Games(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, models.Home, games[0].HomeAway)
	assert.Equal(t, models.ResultLoss, games[1].Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresAddAtBats tests the batch insert transaction
func TestPostgresAddAtBats(t *testing.T) {
	s, mock := newMockStore(t)
	batter := models.Player{ID: "P2", Name: "이정훈"}
	events := []models.AtBatEvent{
		models.NewAtBatEvent("G1", batter, 1, 1, models.Hit(models.HitSingle), models.PlayResult{}),
		models.NewAtBatEvent("G1", batter, 3, 1, models.Of(models.CategoryWalk), models.PlayResult{}),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO at_bats").
		WithArgs(pgxmock.AnyArg(), "G1", "P2", "이정훈", 1, 1, "hit", "single", 0, 0, 0, 0, 0, 0, 0, 0, 0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO at_bats").
		WithArgs(pgxmock.AnyArg(), "G1", "P2", "이정훈", 3, 1, "walk", "", 0, 0, 0, 0, 1, 0, 0, 0, 0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	added, err := s.AddAtBats(context.Background(), events)
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.NotEqual(t, added[0].ID, added[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresAddAtBatsRollback tests that a failed insert rolls back the batch
func TestPostgresAddAtBatsRollback(t *testing.T) {
	s, mock := newMockStore(t)
	events := []models.AtBatEvent{
		models.NewAtBatEvent("G1", models.Player{ID: "P2", Name: "이정훈"}, 1, 1, models.Of(models.CategoryOut), models.PlayResult{}),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO at_bats").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.AddAtBats(context.Background(), events)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresAddAtBatsDuplicate tests that a unique violation reports a duplicate id
func TestPostgresAddAtBatsDuplicate(t *testing.T) {
	s, mock := newMockStore(t)
	ev := models.NewAtBatEvent("G1", models.Player{ID: "P2", Name: "이정훈"}, 1, 1, models.Of(models.CategoryOut), models.PlayResult{})
	ev.ID = "AB1"

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO at_bats").WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := s.AddAtBats(context.Background(), []models.AtBatEvent{ev})
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "AB1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresAtBatsFilter tests filtered reads in insertion order
func TestPostgresAtBatsFilter(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "game_id", "player_id", "player_name", "inning", "batting_order",
		"result_category", "hit_subtype", "rbis", "runs", "stolen_bases", "caught_stealing",
		"walks", "strikeouts", "hit_by_pitch", "sacrifice_flies", "sacrifice_bunts", "created_at"}).
		AddRow("AB1", "G1", "P2", "이정훈", 1, 1, "hit", "double", 2, 0, 0, 0, 0, 0, 0, 0, 0, created).
		AddRow("AB2", "G1", "P2", "이정훈", 3, 1, "strikeout", "", 0, 0, 0, 0, 0, 1, 0, 0, 0, created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM at_bats WHERE TRUE AND game_id = $1 AND player_id = $2 ORDER BY seq")).
		WithArgs("G1", "P2").
		WillReturnRows(rows)

	events, err := s.AtBats(context.Background(), Filter{GameID: "G1", PlayerID: "P2"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.HitDouble, events[0].HitType)
	assert.Equal(t, models.CategoryStrikeout, events[1].Result)
	assert.Equal(t, 1, events[1].Strikeouts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresAddPitchingValidates tests that invalid lines never reach the database
func TestPostgresAddPitchingValidates(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.AddPitching(context.Background(), models.PitchingEvent{GameID: "G1", PlayerID: "P1", Innings: 5.0, RunsAllowed: 1, EarnedRuns: 3})
	assert.ErrorIs(t, err, models.ErrDataIntegrity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresPing tests the health probe
func TestPostgresPing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, newPostgresStore(mock).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestFilterClause tests placeholder numbering
func TestFilterClause(t *testing.T) {
	tests := []struct {
		filter Filter
		clause string
		args   int
	}{
		{Filter{}, " WHERE TRUE", 0},
		{Filter{GameID: "G1"}, " WHERE TRUE AND game_id = $1", 1},
		{Filter{PlayerID: "P1"}, " WHERE TRUE AND player_id = $1", 1},
		{Filter{GameID: "G1", PlayerID: "P1"}, " WHERE TRUE AND game_id = $1 AND player_id = $2", 2},
	}
	for _, tt := range tests {
		clause, args := filterClause(tt.filter)
		assert.Equal(t, tt.clause, clause)
		assert.Len(t, args, tt.args)
	}
}

// TestPostgresConfigURL tests connection URL assembly
func TestPostgresConfigURL(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "statz"}
	assert.Equal(t, "postgresql://u:p@db:5432/statz", cfg.URL())
	assert.Equal(t, "pgx5://u:p@db:5432/statz", postgresMigrationURL(cfg.URL()))

	cfg.Password = "p@ss:w/rd?"
	parsed, err := url.Parse(cfg.URL())
	require.NoError(t, err)
	assert.Equal(t, "db:5432", parsed.Host)
	assert.Equal(t, "/statz", parsed.Path)
	password, ok := parsed.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss:w/rd?", password)

	migrateURL, err := url.Parse(postgresMigrationURL(cfg.URL()))
	require.NoError(t, err)
	assert.Equal(t, "pgx5", migrateURL.Scheme)
	password, _ = migrateURL.User.Password()
	assert.Equal(t, "p@ss:w/rd?", password)
}
