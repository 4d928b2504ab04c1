package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shane-shim/statz-kr/models"
	"github.com/shane-shim/statz-kr/simulation"
)

// Storage drivers accepted in [database].driver
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the service configuration
type Config struct {
	Server     ServerConfig            `toml:"server"`
	Database   DatabaseConfig          `toml:"database"`
	Simulation SimulationConfig        `toml:"simulation"`
	League     simulation.OutcomeTable `toml:"league"`
	Team       TeamConfig              `toml:"team"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Port            string `toml:"port"`
	ShutdownTimeout string `toml:"shutdown_timeout"` // e.g. "30s"
	SampleData      bool   `toml:"sample_data"`      // seed the memory store
}

// DatabaseConfig selects and configures the record store
type DatabaseConfig struct {
	Driver     string `toml:"driver"` // memory, postgres or sqlite
	Host       string `toml:"host"`
	Port       string `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	Name       string `toml:"name"`
	MaxConns   int32  `toml:"max_conns"`
	SQLitePath string `toml:"sqlite_path"`
}

// SimulationConfig contains defaults for season runs
type SimulationConfig struct {
	Workers    int      `toml:"workers"`
	Games      int      `toml:"games"`
	Seed       int64    `toml:"seed"`
	Innings    int      `toml:"innings"`
	LineupSize int      `toml:"lineup_size"`
	Opponents  []string `toml:"opponents"`
	Venues     []string `toml:"venues"`
}

// TeamConfig is the modeled club and its roster
type TeamConfig struct {
	Name    string          `toml:"name"`
	Players []models.Player `toml:"players"`
}

// Roster returns the configured team as a roster
func (t TeamConfig) Roster() models.Roster {
	return models.Roster{TeamName: t.Name, Players: t.Players}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8081",
			ShutdownTimeout: "30s",
			SampleData:      false,
		},
		Database: DatabaseConfig{
			Driver:     DriverMemory,
			Host:       "localhost",
			Port:       "5432",
			User:       "statz_user",
			Password:   "statz_pass",
			Name:       "statz",
			SQLitePath: "data/statz.db",
		},
		Simulation: SimulationConfig{
			Workers:    runtime.NumCPU(),
			Games:      10,
			Seed:       1,
			Innings:    simulation.DefaultInnings,
			LineupSize: simulation.LineupSize,
			Opponents:  append([]string(nil), simulation.DefaultOpponents...),
			Venues:     append([]string(nil), simulation.DefaultVenues...),
		},
		League: simulation.DefaultOutcomeTable(),
		Team: TeamConfig{
			Name:    "미라클동산",
			Players: defaultPlayers(),
		},
	}
}

func defaultPlayers() []models.Player {
	return []models.Player{
		{ID: "MD01", Name: "심재완", Number: 1, Position: models.PositionPitcher, BatThrow: "R/R", SkillBonus: 0.03},
		{ID: "MD02", Name: "성승훈", Number: 2, Position: "C", BatThrow: "R/R", SkillBonus: 0.02},
		{ID: "MD03", Name: "김성호", Number: 3, Position: "1B", BatThrow: "R/L", SkillBonus: 0.04},
		{ID: "MD04", Name: "서용만", Number: 4, Position: "2B", BatThrow: "R/R", SkillBonus: 0.01},
		{ID: "MD05", Name: "최정열", Number: 5, Position: "SS", BatThrow: "R/R"},
		{ID: "MD06", Name: "south..ten", Number: 6, Position: "3B", BatThrow: "R/L"},
		{ID: "MD07", Name: "r_재현", Number: 7, Position: "LF", BatThrow: "L/L", SkillBonus: 0.02},
		{ID: "MD08", Name: "강원철", Number: 8, Position: "CF", BatThrow: "R/R", SkillBonus: 0.03},
		{ID: "MD09", Name: "규식", Number: 9, Position: "RF", BatThrow: "R/R", SkillBonus: 0.01},
		{ID: "MD10", Name: "김명환", Number: 10, Position: "IF", BatThrow: "R/R"},
		{ID: "MD11", Name: "김민찬", Number: 11, Position: "OF", BatThrow: "R/L", SkillBonus: 0.02},
		{ID: "MD12", Name: "김태훈", Number: 12, Position: "IF", BatThrow: "R/R"},
		{ID: "MD13", Name: "백지영", Number: 13, Position: "OF", BatThrow: "L/L"},
		{ID: "MD14", Name: "언제나하루를즐겁게", Number: 14, Position: "IF", BatThrow: "R/R"},
		{ID: "MD15", Name: "윤도혁", Number: 15, Position: models.PositionPitcher, BatThrow: "R/R"},
		{ID: "MD16", Name: "최병준", Number: 16, Position: models.PositionPitcher, BatThrow: "L/L"},
		{ID: "MD17", Name: "hwang's", Number: 17, Position: "C", BatThrow: "R/R"},
		{ID: "MD18", Name: "jy", Number: 18, Position: "OF", BatThrow: "R/L"},
	}
}

// Load reads the TOML file at path over the defaults, then applies
// environment overrides. An empty path or a missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			// Lists in the file replace the default lists instead of extending them.
			cfg.Team.Players, cfg.Simulation.Opponents, cfg.Simulation.Venues = nil, nil, nil
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
			defaults := DefaultConfig()
			if len(cfg.Team.Players) == 0 {
				cfg.Team.Players = defaults.Team.Players
			}
			if len(cfg.Simulation.Opponents) == 0 {
				cfg.Simulation.Opponents = defaults.Simulation.Opponents
			}
			if len(cfg.Simulation.Venues) == 0 {
				cfg.Simulation.Venues = defaults.Simulation.Venues
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SQLitePath = getEnv("SQLITE_PATH", c.Database.SQLitePath)

	ints := []struct {
		key string
		dst *int
	}{
		{"WORKERS", &c.Simulation.Workers},
		{"SIMULATION_GAMES", &c.Simulation.Games},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", e.key, v, err)
			}
			*e.dst = n
		}
	}

	if v := os.Getenv("SIMULATION_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SIMULATION_SEED %q: %w", v, err)
		}
		c.Simulation.Seed = seed
	}
	return nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if _, err := c.GetShutdownTimeout(); err != nil {
		return fmt.Errorf("invalid shutdown timeout %q: %w", c.Server.ShutdownTimeout, err)
	}

	switch c.Database.Driver {
	case DriverMemory, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown database driver %q", models.ErrConfiguration, c.Database.Driver)
	}

	if c.Simulation.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", models.ErrConfiguration, c.Simulation.Workers)
	}
	if c.Simulation.Games < 1 {
		return fmt.Errorf("%w: games must be at least 1, got %d", models.ErrConfiguration, c.Simulation.Games)
	}
	if c.Simulation.Innings < 1 {
		return fmt.Errorf("%w: innings must be at least 1, got %d", models.ErrConfiguration, c.Simulation.Innings)
	}
	if c.Simulation.LineupSize < 1 {
		return fmt.Errorf("%w: lineup size must be at least 1, got %d", models.ErrConfiguration, c.Simulation.LineupSize)
	}

	if err := c.League.Validate(); err != nil {
		return fmt.Errorf("league: %w", err)
	}

	for _, p := range c.Team.Players {
		if p.SkillBonus < 0 || p.SkillBonus > 1 {
			return fmt.Errorf("%w: skill bonus for %s must be within [0,1], got %v", models.ErrInvalidParameter, p.Name, p.SkillBonus)
		}
	}
	return nil
}

// GetShutdownTimeout returns the graceful shutdown timeout as a duration
func (c *Config) GetShutdownTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.ShutdownTimeout)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
