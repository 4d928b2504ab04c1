package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/shane-shim/statz-kr/config"
	"github.com/shane-shim/statz-kr/simulation"
	"github.com/shane-shim/statz-kr/store"
)

type Server struct {
	store      store.Recorder
	router     *mux.Router
	httpServer *http.Server
	config     *config.Config
	simEngine  *simulation.SimulationEngine
	done       chan struct{}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func NewServer(cfg *config.Config, recorder store.Recorder) (*Server, error) {
	gen, err := simulation.NewOutcomeGenerator(cfg.League)
	if err != nil {
		return nil, fmt.Errorf("failed to create outcome generator: %w", err)
	}

	s := &Server{
		store:     recorder,
		router:    mux.NewRouter(),
		config:    cfg,
		simEngine: simulation.NewSimulationEngine(recorder, gen, cfg.Simulation.Workers),
		done:      make(chan struct{}),
	}
	s.setupRoutes()
	return s, nil
}

// openStore builds the record store selected by the database driver
func openStore(ctx context.Context, cfg *config.Config) (store.Recorder, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		var opts []store.MemoryOption
		if cfg.Server.SampleData {
			opts = append(opts, store.WithSampleData())
		}
		return store.NewMemoryStore(opts...), nil

	case config.DriverPostgres:
		pgCfg := store.PostgresConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Name:     cfg.Database.Name,
			MaxConns: cfg.Database.MaxConns,
		}
		if err := store.Migrate(store.DriverPostgres, pgCfg.URL()); err != nil {
			return nil, err
		}
		return store.NewPostgresStore(ctx, pgCfg)

	case config.DriverSQLite:
		return store.OpenSQLite(cfg.Database.SQLitePath)
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

// registerRoster makes sure every configured team member has a player record
func registerRoster(ctx context.Context, recorder store.Recorder, cfg *config.Config) error {
	for _, p := range cfg.Team.Players {
		_, err := recorder.Player(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if _, err := recorder.AddPlayer(ctx, p); err != nil {
			return fmt.Errorf("failed to register %s: %w", p.Name, err)
		}
	}
	return nil
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Scorebook
	api.HandleFunc("/players", s.listPlayersHandler).Methods("GET")
	api.HandleFunc("/players", s.createPlayerHandler).Methods("POST")
	api.HandleFunc("/players/{id}/batting", s.playerBattingHandler).Methods("GET")
	api.HandleFunc("/players/{id}/pitching", s.playerPitchingHandler).Methods("GET")
	api.HandleFunc("/games", s.listGamesHandler).Methods("GET")
	api.HandleFunc("/games", s.createGameHandler).Methods("POST")
	api.HandleFunc("/games/{id}", s.gameHandler).Methods("GET")
	api.HandleFunc("/at-bats", s.listAtBatsHandler).Methods("GET")
	api.HandleFunc("/at-bats", s.createAtBatHandler).Methods("POST")
	api.HandleFunc("/pitching", s.listPitchingHandler).Methods("GET")
	api.HandleFunc("/pitching", s.createPitchingHandler).Methods("POST")

	// Sabermetrics
	api.HandleFunc("/leaderboard", s.leaderboardHandler).Methods("GET")
	api.HandleFunc("/team/record", s.teamRecordHandler).Methods("GET")

	// Season simulation
	api.HandleFunc("/simulations", s.simulateSeasonHandler).Methods("POST")
	api.HandleFunc("/simulations/{id}", s.simulationStatusHandler).Methods("GET")

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
}

// handler wraps the router with CORS and response compression
func (s *Server) handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	})
	return c.Handler(handlers.CompressHandler(s.router))
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.simEngine.StartPerformanceMonitoring(s.done)

	log.Printf("Starting scorebook service on port %s (store: %s, workers: %d)",
		s.config.Server.Port, s.config.Database.Driver, s.config.Simulation.Workers)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down scorebook service...")

	close(s.done)
	err := s.httpServer.Shutdown(ctx)

	if cerr := s.store.Close(); cerr != nil {
		log.Printf("Failed to close store: %v", cerr)
	}
	return err
}

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "config.toml"), "path to the TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	shutdownTimeout, _ := cfg.GetShutdownTimeout()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	recorder, err := openStore(ctx, cfg)
	if err == nil {
		err = registerRoster(ctx, recorder, cfg)
	}
	cancel()
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}

	server, err := NewServer(cfg, recorder)
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatal("Server shutdown failed:", err)
		}
		log.Println("Server shutdown complete")
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed to start:", err)
	}
}
