package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/davidcollell/plataformes/internal/api"
	"github.com/davidcollell/plataformes/internal/config"
	"github.com/davidcollell/plataformes/internal/database"
	"github.com/davidcollell/plataformes/internal/enrich/gemini"
	"github.com/davidcollell/plataformes/internal/logger"
	"github.com/davidcollell/plataformes/internal/scheduler"
	"github.com/davidcollell/plataformes/internal/scheduler/tasks"
	"github.com/davidcollell/plataformes/internal/watchlist"
	"github.com/davidcollell/plataformes/internal/websocket"
)

func main() {
	// Provider API key commonly lives in a .env file next to the binary.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting Plataformes")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	hub := websocket.NewHub()
	go hub.Run()

	provider := gemini.NewClient(cfg.Gemini, log.Logger)
	if !provider.IsConfigured() {
		log.Warn().Msg("no Gemini API key configured, enrichment will fail")
	}

	store, err := watchlist.NewStore(db, provider, hub, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load watchlist store")
	}

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if cfg.Backup.Enabled {
		if err := sched.RegisterTask(tasks.NewBackupTask(store, cfg.Backup)); err != nil {
			log.Warn().Err(err).Msg("failed to register backup task")
		}
	}
	if err := sched.Start(); err != nil {
		log.Warn().Err(err).Msg("failed to start scheduler")
	}

	server := api.NewServer(store, hub, sched, cfg, log.Logger)

	go func() {
		addr := cfg.Server.Address()
		log.Info().Str("address", addr).Msg("HTTP server listening")
		if err := server.Start(addr); err != nil {
			log.Info().Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
