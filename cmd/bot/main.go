package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ZoneDCA/internal/app"
	"ZoneDCA/internal/calculator"
	"ZoneDCA/internal/config"
	"ZoneDCA/internal/notifier"
	"ZoneDCA/internal/scheduler"
	"ZoneDCA/internal/server"
	"ZoneDCA/internal/snapshot"
	"ZoneDCA/pkg/logger"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot := logger.New(logger.Config{Level: "info"})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)
	log.Info().Str("config", cfgPath).Msg("ZoneDCA starting")

	if err := cfg.ValidateBot(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	// Init data source, recorder and service
	fetcher := app.NewFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Str("symbol", cfg.DataSource.Symbol).Msg("data source selected")

	rec := app.NewRecorder(cfg, log)
	defer rec.Close()
	svc := app.NewService(cfg, fetcher, rec, log)

	snaps, err := snapshot.NewStore(cfg.Snapshot.StateFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init snapshot store")
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, svc, snaps, tn, log)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.OptimizeCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP API
	method, _ := calculator.ParseMethod(cfg.Simulation.Method)
	srv := server.New(server.Config{
		Addr:    cfg.Server.Addr,
		Log:     log,
		Service: svc,
		Bands:   cfg.Simulation.Bands,
		Method:  method,
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing daily backtest now")
		go sched.RunDailyNow()
	}

	log.Info().Msg("ZoneDCA is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown")
	}
	log.Info().Msg("ZoneDCA stopped")
}
