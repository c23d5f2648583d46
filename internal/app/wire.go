// Package app wires configuration into the components shared by the binaries.
package app

import (
	"github.com/rs/zerolog"

	"ZoneDCA/internal/calculator"
	"ZoneDCA/internal/collector"
	"ZoneDCA/internal/config"
	"ZoneDCA/internal/optimizer"
	"ZoneDCA/internal/recorder"
	"ZoneDCA/internal/services"
)

// NewFetcher picks the VsTrader API when a base URL is configured, Yahoo otherwise.
func NewFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.DataSource.BaseURL != "" {
		return collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
	return collector.NewYahooFetcher(cfg.Proxy)
}

// CollectorOptions maps the simulation settings onto curve fitting options.
func CollectorOptions(cfg *config.Config) collector.Options {
	// Validate has already checked the method.
	method, _ := calculator.ParseMethod(cfg.Simulation.Method)
	return collector.Options{
		HistoryDays: cfg.DataSource.HistoryDays,
		Degree:      cfg.Simulation.Degree,
		Bands:       cfg.Simulation.Bands,
		Method:      method,
	}
}

// OptimizerOptions maps the optimize section onto the degree sweep.
func OptimizerOptions(cfg *config.Config) optimizer.Options {
	method, _ := calculator.ParseMethod(cfg.Simulation.Method)
	return optimizer.Options{
		MinDegree: cfg.Optimize.MinDegree,
		MaxDegree: cfg.Optimize.MaxDegree,
		Step:      cfg.Optimize.Step,
		Bands:     cfg.Simulation.Bands,
		Method:    method,
		Workers:   cfg.Optimize.Workers,
	}
}

// NewRecorder opens the SQLite recorder, falling back to a no-op one when
// no path is set or the database cannot be opened.
func NewRecorder(cfg *config.Config, log zerolog.Logger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// NewService builds the backtest service over fetcher.
func NewService(cfg *config.Config, fetcher collector.Fetcher, rec recorder.Recorder, log zerolog.Logger) *services.BacktestService {
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, CollectorOptions(cfg), log)
	return services.NewBacktestService(col, rec, cfg.Params(), OptimizerOptions(cfg), log)
}
