package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/collector"
	"ZoneDCA/internal/model"
	"ZoneDCA/internal/observability"
	"ZoneDCA/internal/optimizer"
	"ZoneDCA/internal/recorder"
	"ZoneDCA/internal/strategy"
)

// Outcome is a recorded backtest over freshly collected data.
type Outcome struct {
	RunID   string
	Dataset *model.Dataset
	Result  *backtest.Result
}

// BacktestService runs collect -> simulate -> record for one symbol at a time.
type BacktestService struct {
	collector *collector.Collector
	recorder  recorder.Recorder
	params    backtest.Params
	optimize  optimizer.Options
	log       zerolog.Logger
	now       func() time.Time
}

// NewBacktestService creates a service. A nil recorder disables persistence.
func NewBacktestService(col *collector.Collector, rec recorder.Recorder, params backtest.Params, opt optimizer.Options, log zerolog.Logger) *BacktestService {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &BacktestService{
		collector: col,
		recorder:  rec,
		params:    params,
		optimize:  opt,
		log:       log.With().Str("service", "backtest").Logger(),
		now:       time.Now,
	}
}

// Params returns the default simulation parameters.
func (s *BacktestService) Params() backtest.Params { return s.params }

// Symbol returns the configured default symbol.
func (s *BacktestService) Symbol() string { return s.collector.Symbol }

func (s *BacktestService) symbol(symbol string) string {
	if symbol = strings.ToUpper(strings.TrimSpace(symbol)); symbol == "" {
		return s.collector.Symbol
	}
	return symbol
}

// Run collects symbol, simulates the configured horizon and records the run.
// source labels the caller in metrics.
func (s *BacktestService) Run(ctx context.Context, symbol, source string) (*Outcome, error) {
	return s.RunWithParams(ctx, symbol, source, s.params)
}

// RunWithParams is Run with explicit simulation parameters.
func (s *BacktestService) RunWithParams(ctx context.Context, symbol, source string, params backtest.Params) (*Outcome, error) {
	symbol = s.symbol(symbol)
	started := s.now()

	ds, err := s.collector.CollectSymbol(ctx, symbol)
	if err != nil {
		observability.RecordFetchError(s.collector.Fetcher.Name())
		observability.RecordRun(source, symbol, s.now().Sub(started), 0, err)
		return nil, fmt.Errorf("collect %s: %w", symbol, err)
	}

	days, curve := backtest.Horizon(ds.Days, ds.Curve, params.Years)
	res, err := backtest.Run(backtest.Input{
		Symbol: symbol,
		Days:   days,
		Curve:  curve,
		Asset:  ds.Asset,
		Params: params,
	})
	elapsed := s.now().Sub(started)
	if err != nil {
		observability.RecordRun(source, symbol, elapsed, 0, err)
		return nil, fmt.Errorf("backtest %s: %w", symbol, err)
	}
	observability.RecordRun(source, symbol, elapsed, res.Metrics.ROIPct, nil)
	observability.RecordTrades(res.Trades)

	rec := &recorder.RunRecord{
		Symbol:    symbol,
		StartedAt: started,
		Duration:  elapsed,
		Params:    params,
		Asset:     ds.Asset,
		Result:    res,
	}
	if err := s.recorder.RecordRun(rec); err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("record run")
	}

	s.log.Info().
		Str("symbol", symbol).
		Str("run_id", rec.ID).
		Int("days", len(days)).
		Int("trades", len(res.Trades)).
		Float64("roi_pct", res.Metrics.ROIPct).
		Dur("elapsed", elapsed).
		Msg("backtest finished")

	return &Outcome{RunID: rec.ID, Dataset: ds, Result: res}, nil
}

// Position analyzes where the latest close of symbol sits relative to its curve.
func (s *BacktestService) Position(ctx context.Context, symbol string) (*model.MarketPosition, error) {
	symbol = s.symbol(symbol)
	ds, err := s.collector.CollectSymbol(ctx, symbol)
	if err != nil {
		observability.RecordFetchError(s.collector.Fetcher.Name())
		return nil, fmt.Errorf("collect %s: %w", symbol, err)
	}
	return strategy.Analyze(ds.Days, ds.Curve.LevelsAt(ds.Curve.Len()-1), s.params.ActiveTakeProfit)
}

// Optimize sweeps the configured degree range for symbol and records the report.
func (s *BacktestService) Optimize(ctx context.Context, symbol string) (*optimizer.Report, error) {
	symbol = s.symbol(symbol)
	started := s.now()

	days, asset, err := s.collector.FetchHistory(ctx, symbol)
	if err != nil {
		observability.RecordFetchError(s.collector.Fetcher.Name())
		return nil, fmt.Errorf("collect %s: %w", symbol, err)
	}
	asset.Symbol = symbol

	report, err := optimizer.Optimize(ctx, days, asset, s.params, s.optimize)
	if report != nil {
		observability.RecordDegrees(len(report.Results), len(report.Skipped))
	}
	if err != nil {
		return report, fmt.Errorf("optimize %s: %w", symbol, err)
	}

	if err := s.recorder.RecordOptimization(&recorder.OptimizationRecord{StartedAt: started, Report: report}); err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("record optimization")
	}
	s.log.Info().
		Str("symbol", symbol).
		Int("best_degree", report.BestDegree).
		Float64("best_roi_pct", report.BestROIPct).
		Int("skipped", len(report.Skipped)).
		Dur("elapsed", s.now().Sub(started)).
		Msg("optimization finished")
	return report, nil
}

// Runs lists recorded runs.
func (s *BacktestService) Runs(symbol string, limit int) ([]recorder.RunSummary, error) {
	return s.recorder.ListRuns(strings.ToUpper(symbol), limit)
}

// Trades loads the ledger of a recorded run.
func (s *BacktestService) Trades(runID string) ([]model.Trade, error) {
	return s.recorder.LoadTrades(runID)
}

// Lots loads the position history of a recorded run.
func (s *BacktestService) Lots(runID string) ([]model.Lot, error) {
	return s.recorder.LoadLots(runID)
}
