package recorder

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/model"
	"ZoneDCA/internal/optimizer"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one completed backtest.
type RunRecord struct {
	ID        string
	Symbol    string
	StartedAt time.Time
	Duration  time.Duration
	Params    backtest.Params
	Asset     model.AssetProfile
	Result    *backtest.Result
}

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	ID             string    `json:"id"`
	Symbol         string    `json:"symbol"`
	StartedAt      time.Time `json:"started_at"`
	Degree         int       `json:"degree"`
	TotalBudget    float64   `json:"total_budget"`
	Years          float64   `json:"years"`
	CashInvested   float64   `json:"cash_invested"`
	CurrentValue   float64   `json:"current_value"`
	TotalReturn    float64   `json:"total_return"`
	ROIPct         float64   `json:"roi_pct"`
	MaxDrawdownPct float64   `json:"max_drawdown_pct"`
	DailyBuys      int       `json:"daily_buys"`
	ZoneBuys       int       `json:"zone_buys"`
	Sells          int       `json:"sells"`
	Trades         int       `json:"trades"`
}

// OptimizationRecord is one completed degree sweep.
type OptimizationRecord struct {
	ID        string
	StartedAt time.Time
	Report    *optimizer.Report
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordOptimization(rec *OptimizationRecord) error
	ListRuns(symbol string, limit int) ([]RunSummary, error)
	LoadTrades(runID string) ([]model.Trade, error)
	LoadLots(runID string) ([]model.Lot, error)
	Close() error
}

// NewRunID returns a fresh identifier for a run or sweep.
func NewRunID() string { return uuid.NewString() }

// DefaultListLimit caps ListRuns when no limit is given.
const DefaultListLimit = 20
