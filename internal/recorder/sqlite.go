package recorder

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"ZoneDCA/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: writes are serialized anyway and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	// WAL mode for better concurrent read performance while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id               TEXT PRIMARY KEY,
			symbol           TEXT NOT NULL,
			started_at       INTEGER NOT NULL,
			duration_ms      INTEGER,
			degree           INTEGER,
			total_budget     REAL,
			years            REAL,
			zone_multiplier  REAL,
			active_tp_zones  TEXT,
			asset_type       TEXT,
			pays_dividend    INTEGER,
			dividend_rate    REAL,
			daily_amount     REAL,
			cash_invested    REAL,
			total_shares     REAL,
			current_value    REAL,
			cash_from_sales  REAL,
			total_return     REAL,
			roi_pct          REAL,
			dividend_income  REAL,
			dividend_shares  REAL,
			realized_pnl     REAL,
			max_drawdown_pct REAL,
			daily_buys       INTEGER,
			zone_buys        INTEGER,
			sells            INTEGER,
			trade_count      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON runs(symbol, started_at)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			seq          INTEGER NOT NULL,
			trade_id     TEXT NOT NULL,
			date         TEXT NOT NULL,
			kind         TEXT NOT NULL,
			level        INTEGER,
			price        REAL,
			amount       REAL,
			shares       REAL,
			realized_pnl REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, seq)`,

		`CREATE TABLE IF NOT EXISTS lots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			seq        INTEGER NOT NULL,
			buy_date   TEXT NOT NULL,
			buy_price  REAL,
			kind       TEXT,
			level      INTEGER,
			shares     REAL,
			amount     REAL,
			sell_date  TEXT,
			sell_price REAL,
			sell_level INTEGER,
			pnl        REAL,
			roi_pct    REAL,
			hold_days  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lots_run ON lots(run_id, seq)`,

		`CREATE TABLE IF NOT EXISTS optimizations (
			id           TEXT PRIMARY KEY,
			symbol       TEXT NOT NULL,
			started_at   INTEGER NOT NULL,
			best_degree  INTEGER,
			best_roi_pct REAL,
			evaluated    INTEGER,
			skipped      INTEGER,
			results_json TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_optimizations_symbol_ts ON optimizations(symbol, started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run, its trades and its lots in one transaction.
// An empty ID is replaced by a new one.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	if rec.Result == nil {
		return errors.New("record run: missing result")
	}
	if rec.ID == "" {
		rec.ID = NewRunID()
	}
	active, err := json.Marshal(rec.Params.ActiveTakeProfit)
	if err != nil {
		return fmt.Errorf("encode active zones: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res := rec.Result
	m := res.Metrics
	_, err = tx.Exec(`INSERT INTO runs
		(id, symbol, started_at, duration_ms, degree, total_budget, years, zone_multiplier, active_tp_zones,
		 asset_type, pays_dividend, dividend_rate, daily_amount,
		 cash_invested, total_shares, current_value, cash_from_sales, total_return, roi_pct,
		 dividend_income, dividend_shares, realized_pnl, max_drawdown_pct,
		 daily_buys, zone_buys, sells, trade_count)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Symbol, rec.StartedAt.Unix(), rec.Duration.Milliseconds(), res.Degree,
		rec.Params.TotalBudget, rec.Params.Years, rec.Params.ZoneMultiplier, string(active),
		string(rec.Asset.Type), rec.Asset.PaysDividend, rec.Asset.DividendRate, res.DailyAmount,
		m.CashInvested, m.TotalShares, m.CurrentValue, m.CashFromSales, m.TotalReturn, m.ROIPct,
		m.DividendIncome, m.DividendShares, m.RealizedPnL, m.MaxDrawdownPct,
		m.DailyBuyCount, m.ZoneBuyCount, m.SellCount, len(res.Trades),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, t := range res.Trades {
		_, err := tx.Exec(`INSERT INTO trades
			(run_id, seq, trade_id, date, kind, level, price, amount, shares, realized_pnl)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			rec.ID, i, t.ID, t.Date.Format(dateLayout), t.Kind.String(),
			t.Level, t.Price, t.Amount, t.Shares, t.RealizedPnL,
		)
		if err != nil {
			return fmt.Errorf("insert trade %s: %w", t.ID, err)
		}
	}

	for i, l := range res.Lots {
		var sellDate sql.NullString
		if l.SellDate != nil {
			sellDate = sql.NullString{String: l.SellDate.Format(dateLayout), Valid: true}
		}
		_, err := tx.Exec(`INSERT INTO lots
			(run_id, seq, buy_date, buy_price, kind, level, shares, amount,
			 sell_date, sell_price, sell_level, pnl, roi_pct, hold_days)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			rec.ID, i, l.BuyDate.Format(dateLayout), l.BuyPrice, l.Kind.String(), l.Level, l.Shares, l.Amount,
			sellDate, l.SellPrice, l.SellLevel, l.PnL, l.ROIPct, l.HoldDays,
		)
		if err != nil {
			return fmt.Errorf("insert lot %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug().Str("run_id", rec.ID).Int("trades", len(res.Trades)).Msg("run recorded")
	return nil
}

func (r *SQLiteRecorder) RecordOptimization(rec *OptimizationRecord) error {
	if rec.Report == nil {
		return errors.New("record optimization: missing report")
	}
	if rec.ID == "" {
		rec.ID = NewRunID()
	}
	results, err := json.Marshal(rec.Report.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(`INSERT INTO optimizations
		(id, symbol, started_at, best_degree, best_roi_pct, evaluated, skipped, results_json)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Report.Symbol, rec.StartedAt.Unix(), rec.Report.BestDegree, rec.Report.BestROIPct,
		len(rec.Report.Results), len(rec.Report.Skipped), string(results),
	)
	return err
}

// ListRuns returns the most recent runs, newest first. An empty symbol lists every symbol.
func (r *SQLiteRecorder) ListRuns(symbol string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, symbol, started_at, degree, total_budget, years,
			cash_invested, current_value, total_return, roi_pct, max_drawdown_pct,
			daily_buys, zone_buys, sells, trade_count
		FROM runs
		WHERE ? = '' OR symbol = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, symbol, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s  RunSummary
			ts int64
		)
		if err := rows.Scan(&s.ID, &s.Symbol, &ts, &s.Degree, &s.TotalBudget, &s.Years,
			&s.CashInvested, &s.CurrentValue, &s.TotalReturn, &s.ROIPct, &s.MaxDrawdownPct,
			&s.DailyBuys, &s.ZoneBuys, &s.Sells, &s.Trades); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.StartedAt = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) runExists(runID string) error {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n); err != nil {
		return fmt.Errorf("lookup run: %w", err)
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *SQLiteRecorder) LoadTrades(runID string) ([]model.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.runExists(runID); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(`SELECT trade_id, date, kind, level, price, amount, shares, realized_pnl
		FROM trades WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	trades := []model.Trade{}
	for rows.Next() {
		var (
			t          model.Trade
			date, kind string
		)
		if err := rows.Scan(&t.ID, &date, &kind, &t.Level, &t.Price, &t.Amount, &t.Shares, &t.RealizedPnL); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		if t.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("trade %s date: %w", t.ID, err)
		}
		if t.Kind, err = model.ParseTradeKind(kind); err != nil {
			return nil, fmt.Errorf("trade %s: %w", t.ID, err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (r *SQLiteRecorder) LoadLots(runID string) ([]model.Lot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.runExists(runID); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(`SELECT buy_date, buy_price, kind, level, shares, amount,
			sell_date, sell_price, sell_level, pnl, roi_pct, hold_days
		FROM lots WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query lots: %w", err)
	}
	defer rows.Close()

	lots := []model.Lot{}
	for rows.Next() {
		var (
			l             model.Lot
			buyDate, kind string
			sellDate      sql.NullString
		)
		if err := rows.Scan(&buyDate, &l.BuyPrice, &kind, &l.Level, &l.Shares, &l.Amount,
			&sellDate, &l.SellPrice, &l.SellLevel, &l.PnL, &l.ROIPct, &l.HoldDays); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		if l.BuyDate, err = time.Parse(dateLayout, buyDate); err != nil {
			return nil, fmt.Errorf("lot buy date: %w", err)
		}
		if l.Kind, err = model.ParseTradeKind(kind); err != nil {
			return nil, fmt.Errorf("lot: %w", err)
		}
		if sellDate.Valid {
			d, err := time.Parse(dateLayout, sellDate.String)
			if err != nil {
				return nil, fmt.Errorf("lot sell date: %w", err)
			}
			l.SellDate = &d
		}
		lots = append(lots, l)
	}
	return lots, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
