package backtest

import (
	"fmt"
	"math"

	"ZoneDCA/internal/model"
)

// DefaultZoneMultiplier scales the daily amount on a zone bounce.
const DefaultZoneMultiplier = 5.0

// TradingDaysPerYear sizes the simulation window used by Horizon.
const TradingDaysPerYear = 252

// Params are the user-facing knobs of a run.
type Params struct {
	TotalBudget      float64 `json:"total_budget" yaml:"total_budget"`
	Years            float64 `json:"years" yaml:"years"`
	ZoneMultiplier   float64 `json:"zone_multiplier,omitempty" yaml:"zone_multiplier"`
	ActiveTakeProfit []int   `json:"active_tp_zones" yaml:"active_tp_zones"`
}

// DailyAmount spreads the budget over calendar days.
func (p Params) DailyAmount() float64 {
	return p.TotalBudget / (365 * p.Years)
}

// Input is everything one simulation needs. Curve must be aligned with Days.
type Input struct {
	Symbol string
	Days   []model.MarketDay
	Curve  *model.Curve
	Asset  model.AssetProfile
	Params Params
}

// Result is the outcome of a completed run.
type Result struct {
	Symbol      string                `json:"symbol"`
	Degree      int                   `json:"degree"`
	DailyAmount float64               `json:"daily_amount"`
	State       model.SimulationState `json:"state"`
	Trades      []model.Trade         `json:"trades"`
	Lots        []model.Lot           `json:"lots"`
	Equity      []model.EquityPoint   `json:"equity"`
	Metrics     Metrics               `json:"metrics"`
}

// Run walks the price history once in date order and returns the ledger and metrics.
// Invalid input aborts the run before any day is processed.
func Run(in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	rules := Rules{
		DailyAmount:    in.Params.DailyAmount(),
		ZoneMultiplier: in.Params.ZoneMultiplier,
		Asset:          in.Asset,
	}
	if rules.ZoneMultiplier == 0 {
		rules.ZoneMultiplier = DefaultZoneMultiplier
	}
	// An empty, non-nil selection disables every take-profit level.
	if in.Params.ActiveTakeProfit != nil {
		rules.ActiveTakeProfit = make(map[int]bool, len(in.Params.ActiveTakeProfit))
		for _, l := range in.Params.ActiveTakeProfit {
			rules.ActiveTakeProfit[l] = true
		}
	}

	res := &Result{
		Symbol:      in.Symbol,
		Degree:      in.Curve.Degree,
		DailyAmount: rules.DailyAmount,
		Equity:      make([]model.EquityPoint, 0, len(in.Days)),
	}

	var (
		state model.SimulationState
		seq   int
	)
	for i, today := range in.Days {
		d := Day{Index: i, Today: today, Levels: in.Curve.LevelsAt(i)}
		if i > 0 {
			y := in.Days[i-1]
			d.Yesterday = &y
			d.PrevLevels = in.Curve.LevelsAt(i - 1)
		}

		var trades []model.Trade
		state, trades = Step(state, d, rules)
		for _, t := range trades {
			seq++
			t.ID = tradeID(in.Symbol, t, seq)
			res.Lots = applyToLots(res.Lots, t)
			res.Trades = append(res.Trades, t)
		}

		res.Equity = append(res.Equity, model.EquityPoint{
			Date:          today.Date,
			CashInvested:  state.CashInvested,
			Value:         state.TotalShares*today.Close + state.CashFromSales,
			Shares:        state.TotalShares,
			CashFromSales: state.CashFromSales,
		})
	}

	last := len(in.Days) - 1
	res.State = state
	res.Metrics = Summarize(state, res.Trades, in.Days[last].Close)
	res.Metrics.enrich(res.Lots, res.Equity, in.Curve.LevelsAt(last), rules.ActiveTakeProfit)
	return res, nil
}

// Horizon keeps the last years*252 trading days of an aligned series.
func Horizon(days []model.MarketDay, curve *model.Curve, years float64) ([]model.MarketDay, *model.Curve) {
	if years <= 0 {
		return days, curve
	}
	n := max(int(TradingDaysPerYear*years), 1)
	if len(days) <= n {
		return days, curve
	}
	from := len(days) - n
	if curve.Len() != len(days) {
		return days[from:], curve
	}
	return days[from:], curve.Slice(from, len(days))
}

func applyToLots(lots []model.Lot, t model.Trade) []model.Lot {
	switch {
	case t.Kind.IsBuy():
		return append(lots, model.Lot{
			BuyDate:  t.Date,
			BuyPrice: t.Price,
			Kind:     t.Kind,
			Level:    t.Level,
			Shares:   t.Shares,
			Amount:   t.Amount,
		})
	case t.Kind == model.TradeExit:
		for i := range lots {
			if lots[i].Open() {
				lots[i].Close(t.Date, t.Price, t.Level)
			}
		}
	}
	return lots
}

func tradeID(symbol string, t model.Trade, seq int) string {
	if symbol == "" {
		symbol = "SIM"
	}
	return fmt.Sprintf("%s-%s-%s-%d", symbol, t.Date.Format("20060102"), t.Kind, seq)
}

func validate(in Input) error {
	p := in.Params
	if !finite(p.TotalBudget) || p.TotalBudget <= 0 {
		return inputErr("total_budget", "must be positive")
	}
	if !finite(p.Years) || p.Years <= 0 {
		return inputErr("years", "must be positive")
	}
	if !finite(p.ZoneMultiplier) || p.ZoneMultiplier < 0 {
		return inputErr("zone_multiplier", "must not be negative")
	}
	for _, l := range p.ActiveTakeProfit {
		if l < 1 {
			return inputErr("active_tp_zones", fmt.Sprintf("level %d out of range", l))
		}
	}
	if len(in.Days) == 0 {
		return inputErr("days", "price history is empty")
	}
	if in.Curve.Len() != len(in.Days) {
		return inputErr("curve", fmt.Sprintf("covers %d days, history has %d", in.Curve.Len(), len(in.Days)))
	}
	for l, series := range in.Curve.BuyZones {
		if len(series) != len(in.Days) {
			return inputErr("curve", fmt.Sprintf("buy zone %d is misaligned", l+1))
		}
	}
	for l, series := range in.Curve.TakeProfitZones {
		if len(series) != len(in.Days) {
			return inputErr("curve", fmt.Sprintf("take-profit zone %d is misaligned", l+1))
		}
	}
	for _, l := range p.ActiveTakeProfit {
		if l > len(in.Curve.TakeProfitZones) {
			return inputErr("active_tp_zones", fmt.Sprintf("level %d outside 1..%d", l, len(in.Curve.TakeProfitZones)))
		}
	}

	for i, d := range in.Days {
		if d.Date.IsZero() {
			return dayErr("date", i, "missing", nil)
		}
		if i > 0 && !d.Date.After(in.Days[i-1].Date) {
			return dayErr("date", i, "dates are not strictly increasing", nil)
		}
		if !finite(d.High) || !finite(d.Low) || !finite(d.Close) {
			return dayErr("price", i, "not a finite number", nil)
		}
		if d.Close <= 0 || d.High <= 0 || d.Low <= 0 {
			return dayErr("price", i, "must be positive", ErrNonPositivePrice)
		}
		if d.Low > d.High {
			return dayErr("price", i, "low above high", nil)
		}
		if !finite(in.Curve.Regression[i]) {
			return dayErr("regression", i, "not a finite number", nil)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
