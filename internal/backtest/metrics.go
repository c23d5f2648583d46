package backtest

import (
	"math"

	"ZoneDCA/internal/model"
)

// Target is a take-profit level and its price.
type Target struct {
	Level int     `json:"level"`
	Price float64 `json:"price"`
}

// Metrics summarizes a finished run.
type Metrics struct {
	CashInvested   float64 `json:"cash_invested"`
	TotalShares    float64 `json:"total_shares"`
	LastPrice      float64 `json:"last_price"`
	CurrentValue   float64 `json:"current_value"`
	CashFromSales  float64 `json:"cash_from_sales"`
	TotalReturn    float64 `json:"total_return"`
	ROIPct         float64 `json:"roi_pct"`
	DividendIncome float64 `json:"dividend_income"`
	DividendShares float64 `json:"dividend_shares"`
	DailyBuyCount  int     `json:"daily_buy_count"`
	ZoneBuyCount   int     `json:"zone_buy_count"`
	SellCount      int     `json:"sell_count"`
	RealizedPnL    float64 `json:"realized_pnl"`

	DividendSharesValue float64 `json:"dividend_shares_value"`
	ClosedLots          int     `json:"closed_lots"`
	WinningLots         int     `json:"winning_lots"`
	LotWinRatePct       float64 `json:"lot_win_rate_pct"`
	AvgHoldDays         float64 `json:"avg_hold_days"`
	MaxDrawdownPct      float64 `json:"max_drawdown_pct"`
	NextTakeProfit      *Target `json:"next_take_profit,omitempty"`
}

// Summarize derives the headline numbers from the final state.
// ROI is zero when nothing was invested.
func Summarize(state model.SimulationState, trades []model.Trade, lastPrice float64) Metrics {
	m := Metrics{
		CashInvested:        state.CashInvested,
		TotalShares:         state.TotalShares,
		LastPrice:           lastPrice,
		CurrentValue:        state.TotalShares * lastPrice,
		CashFromSales:       state.CashFromSales,
		DividendIncome:      state.DividendIncome,
		DividendShares:      state.DividendShares,
		DividendSharesValue: state.DividendShares * lastPrice,
		DailyBuyCount:       state.DailyBuyCount,
		ZoneBuyCount:        state.ZoneBuyCount,
		SellCount:           state.SellCount,
	}
	m.TotalReturn = m.CurrentValue + m.CashFromSales - m.CashInvested
	if m.CashInvested > 0 {
		m.ROIPct = m.TotalReturn / m.CashInvested * 100
	}
	for _, t := range trades {
		if t.Kind == model.TradeExit {
			m.RealizedPnL += t.RealizedPnL
		}
	}
	return m
}

func (m *Metrics) enrich(lots []model.Lot, equity []model.EquityPoint, last model.DayLevels, active map[int]bool) {
	var holdDays int
	for _, l := range lots {
		if l.Open() {
			continue
		}
		m.ClosedLots++
		holdDays += l.HoldDays
		if l.PnL > 0 {
			m.WinningLots++
		}
	}
	if m.ClosedLots > 0 {
		m.LotWinRatePct = float64(m.WinningLots) / float64(m.ClosedLots) * 100
		m.AvgHoldDays = float64(holdDays) / float64(m.ClosedLots)
	}
	m.MaxDrawdownPct = MaxDrawdown(equity)
	m.NextTakeProfit = nextTarget(last, active, m.LastPrice)
}

// MaxDrawdown returns the largest peak-to-trough fall of the portfolio value, in percent.
func MaxDrawdown(equity []model.EquityPoint) float64 {
	var peak, worst float64
	for _, p := range equity {
		peak = math.Max(peak, p.Value)
		if peak <= 0 {
			continue
		}
		worst = math.Max(worst, (peak-p.Value)/peak*100)
	}
	return worst
}

func nextTarget(levels model.DayLevels, active map[int]bool, price float64) *Target {
	for l, z := range levels.Zones.TakeProfitZones {
		if active != nil && !active[l+1] {
			continue
		}
		if z > price {
			return &Target{Level: l + 1, Price: z}
		}
	}
	return nil
}
