package model

import "time"

// SimulationState is the mutable ledger threaded through one backtest walk.
// Each run owns its own value; nothing here is shared between runs.
type SimulationState struct {
	CashInvested   float64 `json:"cash_invested"`
	TotalShares    float64 `json:"total_shares"`
	DividendIncome float64 `json:"dividend_income"`
	DividendShares float64 `json:"dividend_shares"`
	CashFromSales  float64 `json:"cash_from_sales"`
	CostBasis      float64 `json:"cost_basis"` // cash committed to the shares currently held
	DailyBuyCount  int     `json:"daily_buy_count"`
	ZoneBuyCount   int     `json:"zone_buy_count"`
	SellCount      int     `json:"sell_count"`
}

// Lot is one buy in the position history, closed out when the position is sold.
type Lot struct {
	BuyDate   time.Time  `json:"buy_date"`
	BuyPrice  float64    `json:"buy_price"`
	Kind      TradeKind  `json:"kind"`
	Level     int        `json:"level"`
	Shares    float64    `json:"shares"`
	Amount    float64    `json:"amount"`
	SellDate  *time.Time `json:"sell_date,omitempty"`
	SellPrice float64    `json:"sell_price,omitempty"`
	SellLevel int        `json:"sell_level,omitempty"`
	PnL       float64    `json:"pnl,omitempty"`
	ROIPct    float64    `json:"roi_pct,omitempty"`
	HoldDays  int        `json:"hold_days,omitempty"`
}

// Open reports whether the lot is still held.
func (l *Lot) Open() bool { return l.SellDate == nil }

// Close marks the lot as sold.
func (l *Lot) Close(date time.Time, price float64, level int) {
	d := date
	l.SellDate = &d
	l.SellPrice = price
	l.SellLevel = level
	l.PnL = (price - l.BuyPrice) * l.Shares
	if l.BuyPrice > 0 {
		l.ROIPct = (price - l.BuyPrice) / l.BuyPrice * 100
	}
	l.HoldDays = int(date.Sub(l.BuyDate).Hours() / 24)
}

// EquityPoint is one day of portfolio history.
type EquityPoint struct {
	Date          time.Time `json:"date"`
	CashInvested  float64   `json:"cash_invested"`
	Value         float64   `json:"value"` // shares*close + cash_from_sales
	Shares        float64   `json:"shares"`
	CashFromSales float64   `json:"cash_from_sales"`
}
