package backtest

import "ZoneDCA/internal/model"

// Day is the view of one trading day handed to each stage.
// Yesterday is nil on the first day of the series.
type Day struct {
	Index      int
	Today      model.MarketDay
	Yesterday  *model.MarketDay
	Levels     model.DayLevels
	PrevLevels model.DayLevels
}

// Rules are the per-run constants the stages read.
type Rules struct {
	DailyAmount      float64
	ZoneMultiplier   float64
	Asset            model.AssetProfile
	ActiveTakeProfit map[int]bool // nil: all levels active
}

// Stage is one step of the daily decision. It returns the new state and the
// trade it produced, if any.
type Stage func(s model.SimulationState, d Day, r Rules) (model.SimulationState, *model.Trade)

// Pipeline is the fixed daily priority order.
var Pipeline = []Stage{DividendStage, BuyStage, SellStage}

// Step folds one day through the pipeline.
func Step(s model.SimulationState, d Day, r Rules) (model.SimulationState, []model.Trade) {
	var trades []model.Trade
	for _, stage := range Pipeline {
		var t *model.Trade
		s, t = stage(s, d, r)
		if t != nil {
			trades = append(trades, *t)
		}
	}
	return s, trades
}

// DividendStage credits and reinvests the quarterly dividend.
func DividendStage(s model.SimulationState, d Day, r Rules) (model.SimulationState, *model.Trade) {
	cash, shares := Accrue(s, r.Asset, d.Index, d.Today.Close)
	if cash <= 0 {
		return s, nil
	}
	s.DividendIncome += cash
	s.DividendShares += shares
	s.TotalShares += shares
	return s, &model.Trade{
		Date:   d.Today.Date,
		Kind:   model.TradeDividend,
		Price:  d.Today.Close,
		Amount: cash,
		Shares: shares,
	}
}

// BuyStage invests the zone multiple on a bounce, otherwise the daily amount
// when the close is below the regression price.
func BuyStage(s model.SimulationState, d Day, r Rules) (model.SimulationState, *model.Trade) {
	var (
		kind   model.TradeKind
		level  int
		amount float64
	)
	if lvl := FirstEntry(d); lvl > 0 {
		kind, level, amount = model.TradeZoneBuy, lvl, r.DailyAmount*r.ZoneMultiplier
		s.ZoneBuyCount++
	} else if d.Today.Close < d.Levels.Regression {
		kind, amount = model.TradeDailyDCA, r.DailyAmount
		s.DailyBuyCount++
	} else {
		return s, nil
	}

	shares := amount / d.Today.Close
	s.CashInvested += amount
	s.CostBasis += amount
	s.TotalShares += shares
	return s, &model.Trade{
		Date:   d.Today.Date,
		Kind:   kind,
		Level:  level,
		Price:  d.Today.Close,
		Amount: amount,
		Shares: shares,
	}
}

// SellStage liquidates the whole position on a take-profit breakdown,
// including shares bought earlier the same day.
func SellStage(s model.SimulationState, d Day, r Rules) (model.SimulationState, *model.Trade) {
	if s.TotalShares <= 0 {
		return s, nil
	}
	level := FirstExit(d, r.ActiveTakeProfit)
	if level == 0 {
		return s, nil
	}

	sold := s.TotalShares
	proceeds := sold * d.Today.Close
	t := &model.Trade{
		Date:        d.Today.Date,
		Kind:        model.TradeExit,
		Level:       level,
		Price:       d.Today.Close,
		Amount:      proceeds,
		Shares:      -sold,
		RealizedPnL: proceeds - s.CostBasis,
	}
	s.CashFromSales += proceeds
	s.TotalShares = 0
	s.DividendShares = 0
	s.CostBasis = 0
	s.SellCount++
	return s, t
}
