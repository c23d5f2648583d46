package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ZoneDCA/internal/model"
)

func TestSummarize(t *testing.T) {
	state := model.SimulationState{
		CashInvested:   100,
		TotalShares:    2,
		DividendShares: 0.5,
		CashFromSales:  30,
	}
	trades := []model.Trade{
		{Kind: model.TradeDailyDCA, Amount: 100},
		{Kind: model.TradeExit, Amount: 30, RealizedPnL: 5},
	}
	m := Summarize(state, trades, 50)

	assert.Equal(t, 100.0, m.CurrentValue)
	assert.Equal(t, 30.0, m.TotalReturn)
	assert.InDelta(t, 30.0, m.ROIPct, 1e-9)
	assert.Equal(t, 25.0, m.DividendSharesValue)
	assert.Equal(t, 5.0, m.RealizedPnL)
}

func TestSummarize_NothingInvested(t *testing.T) {
	m := Summarize(model.SimulationState{}, nil, 100)
	assert.Zero(t, m.ROIPct)
	assert.Zero(t, m.TotalReturn)
}

func TestMaxDrawdown(t *testing.T) {
	equity := []model.EquityPoint{
		{Value: 0}, {Value: 100}, {Value: 120}, {Value: 90}, {Value: 130}, {Value: 117},
	}
	assert.InDelta(t, 25.0, MaxDrawdown(equity), 1e-9)
	assert.Zero(t, MaxDrawdown(nil))
}
