package backtest

import "ZoneDCA/internal/model"

// Accrue computes the quarterly dividend owed on dayIndex and the shares it
// buys at price. It uses the shares held before any same-day trade.
// Zero is returned whenever the asset, holdings or day index are not eligible.
func Accrue(state model.SimulationState, asset model.AssetProfile, dayIndex int, price float64) (cash, shares float64) {
	if !asset.PaysDividend || asset.DividendRate <= 0 || state.TotalShares <= 0 {
		return 0, 0
	}
	if dayIndex <= 0 || dayIndex%asset.Cadence() != 0 {
		return 0, 0
	}
	if price <= 0 {
		return 0, 0
	}
	cash = (asset.DividendRate / 4) * state.TotalShares
	return cash, cash / price
}
