package strategy

import (
	"errors"

	"ZoneDCA/internal/calculator"
	"ZoneDCA/internal/model"
)

// Analyze places the latest close of days against the day's regression and
// zone levels and suggests an action. Only take-profit levels listed in
// active count as sell zones; nil means all levels are active.
func Analyze(days []model.MarketDay, levels model.DayLevels, active []int) (*model.MarketPosition, error) {
	if len(days) == 0 {
		return nil, errors.New("no daily bars provided")
	}
	if levels.Regression <= 0 {
		return nil, errors.New("regression price must be positive")
	}

	price := days[len(days)-1].Close
	pos := &model.MarketPosition{
		Price:                  price,
		Regression:             levels.Regression,
		DistanceFromRegression: (price - levels.Regression) / levels.Regression * 100,
	}

	var err error
	if pos.HistoricalHigh, pos.HistoricalLow, err = calculator.HistoricalRange(days, calculator.YearLookback); err != nil {
		return nil, err
	}
	if pos.RecentHigh, pos.RecentLow, err = calculator.HistoricalRange(days, calculator.RecentLookback); err != nil {
		return nil, err
	}
	if pos.MomentumPct, err = calculator.Momentum(days, calculator.MomentumWindow); err != nil {
		return nil, err
	}

	locateZone(pos, levels.Zones, activeSet(active, len(levels.Zones.TakeProfitZones)))
	decide(pos, levels.Zones, firstActive(active, len(levels.Zones.TakeProfitZones)))
	return pos, nil
}

func activeSet(active []int, n int) map[int]bool {
	set := make(map[int]bool, n)
	if active == nil {
		for l := 1; l <= n; l++ {
			set[l] = true
		}
		return set
	}
	for _, l := range active {
		set[l] = true
	}
	return set
}

func firstActive(active []int, n int) int {
	set := activeSet(active, n)
	for l := 1; l <= n; l++ {
		if set[l] {
			return l
		}
	}
	return 0
}

// locateZone finds the deepest buy level below the price, or else the highest
// active take-profit level above it.
func locateZone(pos *model.MarketPosition, zones model.ZoneConfig, active map[int]bool) {
	for l := len(zones.BuyZones) - 1; l >= 0; l-- {
		if pos.Price < zones.BuyZones[l] {
			pos.ZoneType = model.ZoneBuy
			pos.ZoneLevel = l + 1
			if l+1 < len(zones.BuyZones) {
				pos.NextZoneLevel = l + 2
			}
			return
		}
	}
	for l := len(zones.TakeProfitZones) - 1; l >= 0; l-- {
		if active[l+1] && pos.Price > zones.TakeProfitZones[l] {
			pos.ZoneType = model.ZoneSell
			pos.ZoneLevel = l + 1
			for next := l + 2; next <= len(zones.TakeProfitZones); next++ {
				if active[next] {
					pos.NextZoneLevel = next
					break
				}
			}
			return
		}
	}
}
