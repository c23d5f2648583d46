package backtest

import "ZoneDCA/internal/model"

// DetectEntry reports a bounce at a buy zone: yesterday's candle touched or
// crossed below the zone and today's candle sits fully above it.
func DetectEntry(yesterday, today model.MarketDay, zone float64) model.Signal {
	return detectEntry(yesterday, today, zone, zone)
}

// DetectExit reports a breakdown at a take-profit zone: yesterday's candle
// touched or crossed above the zone and today's candle stayed fully below it.
func DetectExit(yesterday, today model.MarketDay, zone float64) model.Signal {
	return detectExit(yesterday, today, zone, zone)
}

// Each candle is compared to the zone price of its own day.
func detectEntry(yesterday, today model.MarketDay, zoneYesterday, zoneToday float64) model.Signal {
	touched := yesterday.High > zoneYesterday && yesterday.Low <= zoneYesterday
	recovered := today.Low > zoneToday && today.High > zoneToday
	if touched && recovered {
		return model.SignalEntry
	}
	return model.SignalNone
}

func detectExit(yesterday, today model.MarketDay, zoneYesterday, zoneToday float64) model.Signal {
	touched := yesterday.Low < zoneYesterday && yesterday.High >= zoneYesterday
	below := today.High < zoneToday && today.Low < zoneToday
	if touched && below {
		return model.SignalExit
	}
	return model.SignalNone
}

// FirstEntry returns the lowest buy zone level that fired an Entry on day d, or 0.
func FirstEntry(d Day) int {
	if d.Yesterday == nil {
		return 0
	}
	prev, cur := d.PrevLevels.Zones.BuyZones, d.Levels.Zones.BuyZones
	for l := 0; l < len(cur) && l < len(prev); l++ {
		if detectEntry(*d.Yesterday, d.Today, prev[l], cur[l]) == model.SignalEntry {
			return l + 1
		}
	}
	return 0
}

// FirstExit returns the lowest active take-profit level that fired an Exit on day d, or 0.
// A nil active set means every level is active.
func FirstExit(d Day, active map[int]bool) int {
	if d.Yesterday == nil {
		return 0
	}
	prev, cur := d.PrevLevels.Zones.TakeProfitZones, d.Levels.Zones.TakeProfitZones
	for l := 0; l < len(cur) && l < len(prev); l++ {
		if active != nil && !active[l+1] {
			continue
		}
		if detectExit(*d.Yesterday, d.Today, prev[l], cur[l]) == model.SignalExit {
			return l + 1
		}
	}
	return 0
}
