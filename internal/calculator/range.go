package calculator

import (
	"errors"
	"math"

	"ZoneDCA/internal/model"
)

const (
	// YearLookback is one year of trading days.
	YearLookback = 252
	// RecentLookback is the short window used for recent highs and lows.
	RecentLookback = 30
)

// HistoricalRange scans the most recent lookback days and returns the high and low.
// Fewer days than lookback are scanned in full.
func HistoricalRange(days []model.MarketDay, lookback int) (high, low float64, err error) {
	if len(days) == 0 {
		return 0, 0, errors.New("no daily bars provided")
	}
	if lookback <= 0 {
		return 0, 0, errors.New("lookback must be positive")
	}
	n := len(days)
	start := n - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if days[i].High > high {
			high = days[i].High
		}
		if days[i].Low < low {
			low = days[i].Low
		}
	}
	return high, low, nil
}

// RangePosition returns where price sits within [low, high] (0.0~1.0).
func RangePosition(price, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (price - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
