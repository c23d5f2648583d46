package calculator

import (
	"errors"

	"ZoneDCA/internal/model"
)

// MomentumWindow is the number of closes spanned by the short-term momentum reading.
const MomentumWindow = 5

// Momentum returns the percent change of the last close against the close
// window-1 rows earlier. With fewer than window days the change is zero.
func Momentum(days []model.MarketDay, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(days) == 0 {
		return 0, errors.New("no daily bars provided")
	}
	n := len(days)
	if n < window {
		return 0, nil
	}
	base := days[n-window].Close
	if base <= 0 {
		return 0, errors.New("non-positive base price")
	}
	return (days[n-1].Close - base) / base * 100, nil
}

// PriceChanges are absolute close-to-close changes over fixed lookbacks.
type PriceChanges struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
	Days90  float64 `json:"days_90"`
	Months6 float64 `json:"months_6"`
}

// MinChangeHistory is the shortest series CalculatePriceChanges accepts.
const MinChangeHistory = 132

// CalculatePriceChanges compares the last close with the close 1, 5, 21, 89 and 131 rows earlier.
func CalculatePriceChanges(days []model.MarketDay) (*PriceChanges, error) {
	n := len(days)
	if n < MinChangeHistory {
		return nil, errors.New("not enough data for price changes")
	}
	last := days[n-1].Close
	back := func(k int) float64 { return last - days[n-k].Close }
	return &PriceChanges{
		Daily:   back(2),
		Weekly:  back(6),
		Monthly: back(22),
		Days90:  back(90),
		Months6: back(132),
	}, nil
}
