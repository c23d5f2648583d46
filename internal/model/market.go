package model

import "time"

// MarketDay represents a single daily candlestick bar.
// Close is the price used for execution and valuation.
type MarketDay struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Closes extracts the close prices of the given days.
func Closes(days []MarketDay) []float64 {
	closes := make([]float64, len(days))
	for i, d := range days {
		closes[i] = d.Close
	}
	return closes
}

// Dataset holds everything a simulation run needs for one symbol.
type Dataset struct {
	Symbol    string
	Days      []MarketDay
	Curve     *Curve
	Asset     AssetProfile
	FetchedAt time.Time
}
