package model

// ZoneConfig holds the zone price levels for one day.
// Index i of each slice is zone level i+1; level 1 sits closest to the regression line.
type ZoneConfig struct {
	BuyZones        []float64 `json:"buy_zones"`
	TakeProfitZones []float64 `json:"take_profit_zones"`
}

// DayLevels is the regression price and zone set in effect on one day.
type DayLevels struct {
	Regression float64    `json:"regression"`
	Zones      ZoneConfig `json:"zones"`
}

// Curve is a per-day series of regression prices and zone levels, aligned
// index-for-index with a []MarketDay.
type Curve struct {
	Degree          int         `json:"degree"`
	Regression      []float64   `json:"regression"`
	BuyZones        [][]float64 `json:"buy_zones"`         // [level][day]
	TakeProfitZones [][]float64 `json:"take_profit_zones"` // [level][day]
}

// Len returns the number of days covered by the curve.
func (c *Curve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Regression)
}

// LevelsAt returns the regression price and zones for day i.
func (c *Curve) LevelsAt(i int) DayLevels {
	lv := DayLevels{
		Regression: c.Regression[i],
		Zones: ZoneConfig{
			BuyZones:        make([]float64, len(c.BuyZones)),
			TakeProfitZones: make([]float64, len(c.TakeProfitZones)),
		},
	}
	for l, series := range c.BuyZones {
		lv.Zones.BuyZones[l] = series[i]
	}
	for l, series := range c.TakeProfitZones {
		lv.Zones.TakeProfitZones[l] = series[i]
	}
	return lv
}

// Slice returns the curve restricted to days [from, to).
func (c *Curve) Slice(from, to int) *Curve {
	out := &Curve{
		Degree:          c.Degree,
		Regression:      c.Regression[from:to],
		BuyZones:        make([][]float64, len(c.BuyZones)),
		TakeProfitZones: make([][]float64, len(c.TakeProfitZones)),
	}
	for l, series := range c.BuyZones {
		out.BuyZones[l] = series[from:to]
	}
	for l, series := range c.TakeProfitZones {
		out.TakeProfitZones[l] = series[from:to]
	}
	return out
}

// ConstantCurve builds an n-day curve whose levels never change.
func ConstantCurve(n int, levels DayLevels) *Curve {
	c := &Curve{
		Regression:      make([]float64, n),
		BuyZones:        make([][]float64, len(levels.Zones.BuyZones)),
		TakeProfitZones: make([][]float64, len(levels.Zones.TakeProfitZones)),
	}
	for i := range c.Regression {
		c.Regression[i] = levels.Regression
	}
	for l, z := range levels.Zones.BuyZones {
		c.BuyZones[l] = fill(n, z)
	}
	for l, z := range levels.Zones.TakeProfitZones {
		c.TakeProfitZones[l] = fill(n, z)
	}
	return c
}

func fill(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}
