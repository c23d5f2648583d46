package model

// ZoneType indicates which side of the regression band the price sits in.
type ZoneType string

const (
	ZoneNone ZoneType = ""
	ZoneBuy  ZoneType = "BUY"
	ZoneSell ZoneType = "SELL"
)

// Action is the suggested action for the current market position.
type Action string

const (
	ActionSell    Action = "SELL"
	ActionBuy     Action = "BUY"
	ActionHold    Action = "HOLD"
	ActionMonitor Action = "MONITOR"
	ActionNeutral Action = "NEUTRAL"
)

// MarketPosition describes where the latest price sits relative to the curve.
type MarketPosition struct {
	Price                  float64  `json:"price"`
	Regression             float64  `json:"regression"`
	DistanceFromRegression float64  `json:"distance_from_regression"` // percent
	ZoneType               ZoneType `json:"zone_type"`
	ZoneLevel              int      `json:"zone_level"`
	NextZoneLevel          int      `json:"next_zone_level"`
	MomentumPct            float64  `json:"momentum_pct"` // 5-day change
	HistoricalHigh         float64  `json:"historical_high"`
	HistoricalLow          float64  `json:"historical_low"`
	RecentHigh             float64  `json:"recent_high"`
	RecentLow              float64  `json:"recent_low"`
	Action                 Action   `json:"action"`
	Recommendation         string   `json:"recommendation"`
}
