package model

// DefaultDividendCadence is the number of trading-day rows between dividend credits.
const DefaultDividendCadence = 90

// AssetType classifies the simulated instrument.
type AssetType string

const (
	AssetStock  AssetType = "STOCK"
	AssetCrypto AssetType = "CRYPTO"
)

// AssetProfile holds the static per-simulation facts about an asset.
type AssetProfile struct {
	Symbol        string    `json:"symbol"`
	Type          AssetType `json:"type"`
	PaysDividend  bool      `json:"pays_dividend"`
	DividendRate  float64   `json:"dividend_rate"`  // annual cash per share
	DividendYield float64   `json:"dividend_yield"` // decimal, 0.02 = 2%
	CadenceDays   int       `json:"cadence_days"`
}

// Cadence returns the dividend cadence, falling back to DefaultDividendCadence.
func (a AssetProfile) Cadence() int {
	if a.CadenceDays <= 0 {
		return DefaultDividendCadence
	}
	return a.CadenceDays
}
