package collector

import (
	"strings"

	"ZoneDCA/internal/model"
)

var cryptoMarkers = []string{"-USD", "-USDT", "-BUSD", "BTC", "ETH", "USDT", "USDC"}

// DetectAssetType classifies a ticker by its symbol alone.
func DetectAssetType(symbol string) model.AssetType {
	s := strings.ToUpper(symbol)
	for _, m := range cryptoMarkers {
		if strings.Contains(s, m) {
			return model.AssetCrypto
		}
	}
	return model.AssetStock
}

// baseProfile is the profile used when nothing beyond the symbol is known.
func baseProfile(symbol string) model.AssetProfile {
	return model.AssetProfile{
		Symbol:      symbol,
		Type:        DetectAssetType(symbol),
		CadenceDays: model.DefaultDividendCadence,
	}
}
