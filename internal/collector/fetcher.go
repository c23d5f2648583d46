package collector

import (
	"context"

	"ZoneDCA/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.MarketDay, error)
	FetchAssetProfile(ctx context.Context, symbol string) (model.AssetProfile, error)
	Name() string
}
