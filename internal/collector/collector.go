package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ZoneDCA/internal/calculator"
	"ZoneDCA/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price      float64
	DailyData  []model.MarketDay
	Profile    *model.AssetProfile
	ProfileErr error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.MarketDay, error) {
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, days), nil
}

func (m *MockFetcher) FetchAssetProfile(_ context.Context, symbol string) (model.AssetProfile, error) {
	if m.ProfileErr != nil {
		return model.AssetProfile{}, m.ProfileErr
	}
	if m.Profile != nil {
		return *m.Profile, nil
	}
	return baseProfile(symbol), nil
}

// generateMockBars draws a slow sine wave around basePrice so curves have zones to cross.
func generateMockBars(basePrice float64, count int) []model.MarketDay {
	bars := make([]model.MarketDay, count)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.0005 + 0.08*wave(i))
		bars[i] = model.MarketDay{
			Date:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// wave is a triangle wave with a 60-day period, in [-1, 1].
func wave(i int) float64 {
	phase := float64(i%60) / 60
	if phase < 0.5 {
		return 4*phase - 1
	}
	return 3 - 4*phase
}

// Options controls how much history is fetched and how the curve is fitted.
type Options struct {
	HistoryDays int
	Degree      int
	Bands       int
	Method      calculator.Method
}

// Collector orchestrates data fetching and curve computation.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Options Options
	log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, opts Options, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Symbol:  symbol,
		Options: opts,
		log:     log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// Collect fetches the configured symbol.
func (c *Collector) Collect(ctx context.Context) (*model.Dataset, error) {
	return c.CollectSymbol(ctx, c.Symbol)
}

// FetchHistory fetches daily bars and the asset profile for symbol. A failed
// profile lookup falls back to a non-dividend profile.
func (c *Collector) FetchHistory(ctx context.Context, symbol string) ([]model.MarketDay, model.AssetProfile, error) {
	days, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Options.HistoryDays)
	if err != nil {
		return nil, model.AssetProfile{}, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(days) == 0 {
		return nil, model.AssetProfile{}, errors.New("no daily bars returned")
	}

	asset, err := c.Fetcher.FetchAssetProfile(ctx, symbol)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("asset profile unavailable, assuming no dividends")
		asset = baseProfile(symbol)
	}
	return days, asset, nil
}

// CollectSymbol fetches bars and the asset profile for symbol and fits the zone curve
// over the whole history.
func (c *Collector) CollectSymbol(ctx context.Context, symbol string) (*model.Dataset, error) {
	days, asset, err := c.FetchHistory(ctx, symbol)
	if err != nil {
		return nil, err
	}

	curve, err := calculator.BuildCurve(days, c.Options.Degree, c.Options.Bands, c.Options.Method)
	if err != nil {
		return nil, fmt.Errorf("build curve: %w", err)
	}
	if curve.Degree != c.Options.Degree {
		c.log.Debug().Int("requested", c.Options.Degree).Int("used", curve.Degree).Msg("degree reduced")
	}

	c.log.Info().
		Str("symbol", symbol).
		Int("days", len(days)).
		Str("asset_type", string(asset.Type)).
		Bool("pays_dividend", asset.PaysDividend).
		Msg("dataset collected")

	return &model.Dataset{
		Symbol:    symbol,
		Days:      days,
		Curve:     curve,
		Asset:     asset,
		FetchedAt: time.Now(),
	}, nil
}
