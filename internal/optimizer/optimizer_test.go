package optimizer

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/model"
)

func cyclicDays(n int) []model.MarketDay {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	days := make([]model.MarketDay, n)
	for i := range days {
		c := 100 + 0.05*float64(i) + 12*math.Sin(float64(i)/15)
		days[i] = model.MarketDay{Date: start.AddDate(0, 0, i), High: c * 1.01, Low: c * 0.99, Close: c}
	}
	return days
}

func TestOptions_Degrees(t *testing.T) {
	assert.Equal(t, []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}, Options{}.Degrees())
	assert.Equal(t, []int{2, 3, 4}, Options{MinDegree: 2, MaxDegree: 4, Step: 1}.Degrees())
}

func TestOptimize(t *testing.T) {
	days := cyclicDays(600)
	params := backtest.Params{TotalBudget: 10000, Years: 2}

	report, err := Optimize(context.Background(), days, model.AssetProfile{Symbol: "TEST"}, params,
		Options{MinDegree: 1, MaxDegree: 9, Step: 2, Workers: 3})
	require.NoError(t, err)

	require.Len(t, report.Results, 5)
	for i, r := range report.Results {
		assert.Equal(t, 1+2*i, r.Degree, "results are sorted by degree")
		assert.Greater(t, r.CashInvested, 0.0)
		assert.GreaterOrEqual(t, report.BestROIPct, r.ROIPct)
	}
	assert.Contains(t, []int{1, 3, 5, 7, 9}, report.BestDegree)
	assert.Empty(t, report.Skipped)
}

func TestOptimize_MatchesSingleRun(t *testing.T) {
	days := cyclicDays(400)
	params := backtest.Params{TotalBudget: 5000, Years: 1}
	opts := Options{MinDegree: 3, MaxDegree: 3, Step: 1}

	report, err := Optimize(context.Background(), days, model.AssetProfile{Symbol: "TEST"}, params, opts)
	require.NoError(t, err)

	single, err := evaluate(days, model.AssetProfile{Symbol: "TEST"}, params, 3, opts.withDefaults())
	require.NoError(t, err)
	assert.Equal(t, *single, report.Results[0])
}

func TestOptimize_SkipsFailedRuns(t *testing.T) {
	_, err := Optimize(context.Background(), cyclicDays(50), model.AssetProfile{},
		backtest.Params{TotalBudget: 0, Years: 1}, Options{MaxDegree: 3})
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestOptimize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Optimize(ctx, cyclicDays(100), model.AssetProfile{}, backtest.Params{TotalBudget: 1, Years: 1}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
