package recorder

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/model"
	"ZoneDCA/internal/optimizer"
)

func openTest(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleRun(symbol string, started time.Time) *RunRecord {
	d0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(0, 0, 3)
	lot := model.Lot{BuyDate: d0, BuyPrice: 100, Kind: model.TradeZoneBuy, Level: 1, Shares: 0.5, Amount: 50}
	lot.Close(d1, 120, 2)
	return &RunRecord{
		Symbol:    symbol,
		StartedAt: started,
		Duration:  150 * time.Millisecond,
		Params:    backtest.Params{TotalBudget: 10000, Years: 1, ActiveTakeProfit: []int{2}},
		Asset:     model.AssetProfile{Symbol: symbol, Type: model.AssetStock},
		Result: &backtest.Result{
			Symbol:      symbol,
			Degree:      4,
			DailyAmount: 27.4,
			Trades: []model.Trade{
				{ID: symbol + "-20240301-ZONE_BUY-1", Date: d0, Kind: model.TradeZoneBuy, Level: 1, Price: 100, Amount: 50, Shares: 0.5},
				{ID: symbol + "-20240304-EXIT-2", Date: d1, Kind: model.TradeExit, Level: 2, Price: 120, Amount: 60, Shares: -0.5, RealizedPnL: 10},
			},
			Lots: []model.Lot{
				lot,
				{BuyDate: d1, BuyPrice: 118, Kind: model.TradeDailyDCA, Shares: 0.2, Amount: 23.6},
			},
			Metrics: backtest.Metrics{CashInvested: 73.6, CashFromSales: 60, ROIPct: 14.1, ZoneBuyCount: 1, SellCount: 1},
		},
	}
}

func TestRecordRun_RoundTrip(t *testing.T) {
	r := openTest(t)
	rec := sampleRun("SPY", time.Unix(1700000000, 0))
	require.NoError(t, r.RecordRun(rec))
	require.NotEmpty(t, rec.ID)

	trades, err := r.LoadTrades(rec.ID)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, rec.Result.Trades[0], trades[0])
	assert.Equal(t, model.TradeExit, trades[1].Kind)
	assert.Equal(t, 10.0, trades[1].RealizedPnL)

	lots, err := r.LoadLots(rec.ID)
	require.NoError(t, err)
	require.Len(t, lots, 2)
	require.NotNil(t, lots[0].SellDate)
	assert.Equal(t, 3, lots[0].HoldDays)
	assert.Equal(t, 2, lots[0].SellLevel)
	assert.True(t, lots[1].Open())
}

func TestListRuns_NewestFirstAndFiltered(t *testing.T) {
	r := openTest(t)
	base := time.Unix(1700000000, 0)
	require.NoError(t, r.RecordRun(sampleRun("SPY", base)))
	require.NoError(t, r.RecordRun(sampleRun("KO", base.Add(time.Hour))))
	require.NoError(t, r.RecordRun(sampleRun("SPY", base.Add(2*time.Hour))))

	all, err := r.ListRuns("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "SPY", all[0].Symbol)
	assert.Equal(t, base.Add(2*time.Hour).Unix(), all[0].StartedAt.Unix())
	assert.Equal(t, 2, all[0].Trades)
	assert.Equal(t, 4, all[0].Degree)

	spy, err := r.ListRuns("SPY", 1)
	require.NoError(t, err)
	require.Len(t, spy, 1)
	assert.Equal(t, 14.1, spy[0].ROIPct)
}

func TestLoadTrades_UnknownRun(t *testing.T) {
	r := openTest(t)
	_, err := r.LoadTrades("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = r.LoadLots("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRecordOptimization(t *testing.T) {
	r := openTest(t)
	rec := &OptimizationRecord{
		StartedAt: time.Now(),
		Report: &optimizer.Report{
			Symbol:     "SPY",
			BestDegree: 3,
			BestROIPct: 12.5,
			Results:    []optimizer.DegreeResult{{Degree: 1, ROIPct: 4}, {Degree: 3, ROIPct: 12.5}},
		},
	}
	require.NoError(t, r.RecordOptimization(rec))
	assert.NotEmpty(t, rec.ID)
	assert.Error(t, r.RecordOptimization(&OptimizationRecord{}))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	rec := &RunRecord{}
	require.NoError(t, r.RecordRun(rec))
	assert.NotEmpty(t, rec.ID)
	runs, err := r.ListRuns("", 10)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	_, err = r.LoadTrades(rec.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}
