package reporting

import (
	"bytes"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/model"
)

var d0 = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func sample() *backtest.Result {
	closed := model.Lot{BuyDate: d0, BuyPrice: 100, Kind: model.TradeZoneBuy, Level: 2, Shares: 1.5, Amount: 150}
	closed.Close(d0.AddDate(0, 0, 10), 110.005, 1)
	return &backtest.Result{
		Symbol:      "KO",
		Degree:      3,
		DailyAmount: 5.4794520547,
		Trades: []model.Trade{
			{ID: "KO-20240506-ZONE_BUY-1", Date: d0, Kind: model.TradeZoneBuy, Level: 2, Price: 100, Amount: 150, Shares: 1.5},
			{ID: "KO-20240516-EXIT-2", Date: d0.AddDate(0, 0, 10), Kind: model.TradeExit, Level: 1, Price: 110.005, Amount: 165.0075, Shares: -1.5, RealizedPnL: 15.0075},
		},
		Lots: []model.Lot{closed, {BuyDate: d0.AddDate(0, 0, 11), BuyPrice: 108, Kind: model.TradeDailyDCA, Shares: 0.05, Amount: 5.4}},
		Metrics: backtest.Metrics{
			CashInvested: 155.4, TotalShares: 0.05, LastPrice: 108, CurrentValue: 5.4, CashFromSales: 165.0075,
			TotalReturn: 15.0075, ROIPct: 9.657, ZoneBuyCount: 1, DailyBuyCount: 1, SellCount: 1,
			ClosedLots: 1, WinningLots: 1, LotWinRatePct: 100, AvgHoldDays: 10,
			NextTakeProfit: &backtest.Target{Level: 2, Price: 120},
		},
	}
}

func TestWriteTradesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, sample().Trades))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "realized_pnl", rows[0][7])
	assert.Equal(t, []string{"KO-20240516-EXIT-2", "2024-05-16", "EXIT", "1", "110.01", "165.01", "-1.500000", "15.01"}, rows[2])
}

func TestWriteLotsCSV_OpenLotHasEmptySellColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLotsCSV(&buf, sample().Lots))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-05-16", rows[1][6])
	assert.Equal(t, "10", rows[1][11])
	assert.Equal(t, "DAILY_DCA", rows[2][1])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][11])
}

func TestSaveCSV(t *testing.T) {
	dir := t.TempDir()
	paths, err := SaveCSV(dir, sample())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sample())
	assert.Contains(t, md, "## KO (degree 3)")
	assert.Contains(t, md, "| Daily amount | $5.48 |")
	assert.Contains(t, md, "| ROI | 9.66% |")
	assert.Contains(t, md, "| Next take-profit | TP2 at $120.00 |")
	assert.NotContains(t, md, "Dividend income")
}
