package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/model"
	"ZoneDCA/internal/optimizer"
)

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.APIBase = srv.URL
	require.NoError(t, n.Send("<b>hi</b>"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.APIBase = srv.URL
	err := n.Send("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.SendWithRetry(ctx, "x", 3), context.Canceled)
}

func TestStartPolling_RepliesToCommands(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []string
		served  bool
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if served {
				cancel()
				w.Write([]byte(`{"ok":true,"result":[]}`))
				return
			}
			served = true
			w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /help "}},{"update_id":8}]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			replies = append(replies, p["text"])
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("T", "1", "", zerolog.Nop())
	n.APIBase = srv.URL

	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string { return "echo " + cmd })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"echo /help"}, replies)
}

func TestFormatBacktestReport(t *testing.T) {
	res := &backtest.Result{
		Symbol: "SPY", Degree: 4, DailyAmount: 5.48,
		Metrics: backtest.Metrics{
			CashInvested: 1000, CurrentValue: 1100, TotalReturn: 100, ROIPct: 10, TotalShares: 2, LastPrice: 550,
			DividendIncome: 3.2, DividendShares: 0.006,
			NextTakeProfit: &backtest.Target{Level: 1, Price: 600},
		},
	}
	msg := FormatBacktestReport(res, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, msg, "ZoneDCA SPY</b> | 2024-06-03")
	assert.Contains(t, msg, "<b>+10.00%</b>")
	assert.Contains(t, msg, "Dividends: $3.20")
	assert.Contains(t, msg, "Next TP1: $600.00")
	assert.NotContains(t, msg, "Lot win rate")
}

func TestFormatNewTrades(t *testing.T) {
	assert.Empty(t, FormatNewTrades("SPY", nil))

	d := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	msg := FormatNewTrades("SPY", []model.Trade{
		{Date: d, Kind: model.TradeZoneBuy, Level: 2, Price: 90, Amount: 27.4, Shares: 0.3044},
		{Date: d, Kind: model.TradeExit, Level: 1, Price: 110, Amount: 220, Shares: -2, RealizedPnL: 20},
	})
	assert.Contains(t, msg, "2 new signal(s)")
	assert.Contains(t, msg, "ZONE_BUY L2")
	assert.Contains(t, msg, "P&amp;L $+20.00")
}

func TestFormatPositionAndOptimization(t *testing.T) {
	pos := &model.MarketPosition{Price: 95, Regression: 100, DistanceFromRegression: -5,
		ZoneType: model.ZoneBuy, ZoneLevel: 1, NextZoneLevel: 2, Action: model.ActionBuy, Recommendation: "Buy <now>"}
	msg := FormatPosition("KO", pos)
	assert.Contains(t, msg, "Zone: buy L1 (next L2)")
	assert.Contains(t, msg, "Buy &lt;now&gt;")

	rep := &optimizer.Report{Symbol: "KO", BestDegree: 3, BestROIPct: 7.5,
		Results: []optimizer.DegreeResult{{Degree: 1, ROIPct: 2}, {Degree: 3, ROIPct: 7.5}},
		Skipped: []optimizer.Skipped{{Degree: 5, Reason: "singular"}}}
	out := FormatOptimization(rep)
	assert.Contains(t, out, "Best: degree 3 (+7.50%)")
	assert.Contains(t, out, "Skipped 1 degree(s)")
	assert.Contains(t, FormatHelp(), "/optimize")
}
