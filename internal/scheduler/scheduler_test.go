package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/calculator"
	"ZoneDCA/internal/collector"
	"ZoneDCA/internal/optimizer"
	"ZoneDCA/internal/recorder"
	"ZoneDCA/internal/services"
	"ZoneDCA/internal/snapshot"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureNotifier) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return nil
}

func newScheduler(t *testing.T) (*Scheduler, *captureNotifier) {
	t.Helper()
	col := collector.NewCollector(&collector.MockFetcher{Price: 100}, "SPY", collector.Options{
		HistoryDays: 400, Degree: 2, Bands: calculator.DefaultBands, Method: calculator.MethodEnhanced,
	}, zerolog.Nop())
	svc := services.NewBacktestService(col, recorder.NewNoopRecorder(),
		backtest.Params{TotalBudget: 5000, Years: 1},
		optimizer.Options{MinDegree: 1, MaxDegree: 3, Step: 2, Workers: 1}, zerolog.Nop())
	snaps, err := snapshot.NewStore(filepath.Join(t.TempDir(), "snap.json"), zerolog.Nop())
	require.NoError(t, err)

	n := &captureNotifier{}
	return NewScheduler(context.Background(), svc, snaps, n, zerolog.Nop()), n
}

func TestRegisterAll(t *testing.T) {
	s, _ := newScheduler(t)
	require.NoError(t, s.RegisterAll("0 0 22 * * 1-5", "0 0 9 * * 6"))
	assert.Len(t, s.Cron.Entries(), 2)

	s2, _ := newScheduler(t)
	assert.Error(t, s2.RegisterAll("not a cron", ""))
}

func TestRunDailyNow_SendsReportAndUpdatesSnapshot(t *testing.T) {
	s, n := newScheduler(t)
	s.RunDailyNow()

	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "ZoneDCA SPY")
	snap, ok := s.Snapshots.Get("SPY")
	require.True(t, ok)
	assert.NotEmpty(t, snap.RunID)
}

func TestHandleCommand(t *testing.T) {
	s, _ := newScheduler(t)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/help"), "/backtest")
	assert.Contains(t, s.HandleCommand(ctx, "hello"), "/position")
	assert.Contains(t, s.HandleCommand(ctx, "/backtest ko"), "ZoneDCA KO")
	assert.Contains(t, s.HandleCommand(ctx, "/position@ZoneBot"), "SPY position")
	assert.True(t, strings.Contains(s.HandleCommand(ctx, "/optimize"), "degree sweep"))
}
