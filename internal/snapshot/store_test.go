package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/model"
)

func day(n int) time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n) }

func result(dates ...int) *backtest.Result {
	res := &backtest.Result{Metrics: backtest.Metrics{ROIPct: 3.5, TotalShares: 2}}
	for i, d := range dates {
		res.Trades = append(res.Trades, model.Trade{ID: string(rune('a' + i)), Date: day(d), Kind: model.TradeDailyDCA})
	}
	return res
}

func TestUpdate_FirstRunReportsFinalDayOnly(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "snap.json"), zerolog.Nop())
	require.NoError(t, err)

	fresh := s.Update("spy", "run-1", result(1, 2, 5, 5))
	require.Len(t, fresh, 2)
	assert.Equal(t, day(5), fresh[0].Date)

	snap, ok := s.Get("SPY")
	require.True(t, ok)
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, day(5), snap.LastTradeDate)
	assert.Equal(t, 3.5, snap.ROIPct)
}

func TestUpdate_DiffsByDateAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snap.json")
	s, err := NewStore(path, zerolog.Nop())
	require.NoError(t, err)
	s.Update("SPY", "run-1", result(1, 2))

	reloaded, err := NewStore(path, zerolog.Nop())
	require.NoError(t, err)
	fresh := reloaded.Update("SPY", "run-2", result(1, 2, 3, 4))
	require.Len(t, fresh, 2)
	assert.Equal(t, day(3), fresh[0].Date)
	assert.Equal(t, day(4), fresh[1].Date)

	assert.Empty(t, reloaded.Update("SPY", "run-3", result(2, 3, 4)))
	snap, _ := reloaded.Get("SPY")
	assert.Equal(t, "run-3", snap.RunID)
}

func TestUpdate_NoTradesKeepsLastDate(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "snap.json"), zerolog.Nop())
	require.NoError(t, err)
	s.Update("KO", "run-1", result(7))
	assert.Empty(t, s.Update("KO", "run-2", result()))

	snap, _ := s.Get("KO")
	assert.Equal(t, day(7), snap.LastTradeDate)
	_, ok := s.Get("SPY")
	assert.False(t, ok)
}

func TestUpdate_TradelessSnapshotReportsFinalDayOnly(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "snap.json"), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, s.Update("spy", "run-1", result()))

	snap, ok := s.Get("SPY")
	require.True(t, ok)
	assert.True(t, snap.LastTradeDate.IsZero())

	fresh := s.Update("SPY", "run-2", result(1, 2, 3, 3))
	require.Len(t, fresh, 2)
	assert.Equal(t, day(3), fresh[0].Date)
	assert.Equal(t, day(3), fresh[1].Date)
}
