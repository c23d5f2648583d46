package snapshot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/model"
)

// Store keeps per-symbol snapshots with concurrency safety.
type Store struct {
	mu       sync.Mutex
	snaps    map[string]Snapshot
	filePath string
	log      zerolog.Logger
	now      func() time.Time
}

// NewStore creates a Store, loading existing snapshots from disk.
func NewStore(filePath string, log zerolog.Logger) (*Store, error) {
	snaps, err := loadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	return &Store{
		snaps:    snaps,
		filePath: filePath,
		log:      log.With().Str("component", "snapshot").Logger(),
		now:      time.Now,
	}, nil
}

// Get returns the snapshot for symbol.
func (s *Store) Get(symbol string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[key(symbol)]
	return snap, ok
}

// Update stores the outcome of a run and returns the trades that are new
// since the previous snapshot. Trade IDs shift as the window slides, so
// freshness is decided by date. Without a previous trade date only the trades
// of the final day count as new.
func (s *Store) Update(symbol, runID string, res *backtest.Result) []model.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(symbol)
	prev, seen := s.snaps[k]

	var fresh []model.Trade
	if n := len(res.Trades); n > 0 {
		cutoff := prev.LastTradeDate
		if !seen || cutoff.IsZero() {
			cutoff = res.Trades[n-1].Date.AddDate(0, 0, -1)
		}
		for _, t := range res.Trades {
			if t.Date.After(cutoff) {
				fresh = append(fresh, t)
			}
		}
	}

	next := Snapshot{
		RunID:         runID,
		LastTradeID:   prev.LastTradeID,
		LastTradeDate: prev.LastTradeDate,
		ROIPct:        res.Metrics.ROIPct,
		TotalShares:   res.Metrics.TotalShares,
		UpdatedAt:     s.now(),
	}
	if n := len(res.Trades); n > 0 {
		last := res.Trades[n-1]
		next.LastTradeID = last.ID
		next.LastTradeDate = last.Date
	}
	s.snaps[k] = next

	if err := saveFile(s.filePath, s.snaps); err != nil {
		s.log.Error().Err(err).Str("symbol", k).Msg("failed to save snapshots")
	}
	return fresh
}

func key(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }
