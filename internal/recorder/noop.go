package recorder

import "ZoneDCA/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(rec *RunRecord) error {
	if rec.ID == "" {
		rec.ID = NewRunID()
	}
	return nil
}

func (n *NoopRecorder) RecordOptimization(_ *OptimizationRecord) error { return nil }
func (n *NoopRecorder) ListRuns(_ string, _ int) ([]RunSummary, error) { return nil, nil }
func (n *NoopRecorder) LoadTrades(_ string) ([]model.Trade, error)     { return nil, ErrRunNotFound }
func (n *NoopRecorder) LoadLots(_ string) ([]model.Lot, error)         { return nil, ErrRunNotFound }
func (n *NoopRecorder) Close() error                                   { return nil }
