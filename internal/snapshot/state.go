package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is the last backtest outcome seen for one symbol.
type Snapshot struct {
	RunID         string    `json:"run_id"`
	LastTradeID   string    `json:"last_trade_id,omitempty"`
	LastTradeDate time.Time `json:"last_trade_date,omitempty"`
	ROIPct        float64   `json:"roi_pct"`
	TotalShares   float64   `json:"total_shares"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// loadFile reads the snapshot map from a JSON file. Returns an empty map if the file doesn't exist.
func loadFile(filePath string) (map[string]Snapshot, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Snapshot{}, nil
		}
		return nil, err
	}
	snaps := map[string]Snapshot{}
	if len(data) == 0 {
		return snaps, nil
	}
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

// saveFile writes the snapshot map to a JSON file, creating the directory when needed.
func saveFile(filePath string, snaps map[string]Snapshot) error {
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0o644)
}
