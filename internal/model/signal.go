package model

import (
	"fmt"
	"time"
)

// Signal is the outcome of a two-day candle pattern check against a zone.
type Signal int

const (
	SignalNone Signal = iota
	SignalEntry
	SignalExit
)

func (s Signal) String() string {
	switch s {
	case SignalEntry:
		return "ENTRY"
	case SignalExit:
		return "EXIT"
	default:
		return "NONE"
	}
}

// TradeKind is the closed set of ledger entry categories.
type TradeKind int

const (
	TradeDailyDCA TradeKind = iota + 1
	TradeZoneBuy
	TradeDividend
	TradeExit
)

var tradeKindLabels = map[TradeKind]string{
	TradeDailyDCA: "DAILY_DCA",
	TradeZoneBuy:  "ZONE_BUY",
	TradeDividend: "DIVIDEND",
	TradeExit:     "EXIT",
}

func (k TradeKind) String() string {
	if l, ok := tradeKindLabels[k]; ok {
		return l
	}
	return fmt.Sprintf("TradeKind(%d)", int(k))
}

// Valid reports whether k is one of the known kinds.
func (k TradeKind) Valid() bool {
	_, ok := tradeKindLabels[k]
	return ok
}

// IsBuy reports whether the trade commits new cash to the position.
func (k TradeKind) IsBuy() bool {
	return k == TradeDailyDCA || k == TradeZoneBuy
}

func (k TradeKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown trade kind %d", int(k))
	}
	return []byte(tradeKindLabels[k]), nil
}

func (k *TradeKind) UnmarshalText(b []byte) error {
	parsed, err := ParseTradeKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseTradeKind maps a stored label back to its kind.
func ParseTradeKind(s string) (TradeKind, error) {
	for k, l := range tradeKindLabels {
		if l == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown trade kind %q", s)
}

// Trade is an immutable ledger entry. Shares is the signed share delta.
type Trade struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Kind        TradeKind `json:"kind"`
	Level       int       `json:"level"` // zone level, 0 for daily buys and dividends
	Price       float64   `json:"price"`
	Amount      float64   `json:"amount"` // cash invested, reinvested or received
	Shares      float64   `json:"shares"`
	RealizedPnL float64   `json:"realized_pnl,omitempty"`
}
