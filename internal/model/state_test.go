package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLot_Close(t *testing.T) {
	buy := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		price    float64
		held     int
		wantPnL  float64
		wantROI  float64
		buyPrice float64
	}{
		{"gain", 120, 30, 40, 20, 100},
		{"loss", 90, 1, -20, -10, 100},
		{"same day", 100, 0, 0, 0, 100},
		{"free shares", 50, 10, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Lot{BuyDate: buy, BuyPrice: tt.buyPrice, Shares: 2, Kind: TradeDailyDCA}
			require.True(t, l.Open())

			sold := buy.AddDate(0, 0, tt.held)
			l.Close(sold, tt.price, 1)

			assert.False(t, l.Open())
			require.NotNil(t, l.SellDate)
			assert.Equal(t, sold, *l.SellDate)
			assert.Equal(t, tt.price, l.SellPrice)
			assert.Equal(t, 1, l.SellLevel)
			assert.InDelta(t, tt.wantPnL, l.PnL, 1e-9)
			assert.InDelta(t, tt.wantROI, l.ROIPct, 1e-9)
			assert.Equal(t, tt.held, l.HoldDays)
		})
	}
}
