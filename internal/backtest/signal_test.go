package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ZoneDCA/internal/model"
)

var baseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func bar(n int, high, low, close float64) model.MarketDay {
	return model.MarketDay{
		Date:  baseDate.AddDate(0, 0, n),
		Open:  close,
		High:  high,
		Low:   low,
		Close: close,
	}
}

func TestDetectEntry(t *testing.T) {
	tests := []struct {
		name      string
		yesterday model.MarketDay
		today     model.MarketDay
		want      model.Signal
	}{
		{"bounce", bar(0, 93, 89, 92), bar(1, 96, 91, 95), model.SignalEntry},
		{"low exactly on zone", bar(0, 93, 90, 92), bar(1, 96, 91, 95), model.SignalEntry},
		{"yesterday fully above", bar(0, 95, 91, 93), bar(1, 96, 91, 95), model.SignalNone},
		{"yesterday fully below", bar(0, 89, 85, 88), bar(1, 96, 91, 95), model.SignalNone},
		{"today touches zone", bar(0, 93, 89, 92), bar(1, 96, 90, 95), model.SignalNone},
		{"today below", bar(0, 93, 89, 92), bar(1, 89, 85, 86), model.SignalNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectEntry(tt.yesterday, tt.today, 90))
		})
	}
}

func TestDetectExit(t *testing.T) {
	tests := []struct {
		name      string
		yesterday model.MarketDay
		today     model.MarketDay
		want      model.Signal
	}{
		{"breakdown", bar(0, 126, 119, 121), bar(1, 122, 118, 120), model.SignalExit},
		{"high exactly on zone", bar(0, 125, 119, 121), bar(1, 122, 118, 120), model.SignalExit},
		{"yesterday fully below", bar(0, 124, 119, 121), bar(1, 122, 118, 120), model.SignalNone},
		{"today touches zone", bar(0, 126, 119, 121), bar(1, 125, 118, 120), model.SignalNone},
		{"today above", bar(0, 126, 119, 121), bar(1, 130, 126, 128), model.SignalNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectExit(tt.yesterday, tt.today, 125))
		})
	}
}

func TestFirstEntry_NoSignalOnFirstDay(t *testing.T) {
	levels := model.DayLevels{Regression: 105, Zones: model.ZoneConfig{BuyZones: []float64{90}}}
	d := Day{Index: 0, Today: bar(0, 96, 91, 95), Levels: levels}
	assert.Equal(t, 0, FirstEntry(d))
	assert.Equal(t, 0, FirstExit(d, nil))
}

func TestFirstEntry_LowestLevelWins(t *testing.T) {
	y := bar(0, 93, 79, 85)
	levels := model.DayLevels{
		Regression: 105,
		Zones:      model.ZoneConfig{BuyZones: []float64{90, 80}},
	}
	d := Day{Index: 1, Today: bar(1, 96, 91, 95), Yesterday: &y, Levels: levels, PrevLevels: levels}
	assert.Equal(t, 1, FirstEntry(d))
}

func TestFirstEntry_UsesEachDaysZone(t *testing.T) {
	y := bar(0, 93, 89, 92)
	d := Day{
		Index:      1,
		Today:      bar(1, 96, 91, 95),
		Yesterday:  &y,
		PrevLevels: model.DayLevels{Zones: model.ZoneConfig{BuyZones: []float64{90}}},
		// today's zone moved above today's low
		Levels: model.DayLevels{Zones: model.ZoneConfig{BuyZones: []float64{92}}},
	}
	assert.Equal(t, 0, FirstEntry(d))

	d.Levels.Zones.BuyZones = []float64{88}
	assert.Equal(t, 1, FirstEntry(d))
}

func TestFirstExit_ActiveFilter(t *testing.T) {
	y := bar(0, 126, 119, 121)
	levels := model.DayLevels{Zones: model.ZoneConfig{TakeProfitZones: []float64{125, 140}}}
	d := Day{Index: 1, Today: bar(1, 122, 118, 120), Yesterday: &y, Levels: levels, PrevLevels: levels}

	assert.Equal(t, 1, FirstExit(d, nil))
	assert.Equal(t, 1, FirstExit(d, map[int]bool{1: true}))
	assert.Equal(t, 0, FirstExit(d, map[int]bool{2: true}))
}
