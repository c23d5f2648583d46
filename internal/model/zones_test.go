package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurve() *Curve {
	return &Curve{
		Degree:          3,
		Regression:      []float64{100, 101, 102, 103},
		BuyZones:        [][]float64{{90, 91, 92, 93}, {80, 81, 82, 83}},
		TakeProfitZones: [][]float64{{110, 111, 112, 113}},
	}
}

func TestCurve_LevelsAt(t *testing.T) {
	c := testCurve()
	tests := []struct {
		day  int
		want DayLevels
	}{
		{0, DayLevels{Regression: 100, Zones: ZoneConfig{BuyZones: []float64{90, 80}, TakeProfitZones: []float64{110}}}},
		{3, DayLevels{Regression: 103, Zones: ZoneConfig{BuyZones: []float64{93, 83}, TakeProfitZones: []float64{113}}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.LevelsAt(tt.day))
	}
}

func TestCurve_Slice(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		wantReg  []float64
		wantBuy2 []float64
	}{
		{"middle", 1, 3, []float64{101, 102}, []float64{81, 82}},
		{"tail", 3, 4, []float64{103}, []float64{83}},
		{"whole", 0, 4, []float64{100, 101, 102, 103}, []float64{80, 81, 82, 83}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testCurve().Slice(tt.from, tt.to)
			assert.Equal(t, 3, s.Degree)
			assert.Equal(t, tt.to-tt.from, s.Len())
			assert.Equal(t, tt.wantReg, s.Regression)
			require.Len(t, s.BuyZones, 2)
			assert.Equal(t, tt.wantBuy2, s.BuyZones[1])
			require.Len(t, s.TakeProfitZones, 1)
			assert.Len(t, s.TakeProfitZones[0], tt.to-tt.from)
			assert.Equal(t, testCurve().LevelsAt(tt.from), s.LevelsAt(0))
		})
	}
}

func TestCurve_LenNil(t *testing.T) {
	var c *Curve
	assert.Zero(t, c.Len())
}

func TestConstantCurve(t *testing.T) {
	levels := DayLevels{
		Regression: 50,
		Zones:      ZoneConfig{BuyZones: []float64{45, 40}, TakeProfitZones: []float64{55, 60, 65}},
	}
	c := ConstantCurve(5, levels)
	assert.Equal(t, 5, c.Len())
	for i := 0; i < 5; i++ {
		assert.Equal(t, levels, c.LevelsAt(i))
	}

	empty := ConstantCurve(0, levels)
	assert.Zero(t, empty.Len())
	require.Len(t, empty.TakeProfitZones, 3)
	assert.Empty(t, empty.TakeProfitZones[0])
}
