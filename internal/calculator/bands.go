package calculator

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"ZoneDCA/internal/model"
)

// DefaultBands is the number of buy and take-profit levels on each side of the curve.
const DefaultBands = 4

// BandWidth is the distance between consecutive levels, in residual standard deviations.
const BandWidth = 1.5

// BuildCurve fits the close prices of days and derives the zone levels.
// Buy level i sits i*1.5 residual deviations below the regression line and
// take-profit level i the same distance above it.
func BuildCurve(days []model.MarketDay, degree, bands int, method Method) (*model.Curve, error) {
	if bands <= 0 {
		bands = DefaultBands
	}
	closes := model.Closes(days)
	fitted, used, err := FitPolynomial(closes, degree, method)
	if err != nil {
		return nil, fmt.Errorf("build curve: %w", err)
	}

	residuals := make([]float64, len(closes))
	for i := range closes {
		residuals[i] = closes[i] - fitted[i]
	}
	std := stat.PopStdDev(residuals, nil)

	curve := &model.Curve{
		Degree:          used,
		Regression:      fitted,
		BuyZones:        make([][]float64, bands),
		TakeProfitZones: make([][]float64, bands),
	}
	for l := 0; l < bands; l++ {
		offset := float64(l+1) * BandWidth * std
		lower := make([]float64, len(fitted))
		upper := make([]float64, len(fitted))
		for i, r := range fitted {
			lower[i] = r - offset
			upper[i] = r + offset
		}
		curve.BuyZones[l] = lower
		curve.TakeProfitZones[l] = upper
	}
	return curve, nil
}
