package calculator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Method selects how the x (and y) axis is normalized before fitting.
type Method string

const (
	// MethodEnhanced mean-centres and scales both axes.
	MethodEnhanced Method = "enhanced"
	// MethodOriginal maps x onto [0, 1] and fits raw prices.
	MethodOriginal Method = "original"
)

// ParseMethod maps a config value to a Method. Empty selects MethodEnhanced.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodEnhanced:
		return MethodEnhanced, nil
	case MethodOriginal:
		return MethodOriginal, nil
	}
	return "", fmt.Errorf("unknown fitting method %q", s)
}

var errSingular = errors.New("polynomial fit is singular")

// FitPolynomial fits a least-squares polynomial of the given degree to y over
// x = 0..n-1 and returns the fitted values and the degree actually used.
// The degree is capped at n-1. A singular enhanced fit is retried at half the degree.
func FitPolynomial(y []float64, degree int, method Method) ([]float64, int, error) {
	n := len(y)
	if n == 0 {
		return nil, 0, errors.New("no prices to fit")
	}
	if degree < 0 {
		return nil, 0, fmt.Errorf("degree must not be negative, got %d", degree)
	}
	if degree > n-1 {
		degree = n - 1
	}

	switch method {
	case MethodOriginal:
		x := make([]float64, n)
		scale := float64(n - 1)
		if scale == 0 {
			scale = 1
		}
		for i := range x {
			x[i] = float64(i) / scale
		}
		fitted, err := leastSquares(x, y, degree)
		if err != nil {
			return nil, 0, fmt.Errorf("fit degree %d: %w", degree, err)
		}
		return fitted, degree, nil

	case MethodEnhanced, "":
		x := make([]float64, n)
		for i := range x {
			x[i] = float64(i)
		}
		x = standardize(x)
		yMean, yStd := stat.PopMeanStdDev(y, nil)
		if yStd == 0 {
			yStd = 1
		}
		scaled := make([]float64, n)
		for i, v := range y {
			scaled[i] = (v - yMean) / yStd
		}

		fitted, err := leastSquares(x, scaled, degree)
		if errors.Is(err, errSingular) && degree > 1 {
			degree = max(1, degree/2)
			fitted, err = leastSquares(x, scaled, degree)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("fit degree %d: %w", degree, err)
		}
		for i := range fitted {
			fitted[i] = fitted[i]*yStd + yMean
		}
		return fitted, degree, nil
	}
	return nil, 0, fmt.Errorf("unknown fitting method %q", method)
}

func standardize(x []float64) []float64 {
	mean, std := stat.PopMeanStdDev(x, nil)
	if std == 0 {
		std = 1
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - mean) / std
	}
	return out
}

// leastSquares solves the Vandermonde system with a QR factorization and
// evaluates the polynomial at every x.
func leastSquares(x, y []float64, degree int) ([]float64, error) {
	n, cols := len(x), degree+1
	a := mat.NewDense(n, cols, nil)
	for i, xi := range x {
		p := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, p)
			p *= xi
		}
	}

	var qr mat.QR
	qr.Factorize(a)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		var cond mat.Condition
		// an ill-conditioned system still yields a usable fit
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, errSingular
		}
	}

	fitted := make([]float64, n)
	for i, xi := range x {
		v := 0.0
		for j := cols - 1; j >= 0; j-- {
			v = v*xi + coef.AtVec(j)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errSingular
		}
		fitted[i] = v
	}
	return fitted, nil
}
