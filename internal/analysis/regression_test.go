package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

func TestLinearRegression_PerfectDecline(t *testing.T) {
	// Mean discount drops one point per day over five days.
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{30, 29, 28, 27, 26}

	line := linearRegression(xs, ys)

	assert.InDelta(t, -1.0, line.Slope, 1e-12)
	assert.InDelta(t, 30.0, line.Intercept, 1e-12)
	assert.InDelta(t, -1.0, line.R, 1e-12)
	assert.InDelta(t, 1.0, line.RSquared, 1e-12)
	assert.InDelta(t, 0.0, line.PValue, 1e-9, "a perfect fit is maximally significant")
}

func TestLinearRegression_FlatSeries(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{15, 15, 15, 15}

	line := linearRegression(xs, ys)

	assert.Equal(t, 0.0, line.Slope)
	assert.Equal(t, 15.0, line.Intercept)
	assert.Equal(t, 0.0, line.R)
	assert.Equal(t, 1.0, line.PValue, "no variation carries no trend evidence")
}

func TestLinearRegression_NoXVariance(t *testing.T) {
	line := linearRegression([]float64{2, 2, 2}, []float64{1, 5, 9})

	want := domain.TrendLine{Intercept: 5, PValue: 1}
	assert.Equal(t, want, line, "identical x values support no slope; the fit is the mean with no trend evidence")
}

func TestLinearRegression_TwoPoints(t *testing.T) {
	line := linearRegression([]float64{0, 1}, []float64{10, 20})

	assert.InDelta(t, 10.0, line.Slope, 1e-12)
	assert.Equal(t, 1.0, line.PValue, "two points leave no degrees of freedom")
}

func TestSlopePValue_KnownValue(t *testing.T) {
	// r = 0.5 with n = 12 gives t ≈ 1.826 on 10 df, p ≈ 0.0979
	// (two-sided), matching standard t tables.
	p := slopePValue(0.5, 12)
	assert.InDelta(t, 0.0979, p, 0.001)
}

func TestRegularizedIncompleteBeta_Bounds(t *testing.T) {
	assert.Equal(t, 0.0, regularizedIncompleteBeta(2, 0.5, 0))
	assert.Equal(t, 1.0, regularizedIncompleteBeta(2, 0.5, 1))
	// I_x(1, 1) is the uniform CDF: identity on [0, 1].
	assert.InDelta(t, 0.25, regularizedIncompleteBeta(1, 1, 0.25), 1e-9)
	assert.InDelta(t, 0.75, regularizedIncompleteBeta(1, 1, 0.75), 1e-9)
}
