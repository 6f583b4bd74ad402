package analysis

import (
	"math"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// linearRegression fits y = intercept + slope*x by ordinary least squares
// and reports the correlation coefficient and the two-sided p-value of the
// slope against the null hypothesis slope == 0.
func linearRegression(xs, ys []float64) domain.TrendLine {
	n := len(xs)
	mx, my := mean(xs), mean(ys)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	line := domain.TrendLine{}
	if sxx == 0 {
		// A single distinct x (one observed day) supports no slope
		// estimate: the best fit is the mean itself, with no evidence
		// of a trend either way.
		line.Intercept = my
		line.PValue = 1
		return line
	}
	line.Slope = sxy / sxx
	line.Intercept = my - line.Slope*mx

	if syy == 0 {
		// Flat response: the fit is exact and carries no trend evidence.
		line.R = 0
		line.PValue = 1
		return line
	}

	line.R = sxy / math.Sqrt(sxx*syy)
	line.RSquared = line.R * line.R
	line.PValue = slopePValue(line.R, n)
	return line
}

// slopePValue is the two-sided significance of the correlation under a
// Student-t distribution with n-2 degrees of freedom. With fewer than
// three points the test has no degrees of freedom and cannot reject the
// null, so the p-value is reported as 1.
func slopePValue(r float64, n int) float64 {
	df := float64(n - 2)
	if df < 1 {
		return 1
	}
	r2 := r * r
	if r2 >= 1 {
		return 0
	}
	t2 := r2 * df / (1 - r2)
	// P(|T| > t) = I_{df/(df+t^2)}(df/2, 1/2) for Student-t.
	return regularizedIncompleteBeta(df/2, 0.5, df/(df+t2))
}

// regularizedIncompleteBeta evaluates I_x(a, b) via the continued-fraction
// expansion (Numerical Recipes betacf form).
func regularizedIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lbeta, _ := math.Lgamma(a + b)
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	front := math.Exp(lbeta - la - lb + a*math.Log(x) + b*math.Log(1-x))

	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}
	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

func betaContinuedFraction(a, b, x float64) float64 {
	const (
		maxIterations = 200
		epsilon       = 3e-14
		tiny          = 1e-300
	)

	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < epsilon {
			break
		}
	}

	return h
}
