package analysis

import (
	"math"

	"github.com/shopspring/decimal"
)

// simpleReturns yields (c[t]-c[t-1])/c[t-1] for t >= 1. A zero previous
// close produces no return for that day.
func simpleReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for t := 1; t < len(closes); t++ {
		prev := closes[t-1]
		if prev == 0 {
			continue
		}
		out = append(out, (closes[t]-prev)/prev)
	}
	return out
}

// sampleStdDev uses the n-1 denominator; fewer than two values give 0.
func sampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
