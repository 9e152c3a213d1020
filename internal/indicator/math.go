package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

func closes(bars []types.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}

	return out
}

func typicalPrices(bars []types.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.TypicalPrice()
	}

	return out
}

// rollingMean returns len(values)-period+1 trailing means.
func rollingMean(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	out := make([]float64, 0, len(values)-period+1)

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}

	return out
}

// ema returns len(values)-period+1 values, seeded with the mean of the first period values.
func ema(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	alpha := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values)-period+1)

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}

	prev := seed / float64(period)
	out = append(out, prev)

	for _, v := range values[period:] {
		prev = alpha*v + (1-alpha)*prev
		out = append(out, prev)
	}

	return out
}

// populationStdDev returns the population standard deviation of values around mean.
func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(values)))
}

func highestHigh(bars []types.Bar) float64 {
	h := math.Inf(-1)
	for _, b := range bars {
		h = math.Max(h, b.High)
	}

	return h
}

func lowestLow(bars []types.Bar) float64 {
	l := math.Inf(1)
	for _, b := range bars {
		l = math.Min(l, b.Low)
	}

	return l
}

func trueRange(cur, prev types.Bar) float64 {
	return math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
