package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// barsFromCloses builds daily bars with a 1% high/low band around each close.
func barsFromCloses(closes ...float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Symbol: "TEST",
			Time:   testStart.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

func constantCloses(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}

	return out
}

// waveCloses is a deterministic oscillating series around 100.
func waveCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/5) + float64(i)*0.1
	}

	return out
}
