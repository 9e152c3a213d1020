package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// CCI is the Commodity Channel Index over typical prices.
type CCI struct {
	period int
}

// NewCCI creates a CCI calculator.
func NewCCI(period int) Calculator {
	return &CCI{period: period}
}

// Kind returns the indicator kind.
func (c *CCI) Kind() types.IndicatorKind {
	return types.IndicatorCCI
}

// MinBars returns the period.
func (c *CCI) MinBars() int {
	return c.period
}

// Compute returns len(bars)-period+1 values. A window with no mean
// deviation reads 0.
func (c *CCI) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(c.Kind(), c.period, c.MinBars(), bars); err != nil {
		return Series{}, err
	}

	tp := typicalPrices(bars)
	means := rollingMean(tp, c.period)
	out := make([]float64, len(means))

	for j, mean := range means {
		window := tp[j : j+c.period]
		dev := 0.0

		for _, v := range window {
			dev += math.Abs(v - mean)
		}

		dev /= float64(c.period)
		if dev == 0 {
			continue
		}

		out[j] = (window[len(window)-1] - mean) / (0.015 * dev)
	}

	return scalarSeries(c.Kind(), out), nil
}
