package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// WilliamsR is Williams %R in [-100, 0].
type WilliamsR struct {
	period int
}

// NewWilliamsR creates a Williams %R calculator.
func NewWilliamsR(period int) Calculator {
	return &WilliamsR{period: period}
}

// Kind returns the indicator kind.
func (w *WilliamsR) Kind() types.IndicatorKind {
	return types.IndicatorWilliamsR
}

// MinBars returns the period.
func (w *WilliamsR) MinBars() int {
	return w.period
}

// Compute returns len(bars)-period+1 values. A flat window reads -50.
func (w *WilliamsR) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(w.Kind(), w.period, w.MinBars(), bars); err != nil {
		return Series{}, err
	}

	out := make([]float64, 0, len(bars)-w.period+1)

	for i := w.period - 1; i < len(bars); i++ {
		window := bars[i-w.period+1 : i+1]
		hh, ll := highestHigh(window), lowestLow(window)

		if hh == ll {
			out = append(out, -50)

			continue
		}

		out = append(out, -100*(hh-bars[i].Close)/(hh-ll))
	}

	return scalarSeries(w.Kind(), out), nil
}
