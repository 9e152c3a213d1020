package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// TRIX is the one-bar percent rate of change of a triple smoothed EMA.
type TRIX struct {
	period int
}

// NewTRIX creates a TRIX calculator.
func NewTRIX(period int) Calculator {
	return &TRIX{period: period}
}

// Kind returns the indicator kind.
func (t *TRIX) Kind() types.IndicatorKind {
	return types.IndicatorTRIX
}

// MinBars returns 3*period.
func (t *TRIX) MinBars() int {
	return 3 * t.period
}

// Compute returns len(bars)-3*period+2 values.
func (t *TRIX) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(t.Kind(), t.period, t.MinBars(), bars); err != nil {
		return Series{}, err
	}

	triple := ema(ema(ema(closes(bars), t.period), t.period), t.period)
	out := make([]float64, 0, len(triple)-1)

	for j := 1; j < len(triple); j++ {
		if triple[j-1] == 0 {
			out = append(out, 0)

			continue
		}

		out = append(out, 100*(triple[j]-triple[j-1])/triple[j-1])
	}

	return scalarSeries(t.Kind(), out), nil
}
