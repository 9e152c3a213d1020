package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// ATR is the Average True Range with Wilder smoothing.
type ATR struct {
	period int
}

// NewATR creates an ATR calculator.
func NewATR(period int) Calculator {
	return &ATR{period: period}
}

// Kind returns the indicator kind.
func (a *ATR) Kind() types.IndicatorKind {
	return types.IndicatorATR
}

// MinBars returns period+1: true range needs a previous close.
func (a *ATR) MinBars() int {
	return a.period + 1
}

// Compute returns len(bars)-period values.
func (a *ATR) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(a.Kind(), a.period, a.MinBars(), bars); err != nil {
		return Series{}, err
	}

	p := float64(a.period)
	out := make([]float64, 0, len(bars)-a.period)
	atr := 0.0

	for i := 1; i < len(bars); i++ {
		tr := trueRange(bars[i], bars[i-1])

		switch {
		case i < a.period:
			atr += tr

			continue
		case i == a.period:
			atr = (atr + tr) / p
		default:
			atr = (atr*(p-1) + tr) / p
		}

		out = append(out, atr)
	}

	return scalarSeries(a.Kind(), out), nil
}
