package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// OBV is On-Balance Volume, starting at zero on the first bar.
type OBV struct{}

// NewOBV creates an OBV calculator.
func NewOBV() Calculator {
	return &OBV{}
}

// Kind returns the indicator kind.
func (o *OBV) Kind() types.IndicatorKind {
	return types.IndicatorOBV
}

// MinBars returns 1.
func (o *OBV) MinBars() int {
	return 1
}

// Compute returns one value per bar.
func (o *OBV) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(o.Kind(), 1, o.MinBars(), bars); err != nil {
		return Series{}, err
	}

	out := make([]float64, len(bars))

	for i := 1; i < len(bars); i++ {
		out[i] = out[i-1]

		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] += bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] -= bars[i].Volume
		}
	}

	return scalarSeries(o.Kind(), out), nil
}

// VWAP is the cumulative volume weighted average typical price since the
// first bar.
type VWAP struct{}

// NewVWAP creates a VWAP calculator.
func NewVWAP() Calculator {
	return &VWAP{}
}

// Kind returns the indicator kind.
func (v *VWAP) Kind() types.IndicatorKind {
	return types.IndicatorVWAP
}

// MinBars returns 1.
func (v *VWAP) MinBars() int {
	return 1
}

// Compute returns one value per bar, falling back to the close while
// cumulative volume is zero.
func (v *VWAP) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(v.Kind(), 1, v.MinBars(), bars); err != nil {
		return Series{}, err
	}

	out := make([]float64, len(bars))

	var sumPV, sumV float64

	for i, b := range bars {
		sumPV += b.TypicalPrice() * b.Volume
		sumV += b.Volume

		if sumV == 0 {
			out[i] = b.Close

			continue
		}

		out[i] = sumPV / sumV
	}

	return scalarSeries(v.Kind(), out), nil
}
