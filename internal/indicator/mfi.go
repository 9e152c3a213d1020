package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// MFI is the Money Flow Index, a volume weighted RSI over typical prices.
type MFI struct {
	period int
}

// NewMFI creates an MFI calculator.
func NewMFI(period int) Calculator {
	return &MFI{period: period}
}

// Kind returns the indicator kind.
func (m *MFI) Kind() types.IndicatorKind {
	return types.IndicatorMFI
}

// MinBars returns period+1: flow direction needs a previous typical price.
func (m *MFI) MinBars() int {
	return m.period + 1
}

// Compute returns len(bars)-period values.
func (m *MFI) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(m.Kind(), m.period, m.MinBars(), bars); err != nil {
		return Series{}, err
	}

	tp := typicalPrices(bars)
	positive := make([]float64, len(bars))
	negative := make([]float64, len(bars))

	for i := 1; i < len(bars); i++ {
		flow := tp[i] * bars[i].Volume

		switch {
		case tp[i] > tp[i-1]:
			positive[i] = flow
		case tp[i] < tp[i-1]:
			negative[i] = flow
		}
	}

	out := make([]float64, 0, len(bars)-m.period)
	pos, neg := 0.0, 0.0

	for i := 1; i < len(bars); i++ {
		pos += positive[i]
		neg += negative[i]

		if i > m.period {
			pos -= positive[i-m.period]
			neg -= negative[i-m.period]
		}

		if i < m.period {
			continue
		}

		out = append(out, moneyFlowIndex(pos, neg))
	}

	return scalarSeries(m.Kind(), out), nil
}

func moneyFlowIndex(pos, neg float64) float64 {
	if neg == 0 {
		if pos == 0 {
			return 50
		}

		return 100
	}

	return 100 - 100/(1+pos/neg)
}
