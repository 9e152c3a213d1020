package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a MACD calculator.
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) Calculator {
	return &MACD{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
	}
}

// Kind returns the indicator kind.
func (m *MACD) Kind() types.IndicatorKind {
	return types.IndicatorMACD
}

// MinBars returns slow+signal-1: the signal line needs signal MACD values
// before its first value exists.
func (m *MACD) MinBars() int {
	return m.slowPeriod + m.signalPeriod - 1
}

// Compute returns len(bars)-slow-signal+2 tuples. The signal line is an EMA
// of the MACD line seeded with the mean of its first signal values, so the
// first tuple never has macd == signal by construction.
func (m *MACD) Compute(bars []types.Bar) (Series, error) {
	if m.fastPeriod <= 0 || m.signalPeriod <= 0 {
		return Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "macd: periods must be positive, got %d/%d/%d", m.fastPeriod, m.slowPeriod, m.signalPeriod)
	}

	if m.fastPeriod >= m.slowPeriod {
		return Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "macd: fast period %d must be below slow period %d", m.fastPeriod, m.slowPeriod)
	}

	if err := checkInput(m.Kind(), m.slowPeriod, m.MinBars(), bars); err != nil {
		return Series{}, err
	}

	c := closes(bars)
	fast := ema(c, m.fastPeriod)
	slow := ema(c, m.slowPeriod)

	// fast[j] belongs to bar j+fast-1; slow[j] to bar j+slow-1
	shift := m.slowPeriod - m.fastPeriod
	line := make([]float64, len(slow))

	for j := range slow {
		line[j] = fast[j+shift] - slow[j]
	}

	// signal[k] belongs to line[k+signal-1]
	signal := ema(line, m.signalPeriod)
	lead := m.signalPeriod - 1
	values := make([]types.IndicatorValue, len(signal))

	for k := range signal {
		values[k] = types.MACDTuple(line[k+lead], signal[k])
	}

	return Series{Kind: m.Kind(), Values: values}, nil
}
