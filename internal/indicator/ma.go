package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// SMA is the simple moving average of closes.
type SMA struct {
	kind   types.IndicatorKind
	period int
}

// NewSMA creates an SMA calculator producing kind.
func NewSMA(kind types.IndicatorKind, period int) Calculator {
	return &SMA{kind: kind, period: period}
}

// Kind returns the indicator kind.
func (m *SMA) Kind() types.IndicatorKind {
	return m.kind
}

// MinBars returns the period.
func (m *SMA) MinBars() int {
	return m.period
}

// Compute returns len(bars)-period+1 trailing means of the close.
func (m *SMA) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(m.kind, m.period, m.MinBars(), bars); err != nil {
		return Series{}, err
	}

	return scalarSeries(m.kind, rollingMean(closes(bars), m.period)), nil
}

// EMA is the exponential moving average of closes, seeded with the SMA of
// the first period closes.
type EMA struct {
	kind   types.IndicatorKind
	period int
}

// NewEMA creates an EMA calculator producing kind.
func NewEMA(kind types.IndicatorKind, period int) Calculator {
	return &EMA{kind: kind, period: period}
}

// Kind returns the indicator kind.
func (e *EMA) Kind() types.IndicatorKind {
	return e.kind
}

// MinBars returns the period.
func (e *EMA) MinBars() int {
	return e.period
}

// Compute returns len(bars)-period+1 values.
func (e *EMA) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(e.kind, e.period, e.MinBars(), bars); err != nil {
		return Series{}, err
	}

	return scalarSeries(e.kind, ema(closes(bars), e.period)), nil
}

// checkInput validates the period and history length shared by every calculator.
func checkInput(kind types.IndicatorKind, period, minBars int, bars []types.Bar) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "%s: period must be a positive integer, got %d", kind, period)
	}

	if len(bars) < minBars {
		symbol := ""
		if len(bars) > 0 {
			symbol = bars[0].Symbol
		}

		return errors.NewInsufficientDataErrorf(minBars, len(bars), symbol,
			"insufficient data for %s: required %d, got %d", kind, minBars, len(bars))
	}

	return nil
}
