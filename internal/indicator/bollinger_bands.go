package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// BollingerBands are the SMA of closes plus/minus stdDev population standard deviations.
type BollingerBands struct {
	period int
	stdDev float64
}

// NewBollingerBands creates a Bollinger Bands calculator.
func NewBollingerBands(period int, stdDev float64) Calculator {
	return &BollingerBands{
		period: period,
		stdDev: stdDev,
	}
}

// Kind returns the indicator kind.
func (bb *BollingerBands) Kind() types.IndicatorKind {
	return types.IndicatorBollinger
}

// MinBars returns the period.
func (bb *BollingerBands) MinBars() int {
	return bb.period
}

// Compute returns len(bars)-period+1 band tuples.
func (bb *BollingerBands) Compute(bars []types.Bar) (Series, error) {
	if bb.stdDev <= 0 {
		return Series{}, errors.Newf(errors.ErrCodeInvalidParameter, "bollinger: stdDev must be a positive number, got %f", bb.stdDev)
	}

	if err := checkInput(bb.Kind(), bb.period, bb.MinBars(), bars); err != nil {
		return Series{}, err
	}

	c := closes(bars)
	means := rollingMean(c, bb.period)
	values := make([]types.IndicatorValue, len(means))

	for j, middle := range means {
		sd := populationStdDev(c[j:j+bb.period], middle)
		values[j] = types.BandsTuple(middle+bb.stdDev*sd, middle, middle-bb.stdDev*sd)
	}

	return Series{Kind: bb.Kind(), Values: values}, nil
}
