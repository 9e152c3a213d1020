package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// RSI is the Relative Strength Index with Wilder smoothing.
type RSI struct {
	kind   types.IndicatorKind
	period int
}

// NewRSI creates an RSI calculator producing kind.
func NewRSI(kind types.IndicatorKind, period int) Calculator {
	return &RSI{kind: kind, period: period}
}

// Kind returns the indicator kind.
func (r *RSI) Kind() types.IndicatorKind {
	return r.kind
}

// MinBars returns period+1: the first value needs period price changes.
func (r *RSI) MinBars() int {
	return r.period + 1
}

// Compute returns len(bars)-period values. A series with no gains and no
// losses reads 50.
func (r *RSI) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(r.kind, r.period, r.MinBars(), bars); err != nil {
		return Series{}, err
	}

	p := float64(r.period)
	out := make([]float64, 0, len(bars)-r.period)

	avgGain, avgLoss := 0.0, 0.0

	for i := 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		gain, loss := 0.0, 0.0

		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		switch {
		case i < r.period:
			avgGain += gain
			avgLoss += loss

			continue
		case i == r.period:
			avgGain = (avgGain + gain) / p
			avgLoss = (avgLoss + loss) / p
		default:
			avgGain = (avgGain*(p-1) + gain) / p
			avgLoss = (avgLoss*(p-1) + loss) / p
		}

		out = append(out, rsiValue(avgGain, avgLoss))
	}

	return scalarSeries(r.kind, out), nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
