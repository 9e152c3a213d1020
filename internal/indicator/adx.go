package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// ADX is Wilder's Average Directional Index.
type ADX struct {
	period int
}

// NewADX creates an ADX calculator.
func NewADX(period int) Calculator {
	return &ADX{period: period}
}

// Kind returns the indicator kind.
func (a *ADX) Kind() types.IndicatorKind {
	return types.IndicatorADX
}

// MinBars returns 2*period: period bars to seed the directional
// indicators, then period DX values to seed the ADX.
func (a *ADX) MinBars() int {
	return 2 * a.period
}

// Compute returns len(bars)-2*period+1 values.
func (a *ADX) Compute(bars []types.Bar) (Series, error) {
	if err := checkInput(a.Kind(), a.period, a.MinBars(), bars); err != nil {
		return Series{}, err
	}

	p := float64(a.period)

	var smoothTR, smoothPlus, smoothMinus float64

	dx := make([]float64, 0, len(bars)-a.period)

	for i := 1; i < len(bars); i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		plusDM, minusDM := 0.0, 0.0

		if up > down && up > 0 {
			plusDM = up
		}

		if down > up && down > 0 {
			minusDM = down
		}

		tr := trueRange(bars[i], bars[i-1])

		if i <= a.period {
			smoothTR += tr
			smoothPlus += plusDM
			smoothMinus += minusDM

			if i < a.period {
				continue
			}
		} else {
			smoothTR = smoothTR - smoothTR/p + tr
			smoothPlus = smoothPlus - smoothPlus/p + plusDM
			smoothMinus = smoothMinus - smoothMinus/p + minusDM
		}

		dx = append(dx, directionalIndex(smoothPlus, smoothMinus, smoothTR))
	}

	out := make([]float64, 0, len(dx)-a.period+1)
	adx := 0.0

	for j, v := range dx {
		switch {
		case j < a.period-1:
			adx += v

			continue
		case j == a.period-1:
			adx = (adx + v) / p
		default:
			adx = (adx*(p-1) + v) / p
		}

		out = append(out, adx)
	}

	return scalarSeries(a.Kind(), out), nil
}

func directionalIndex(plusDM, minusDM, tr float64) float64 {
	if tr == 0 {
		return 0
	}

	plusDI := 100 * plusDM / tr
	minusDI := 100 * minusDM / tr

	if plusDI+minusDI == 0 {
		return 0
	}

	return 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
}
