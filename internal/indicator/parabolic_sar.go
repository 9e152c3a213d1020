package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// ParabolicSAR is Wilder's stop-and-reverse trailing level.
type ParabolicSAR struct {
	step    float64
	maxStep float64
}

// NewParabolicSAR creates a Parabolic SAR calculator with the given
// acceleration step and cap.
func NewParabolicSAR(step, maxStep float64) Calculator {
	return &ParabolicSAR{step: step, maxStep: maxStep}
}

// Kind returns the indicator kind.
func (s *ParabolicSAR) Kind() types.IndicatorKind {
	return types.IndicatorPSAR
}

// MinBars returns 2: the starting trend comes from the first two closes.
func (s *ParabolicSAR) MinBars() int {
	return 2
}

// Compute returns one value per bar.
func (s *ParabolicSAR) Compute(bars []types.Bar) (Series, error) {
	if s.step <= 0 || s.maxStep < s.step {
		return Series{}, errors.Newf(errors.ErrCodeInvalidParameter, "psar: invalid acceleration step %f / max %f", s.step, s.maxStep)
	}

	if err := checkInput(s.Kind(), 1, s.MinBars(), bars); err != nil {
		return Series{}, err
	}

	out := make([]float64, len(bars))
	rising := bars[1].Close >= bars[0].Close
	af := s.step

	sar, ep := bars[0].High, bars[0].Low
	if rising {
		sar, ep = bars[0].Low, bars[0].High
	}

	out[0] = sar

	for i := 1; i < len(bars); i++ {
		sar += af * (ep - sar)
		cur := bars[i]

		if rising {
			sar = math.Min(sar, bars[i-1].Low)
			if i >= 2 {
				sar = math.Min(sar, bars[i-2].Low)
			}

			switch {
			case cur.Low < sar:
				rising = false
				sar, ep, af = ep, cur.Low, s.step
			case cur.High > ep:
				ep = cur.High
				af = math.Min(af+s.step, s.maxStep)
			}
		} else {
			sar = math.Max(sar, bars[i-1].High)
			if i >= 2 {
				sar = math.Max(sar, bars[i-2].High)
			}

			switch {
			case cur.High > sar:
				rising = true
				sar, ep, af = ep, cur.High, s.step
			case cur.Low < ep:
				ep = cur.Low
				af = math.Min(af+s.step, s.maxStep)
			}
		}

		out[i] = sar
	}

	return scalarSeries(s.Kind(), out), nil
}
