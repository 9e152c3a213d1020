package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Stochastic is the stochastic oscillator: %K over kPeriod bars and %D the
// dPeriod mean of %K.
type Stochastic struct {
	kPeriod int
	dPeriod int
}

// NewStochastic creates a stochastic oscillator calculator.
func NewStochastic(kPeriod, dPeriod int) Calculator {
	return &Stochastic{kPeriod: kPeriod, dPeriod: dPeriod}
}

// Kind returns the indicator kind.
func (s *Stochastic) Kind() types.IndicatorKind {
	return types.IndicatorStochastic
}

// MinBars returns the %K period.
func (s *Stochastic) MinBars() int {
	return s.kPeriod
}

// Compute returns len(bars)-kPeriod+1 tuples. Until dPeriod %K values exist,
// %D is the mean of the values available so far. A flat window reads 50.
func (s *Stochastic) Compute(bars []types.Bar) (Series, error) {
	if s.dPeriod <= 0 {
		return Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "stochastic: d period must be positive, got %d", s.dPeriod)
	}

	if err := checkInput(s.Kind(), s.kPeriod, s.MinBars(), bars); err != nil {
		return Series{}, err
	}

	k := make([]float64, 0, len(bars)-s.kPeriod+1)

	for i := s.kPeriod - 1; i < len(bars); i++ {
		window := bars[i-s.kPeriod+1 : i+1]
		hh, ll := highestHigh(window), lowestLow(window)

		if hh == ll {
			k = append(k, 50)

			continue
		}

		k = append(k, 100*(bars[i].Close-ll)/(hh-ll))
	}

	values := make([]types.IndicatorValue, len(k))
	sum := 0.0

	for j, v := range k {
		sum += v
		n := j + 1

		if j >= s.dPeriod {
			sum -= k[j-s.dPeriod]
			n = s.dPeriod
		}

		values[j] = types.StochasticTuple(v, sum/float64(n))
	}

	return Series{Kind: s.Kind(), Values: values}, nil
}
