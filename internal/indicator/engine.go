package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// Engine computes a Frame for a bar series with every registered calculator.
type Engine struct {
	registry Registry
	log      *logger.Logger
}

// NewEngine creates an engine over the registry.
func NewEngine(registry Registry, log *logger.Logger) *Engine {
	return &Engine{
		registry: registry,
		log:      log,
	}
}

// Prepare sanitizes raw bars and computes their frame. The frame is aligned
// to the returned bars, not to the input.
func (e *Engine) Prepare(symbol string, raw []types.Bar) ([]types.Bar, Frame) {
	bars := Sanitize(raw, e.log)

	return bars, e.Compute(symbol, bars)
}

// Compute runs each calculator whose minimum history is met. Indicators with
// too little history are absent. A calculator that fails, panics, or yields
// non-finite values is logged and left out; the rest are unaffected.
func (e *Engine) Compute(symbol string, bars []types.Bar) Frame {
	frame := NewFrame(len(bars))

	for _, kind := range e.registry.List() {
		calculator, err := e.registry.Get(kind)
		if err != nil {
			continue
		}

		if len(bars) < calculator.MinBars() {
			e.log.Debug("Skipping indicator with insufficient history",
				zap.String("symbol", symbol),
				zap.String("indicator", string(kind)),
				zap.Int("required", calculator.MinBars()),
				zap.Int("actual", len(bars)),
			)

			continue
		}

		series, err := computeIsolated(calculator, bars)
		if err != nil {
			if errors.IsInsufficientDataError(err) {
				e.log.Debug("Indicator reported insufficient history",
					zap.String("symbol", symbol),
					zap.String("indicator", string(kind)),
					zap.Error(err),
				)

				continue
			}

			e.log.Error("Indicator computation failed",
				zap.String("symbol", symbol),
				zap.String("indicator", string(kind)),
				zap.Error(err),
			)

			continue
		}

		frame.Set(series)
	}

	return frame
}

func computeIsolated(calculator Calculator, bars []types.Bar) (series Series, err error) {
	defer func() {
		if r := recover(); r != nil {
			series = Series{}
			err = errors.New(errors.ErrCodeIndicatorCalculation, fmt.Sprintf("%s panicked: %v", calculator.Kind(), r))
		}
	}()

	series, err = calculator.Compute(bars)
	if err != nil {
		return Series{}, err
	}

	if series.Kind != calculator.Kind() {
		return Series{}, errors.Newf(errors.ErrCodeIndicatorCalculation, "%s returned series of kind %s", calculator.Kind(), series.Kind)
	}

	if series.Len() > len(bars) {
		return Series{}, errors.Newf(errors.ErrCodeIndicatorCalculation, "%s returned %d values for %d bars", calculator.Kind(), series.Len(), len(bars))
	}

	for i, v := range series.Values {
		for _, f := range v.Floats() {
			if !isFinite(f) {
				return Series{}, errors.Newf(errors.ErrCodeIndicatorCalculation, "%s produced non-finite value at index %d", calculator.Kind(), i)
			}
		}
	}

	return series, nil
}
