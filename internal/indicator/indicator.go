package indicator

import (
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Calculator computes one indicator series from a sanitized, ascending bar series.
type Calculator interface {
	// Kind returns the indicator produced by the calculator
	Kind() types.IndicatorKind
	// MinBars returns the number of bars required before any value exists
	MinBars() int
	// Compute returns the series. Its length is at most len(bars) and its last
	// value belongs to the last bar.
	Compute(bars []types.Bar) (Series, error)
}
