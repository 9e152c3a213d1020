package engine

import (
	"context"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/strategy"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error.
// Callbacks are never invoked concurrently, even when symbols run in parallel.

// OnBacktestStartCallback is called when the entire backtest begins.
type OnBacktestStartCallback func(totalStrategies int, totalSymbols int) error

// OnBacktestEndCallback is called when the entire backtest completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnStrategyStartCallback is called when a strategy iteration begins.
type OnStrategyStartCallback func(strategyIndex int, strategyName string, totalStrategies int) error

// OnStrategyEndCallback is called when a strategy iteration ends.
type OnStrategyEndCallback func(strategyIndex int, strategyName string)

// OnRunStartCallback is called when simulation of one symbol begins.
// runID identifies the strategy run and is shared by all of its symbols.
type OnRunStartCallback func(runID string, symbol string, totalBars int) error

// OnRunEndCallback is called when simulation of one symbol ends.
type OnRunEndCallback func(runID string, symbol string, result types.BacktestResult)

// OnProcessDataCallback is called each time a symbol finishes. current counts
// finished symbols across all strategies out of total.
type OnProcessDataCallback func(current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnStrategyStart *OnStrategyStartCallback
	OnStrategyEnd   *OnStrategyEndCallback
	OnRunStart      *OnRunStartCallback
	OnRunEnd        *OnRunEndCallback
	OnProcessData   *OnProcessDataCallback
}

// StrategyResult is the output of one strategy: a result per symbol in
// ascending ticker order followed by the OVERALL result.
type StrategyResult struct {
	RunID    string
	Strategy strategy.Strategy
	Results  []types.BacktestResult
	// Signals are the enabled signals that fired, in bar order per symbol
	Signals []types.Signal
	// ResultFolder is where results were written, empty when no folder was set
	ResultFolder string
}

// Overall returns the OVERALL result.
func (r StrategyResult) Overall() types.BacktestResult {
	for _, res := range r.Results {
		if res.IsOverall() {
			return res
		}
	}

	return types.BacktestResult{Scope: types.ScopeOverall}
}

//nolint:interfacebloat // Engine is a core interface that naturally requires multiple methods
type Engine interface {
	// Initialize the engine with the given YAML configuration. Invalid
	// configuration fails here, before any simulation work.
	Initialize(config string) error
	// SetSymbols restricts the run to the given symbols. By default every symbol of the data source is used.
	SetSymbols(symbols []string) error
	// SetResultsFolder sets the output directory for saving backtest results.
	// The results folder will be structured as: <folder>/<strategy_name>/<start>_<end>
	SetResultsFolder(folder string) error
	// LoadStrategy loads a strategy. Could be called multiple times to compare several strategies over the same bars.
	LoadStrategy(strategy strategy.Strategy) error
	// SetDataSource sets the data source for the engine.
	SetDataSource(dataSource datasource.DataSource) error
	// Run runs every loaded strategy over every symbol.
	// The context can be used to cancel the backtest operation; a cancelled run returns no results.
	// Use LifecycleCallbacks to receive notifications at different phases of the backtest.
	Run(ctx context.Context, callbacks LifecycleCallbacks) ([]StrategyResult, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
