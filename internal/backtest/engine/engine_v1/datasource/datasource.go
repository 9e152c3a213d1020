package datasource

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// BarSeries is one symbol's bars over a requested range, ascending by time
// and free of duplicate timestamps. Frame is set when the source already
// carried indicator values for these bars.
type BarSeries struct {
	Symbol string
	Bars   []types.Bar
	Frame  optional.Option[indicator.Frame]
}

// DataSource supplies ordered bar series per symbol.
type DataSource interface {
	// Initialize initializes the data source with the given data path (parquet or csv, globs allowed)
	Initialize(path string) error
	// GetAllSymbols returns every symbol in the data source, sorted
	GetAllSymbols(ctx context.Context) ([]string, error)
	// GetRange returns the bars of symbol within [start, end]
	GetRange(ctx context.Context, symbol string, start time.Time, end time.Time) (BarSeries, error)
	// Close closes the data source and releases any resources
	Close() error
}
