package datasource

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// InMemoryDataSource serves bars held in memory. It is used by tests and by
// callers that already have bars loaded. Returned slices are copies.
type InMemoryDataSource struct {
	bars map[string][]types.Bar
	mu   sync.RWMutex
}

// NewInMemoryDataSource creates a data source from bars of any symbols in
// any order.
func NewInMemoryDataSource(bars []types.Bar) *InMemoryDataSource {
	ds := &InMemoryDataSource{
		bars: make(map[string][]types.Bar),
		mu:   sync.RWMutex{},
	}
	ds.Add(bars...)

	return ds
}

// Add appends bars. Series are kept ascending and a later bar replaces an
// earlier one with the same symbol and timestamp.
func (ds *InMemoryDataSource) Add(bars ...types.Bar) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	touched := map[string]bool{}

	for _, b := range bars {
		ds.bars[b.Symbol] = append(ds.bars[b.Symbol], b)
		touched[b.Symbol] = true
	}

	for symbol := range touched {
		ds.bars[symbol] = dedupeByTime(ds.bars[symbol])
	}
}

// Initialize implements DataSource. Bars are supplied through the
// constructor and Add, so there is nothing to load.
func (ds *InMemoryDataSource) Initialize(path string) error {
	return nil
}

// GetAllSymbols implements DataSource.
func (ds *InMemoryDataSource) GetAllSymbols(ctx context.Context) ([]string, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	symbols := make([]string, 0, len(ds.bars))
	for symbol := range ds.bars {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols, nil
}

// GetRange implements DataSource.
func (ds *InMemoryDataSource) GetRange(ctx context.Context, symbol string, start time.Time, end time.Time) (BarSeries, error) {
	if err := ctx.Err(); err != nil {
		return BarSeries{}, err
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	all, ok := ds.bars[symbol]
	if !ok {
		return BarSeries{}, errors.Newf(errors.ErrCodeDataNotFound, "unknown symbol %s", symbol)
	}

	from := sort.Search(len(all), func(i int) bool { return !all[i].Time.Before(start) })
	to := sort.Search(len(all), func(i int) bool { return all[i].Time.After(end) })

	if from >= to {
		return BarSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no bars for %s between %s and %s",
			symbol, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	return BarSeries{
		Symbol: symbol,
		Bars:   types.CloneBars(all[from:to]),
		Frame:  optional.None[indicator.Frame](),
	}, nil
}

// Close implements DataSource.
func (ds *InMemoryDataSource) Close() error {
	return nil
}

func dedupeByTime(bars []types.Bar) []types.Bar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	out := bars[:0]

	for _, b := range bars {
		if len(out) > 0 && out[len(out)-1].Time.Equal(b.Time) {
			out[len(out)-1] = b

			continue
		}

		out = append(out, b)
	}

	return out
}
