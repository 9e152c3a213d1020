package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Series is one indicator's values. Values[len-1] belongs to the last bar.
type Series struct {
	Kind   types.IndicatorKind
	Values []types.IndicatorValue
}

// Len returns the number of values.
func (s Series) Len() int {
	return len(s.Values)
}

// Frame holds every indicator computed for one bar series.
//
// A series of length L computed from BarCount bars maps bar i to index
// i - (BarCount - L). Use At rather than indexing Series directly.
type Frame struct {
	BarCount int
	Series   map[types.IndicatorKind]Series
}

// NewFrame creates an empty frame for barCount bars.
func NewFrame(barCount int) Frame {
	return Frame{
		BarCount: barCount,
		Series:   make(map[types.IndicatorKind]Series),
	}
}

// Set stores a series, replacing any previous one of the same kind.
func (f Frame) Set(series Series) {
	f.Series[series.Kind] = series
}

// Has reports whether the kind is present.
func (f Frame) Has(kind types.IndicatorKind) bool {
	_, ok := f.Series[kind]

	return ok
}

// Kinds returns the present kinds in AllIndicatorKinds order.
func (f Frame) Kinds() []types.IndicatorKind {
	kinds := make([]types.IndicatorKind, 0, len(f.Series))

	for _, kind := range types.AllIndicatorKinds {
		if f.Has(kind) {
			kinds = append(kinds, kind)
		}
	}

	return kinds
}

// Offset returns BarCount - len(series), or -1 when the kind is absent.
func (f Frame) Offset(kind types.IndicatorKind) int {
	s, ok := f.Series[kind]
	if !ok {
		return -1
	}

	return f.BarCount - s.Len()
}

// At returns the value of kind at bar index barIndex.
func (f Frame) At(kind types.IndicatorKind, barIndex int) optional.Option[types.IndicatorValue] {
	s, ok := f.Series[kind]
	if !ok {
		return optional.None[types.IndicatorValue]()
	}

	idx := barIndex - (f.BarCount - s.Len())
	if idx < 0 || idx >= s.Len() || barIndex >= f.BarCount {
		return optional.None[types.IndicatorValue]()
	}

	return optional.Some(s.Values[idx])
}

// ScalarAt returns a scalar indicator at bar index barIndex.
func (f Frame) ScalarAt(kind types.IndicatorKind, barIndex int) optional.Option[float64] {
	v := f.At(kind, barIndex)
	if v.IsNone() {
		return optional.None[float64]()
	}

	return optional.Some(v.Unwrap().Scalar)
}

func scalarSeries(kind types.IndicatorKind, values []float64) Series {
	out := make([]types.IndicatorValue, len(values))
	for i, v := range values {
		out[i] = types.ScalarValue(v)
	}

	return Series{Kind: kind, Values: out}
}
