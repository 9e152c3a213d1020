package datasource

import (
	"database/sql"

	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// enrichedKind maps a persisted indicator to its column names.
type enrichedKind struct {
	kind    types.IndicatorKind
	columns []string
}

var enrichedKinds = func() []enrichedKind {
	out := make([]enrichedKind, 0, len(types.AllIndicatorKinds))

	for _, kind := range types.AllIndicatorKinds {
		out = append(out, enrichedKind{kind: kind, columns: kind.Columns()})
	}

	return out
}()

// availableEnrichedKinds returns the kinds whose every column exists.
func availableEnrichedKinds(columns map[string]bool) []enrichedKind {
	var out []enrichedKind

	for _, ek := range enrichedKinds {
		complete := true

		for _, c := range ek.columns {
			if !columns[c] {
				complete = false

				break
			}
		}

		if complete {
			out = append(out, ek)
		}
	}

	return out
}

func toIndicatorValue(kind types.IndicatorKind, fields []float64) types.IndicatorValue {
	switch kind.Shape() {
	case types.ShapeMACD:
		return types.MACDTuple(fields[0], fields[1])
	case types.ShapeBands:
		return types.BandsTuple(fields[0], fields[1], fields[2])
	case types.ShapeStochastic:
		return types.StochasticTuple(fields[0], fields[1])
	default:
		return types.ScalarValue(fields[0])
	}
}

// buildFrame turns per-row nullable columns into a Frame. A persisted series
// may start with NULL warm-up rows; once a value appears every later row must
// have one, otherwise the kind is left out and reported in skipped.
func buildFrame(barCount int, kinds []enrichedKind, rows [][][]sql.NullFloat64) (frame indicator.Frame, skipped []types.IndicatorKind) {
	frame = indicator.NewFrame(barCount)

	for k, ek := range kinds {
		var values []types.IndicatorValue

		ok := true

		for _, row := range rows {
			fields := row[k]

			present := true

			for _, f := range fields {
				if !f.Valid {
					present = false
				}
			}

			if !present {
				if len(values) > 0 {
					ok = false

					break
				}

				continue
			}

			floats := make([]float64, len(fields))
			for i, f := range fields {
				floats[i] = f.Float64
			}

			values = append(values, toIndicatorValue(ek.kind, floats))
		}

		if !ok {
			skipped = append(skipped, ek.kind)

			continue
		}

		if len(values) > 0 {
			frame.Set(indicator.Series{Kind: ek.kind, Values: values})
		}
	}

	return frame, skipped
}
