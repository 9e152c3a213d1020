package indicator

import (
	"math"
	"sort"

	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"go.uber.org/zap"
)

// Sanitize returns an ascending copy of bars without malformed entries or
// repeated timestamps. Dropped bars are logged at warn level. The input slice
// is never modified.
func Sanitize(bars []types.Bar, log *logger.Logger) []types.Bar {
	out := make([]types.Bar, 0, len(bars))

	for _, b := range bars {
		if reason := malformedReason(b); reason != "" {
			log.Warn("Dropping malformed bar",
				zap.String("symbol", b.Symbol),
				zap.Time("time", b.Time),
				zap.String("reason", reason),
			)

			continue
		}

		out = append(out, b)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]

	for i, b := range out {
		if i > 0 && b.Time.Equal(deduped[len(deduped)-1].Time) {
			log.Warn("Dropping duplicate bar",
				zap.String("symbol", b.Symbol),
				zap.Time("time", b.Time),
			)

			continue
		}

		deduped = append(deduped, b)
	}

	return deduped
}

func malformedReason(b types.Bar) string {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "non-finite field"
		}
	}

	switch {
	case b.Close <= 0 || b.High <= 0 || b.Low <= 0:
		return "non-positive price"
	case b.High < b.Close:
		return "high below close"
	case b.Low > b.Close:
		return "low above close"
	case b.Volume < 0:
		return "negative volume"
	}

	return ""
}
