package marketdata

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"go.uber.org/zap"
)

// EnrichOptions selects the bars Enrich copies.
type EnrichOptions struct {
	// Symbols to copy. Empty means every symbol of the source.
	Symbols  []string
	Start    time.Time
	End      time.Time
	// OnSymbol is called after each symbol is written.
	OnSymbol func(symbol string, bars int)
}

// Enrich copies bars from source into w, sanitized and with their indicator
// frame computed, so a later backtest can skip indicator computation.
// Symbols without bars in range are skipped. It returns the number of
// symbols written; the caller still has to Finalize w.
func Enrich(ctx context.Context, source datasource.DataSource, indicators *indicator.Engine, w Writer, opts EnrichOptions, log *logger.Logger) (int, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	symbols := opts.Symbols
	if len(symbols) == 0 {
		all, err := source.GetAllSymbols(ctx)
		if err != nil {
			return 0, err
		}

		symbols = all
	}

	written := 0

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return written, errors.Wrap(errors.ErrCodeBacktestCancelled, "enrichment cancelled", err)
		}

		series, err := source.GetRange(ctx, symbol, opts.Start, opts.End)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeNoDataFound) || errors.HasCode(err, errors.ErrCodeDataNotFound) {
				log.Warn("No bars to enrich", zap.String("symbol", symbol))

				continue
			}

			return written, err
		}

		bars, frame := indicators.Prepare(symbol, series.Bars)
		if len(bars) == 0 {
			log.Warn("No valid bars to enrich", zap.String("symbol", symbol))

			continue
		}

		if err := w.Write(symbol, bars, optional.Some(frame)); err != nil {
			return written, err
		}

		written++

		if opts.OnSymbol != nil {
			opts.OnSymbol(symbol, len(bars))
		}
	}

	return written, nil
}
