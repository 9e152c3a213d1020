package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// prepareAction writes the input bars with every indicator precomputed.
// Backtests over the output read the persisted values instead of computing
// them again.
func prepareAction(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, "invalid --log-level", err)
	}
	defer log.Sync()

	start, end, err := ParsePeriod(cmd.Args().Slice())
	if err != nil {
		return err
	}

	ds, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return err
	}
	defer ds.Close()

	if err := ds.Initialize(cmd.String("data")); err != nil {
		return err
	}

	writer := marketdata.NewDuckDBWriter(cmd.String("out"), types.AllIndicatorKinds, log)
	if err := writer.Initialize(); err != nil {
		return err
	}
	defer writer.Close()

	opts := marketdata.EnrichOptions{
		Symbols: cmd.StringSlice("symbols"),
		Start:   start,
		End:     end,
	}

	if !cmd.Bool("quiet") && isTerminal(os.Stderr) {
		spinner := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Preparing"),
			progressbar.OptionClearOnFinish(),
		)
		defer spinner.Finish()

		opts.OnSymbol = func(symbol string, bars int) {
			spinner.Describe("Prepared " + symbol)
			_ = spinner.Add(1)
		}
	}

	indicators := indicator.NewEngine(indicator.NewDefaultRegistry(), log)

	written, err := marketdata.Enrich(ctx, ds, indicators, writer, opts, log)
	if err != nil {
		log.Error("Prepare failed", zap.Error(err))

		return err
	}

	if written == 0 {
		return errors.New(errors.ErrCodeNoDataFound, "no bars to prepare")
	}

	path, err := writer.Finalize()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "prepared %d symbols into %s\n", written, path)

	return nil
}
