package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rxtech-lab/argo-backtest/internal/report"
	"github.com/rxtech-lab/argo-backtest/internal/version"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/urfave/cli/v3"
)

func newApp(stdout io.Writer) *cli.Command {
	logLevelFlag := &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
		Value: "info",
	}

	quietFlag := &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "Disable the progress bar",
	}

	dataFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "data",
			Aliases:  []string{"d"},
			Usage:    "Path to a parquet or csv file of daily bars (globs allowed)",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:    "symbols",
			Aliases: []string{"s"},
			Usage:   "Symbols to backtest, comma separated. Defaults to every symbol in the data",
		},
		&cli.FloatFlag{
			Name:  "capital",
			Usage: "Initial capital in USD",
			Value: 100000,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Engine configuration YAML (broker, commission, spread, workers)",
		},
		&cli.StringFlag{
			Name:    "results",
			Aliases: []string{"r"},
			Usage:   "Directory to write stats.yaml, trades.parquet and signals.parquet to",
		},
		&cli.BoolFlag{
			Name:  "shared-capital",
			Usage: "Run every symbol against one wallet instead of a wallet per symbol",
		},
		logLevelFlag,
		quietFlag,
	}

	runFlags := append([]cli.Flag{
		&cli.StringFlag{
			Name:    "strategy-file",
			Aliases: []string{"f"},
			Usage:   "Strategy YAML file used instead of a built-in strategy",
		},
	}, dataFlags...)

	return &cli.Command{
		Name:    "backtest",
		Usage:   "Backtest signal-driven stock strategies over daily bars",
		Version: version.GetVersion(),
		Writer:  stdout,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run one strategy",
				ArgsUsage: "<strategy> <start-date> <end-date>",
				Flags:     runFlags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runAction(ctx, cmd, stdout, false)
				},
			},
			{
				Name:      "compare",
				Usage:     "Run several strategies over the same bars",
				ArgsUsage: "<strategy,strategy,...> <start-date> <end-date>",
				Flags:     dataFlags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runAction(ctx, cmd, stdout, true)
				},
			},
			{
				Name:      "prepare",
				Usage:     "Write the bars with every indicator precomputed, for faster backtests",
				ArgsUsage: "[<start-date> <end-date>]",
				Flags: []cli.Flag{
					dataFlags[0],
					dataFlags[1],
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output file, parquet unless it ends in .csv",
						Required: true,
					},
					logLevelFlag,
					quietFlag,
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return prepareAction(ctx, cmd, stdout)
				},
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the engine configuration or of strategy files",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "strategy",
						Usage: "Print the strategy file schema instead",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Write the schema and a sample YAML into this directory instead of printing",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return schemaAction(cmd, stdout)
				},
			},
			{
				Name:  "strategies",
				Usage: "List the built-in strategies",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return strategiesAction(stdout)
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stdout, report.ErrorStyle.Render(summary(err)))
		stop()
		os.Exit(1)
	}
}

// summary is the one line shown to the user when a command fails.
func summary(err error) string {
	if errors.IsConfigurationError(err) {
		return "configuration error: " + err.Error()
	}

	return "backtest failed: " + err.Error()
}
