package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	engine_types "github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	engine "github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/report"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/rxtech-lab/argo-backtest/pkg/strategy"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func runAction(ctx context.Context, cmd *cli.Command, stdout io.Writer, compare bool) error {
	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, "invalid --log-level", err)
	}
	defer log.Sync()

	results, err := execute(ctx, cmd, log, compare)
	if err != nil {
		if errors.IsConfigurationError(err) {
			log.Warn("Invalid configuration",
				zap.Int("code", int(errors.GetCode(err))),
				zap.Error(err),
			)
		} else {
			log.Error("Backtest failed",
				zap.Int("code", int(errors.GetCode(err))),
				zap.Error(err),
			)
		}

		return err
	}

	if compare {
		fmt.Fprintln(stdout, report.RenderComparison(results))
		fmt.Fprintln(stdout)
	}

	fmt.Fprintln(stdout, report.Render(results))

	return nil
}

func execute(ctx context.Context, cmd *cli.Command, log *logger.Logger, compare bool) ([]engine_types.StrategyResult, error) {
	args, err := ParseArgs(cmd.Args().Slice())
	if err != nil {
		return nil, err
	}

	if !compare && len(args.Strategies) != 1 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "run takes one strategy, use compare for several")
	}

	strategies := make([]strategy.Strategy, 0, len(args.Strategies))

	for _, name := range args.Strategies {
		s, err := strategy.Resolve(name, cmd.String("strategy-file"))
		if err != nil {
			return nil, err
		}

		strategies = append(strategies, s)
	}

	config, err := buildConfig(cmd, args)
	if err != nil {
		return nil, err
	}

	backtest := engine.NewBacktestEngineV1(log)
	if err := backtest.Initialize(config); err != nil {
		return nil, err
	}

	for _, s := range strategies {
		if err := backtest.LoadStrategy(s); err != nil {
			return nil, err
		}
	}

	ds, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if err := ds.Initialize(cmd.String("data")); err != nil {
		return nil, err
	}

	if err := backtest.SetDataSource(ds); err != nil {
		return nil, err
	}

	if symbols := cmd.StringSlice("symbols"); len(symbols) > 0 {
		if err := backtest.SetSymbols(symbols); err != nil {
			return nil, err
		}
	}

	if folder := cmd.String("results"); folder != "" {
		if err := backtest.SetResultsFolder(folder); err != nil {
			return nil, err
		}
	}

	return backtest.Run(ctx, newCallbacks(log, !cmd.Bool("quiet") && isTerminal(os.Stderr)))
}

// buildConfig merges the optional config file with the command line. Dates
// always come from the arguments; --capital wins when given or when the
// file sets no capital.
func buildConfig(cmd *cli.Command, args Args) (string, error) {
	config := engine.EmptyConfig()

	if path := cmd.String("config"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(content, &config); err != nil {
			return "", errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to parse config file %s", path)
		}
	}

	if cmd.IsSet("capital") || config.InitialCapital == 0 {
		config.InitialCapital = cmd.Float("capital")
	}

	if cmd.Bool("shared-capital") {
		config.CapitalMode = engine.CapitalModeShared
	}

	config.StartDate = args.StartDate
	config.EndDate = args.EndDate

	out, err := yaml.Marshal(config)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to encode config", err)
	}

	return string(out), nil
}

func newCallbacks(log *logger.Logger, showProgress bool) engine_types.LifecycleCallbacks {
	var bar *progressbar.ProgressBar

	onStart := engine_types.OnBacktestStartCallback(func(totalStrategies int, totalSymbols int) error {
		log.Info("Backtest started",
			zap.Int("strategies", totalStrategies),
			zap.Int("symbols", totalSymbols),
		)

		if showProgress {
			bar = progressbar.NewOptions(totalStrategies*totalSymbols,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("Backtesting"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		return nil
	})

	onRunEnd := engine_types.OnRunEndCallback(func(runID string, symbol string, result types.BacktestResult) {
		log.Debug("Symbol finished",
			zap.String("run_id", runID),
			zap.String("symbol", symbol),
			zap.Int("trades", result.TotalTrades),
		)
	})

	onProcess := engine_types.OnProcessDataCallback(func(current int, total int) error {
		if bar != nil {
			return bar.Set(current)
		}

		return nil
	})

	onEnd := engine_types.OnBacktestEndCallback(func(err error) {
		if bar != nil {
			_ = bar.Finish()
		}
	})

	return engine_types.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnBacktestEnd:   &onEnd,
		OnRunEnd:        &onRunEnd,
		OnProcessData:   &onProcess,
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

func schemaAction(cmd *cli.Command, stdout io.Writer) error {
	var (
		schema string
		name   string
		sample any
		err    error
	)

	if cmd.Bool("strategy") {
		name = "strategy"
		sample, err = strategy.Builtin(strategy.BuiltinNames()[0])
		if err == nil {
			schema, err = strategy.Schema()
		}
	} else {
		config := engine.EmptyConfig()
		name = "backtest-engine-v1-config"
		sample = config
		schema, err = config.GenerateSchemaJSON()
	}

	if err != nil {
		return err
	}

	dir := cmd.String("out")
	if dir == "" {
		fmt.Fprintln(stdout, schema)

		return nil
	}

	return writeSchema(dir, name, schema, sample, stdout)
}

// writeSchema writes <name>.json and, unless it exists, a sample <name>.yaml
// that points editors at the schema.
func writeSchema(dir string, name string, schema string, sample any, stdout io.Writer) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidArgument, err, "failed to create %s", dir)
	}

	schemaName := name + ".json"
	schemaPath := filepath.Join(dir, schemaName)

	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidArgument, err, "failed to write %s", schemaPath)
	}

	fmt.Fprintf(stdout, "schema written to %s\n", schemaPath)

	samplePath := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}

	content, err := yaml.Marshal(sample)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, "failed to encode sample", err)
	}

	content = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), content...)

	if err := os.WriteFile(samplePath, content, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidArgument, err, "failed to write %s", samplePath)
	}

	fmt.Fprintf(stdout, "sample written to %s\n", samplePath)

	return nil
}

func strategiesAction(stdout io.Writer) error {
	for _, name := range strategy.BuiltinNames() {
		s, err := strategy.Builtin(name)
		if err != nil {
			return err
		}

		fmt.Fprintf(stdout, "%-10s %s (buy: %v, sell: %v, stop loss %.0f%%, take profit %.0f%%, size %.0f%%)\n",
			s.Name, s.Description, s.BuySignals, s.SellSignals, s.StopLossPct, s.TakeProfitPct, s.MaxPositionSizePct)
	}

	return nil
}
