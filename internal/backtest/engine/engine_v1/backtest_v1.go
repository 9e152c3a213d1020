package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/performance"
	"github.com/rxtech-lab/argo-backtest/internal/signal"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/rxtech-lab/argo-backtest/pkg/strategy"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	initialized   bool
	strategies    []strategy.Strategy
	symbols       []string
	resultsFolder string
	log           *logger.Logger
	indicators    *indicator.Engine
	generator     *signal.Generator
	datasource    datasource.DataSource
	cache         cache.Cache
}

// preparedSeries is one symbol's sanitized bars with their indicator frame.
type preparedSeries struct {
	symbol string
	bars   []types.Bar
	frame  indicator.Frame
}

// symbolRun is the outcome of simulating one symbol.
type symbolRun struct {
	result  types.BacktestResult
	signals []types.Signal
}

func NewBacktestEngineV1(log *logger.Logger) engine.Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BacktestEngineV1{
		config:        EmptyConfig(),
		initialized:   false,
		strategies:    nil,
		symbols:       nil,
		resultsFolder: "",
		log:           log,
		indicators:    indicator.NewEngine(indicator.NewDefaultRegistry(), log),
		generator:     signal.NewGenerator(),
		datasource:    nil,
		cache:         cache.NewCacheV1(),
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed, err := ParseConfig(config)
	if err != nil {
		b.log.Error("Invalid backtest config", zap.Error(err))

		return err
	}

	b.config = parsed
	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_capital", parsed.InitialCapital),
		zap.String("broker", string(parsed.Broker)),
		zap.Time("start_date", parsed.StartDate),
		zap.Time("end_date", parsed.EndDate),
		zap.String("capital_mode", string(parsed.CapitalMode)),
	)

	return nil
}

// LoadStrategy implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategy(s strategy.Strategy) error {
	if err := s.Validate(); err != nil {
		return err
	}

	b.strategies = append(b.strategies, s)
	b.log.Debug("Strategy loaded",
		zap.String("strategy", s.Name),
	)

	return nil
}

// SetSymbols implements engine.Engine.
func (b *BacktestEngineV1) SetSymbols(symbols []string) error {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))

	for _, symbol := range symbols {
		if symbol == "" {
			return errors.New(errors.ErrCodeInvalidArgument, "symbol must not be empty")
		}

		if seen[symbol] {
			continue
		}

		seen[symbol] = true
		out = append(out, symbol)
	}

	sort.Strings(out)
	b.symbols = out

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder
	b.log.Debug("Results folder set",
		zap.String("folder", folder),
	)

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(datasource datasource.DataSource) error {
	if datasource == nil {
		return errors.New(errors.ErrCodeMissingArgument, "data source must not be nil")
	}

	b.datasource = datasource

	return nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (results []engine.StrategyResult, err error) {
	notify := newNotifier(callbacks)

	defer func() {
		notify.backtestEnd(err)
	}()

	if err := b.preRunCheck(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", err)
	}

	series, err := b.loadSeries(ctx)
	if err != nil {
		return nil, err
	}

	if err := notify.backtestStart(len(b.strategies), len(series)); err != nil {
		return nil, err
	}

	notify.total = len(b.strategies) * len(series)

	for idx, s := range b.strategies {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", err)
		}

		if err := notify.strategyStart(idx, s.Name, len(b.strategies)); err != nil {
			return nil, err
		}

		result, err := b.runStrategy(ctx, s, series, notify)
		notify.strategyEnd(idx, s.Name)

		if err != nil {
			return nil, err
		}

		if b.resultsFolder != "" {
			result.ResultFolder = getResultFolder(b.resultsFolder, s.Name, b.config)
			if err := b.writeResults(result); err != nil {
				return nil, err
			}
		}

		results = append(results, result)
	}

	hits, misses := b.cache.Stats()
	b.log.Debug("Backtest finished",
		zap.Int("strategies", len(b.strategies)),
		zap.Int("symbols", len(series)),
		zap.Int("frame_cache_hits", hits),
		zap.Int("frame_cache_misses", misses),
	)

	return results, nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

func (b *BacktestEngineV1) workers() int {
	if b.config.Workers > 0 {
		return b.config.Workers
	}

	return runtime.NumCPU()
}

func (b *BacktestEngineV1) commission() commission_fee.CommissionFee {
	return b.config.CommissionFee()
}

// loadSeries reads, sanitizes, and prepares indicators for every symbol in
// parallel. Symbols without bars in the period are skipped.
func (b *BacktestEngineV1) loadSeries(ctx context.Context) ([]preparedSeries, error) {
	symbols := b.symbols
	if len(symbols) == 0 {
		all, err := b.datasource.GetAllSymbols(ctx)
		if err != nil {
			return nil, err
		}

		symbols = all
	}

	slots := make([]*preparedSeries, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())

	for i, symbol := range symbols {
		g.Go(func() error {
			prepared, err := b.prepare(gctx, symbol)
			if err != nil {
				return err
			}

			slots[i] = prepared

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", ctxErr)
		}

		return nil, err
	}

	series := make([]preparedSeries, 0, len(slots))

	for _, slot := range slots {
		if slot != nil {
			series = append(series, *slot)
		}
	}

	if len(series) == 0 {
		return nil, errors.Newf(errors.ErrCodeBacktestNoSeries, "no bars between %s and %s for any symbol",
			b.config.StartDate.Format("2006-01-02"), b.config.EndDate.Format("2006-01-02"))
	}

	sort.Slice(series, func(i, j int) bool { return series[i].symbol < series[j].symbol })

	return series, nil
}

func (b *BacktestEngineV1) prepare(ctx context.Context, symbol string) (*preparedSeries, error) {
	log := b.log.ForSymbol(symbol)

	raw, err := b.datasource.GetRange(ctx, symbol, b.config.StartDate, b.config.EndDate)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNoDataFound) || errors.HasCode(err, errors.ErrCodeDataNotFound) {
			log.Warn("Skipping symbol without bars in period", zap.Error(err))

			return nil, nil
		}

		return nil, err
	}

	bars := indicator.Sanitize(raw.Bars, log)
	if len(bars) == 0 {
		log.Warn("Skipping symbol without valid bars")

		return nil, nil
	}

	var frame indicator.Frame

	if raw.Frame.IsSome() && len(bars) == len(raw.Bars) {
		frame = raw.Frame.Unwrap()
	} else {
		frame = b.cache.GetOrCompute(symbol, bars, func() indicator.Frame {
			return b.indicators.Compute(symbol, bars)
		})
	}

	return &preparedSeries{symbol: symbol, bars: bars, frame: frame}, nil
}

func (b *BacktestEngineV1) runStrategy(ctx context.Context, s strategy.Strategy, series []preparedSeries, notify *notifier) (engine.StrategyResult, error) {
	runID := uuid.New().String()

	b.log.Info("Running strategy",
		zap.String("strategy", s.Name),
		zap.String("run_id", runID),
		zap.Int("symbols", len(series)),
		zap.String("capital_mode", string(b.config.CapitalMode)),
	)

	var (
		runs []symbolRun
		err  error
	)

	if b.config.Shared() {
		runs, err = b.runShared(ctx, runID, s, series, notify)
	} else {
		runs, err = b.runIsolated(ctx, runID, s, series, notify)
	}

	if err != nil {
		return engine.StrategyResult{}, err
	}

	results := make([]types.BacktestResult, 0, len(runs)+1)

	var signals []types.Signal

	for _, run := range runs {
		results = append(results, run.result)
		signals = append(signals, run.signals...)
	}

	overall := performance.Overall(s.Name, results)
	overall.ID = runID
	results = append(results, overall)

	for _, r := range results {
		if err := r.CheckInvariants(); err != nil {
			b.log.Error("Result invariant violated", zap.String("run_id", runID), zap.Error(err))

			return engine.StrategyResult{}, err
		}
	}

	return engine.StrategyResult{
		RunID:    runID,
		Strategy: s,
		Results:  results,
		Signals:  signals,
	}, nil
}

// runIsolated simulates each symbol with its own wallet holding the full
// initial capital, bounded by the configured number of workers.
func (b *BacktestEngineV1) runIsolated(ctx context.Context, runID string, s strategy.Strategy, series []preparedSeries, notify *notifier) ([]symbolRun, error) {
	runs := make([]symbolRun, len(series))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())

	for i, ps := range series {
		g.Go(func() error {
			if err := notify.runStart(runID, ps.symbol, len(ps.bars)); err != nil {
				return err
			}

			wallet := NewWallet(b.config.InitialCapital)
			sim := b.newSimulator(ps, s, wallet)

			if err := sim.Run(gctx); err != nil {
				return err
			}

			if err := sim.CheckBalanced(); err != nil {
				return err
			}

			run := b.finishSymbol(runID, s, ps.symbol, sim, b.config.InitialCapital, wallet.Balance())
			runs[i] = run

			notify.runEnd(runID, ps.symbol, run.result)

			return notify.processData()
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", ctxErr)
		}

		return nil, err
	}

	return runs, nil
}

// runShared simulates every symbol against one wallet. Bars are merged on
// timestamp and, within a timestamp, symbols step in ascending ticker order.
func (b *BacktestEngineV1) runShared(ctx context.Context, runID string, s strategy.Strategy, series []preparedSeries, notify *notifier) ([]symbolRun, error) {
	wallet := NewWallet(b.config.InitialCapital)
	allocation := b.config.InitialCapital / float64(len(series))

	sims := make([]*Simulator, len(series))
	for i, ps := range series {
		if err := notify.runStart(runID, ps.symbol, len(ps.bars)); err != nil {
			return nil, err
		}

		sims[i] = b.newSimulator(ps, s, wallet)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", err)
		}

		next, ok := earliestPending(sims)
		if !ok {
			break
		}

		for _, sim := range sims {
			if bar := sim.Peek(); bar.IsSome() && bar.Unwrap().Time.Equal(next) {
				sim.Step()
			}
		}
	}

	runs := make([]symbolRun, len(series))

	for i, sim := range sims {
		if err := sim.CheckBalanced(); err != nil {
			return nil, err
		}

		run := b.finishSymbol(runID, s, series[i].symbol, sim, allocation, allocation+sim.RealizedPnL())
		runs[i] = run

		notify.runEnd(runID, series[i].symbol, run.result)

		if err := notify.processData(); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

func (b *BacktestEngineV1) newSimulator(ps preparedSeries, s strategy.Strategy, wallet *Wallet) *Simulator {
	return NewSimulator(ps.symbol, ps.bars, ps.frame, SimulatorOptions{
		Strategy:   s,
		Generator:  b.generator,
		Wallet:     wallet,
		Commission: b.commission(),
		Spread:     b.config.Spread,
		Log:        b.log,
	})
}

func (b *BacktestEngineV1) finishSymbol(runID string, s strategy.Strategy, symbol string, sim *Simulator, initial float64, final float64) symbolRun {
	result := performance.Aggregate(performance.Input{
		ID:             runID,
		StrategyName:   s.Name,
		Symbol:         symbol,
		StartDate:      b.config.StartDate,
		EndDate:        b.config.EndDate,
		InitialCapital: initial,
		FinalCapital:   final,
		Trades:         sim.Trades(),
	})

	b.log.Debug("Symbol finished",
		zap.String("run_id", runID),
		zap.String("symbol", symbol),
		zap.Int("trades", result.TotalTrades),
		zap.Float64("total_return", result.TotalReturn),
	)

	return symbolRun{result: result, signals: sim.Signals()}
}

func (b *BacktestEngineV1) writeResults(result engine.StrategyResult) error {
	store, err := NewResultStore(b.log)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create result store", err)
	}
	defer store.Close()

	var trades []types.Trade

	for _, r := range result.Results {
		if !r.IsOverall() {
			trades = append(trades, r.Trades...)
		}
	}

	if err := store.RecordTrades(result.RunID, result.Strategy.Name, trades); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to record trades", err)
	}

	if err := store.RecordSignals(result.RunID, result.Strategy.Name, result.Signals); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to record signals", err)
	}

	return store.Write(result.ResultFolder, result.Results)
}

func (b *BacktestEngineV1) preRunCheck() error {
	if !b.initialized {
		b.log.Error("Engine not initialized")

		return errors.New(errors.ErrCodeBacktestConfigError, "engine is not initialized")
	}

	if len(b.strategies) == 0 {
		b.log.Error("No strategies loaded")

		return errors.New(errors.ErrCodeMissingArgument, "no strategies loaded")
	}

	if b.datasource == nil {
		b.log.Error("No data source set")

		return errors.New(errors.ErrCodeMissingArgument, "no data source set")
	}

	return nil
}

func earliestPending(sims []*Simulator) (next time.Time, ok bool) {
	for _, sim := range sims {
		bar := sim.Peek()
		if bar.IsNone() {
			continue
		}

		t := bar.Unwrap().Time
		if !ok || t.Before(next) {
			next = t
			ok = true
		}
	}

	return next, ok
}

// notifier serializes lifecycle callbacks and counts finished symbols.
type notifier struct {
	mu        sync.Mutex
	callbacks engine.LifecycleCallbacks
	current   int
	total     int
}

func newNotifier(callbacks engine.LifecycleCallbacks) *notifier {
	return &notifier{callbacks: callbacks}
}

func (n *notifier) backtestStart(strategies int, symbols int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.callbacks.OnBacktestStart == nil {
		return nil
	}

	return (*n.callbacks.OnBacktestStart)(strategies, symbols)
}

func (n *notifier) backtestEnd(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.callbacks.OnBacktestEnd != nil {
		(*n.callbacks.OnBacktestEnd)(err)
	}
}

func (n *notifier) strategyStart(idx int, name string, total int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.callbacks.OnStrategyStart == nil {
		return nil
	}

	return (*n.callbacks.OnStrategyStart)(idx, name, total)
}

func (n *notifier) strategyEnd(idx int, name string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.callbacks.OnStrategyEnd != nil {
		(*n.callbacks.OnStrategyEnd)(idx, name)
	}
}

func (n *notifier) runStart(runID string, symbol string, totalBars int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.callbacks.OnRunStart == nil {
		return nil
	}

	return (*n.callbacks.OnRunStart)(runID, symbol, totalBars)
}

func (n *notifier) runEnd(runID string, symbol string, result types.BacktestResult) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.callbacks.OnRunEnd != nil {
		(*n.callbacks.OnRunEnd)(runID, symbol, result)
	}
}

func (n *notifier) processData() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current++

	if n.callbacks.OnProcessData == nil {
		return nil
	}

	return (*n.callbacks.OnProcessData)(n.current, n.total)
}
