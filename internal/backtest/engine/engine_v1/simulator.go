package engine

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/signal"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/internal/utils"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/rxtech-lab/argo-backtest/pkg/strategy"
	"go.uber.org/zap"
)

// PositionState is the state of one symbol's simulation.
type PositionState int

const (
	StateFlat PositionState = iota
	StateLong
)

func (s PositionState) String() string {
	if s == StateLong {
		return "LONG"
	}

	return "FLAT"
}

// Simulator walks one symbol's bars through the FLAT/LONG state machine.
// At most one action happens per bar: a bar that closes a position never
// opens one, and no position is opened on the final bar.
type Simulator struct {
	symbol     string
	bars       []types.Bar
	frame      indicator.Frame
	strategy   strategy.Strategy
	generator  *signal.Generator
	wallet     *Wallet
	commission commission_fee.CommissionFee
	spread     float64
	log        *logger.Logger

	position  optional.Option[types.Position]
	trades    []types.Trade
	signals   []types.Signal
	next      int
	boughtQty float64
	soldQty   float64
}

// SimulatorOptions carries what a simulator shares with the rest of the run.
type SimulatorOptions struct {
	Strategy   strategy.Strategy
	Generator  *signal.Generator
	Wallet     *Wallet
	Commission commission_fee.CommissionFee
	Spread     float64
	Log        *logger.Logger
}

func NewSimulator(symbol string, bars []types.Bar, frame indicator.Frame, opts SimulatorOptions) *Simulator {
	generator := opts.Generator
	if generator == nil {
		generator = signal.NewGenerator()
	}

	commission := opts.Commission
	if commission == nil {
		commission = commission_fee.NewZeroCommissionFee()
	}

	log := opts.Log
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Simulator{
		symbol:     symbol,
		bars:       bars,
		frame:      frame,
		strategy:   opts.Strategy,
		generator:  generator,
		wallet:     opts.Wallet,
		commission: commission,
		spread:     opts.Spread,
		log:        log.ForSymbol(symbol),
		position:   optional.None[types.Position](),
	}
}

// Run steps through every remaining bar, checking ctx before each one.
func (s *Simulator) Run(ctx context.Context) error {
	for s.next < len(s.bars) {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", err)
		}

		s.Step()
	}

	return nil
}

// Done reports whether every bar has been processed.
func (s *Simulator) Done() bool {
	return s.next >= len(s.bars)
}

// Peek returns the next unprocessed bar.
func (s *Simulator) Peek() optional.Option[types.Bar] {
	if s.Done() {
		return optional.None[types.Bar]()
	}

	return optional.Some(s.bars[s.next])
}

// Step processes the next bar. It is a no-op once every bar was processed.
func (s *Simulator) Step() {
	if s.Done() {
		return
	}

	i := s.next
	s.next++

	bar := s.bars[i]
	last := i == len(s.bars)-1

	cur := signal.ReadingsAt(s.frame, i)
	prev := signal.ReadingsAt(s.frame, i-1)

	fired := s.generator.Generate(s.symbol, bar.Time, bar.Close, cur, prev, s.strategy)
	s.signals = append(s.signals, fired...)

	if s.State() == StateLong {
		if reason, ok := s.exitReason(bar, fired); ok {
			s.close(bar, reason)

			return
		}

		if last {
			s.close(bar, types.ExitReasonEndOfBacktest)
		}

		return
	}

	if last {
		return
	}

	for _, sig := range fired {
		if sig.Action == types.ActionBuy {
			s.open(bar, sig)

			return
		}
	}
}

// exitReason checks stop-loss, then take-profit, then the first SELL signal.
func (s *Simulator) exitReason(bar types.Bar, fired []types.Signal) (string, bool) {
	ret := s.position.Unwrap().UnrealizedReturn(bar.Close)

	if ret < -s.strategy.StopLossFraction() {
		return types.ExitReasonStopLoss, true
	}

	if ret > s.strategy.TakeProfitFraction() {
		return types.ExitReasonTakeProfit, true
	}

	for _, sig := range fired {
		if sig.Action == types.ActionSell {
			return string(sig.Type), true
		}
	}

	return "", false
}

func (s *Simulator) open(bar types.Bar, sig types.Signal) {
	qty := utils.CalculateOrderQuantityByPercentage(s.wallet.Balance(), bar.Close, s.spread, s.commission, s.strategy.PositionSizeFraction())
	if qty <= 0 {
		s.log.Debug("Ignoring buy signal, quantity rounds to zero",
			zap.Time("time", bar.Time),
			zap.String("signal", string(sig.Type)),
			zap.Float64("close", bar.Close),
		)

		return
	}

	cost := utils.OrderCost(qty, bar.Close, s.spread, s.commission)
	if !s.wallet.Debit(cost) {
		s.log.Debug("Ignoring buy signal, insufficient balance",
			zap.Time("time", bar.Time),
			zap.Float64("cost", cost),
		)

		return
	}

	s.position = optional.Some(types.Position{
		Symbol:     s.symbol,
		Quantity:   qty,
		EntryPrice: bar.Close,
		EntryDate:  bar.Time,
		EntryFee:   cost - qty*bar.Close,
	})
	s.boughtQty += qty

	s.log.Debug("Opened position",
		zap.Time("time", bar.Time),
		zap.String("signal", string(sig.Type)),
		zap.Float64("quantity", qty),
		zap.Float64("price", bar.Close),
	)
}

func (s *Simulator) close(bar types.Bar, reason string) {
	pos := s.position.Unwrap()

	proceeds := utils.OrderProceeds(pos.Quantity, bar.Close, s.spread, s.commission)
	s.wallet.Credit(proceeds)

	trade := types.ClosePosition(pos, bar.Close, bar.Time, reason, pos.Quantity*bar.Close-proceeds)
	s.trades = append(s.trades, trade)
	s.soldQty += pos.Quantity
	s.position = optional.None[types.Position]()

	s.log.Debug("Closed position",
		zap.Time("time", bar.Time),
		zap.String("reason", reason),
		zap.Float64("quantity", pos.Quantity),
		zap.Float64("price", bar.Close),
		zap.Float64("return", trade.ReturnFraction),
	)
}

// State returns FLAT or LONG.
func (s *Simulator) State() PositionState {
	if s.position.IsSome() {
		return StateLong
	}

	return StateFlat
}

// Position returns the open position, if any.
func (s *Simulator) Position() optional.Option[types.Position] {
	return s.position
}

// Trades returns the closed trades in exit order.
func (s *Simulator) Trades() []types.Trade {
	return s.trades
}

// Signals returns every enabled signal that fired.
func (s *Simulator) Signals() []types.Signal {
	return s.signals
}

// RealizedPnL sums the net result of every closed trade.
func (s *Simulator) RealizedPnL() float64 {
	total := 0.0
	for _, t := range s.trades {
		total += t.NetPnL()
	}

	return total
}

// CheckBalanced verifies that every bought share was sold once all bars ran.
func (s *Simulator) CheckBalanced() error {
	if s.boughtQty != s.soldQty {
		return errors.Newf(errors.ErrCodeBacktestInvariant, "%s: bought %f shares but sold %f", s.symbol, s.boughtQty, s.soldQty)
	}

	return nil
}
