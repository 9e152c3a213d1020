// Package strategy describes trading strategies: which signal types open and
// close positions and the risk parameters that bound them.
package strategy

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

const tradableSignals = "RSI_OVERSOLD RSI_OVERBOUGHT MACD_BULLISH MACD_BEARISH SMA_CROSSOVER"

// Strategy is a bundle of enabled buy and sell signal types plus risk
// parameters. Percentages are expressed in percent, so 5 means 5%.
type Strategy struct {
	Name        string `yaml:"name" json:"name" validate:"required" jsonschema:"title=Name,description=Strategy name used in reports"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"title=Engine Version,description=Semver constraint the engine must satisfy"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" jsonschema:"title=Description"`
	// BuySignals open a position while flat
	BuySignals []types.SignalType `yaml:"buy_signals" json:"buy_signals" validate:"required,min=1,dive,oneof=RSI_OVERSOLD RSI_OVERBOUGHT MACD_BULLISH MACD_BEARISH SMA_CROSSOVER" jsonschema:"title=Buy Signals"`
	// SellSignals close a position while long
	SellSignals        []types.SignalType `yaml:"sell_signals" json:"sell_signals" validate:"dive,oneof=RSI_OVERSOLD RSI_OVERBOUGHT MACD_BULLISH MACD_BEARISH SMA_CROSSOVER" jsonschema:"title=Sell Signals"`
	StopLossPct        float64            `yaml:"stop_loss_pct" json:"stop_loss_pct" validate:"gt=0,lte=100" jsonschema:"title=Stop Loss,description=Loss in percent of entry price that closes the position,exclusiveMinimum=0,maximum=100"`
	TakeProfitPct      float64            `yaml:"take_profit_pct" json:"take_profit_pct" validate:"gt=0" jsonschema:"title=Take Profit,description=Gain in percent of entry price that closes the position,exclusiveMinimum=0"`
	MaxPositionSizePct float64            `yaml:"max_position_size_pct" json:"max_position_size_pct" validate:"gt=0,lte=100" jsonschema:"title=Max Position Size,description=Percent of available capital committed per entry,exclusiveMinimum=0,maximum=100"`
}

var builtins = map[string]Strategy{
	"rsi": {
		Name:               "rsi",
		Description:        "RSI mean reversion",
		BuySignals:         []types.SignalType{types.SignalRSIOversold},
		SellSignals:        []types.SignalType{types.SignalRSIOverbought},
		StopLossPct:        5,
		TakeProfitPct:      15,
		MaxPositionSizePct: 10,
	},
	"sma": {
		Name:               "sma",
		Description:        "SMA20 / EMA50 crossover",
		BuySignals:         []types.SignalType{types.SignalSMACrossover},
		SellSignals:        []types.SignalType{types.SignalSMACrossover},
		StopLossPct:        5,
		TakeProfitPct:      20,
		MaxPositionSizePct: 10,
	},
	"macd": {
		Name:               "macd",
		Description:        "MACD signal line crossover",
		BuySignals:         []types.SignalType{types.SignalMACDBullish},
		SellSignals:        []types.SignalType{types.SignalMACDBearish},
		StopLossPct:        5,
		TakeProfitPct:      15,
		MaxPositionSizePct: 10,
	},
	"combined": {
		Name:               "combined",
		Description:        "RSI, MACD and crossover signals together",
		BuySignals:         []types.SignalType{types.SignalRSIOversold, types.SignalMACDBullish, types.SignalSMACrossover},
		SellSignals:        []types.SignalType{types.SignalRSIOverbought, types.SignalMACDBearish, types.SignalSMACrossover},
		StopLossPct:        7,
		TakeProfitPct:      20,
		MaxPositionSizePct: 10,
	},
}

// BuiltinNames returns the names accepted by Builtin, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Builtin returns a copy of a built-in strategy bundle.
func Builtin(name string) (Strategy, error) {
	s, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Strategy{}, errors.Newf(errors.ErrCodeUnknownStrategy,
			"unknown strategy %q, expected one of %s", name, strings.Join(BuiltinNames(), ", "))
	}

	s.BuySignals = slices.Clone(s.BuySignals)
	s.SellSignals = slices.Clone(s.SellSignals)

	return s, nil
}

// Enables reports whether a signal may trigger a trade. BUY signals must be
// listed in BuySignals and SELL signals in SellSignals. WATCH signals never
// trade.
func (s Strategy) Enables(signalType types.SignalType, action types.Action) bool {
	switch action {
	case types.ActionBuy:
		return slices.Contains(s.BuySignals, signalType)
	case types.ActionSell:
		return slices.Contains(s.SellSignals, signalType)
	default:
		return false
	}
}

// StopLossFraction returns StopLossPct as a fraction.
func (s Strategy) StopLossFraction() float64 {
	return s.StopLossPct / 100
}

// TakeProfitFraction returns TakeProfitPct as a fraction.
func (s Strategy) TakeProfitFraction() float64 {
	return s.TakeProfitPct / 100
}

// PositionSizeFraction returns MaxPositionSizePct as a fraction.
func (s Strategy) PositionSizeFraction() float64 {
	return s.MaxPositionSizePct / 100
}

// Validate checks the strategy fields. The returned error carries the code of
// the first failing field.
func (s Strategy) Validate() error {
	validate := validator.New()

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy", err)
	}

	first := fieldErrors[0]

	code := errors.ErrCodeStrategyConfigError

	switch first.StructField() {
	case "StopLossPct":
		code = errors.ErrCodeInvalidStopLoss
	case "TakeProfitPct":
		code = errors.ErrCodeInvalidTakeProfit
	case "MaxPositionSizePct":
		code = errors.ErrCodeInvalidPositionSize
	}

	return errors.Wrap(code, fmt.Sprintf("invalid strategy %q: field %s failed %s (tradable signals: %s)",
		s.Name, first.Namespace(), first.Tag(), tradableSignals), err)
}
