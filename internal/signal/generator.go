package signal

import (
	"fmt"
	"math"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Filter decides whether a signal of the given type and action may be
// emitted. Strategies implement it with their buy and sell lists.
type Filter interface {
	Enables(signalType types.SignalType, action types.Action) bool
}

// Generator turns indicator readings into discrete signals. The thresholds
// are exported so callers can tune them; NewGenerator sets the defaults.
type Generator struct {
	// OversoldLevel is the RSI level below which RSI_OVERSOLD fires
	OversoldLevel float64
	// OverboughtLevel is the RSI level above which RSI_OVERBOUGHT fires
	OverboughtLevel float64
	// MACDStrengthScale is the fraction of close that maps to full MACD strength
	MACDStrengthScale float64
	// CrossoverStrengthScale is the fraction of close that maps to full crossover strength
	CrossoverStrengthScale float64
	// SqueezeBandwidth is the band width relative to close below which a squeeze is reported
	SqueezeBandwidth float64
}

// NewGenerator creates a generator with the standard thresholds.
func NewGenerator() *Generator {
	return &Generator{
		OversoldLevel:          30,
		OverboughtLevel:        70,
		MACDStrengthScale:      0.01,
		CrossoverStrengthScale: 0.02,
		SqueezeBandwidth:       0.05,
	}
}

// Generate evaluates every rule against the current and previous readings.
// Rules are independent and several may fire. A rule that needs a missing
// reading does not fire. When filter is nil every rule is allowed.
func (g *Generator) Generate(symbol string, at time.Time, closePrice float64, cur, prev Readings, filter Filter) []types.Signal {
	var signals []types.Signal

	emit := func(signalType types.SignalType, action types.Action, strength float64, description string) {
		if filter != nil && !filter.Enables(signalType, action) {
			return
		}

		signals = append(signals, types.Signal{
			Type:        signalType,
			Action:      action,
			Strength:    clamp01(strength),
			Time:        at,
			Description: description,
			Symbol:      symbol,
		})
	}

	if cur.RSI.IsSome() {
		rsi := cur.RSI.Unwrap()

		if rsi < g.OversoldLevel {
			emit(types.SignalRSIOversold, types.ActionBuy, (g.OversoldLevel-rsi)/30,
				fmt.Sprintf("RSI oversold at %.2f", rsi))
		}

		if rsi > g.OverboughtLevel {
			emit(types.SignalRSIOverbought, types.ActionSell, (rsi-g.OverboughtLevel)/30,
				fmt.Sprintf("RSI overbought at %.2f", rsi))
		}
	}

	if cur.MACD.IsSome() && prev.MACD.IsSome() && closePrice > 0 {
		now, before := cur.MACD.Unwrap(), prev.MACD.Unwrap()
		strength := math.Abs(now.MACD-now.Signal) / (closePrice * g.MACDStrengthScale)

		if before.MACD <= before.Signal && now.MACD > now.Signal {
			emit(types.SignalMACDBullish, types.ActionBuy, strength, "MACD crossed above signal line")
		}

		if before.MACD >= before.Signal && now.MACD < now.Signal {
			emit(types.SignalMACDBearish, types.ActionSell, strength, "MACD crossed below signal line")
		}
	}

	if cur.SMA20.IsSome() && cur.EMA50.IsSome() && prev.SMA20.IsSome() && prev.EMA50.IsSome() && closePrice > 0 {
		sma, ema := cur.SMA20.Unwrap(), cur.EMA50.Unwrap()
		prevSMA, prevEMA := prev.SMA20.Unwrap(), prev.EMA50.Unwrap()
		strength := math.Abs(sma-ema) / (closePrice * g.CrossoverStrengthScale)

		if prevSMA <= prevEMA && sma > ema {
			emit(types.SignalSMACrossover, types.ActionBuy, strength, "golden cross: SMA20 crossed above EMA50")
		}

		if prevSMA >= prevEMA && sma < ema {
			emit(types.SignalSMACrossover, types.ActionSell, strength, "death cross: SMA20 crossed below EMA50")
		}
	}

	if cur.Bands.IsSome() && closePrice > 0 {
		bands := cur.Bands.Unwrap()
		bandwidth := (bands.Upper - bands.Lower) / closePrice

		if bandwidth < g.SqueezeBandwidth {
			emit(types.SignalBollingerSqueeze, types.ActionWatch, (g.SqueezeBandwidth-bandwidth)/g.SqueezeBandwidth,
				fmt.Sprintf("Bollinger bandwidth %.4f", bandwidth))
		}
	}

	return signals
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return math.Max(0, math.Min(1, v))
}
