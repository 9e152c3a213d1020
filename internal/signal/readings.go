package signal

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Readings is the projection of a Frame onto one bar: the indicator values
// the signal rules look at. A field is None when the indicator is absent or
// has no value yet at that bar.
type Readings struct {
	RSI   optional.Option[float64]
	MACD  optional.Option[types.MACDValue]
	SMA20 optional.Option[float64]
	EMA50 optional.Option[float64]
	Bands optional.Option[types.BandsValue]
}

// ReadingsAt reads the frame at barIndex, applying each series' alignment
// offset. A negative barIndex yields empty readings.
func ReadingsAt(frame indicator.Frame, barIndex int) Readings {
	r := Readings{
		RSI:   frame.ScalarAt(types.IndicatorRSI14, barIndex),
		SMA20: frame.ScalarAt(types.IndicatorSMA20, barIndex),
		EMA50: frame.ScalarAt(types.IndicatorEMA50, barIndex),
		MACD:  optional.None[types.MACDValue](),
		Bands: optional.None[types.BandsValue](),
	}

	if v := frame.At(types.IndicatorMACD, barIndex); v.IsSome() {
		r.MACD = optional.Some(v.Unwrap().MACD)
	}

	if v := frame.At(types.IndicatorBollinger, barIndex); v.IsSome() {
		r.Bands = optional.Some(v.Unwrap().Bands)
	}

	return r
}
