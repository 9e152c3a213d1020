package signal

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type GeneratorTestSuite struct {
	suite.Suite
	generator *Generator
	at        time.Time
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func (suite *GeneratorTestSuite) SetupTest() {
	suite.generator = NewGenerator()
	suite.at = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
}

type typeFilter map[types.SignalType]types.Action

func (f typeFilter) Enables(signalType types.SignalType, action types.Action) bool {
	a, ok := f[signalType]

	return ok && a == action
}

func rsiReadings(rsi float64) Readings {
	return Readings{RSI: optional.Some(rsi)}
}

func macdReadings(macd, signal float64) Readings {
	return Readings{MACD: optional.Some(types.MACDValue{MACD: macd, Signal: signal, Histogram: macd - signal})}
}

func crossReadings(sma, ema float64) Readings {
	return Readings{SMA20: optional.Some(sma), EMA50: optional.Some(ema)}
}

func countType(signals []types.Signal, signalType types.SignalType) int {
	n := 0

	for _, s := range signals {
		if s.Type == signalType {
			n++
		}
	}

	return n
}

func (suite *GeneratorTestSuite) TestRSIThresholds() {
	tests := []struct {
		name     string
		rsi      float64
		expected types.SignalType
		action   types.Action
		strength float64
	}{
		{"oversold", 15, types.SignalRSIOversold, types.ActionBuy, 0.5},
		{"deeply oversold", 0, types.SignalRSIOversold, types.ActionBuy, 1},
		{"overbought", 85, types.SignalRSIOverbought, types.ActionSell, 0.5},
		{"neutral", 50, "", "", 0},
		{"boundary low", 30, "", "", 0},
		{"boundary high", 70, "", "", 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			signals := suite.generator.Generate("AAPL", suite.at, 100, rsiReadings(tc.rsi), Readings{}, nil)
			if tc.expected == "" {
				suite.Empty(signals)

				return
			}

			suite.Require().Len(signals, 1)
			suite.Equal(tc.expected, signals[0].Type)
			suite.Equal(tc.action, signals[0].Action)
			suite.InDelta(tc.strength, signals[0].Strength, 1e-9)
			suite.Equal("AAPL", signals[0].Symbol)
			suite.Equal(suite.at, signals[0].Time)
		})
	}
}

func (suite *GeneratorTestSuite) TestMACDCrossoverFiresOnce() {
	// macd - signal per bar: below, equal, above, above, above
	sequence := []Readings{
		macdReadings(-1, 0),
		macdReadings(0, 0),
		macdReadings(0.5, 0),
		macdReadings(1, 0),
		macdReadings(2, 0.5),
	}

	bullish := 0
	firedAt := -1

	for i := 1; i < len(sequence); i++ {
		signals := suite.generator.Generate("AAPL", suite.at, 100, sequence[i], sequence[i-1], nil)
		if n := countType(signals, types.SignalMACDBullish); n > 0 {
			bullish += n
			firedAt = i
		}

		suite.Zero(countType(signals, types.SignalMACDBearish))
	}

	suite.Equal(1, bullish)
	suite.Equal(2, firedAt)
}

func (suite *GeneratorTestSuite) TestMACDStrength() {
	signals := suite.generator.Generate("AAPL", suite.at, 100, macdReadings(0.5, 0), macdReadings(0, 0), nil)
	suite.Require().Len(signals, 1)
	suite.InDelta(0.5, signals[0].Strength, 1e-9)

	signals = suite.generator.Generate("AAPL", suite.at, 100, macdReadings(-3, 0), macdReadings(1, 0), nil)
	suite.Require().Len(signals, 1)
	suite.Equal(types.SignalMACDBearish, signals[0].Type)
	suite.Equal(1.0, signals[0].Strength)
}

func (suite *GeneratorTestSuite) TestMACDNeedsPreviousReading() {
	signals := suite.generator.Generate("AAPL", suite.at, 100, macdReadings(1, 0), Readings{}, nil)
	suite.Empty(signals)
}

func (suite *GeneratorTestSuite) TestSMACrossover() {
	golden := suite.generator.Generate("AAPL", suite.at, 100, crossReadings(101, 100), crossReadings(99, 100), nil)
	suite.Require().Len(golden, 1)
	suite.Equal(types.ActionBuy, golden[0].Action)
	suite.Contains(golden[0].Description, "golden cross")
	suite.InDelta(0.5, golden[0].Strength, 1e-9)

	death := suite.generator.Generate("AAPL", suite.at, 100, crossReadings(99, 100), crossReadings(101, 100), nil)
	suite.Require().Len(death, 1)
	suite.Equal(types.ActionSell, death[0].Action)
	suite.Contains(death[0].Description, "death cross")

	none := suite.generator.Generate("AAPL", suite.at, 100, crossReadings(102, 100), crossReadings(101, 100), nil)
	suite.Empty(none)
}

func (suite *GeneratorTestSuite) TestBollingerSqueezeIsWatchOnly() {
	cur := Readings{Bands: optional.Some(types.BandsValue{Upper: 101, Middle: 100, Lower: 99})}

	signals := suite.generator.Generate("AAPL", suite.at, 100, cur, Readings{}, nil)
	suite.Require().Len(signals, 1)
	suite.Equal(types.ActionWatch, signals[0].Action)
	suite.InDelta(0.6, signals[0].Strength, 1e-9)

	wide := Readings{Bands: optional.Some(types.BandsValue{Upper: 110, Middle: 100, Lower: 90})}
	suite.Empty(suite.generator.Generate("AAPL", suite.at, 100, wide, Readings{}, nil))
}

func (suite *GeneratorTestSuite) TestFilterSuppressesUnlistedTypes() {
	cur := Readings{RSI: optional.Some(10.0)}
	filter := typeFilter{types.SignalMACDBullish: types.ActionBuy}

	suite.Empty(suite.generator.Generate("AAPL", suite.at, 100, cur, Readings{}, filter))

	filter[types.SignalRSIOversold] = types.ActionBuy
	suite.Len(suite.generator.Generate("AAPL", suite.at, 100, cur, Readings{}, filter), 1)
}

func (suite *GeneratorTestSuite) TestSeveralRulesFireTogether() {
	cur := Readings{
		RSI:  optional.Some(20.0),
		MACD: optional.Some(types.MACDValue{MACD: 1, Signal: 0}),
	}
	prev := Readings{MACD: optional.Some(types.MACDValue{MACD: -1, Signal: 0})}

	signals := suite.generator.Generate("AAPL", suite.at, 100, cur, prev, nil)
	suite.Equal(1, countType(signals, types.SignalRSIOversold))
	suite.Equal(1, countType(signals, types.SignalMACDBullish))
}

func (suite *GeneratorTestSuite) TestConstantPriceNeverFiresRSI() {
	bars := make([]types.Bar, 120)
	for i := range bars {
		bars[i] = types.Bar{
			Symbol: "FLAT",
			Time:   suite.at.AddDate(0, 0, i),
			Open:   50, High: 50, Low: 50, Close: 50,
			Volume: 1000,
		}
	}

	engine := indicator.NewEngine(indicator.NewDefaultRegistry(), logger.NewNopLogger())
	frame := engine.Compute("FLAT", bars)
	suite.Require().True(frame.Has(types.IndicatorRSI14))

	for i := range bars {
		signals := suite.generator.Generate("FLAT", bars[i].Time, bars[i].Close, ReadingsAt(frame, i), ReadingsAt(frame, i-1), nil)
		suite.Zero(countType(signals, types.SignalRSIOversold))
		suite.Zero(countType(signals, types.SignalRSIOverbought))
		suite.Zero(countType(signals, types.SignalMACDBullish))
	}
}

func (suite *GeneratorTestSuite) TestReadingsAtRespectsOffsets() {
	bars := make([]types.Bar, 60)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = types.Bar{Symbol: "UP", Time: suite.at.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 10}
	}

	frame := indicator.NewEngine(indicator.NewDefaultRegistry(), logger.NewNopLogger()).Compute("UP", bars)

	early := ReadingsAt(frame, 10)
	suite.True(early.RSI.IsNone())
	suite.True(early.SMA20.IsNone())

	r := ReadingsAt(frame, 49)
	suite.True(r.EMA50.IsSome())
	suite.True(r.SMA20.IsSome())
	suite.True(r.MACD.IsSome())
	suite.True(r.Bands.IsSome())
	suite.InDelta(100.0, r.RSI.Unwrap(), 1e-9)

	suite.True(ReadingsAt(frame, -1).RSI.IsNone())
	suite.True(ReadingsAt(frame, 48).EMA50.IsNone())
}

func (suite *GeneratorTestSuite) TestNoMACDCrossoverOnAcceleratingUptrend() {
	bars := make([]types.Bar, 80)
	for i := range bars {
		c := 100 + 0.05*float64(i*i)
		bars[i] = types.Bar{Symbol: "UP", Time: suite.at.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 10}
	}

	frame := indicator.NewEngine(indicator.NewDefaultRegistry(), logger.NewNopLogger()).Compute("UP", bars)
	suite.Require().True(frame.Has(types.IndicatorMACD))

	first := ReadingsAt(frame, frame.Offset(types.IndicatorMACD)).MACD.Unwrap()
	suite.Greater(first.MACD, first.Signal)

	for i := range bars {
		signals := suite.generator.Generate("UP", bars[i].Time, bars[i].Close, ReadingsAt(frame, i), ReadingsAt(frame, i-1), nil)
		suite.Zero(countType(signals, types.SignalMACDBullish), "bar %d", i)
	}
}
