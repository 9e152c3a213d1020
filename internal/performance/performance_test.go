package performance

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type PerformanceTestSuite struct {
	suite.Suite
	start time.Time
}

func TestPerformanceSuite(t *testing.T) {
	suite.Run(t, new(PerformanceTestSuite))
}

func (suite *PerformanceTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *PerformanceTestSuite) trade(symbol string, ret float64, entryDay, exitDay int) types.Trade {
	entry := suite.start.AddDate(0, 0, entryDay)
	exit := suite.start.AddDate(0, 0, exitDay)

	return types.Trade{
		Symbol:            symbol,
		Quantity:          10,
		EntryPrice:        100,
		ExitPrice:         100 * (1 + ret),
		EntryDate:         entry,
		ExitDate:          exit,
		HoldingPeriodDays: exitDay - entryDay,
		ReturnFraction:    ret,
	}
}

func assertFinite(suite *PerformanceTestSuite, r types.BacktestResult) {
	for _, v := range []float64{
		r.TotalReturn, r.AnnualizedReturn, r.Volatility, r.SharpeRatio,
		r.MaxDrawdown, r.WinRate, r.ProfitFactor, r.AverageHoldingPeriod,
	} {
		suite.False(math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func (suite *PerformanceTestSuite) TestWinRateAndProfitFactor() {
	result := Aggregate(Input{
		StrategyName:   "rsi",
		Symbol:         "AAPL",
		StartDate:      suite.start,
		EndDate:        suite.start.AddDate(1, 0, 0),
		InitialCapital: 1000,
		FinalCapital:   1050,
		Trades: []types.Trade{
			suite.trade("AAPL", 0.10, 0, 10),
			suite.trade("AAPL", -0.05, 20, 24),
		},
	})

	suite.Equal(0.5, result.WinRate)
	suite.InDelta(2.0, result.ProfitFactor, 1e-9)
	suite.Equal(2, result.TotalTrades)
	suite.Equal(1, result.ProfitableTrades)
	suite.InDelta(0.05, result.TotalReturn, 1e-12)
	suite.InDelta(0.075, result.Volatility, 1e-12)
	suite.InDelta(0.025/0.075, result.SharpeRatio, 1e-12)
	suite.InDelta(0.05, result.MaxDrawdown, 1e-12)
	suite.InDelta(7.0, result.AverageHoldingPeriod, 1e-12)
	suite.NoError(result.CheckInvariants())
}

func (suite *PerformanceTestSuite) TestZeroTrades() {
	result := Aggregate(Input{
		Symbol:         "AAPL",
		StartDate:      suite.start,
		EndDate:        suite.start.AddDate(0, 6, 0),
		InitialCapital: 1000,
		FinalCapital:   1000,
	})

	suite.Equal(0.0, result.TotalReturn)
	suite.Equal(0.0, result.WinRate)
	suite.Equal(0.0, result.MaxDrawdown)
	suite.Equal(0.0, result.SharpeRatio)
	suite.Equal(0.0, result.Volatility)
	suite.Equal(1.0, result.ProfitFactor)
	suite.Equal(0, result.TotalTrades)
	suite.Empty(result.Trades)
	assertFinite(suite, result)
	suite.NoError(result.CheckInvariants())
}

func (suite *PerformanceTestSuite) TestProfitFactorFallbacks() {
	suite.Equal(ProfitFactorCap, ProfitFactor([]float64{0.1, 0.2}))
	suite.Equal(1.0, ProfitFactor([]float64{0, 0}))
	suite.Equal(0.0, ProfitFactor([]float64{-0.1}))
	suite.Equal(1.0, ProfitFactor(nil))
}

func (suite *PerformanceTestSuite) TestProfitFactorAboveCapWithLosses() {
	suite.InDelta(5000.0, ProfitFactor([]float64{0.5, -0.0001}), 1e-6)
	suite.Greater(ProfitFactor([]float64{0.5, -0.0001}), ProfitFactorCap)
}

func (suite *PerformanceTestSuite) TestAnnualizedReturn() {
	suite.Equal(0.0, AnnualizedReturn(0.5, suite.start, suite.start))
	suite.Equal(0.0, AnnualizedReturn(0.5, suite.start, suite.start.Add(12*time.Hour)))
	suite.Equal(0.0, AnnualizedReturn(0.5, suite.start, suite.start.AddDate(0, 0, -3)))
	suite.InDelta(0.1, AnnualizedReturn(0.1, suite.start, suite.start.AddDate(0, 0, 365)), 1e-12)
	suite.InDelta(math.Pow(1.1, 365.0/182)-1, AnnualizedReturn(0.1, suite.start, suite.start.AddDate(0, 0, 182).Add(20*time.Hour)), 1e-12)
	suite.Equal(-1.0, AnnualizedReturn(-1, suite.start, suite.start.AddDate(0, 0, 30)))

	result := Aggregate(Input{Symbol: "AAPL", StartDate: suite.start, EndDate: suite.start, InitialCapital: 100, FinalCapital: 150})
	suite.Equal(0.0, result.AnnualizedReturn)
	assertFinite(suite, result)
}

func (suite *PerformanceTestSuite) TestMaxDrawdownCompounds() {
	// 1.0 -> 1.2 -> 0.96 -> 1.056 -> 0.8448
	suite.InDelta(0.296, MaxDrawdown([]float64{0.2, -0.2, 0.1, -0.2}), 1e-12)
	suite.Equal(0.0, MaxDrawdown([]float64{0.1, 0.1}))
	suite.InDelta(0.1, MaxDrawdown([]float64{-0.1}), 1e-12)
	suite.Equal(0.0, MaxDrawdown(nil))
}

func (suite *PerformanceTestSuite) TestTradesSortedByExitDate() {
	result := Aggregate(Input{
		Symbol:         "AAPL",
		StartDate:      suite.start,
		EndDate:        suite.start.AddDate(0, 3, 0),
		InitialCapital: 1000,
		FinalCapital:   1000,
		Trades: []types.Trade{
			suite.trade("AAPL", -0.2, 30, 40),
			suite.trade("AAPL", 0.2, 0, 10),
		},
	})

	suite.Equal(0.2, result.Trades[0].ReturnFraction)
	// compounding in exit order: 1.2 then 0.96
	suite.InDelta(0.2, result.MaxDrawdown, 1e-12)
}

func (suite *PerformanceTestSuite) TestOverall() {
	end := suite.start.AddDate(1, 0, 0)

	aapl := Aggregate(Input{
		ID: "run-1", StrategyName: "rsi", Symbol: "AAPL",
		StartDate: suite.start, EndDate: end,
		InitialCapital: 1000, FinalCapital: 1100,
		Trades: []types.Trade{suite.trade("AAPL", 0.1, 5, 50)},
	})
	msft := Aggregate(Input{
		ID: "run-1", StrategyName: "rsi", Symbol: "MSFT",
		StartDate: suite.start, EndDate: end,
		InitialCapital: 1000, FinalCapital: 950,
		Trades: []types.Trade{
			suite.trade("MSFT", -0.05, 5, 50),
			suite.trade("MSFT", 0.02, 60, 70),
		},
	})

	overall := Overall("rsi", []types.BacktestResult{aapl, msft})

	suite.Equal(types.ScopeOverall, overall.Scope)
	suite.True(overall.IsOverall())
	suite.Equal("run-1", overall.ID)
	suite.Equal(3, overall.TotalTrades)
	suite.Equal(2, overall.ProfitableTrades)
	suite.Len(overall.Trades, 3)
	suite.Equal(2000.0, overall.InitialCapital)
	suite.Equal(2050.0, overall.FinalCapital)
	suite.InDelta(0.025, overall.TotalReturn, 1e-12)
	suite.InDelta((aapl.WinRate+msft.WinRate)/2, overall.WinRate, 1e-12)
	suite.InDelta((aapl.SharpeRatio+msft.SharpeRatio)/2, overall.SharpeRatio, 1e-12)
	suite.InDelta((aapl.ProfitFactor+msft.ProfitFactor)/2, overall.ProfitFactor, 1e-9)
	suite.InDelta((aapl.AnnualizedReturn+msft.AnnualizedReturn)/2, overall.AnnualizedReturn, 1e-12)
	suite.InDelta((aapl.AverageHoldingPeriod+msft.AverageHoldingPeriod)/2, overall.AverageHoldingPeriod, 1e-12)
	suite.Equal(math.Max(aapl.MaxDrawdown, msft.MaxDrawdown), overall.MaxDrawdown)

	// same exit date: ordered by symbol
	suite.Equal("AAPL", overall.Trades[0].Symbol)
	suite.Equal("MSFT", overall.Trades[1].Symbol)
	suite.NoError(overall.CheckInvariants())
}

func (suite *PerformanceTestSuite) TestOverallIgnoresPreviousOverallAndEmptyInput() {
	empty := Overall("rsi", nil)
	suite.Equal(types.ScopeOverall, empty.Scope)
	suite.Equal(0, empty.TotalTrades)
	assertFinite(suite, empty)

	aapl := Aggregate(Input{Symbol: "AAPL", StartDate: suite.start, EndDate: suite.start.AddDate(0, 1, 0), InitialCapital: 100, FinalCapital: 100})
	stale := types.BacktestResult{Scope: types.ScopeOverall, TotalTrades: 99}

	overall := Overall("rsi", []types.BacktestResult{aapl, stale})
	suite.Equal(0, overall.TotalTrades)
	suite.Equal(100.0, overall.InitialCapital)
}
