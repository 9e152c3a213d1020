package report

import (
	"strings"
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/strategy"
	"github.com/stretchr/testify/suite"
)

type ReportTestSuite struct {
	suite.Suite
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func sampleResult(name string, totalReturn float64) engine.StrategyResult {
	return engine.StrategyResult{
		RunID:    "run-" + name,
		Strategy: strategy.Strategy{Name: name},
		Results: []types.BacktestResult{
			{Scope: "AAPL", TotalTrades: 2, WinRate: 0.5, TotalReturn: totalReturn, SharpeRatio: 1.25, FinalCapital: 10500},
			{Scope: types.ScopeOverall, TotalTrades: 2, WinRate: 0.5, TotalReturn: totalReturn, SharpeRatio: 1.25, MaxDrawdown: 0.031, FinalCapital: 10500},
		},
		Signals: []types.Signal{{Type: types.SignalRSIOversold}},
	}
}

func (suite *ReportTestSuite) TestRender() {
	out := Render([]engine.StrategyResult{sampleResult("rsi", 0.05)})

	suite.Contains(out, "Strategy rsi")
	suite.Contains(out, "run run-rsi, 1 signals")
	suite.Contains(out, "AAPL")
	suite.Contains(out, types.ScopeOverall)
	suite.Contains(out, "+5.00%")
	suite.Contains(out, "1.25")
	suite.Contains(out, "10500.00")
	suite.Contains(out, "Total return")

	// overall row comes after the symbol row
	suite.Less(strings.Index(out, "AAPL"), strings.Index(out, types.ScopeOverall))
}

func (suite *ReportTestSuite) TestRenderResultFolder() {
	res := sampleResult("rsi", 0.05)
	res.ResultFolder = "results/rsi/20240101_20241231"

	suite.Contains(Render([]engine.StrategyResult{res}), "results written to results/rsi/20240101_20241231")
}

func (suite *ReportTestSuite) TestRenderEmpty() {
	suite.Contains(Render(nil), "no results")
	suite.Contains(RenderComparison(nil), "no results")
}

func (suite *ReportTestSuite) TestRenderComparison() {
	out := RenderComparison([]engine.StrategyResult{
		sampleResult("rsi", 0.05),
		sampleResult("macd", -0.02),
	})

	suite.Contains(out, "Strategy comparison")
	suite.Contains(out, "rsi")
	suite.Contains(out, "macd")
	suite.Contains(out, "-2.00%")
	suite.Contains(out, "+3.10%")
	suite.Less(strings.Index(out, "rsi"), strings.Index(out, "macd"))
}

func (suite *ReportTestSuite) TestSummary() {
	suite.Equal("rsi: 2 trades, total return +5.00%, sharpe 1.25, max drawdown +3.10%",
		Summary(sampleResult("rsi", 0.05)))
}

func (suite *ReportTestSuite) TestPercent() {
	suite.Equal("+0.00%", Percent(0))
	suite.Equal("-12.50%", Percent(-0.125))
}
