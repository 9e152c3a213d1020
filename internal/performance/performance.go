// Package performance reduces closed trades and capital into summary
// statistics per symbol and across a whole run.
package performance

import (
	"math"
	"sort"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// ProfitFactorCap is reported when there are winning trades and no losing
// ones.
const ProfitFactorCap = 999.0

// Input is everything Aggregate needs for one symbol.
type Input struct {
	ID             string
	StrategyName   string
	Symbol         string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64
	FinalCapital   float64
	Trades         []types.Trade
}

// Aggregate computes the statistics of a single symbol. It never returns NaN
// or Inf: every division has a defined fallback.
func Aggregate(in Input) types.BacktestResult {
	trades := sortedTrades(in.Trades)
	returns := tradeReturns(trades)

	totalReturn := 0.0
	if in.InitialCapital > 0 {
		totalReturn = (in.FinalCapital - in.InitialCapital) / in.InitialCapital
	}

	profitable := 0

	for _, r := range returns {
		if r > 0 {
			profitable++
		}
	}

	winRate := 0.0
	if len(trades) > 0 {
		winRate = float64(profitable) / float64(len(trades))
	}

	mean, stdDev := meanStdDev(returns)

	sharpe := 0.0
	if stdDev > 0 {
		sharpe = mean / stdDev
	}

	return types.BacktestResult{
		ID:                   in.ID,
		StrategyName:         in.StrategyName,
		Scope:                in.Symbol,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		InitialCapital:       finite(in.InitialCapital),
		FinalCapital:         finite(in.FinalCapital),
		TotalReturn:          finite(totalReturn),
		AnnualizedReturn:     finite(AnnualizedReturn(totalReturn, in.StartDate, in.EndDate)),
		Volatility:           finite(stdDev),
		SharpeRatio:          finite(sharpe),
		MaxDrawdown:          finite(MaxDrawdown(returns)),
		WinRate:              finite(winRate),
		ProfitFactor:         finite(ProfitFactor(returns)),
		AverageHoldingPeriod: finite(averageHoldingPeriod(trades)),
		TotalTrades:          len(trades),
		ProfitableTrades:     profitable,
		Trades:               trades,
	}
}

// Overall combines per-symbol results into the OVERALL result. Ratios are
// averaged across symbols, drawdown is the worst symbol, trades are
// concatenated in exit order, and capital is summed.
func Overall(strategyName string, results []types.BacktestResult) types.BacktestResult {
	overall := types.BacktestResult{
		StrategyName: strategyName,
		Scope:        types.ScopeOverall,
		Trades:       []types.Trade{},
	}

	symbols := make([]types.BacktestResult, 0, len(results))

	for _, r := range results {
		if !r.IsOverall() {
			symbols = append(symbols, r)
		}
	}

	if len(symbols) == 0 {
		return overall
	}

	overall.ID = symbols[0].ID
	overall.StartDate = symbols[0].StartDate
	overall.EndDate = symbols[0].EndDate

	var annualized, sharpe, winRate, profitFactor, holding, volatility float64

	for _, r := range symbols {
		if r.StartDate.Before(overall.StartDate) {
			overall.StartDate = r.StartDate
		}

		if r.EndDate.After(overall.EndDate) {
			overall.EndDate = r.EndDate
		}

		overall.InitialCapital += r.InitialCapital
		overall.FinalCapital += r.FinalCapital
		overall.TotalTrades += r.TotalTrades
		overall.ProfitableTrades += r.ProfitableTrades
		overall.MaxDrawdown = math.Max(overall.MaxDrawdown, r.MaxDrawdown)
		overall.Trades = append(overall.Trades, r.Trades...)

		annualized += r.AnnualizedReturn
		sharpe += r.SharpeRatio
		winRate += r.WinRate
		profitFactor += r.ProfitFactor
		holding += r.AverageHoldingPeriod
		volatility += r.Volatility
	}

	n := float64(len(symbols))
	overall.AnnualizedReturn = finite(annualized / n)
	overall.SharpeRatio = finite(sharpe / n)
	overall.WinRate = finite(winRate / n)
	overall.ProfitFactor = finite(profitFactor / n)
	overall.AverageHoldingPeriod = finite(holding / n)
	overall.Volatility = finite(volatility / n)

	if overall.InitialCapital > 0 {
		overall.TotalReturn = finite((overall.FinalCapital - overall.InitialCapital) / overall.InitialCapital)
	}

	overall.Trades = sortedTrades(overall.Trades)

	return overall
}

// AnnualizedReturn compounds totalReturn over the whole days between start
// and end. It is 0 when no full day has elapsed.
func AnnualizedReturn(totalReturn float64, start, end time.Time) float64 {
	days := math.Floor(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return 0
	}

	if 1+totalReturn <= 0 {
		return -1
	}

	return math.Pow(1+totalReturn, 365/days) - 1
}

// ProfitFactor is gross winning return over gross losing return, unbounded
// whenever a loss exists. It is ProfitFactorCap when only wins exist and 1
// when there are neither wins nor losses.
func ProfitFactor(returns []float64) float64 {
	var grossWin, grossLoss float64

	for _, r := range returns {
		switch {
		case r > 0:
			grossWin += r
		case r < 0:
			grossLoss -= r
		}
	}

	switch {
	case grossLoss == 0 && grossWin == 0:
		return 1
	case grossLoss == 0:
		return ProfitFactorCap
	}

	return grossWin / grossLoss
}

// MaxDrawdown compounds returns in order on a curve starting at 1 and returns
// the largest peak to trough decline as a fraction of the peak.
func MaxDrawdown(returns []float64) float64 {
	value, peak, worst := 1.0, 1.0, 0.0

	for _, r := range returns {
		value *= 1 + r
		if value > peak {
			peak = value
		}

		if peak > 0 {
			worst = math.Max(worst, (peak-value)/peak)
		}
	}

	return worst
}

func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}

	return mean, math.Sqrt(variance / float64(len(values)))
}

func averageHoldingPeriod(trades []types.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}

	total := 0
	for _, t := range trades {
		total += t.HoldingPeriodDays
	}

	return float64(total) / float64(len(trades))
}

// sortedTrades returns a copy ordered by exit date, then symbol.
func sortedTrades(trades []types.Trade) []types.Trade {
	out := make([]types.Trade, len(trades))
	copy(out, trades)

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ExitDate.Equal(out[j].ExitDate) {
			return out[i].ExitDate.Before(out[j].ExitDate)
		}

		return out[i].Symbol < out[j].Symbol
	})

	return out
}

func tradeReturns(trades []types.Trade) []float64 {
	out := make([]float64, len(trades))
	for i, t := range trades {
		out[i] = t.ReturnFraction
	}

	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}
