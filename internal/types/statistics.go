package types

import (
	"os"
	"time"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ScopeOverall is the scope of the portfolio-wide result.
const ScopeOverall = "OVERALL"

// BacktestResult summarises one symbol, or the whole run when Scope is ScopeOverall.
type BacktestResult struct {
	// ID is the run identifier shared by every result of one run.
	ID           string    `yaml:"id" json:"id"`
	StrategyName string    `yaml:"strategy_name" json:"strategy_name"`
	Scope        string    `yaml:"scope" json:"scope"`
	StartDate    time.Time `yaml:"start_date" json:"start_date"`
	EndDate      time.Time `yaml:"end_date" json:"end_date"`

	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	FinalCapital   float64 `yaml:"final_capital" json:"final_capital"`

	TotalReturn      float64 `yaml:"total_return" json:"total_return"`
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualized_return"`
	// Volatility is the population standard deviation of per-trade returns.
	Volatility  float64 `yaml:"volatility" json:"volatility"`
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	WinRate     float64 `yaml:"win_rate" json:"win_rate"`
	// ProfitFactor is advisory at low trade counts.
	ProfitFactor         float64 `yaml:"profit_factor" json:"profit_factor"`
	AverageHoldingPeriod float64 `yaml:"average_holding_period" json:"average_holding_period"`

	TotalTrades      int `yaml:"total_trades" json:"total_trades"`
	ProfitableTrades int `yaml:"profitable_trades" json:"profitable_trades"`

	Trades []Trade `yaml:"trades" json:"trades"`
}

// IsOverall reports whether r is the portfolio-wide result.
func (r BacktestResult) IsOverall() bool {
	return r.Scope == ScopeOverall
}

// CheckInvariants verifies the trade-count and ratio invariants of a result.
func (r BacktestResult) CheckInvariants() error {
	if r.TotalTrades != len(r.Trades) {
		return errors.Newf(errors.ErrCodeBacktestInvariant, "%s: total trades %d != %d trades", r.Scope, r.TotalTrades, len(r.Trades))
	}

	profitable := 0

	for _, t := range r.Trades {
		if t.ReturnFraction > 0 {
			profitable++
		}

		if t.HoldingPeriodDays < 0 {
			return errors.Newf(errors.ErrCodeBacktestInvariant, "%s: negative holding period on trade entered %s", r.Scope, t.EntryDate)
		}

		if t.ExitDate.Before(t.EntryDate) {
			return errors.Newf(errors.ErrCodeBacktestInvariant, "%s: trade exits %s before entry %s", r.Scope, t.ExitDate, t.EntryDate)
		}
	}

	if profitable != r.ProfitableTrades {
		return errors.Newf(errors.ErrCodeBacktestInvariant, "%s: profitable trades %d != %d", r.Scope, r.ProfitableTrades, profitable)
	}

	if r.WinRate < 0 || r.WinRate > 1 {
		return errors.Newf(errors.ErrCodeBacktestInvariant, "%s: win rate %f out of [0, 1]", r.Scope, r.WinRate)
	}

	return nil
}

// WriteResults writes results as YAML to path.
func WriteResults(path string, results []BacktestResult) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to marshal backtest results to YAML", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to write backtest results to file", err)
	}

	return nil
}

// ReadResults reads results previously written by WriteResults.
func ReadResults(path string) ([]BacktestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataNotFound, "failed to read backtest results", err)
	}

	var results []BacktestResult
	if err := yaml.Unmarshal(data, &results); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to parse backtest results", err)
	}

	return results, nil
}
