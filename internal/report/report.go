// Package report renders backtest results for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	overallStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var summaryHeaders = []string{
	"Scope", "Trades", "Win rate", "Total return", "Annualized", "Sharpe", "Max DD", "Profit factor", "Avg hold (d)", "Final capital",
}

var comparisonHeaders = []string{
	"Strategy", "Trades", "Win rate", "Total return", "Annualized", "Sharpe", "Max DD", "Profit factor",
}

// Render returns one summary table per strategy run.
func Render(results []engine.StrategyResult) string {
	if len(results) == 0 {
		return HelpStyle.Render("no results")
	}

	blocks := make([]string, 0, len(results))

	for _, res := range results {
		blocks = append(blocks, renderStrategy(res))
	}

	return strings.Join(blocks, "\n\n")
}

// RenderComparison returns a table with the OVERALL result of each strategy.
func RenderComparison(results []engine.StrategyResult) string {
	if len(results) == 0 {
		return HelpStyle.Render("no results")
	}

	rows := make([][]string, 0, len(results))

	for _, res := range results {
		o := res.Overall()
		rows = append(rows, []string{
			res.Strategy.Name,
			fmt.Sprintf("%d", o.TotalTrades),
			Percent(o.WinRate),
			Percent(o.TotalReturn),
			Percent(o.AnnualizedReturn),
			fmt.Sprintf("%.2f", o.SharpeRatio),
			Percent(o.MaxDrawdown),
			fmt.Sprintf("%.2f", o.ProfitFactor),
		})
	}

	t := newTable(comparisonHeaders, rows, -1)

	return TitleStyle.Render("Strategy comparison") + "\n" + t.Render()
}

// Summary returns a one-line description of the OVERALL result.
func Summary(res engine.StrategyResult) string {
	o := res.Overall()

	return fmt.Sprintf("%s: %d trades, total return %s, sharpe %.2f, max drawdown %s",
		res.Strategy.Name, o.TotalTrades, Percent(o.TotalReturn), o.SharpeRatio, Percent(o.MaxDrawdown))
}

// Percent formats a fraction as a signed percentage.
func Percent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v*100)
}

func renderStrategy(res engine.StrategyResult) string {
	rows := make([][]string, 0, len(res.Results))
	overallRow := -1

	for i, r := range res.Results {
		if r.IsOverall() {
			overallRow = i
		}

		rows = append(rows, summaryRow(r))
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("Strategy %s", res.Strategy.Name)))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(fmt.Sprintf("run %s, %d signals", res.RunID, len(res.Signals))))
	b.WriteString("\n")
	b.WriteString(newTable(summaryHeaders, rows, overallRow).Render())

	if res.ResultFolder != "" {
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("results written to " + res.ResultFolder))
	}

	return b.String()
}

func summaryRow(r types.BacktestResult) []string {
	return []string{
		r.Scope,
		fmt.Sprintf("%d", r.TotalTrades),
		Percent(r.WinRate),
		Percent(r.TotalReturn),
		Percent(r.AnnualizedReturn),
		fmt.Sprintf("%.2f", r.SharpeRatio),
		Percent(r.MaxDrawdown),
		fmt.Sprintf("%.2f", r.ProfitFactor),
		fmt.Sprintf("%.1f", r.AverageHoldingPeriod),
		fmt.Sprintf("%.2f", r.FinalCapital),
	}
}

// newTable builds a bordered table. emphasized is a data row index to render
// in bold, or -1.
func newTable(headers []string, rows [][]string, emphasized int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == emphasized:
				return overallStyle
			default:
				return cellStyle
			}
		})
}
