package reporting

import (
	"fmt"
	"strings"

	"ZoneDCA/internal/backtest"
)

// RenderMarkdown renders the headline metrics of a run as a Markdown table.
func RenderMarkdown(res *backtest.Result) string {
	m := res.Metrics
	var b strings.Builder

	title := res.Symbol
	if title == "" {
		title = "Backtest"
	}
	fmt.Fprintf(&b, "## %s (degree %d)\n\n", title, res.Degree)
	b.WriteString("| Metric | Value |\n|---|---|\n")

	row := func(name, value string) { fmt.Fprintf(&b, "| %s | %s |\n", name, value) }
	row("Daily amount", "$"+money(res.DailyAmount))
	row("Cash invested", "$"+money(m.CashInvested))
	row("Shares held", qty(m.TotalShares))
	row("Last price", "$"+money(m.LastPrice))
	row("Current value", "$"+money(m.CurrentValue))
	row("Cash from sales", "$"+money(m.CashFromSales))
	row("Total return", "$"+money(m.TotalReturn))
	row("ROI", money(m.ROIPct)+"%")
	row("Realized P&L", "$"+money(m.RealizedPnL))
	if m.DividendIncome > 0 {
		row("Dividend income", "$"+money(m.DividendIncome))
		row("Dividend shares", qty(m.DividendShares))
	}
	row("Daily buys", fmt.Sprint(m.DailyBuyCount))
	row("Zone buys", fmt.Sprint(m.ZoneBuyCount))
	row("Exits", fmt.Sprint(m.SellCount))
	if m.ClosedLots > 0 {
		row("Lot win rate", fmt.Sprintf("%s%% of %d", money(m.LotWinRatePct), m.ClosedLots))
		row("Avg hold", fmt.Sprintf("%.1f days", m.AvgHoldDays))
	}
	row("Max drawdown", money(m.MaxDrawdownPct)+"%")
	if m.NextTakeProfit != nil {
		row("Next take-profit", fmt.Sprintf("TP%d at $%s", m.NextTakeProfit.Level, money(m.NextTakeProfit.Price)))
	}
	return b.String()
}
