package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/model"
	"ZoneDCA/internal/optimizer"
)

// FormatBacktestReport formats the daily backtest summary into a Telegram message.
func FormatBacktestReport(res *backtest.Result, now time.Time) string {
	m := res.Metrics
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>ZoneDCA %s</b> | %s\n\n", html.EscapeString(res.Symbol), now.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Degree: %d | Daily: $%.2f\n", res.Degree, res.DailyAmount))
	b.WriteString(fmt.Sprintf("Invested: $%.2f\n", m.CashInvested))
	b.WriteString(fmt.Sprintf("Value: $%.2f (%.4f sh @ $%.2f)\n", m.CurrentValue, m.TotalShares, m.LastPrice))
	if m.CashFromSales > 0 {
		b.WriteString(fmt.Sprintf("Cash from exits: $%.2f\n", m.CashFromSales))
	}
	b.WriteString(fmt.Sprintf("Return: $%+.2f (<b>%+.2f%%</b>)\n", m.TotalReturn, m.ROIPct))
	if m.DividendIncome > 0 {
		b.WriteString(fmt.Sprintf("Dividends: $%.2f → %.4f sh\n", m.DividendIncome, m.DividendShares))
	}
	b.WriteString(fmt.Sprintf("\nDaily buys %d | Zone buys %d | Exits %d\n", m.DailyBuyCount, m.ZoneBuyCount, m.SellCount))
	if m.ClosedLots > 0 {
		b.WriteString(fmt.Sprintf("Lot win rate: %.1f%% | Avg hold %.0fd\n", m.LotWinRatePct, m.AvgHoldDays))
	}
	b.WriteString(fmt.Sprintf("Max drawdown: %.1f%%\n", m.MaxDrawdownPct))
	if m.NextTakeProfit != nil {
		b.WriteString(fmt.Sprintf("🎯 Next TP%d: $%.2f\n", m.NextTakeProfit.Level, m.NextTakeProfit.Price))
	}
	return b.String()
}

var tradeIcons = map[model.TradeKind]string{
	model.TradeDailyDCA: "🟢",
	model.TradeZoneBuy:  "🔵",
	model.TradeDividend: "💵",
	model.TradeExit:     "🔴",
}

// FormatNewTrades lists the trades that appeared since the last run. Empty input gives "".
func FormatNewTrades(symbol string, trades []model.Trade) string {
	if len(trades) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔔 <b>%s: %d new signal(s)</b>\n\n", html.EscapeString(symbol), len(trades)))
	for _, t := range trades {
		label := t.Kind.String()
		if t.Level > 0 {
			label = fmt.Sprintf("%s L%d", label, t.Level)
		}
		b.WriteString(fmt.Sprintf("%s %s %s: %.4f sh @ $%.2f ($%.2f)",
			tradeIcons[t.Kind], t.Date.Format("2006-01-02"), label, t.Shares, t.Price, t.Amount))
		if t.Kind == model.TradeExit {
			b.WriteString(fmt.Sprintf(" P&amp;L $%+.2f", t.RealizedPnL))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatPosition formats the current market position for display.
func FormatPosition(symbol string, pos *model.MarketPosition) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📍 <b>%s position</b>\n\n", html.EscapeString(symbol)))
	b.WriteString(fmt.Sprintf("Price: $%.2f | Regression: $%.2f (%+.1f%%)\n", pos.Price, pos.Regression, pos.DistanceFromRegression))
	switch pos.ZoneType {
	case model.ZoneBuy:
		b.WriteString(fmt.Sprintf("Zone: buy L%d", pos.ZoneLevel))
	case model.ZoneSell:
		b.WriteString(fmt.Sprintf("Zone: take-profit L%d", pos.ZoneLevel))
	default:
		b.WriteString("Zone: none")
	}
	if pos.NextZoneLevel > 0 {
		b.WriteString(fmt.Sprintf(" (next L%d)", pos.NextZoneLevel))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("5d momentum: %+.1f%%\n", pos.MomentumPct))
	b.WriteString(fmt.Sprintf("1y range: $%.2f - $%.2f | 30d: $%.2f - $%.2f\n",
		pos.HistoricalLow, pos.HistoricalHigh, pos.RecentLow, pos.RecentHigh))
	b.WriteString(fmt.Sprintf("\n<b>%s</b>: %s\n", pos.Action, html.EscapeString(pos.Recommendation)))
	return b.String()
}

// FormatOptimization formats a degree sweep, best degree first.
func FormatOptimization(rep *optimizer.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧮 <b>%s degree sweep</b>\n\n", html.EscapeString(rep.Symbol)))
	b.WriteString(fmt.Sprintf("Best: degree %d (%+.2f%%)\n\n", rep.BestDegree, rep.BestROIPct))
	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("%-4s %9s %5s %4s\n", "deg", "roi%", "zone", "exit"))
	for _, r := range rep.Results {
		mark := ""
		if r.Degree == rep.BestDegree {
			mark = " *"
		}
		b.WriteString(fmt.Sprintf("%-4d %+9.2f %5d %4d%s\n", r.Degree, r.ROIPct, r.ZoneBuys, r.Sells, mark))
	}
	b.WriteString("</pre>")
	if len(rep.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("\nSkipped %d degree(s)\n", len(rep.Skipped)))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "🤖 <b>ZoneDCA commands</b>\n\n" +
		"/backtest [SYMBOL] - run the backtest now\n" +
		"/position [SYMBOL] - current zone and action\n" +
		"/optimize [SYMBOL] - sweep polynomial degrees\n" +
		"/help - this message\n"
}
