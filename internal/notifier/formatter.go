package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"SwingScanner/internal/backtest"
	"SwingScanner/internal/model"
	"SwingScanner/internal/plan"
	"SwingScanner/internal/ranker"
)

// FormatScanSummary formats the ranked candidates of one scan.
func FormatScanSummary(res *ranker.ScanResult, marketRisk string, limit int, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔎 <b>Swing scan</b> | %s\n", now.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Market: %s | Universe: %d | Candidates: %d\n", marketRisk, res.UniverseSize, len(res.Candidates)))
	if len(res.Rejected) > 0 {
		keys := make([]string, 0, len(res.Rejected))
		for k := range res.Rejected {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%d", k, res.Rejected[k])
		}
		b.WriteString("Rejected: " + strings.Join(parts, " ") + "\n")
	}
	b.WriteString("\n")

	for i, c := range res.Candidates {
		if limit > 0 && i >= limit {
			b.WriteString(fmt.Sprintf("… and %d more\n", len(res.Candidates)-limit))
			break
		}
		b.WriteString(fmt.Sprintf("%2d. <b>%s</b> %.2f | score %.1f | RSI %.0f | %s %s\n",
			i+1, html.EscapeString(c.Symbol), c.LastClose, c.Score, c.RSI14, c.Trend, confirmations(c)))
	}
	return b.String()
}

func confirmations(c model.Candidate) string {
	mark := func(ok bool, s string) string {
		if ok {
			return s
		}
		return "·"
	}
	return "[" + mark(c.DailyOK, "D") + mark(c.WeeklyOK, "W") + mark(c.MonthlyOK, "M") + "]"
}

// FormatSignal formats a scored candidate with its trade plan.
func FormatSignal(p plan.Plan, score int, reasons []string) string {
	var b strings.Builder

	icon := "🟢"
	if !p.Side.IsLong() {
		icon = "🔴"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s</b> %s | score %d | grade %s\n",
		icon, html.EscapeString(p.Symbol), strings.ToUpper(string(p.Side)), score, p.Grade))
	if p.Setup != "" {
		b.WriteString(fmt.Sprintf("Setup: %s", p.Setup))
		if len(p.SetupNotes) > 0 {
			b.WriteString(" (" + html.EscapeString(strings.Join(p.SetupNotes, ", ")) + ")")
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Entry: %.2f | SL: %.2f | TP: %.2f", p.Entry, p.SL, p.TP))
	if p.TP1 != nil {
		b.WriteString(fmt.Sprintf(" | TP1: %.2f (%.0f%%)", *p.TP1, p.PartialPct*100))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Qty: %g | Risk: %.2f%% ($%.2f) | RR: %.2f\n", p.Qty, p.RiskPct, p.RiskAmount, p.RR))
	if p.TrailNote != "" {
		b.WriteString(html.EscapeString(p.TrailNote) + "\n")
	}

	if len(reasons) > 0 {
		b.WriteString("\n")
		for _, r := range reasons {
			b.WriteString("  " + html.EscapeString(r) + "\n")
		}
	}
	return b.String()
}

// FormatBacktest formats one backtest summary.
func FormatBacktest(res *backtest.Result) string {
	var b strings.Builder
	s := res.Stats

	b.WriteString(fmt.Sprintf("🧪 <b>Backtest %s</b> | %s → %s\n", html.EscapeString(res.Symbol), res.Start, res.End))
	b.WriteString(fmt.Sprintf("Capital: %.2f → %.2f (net %+.2f)\n", res.CapitalStart, res.CapitalEnd, res.NetPnL))
	b.WriteString(fmt.Sprintf("Trades: %d | W/L: %d/%d | Win rate: %.1f%%\n", s.Trades, s.Wins, s.Losses, s.WinRate*100))
	b.WriteString(fmt.Sprintf("Avg R: %.2f | Max DD: %.2f%%\n", s.AvgR, s.MaxDrawdown*100))

	outcomes := map[model.Outcome]int{}
	for _, t := range res.Trades {
		outcomes[t.Outcome]++
	}
	if len(outcomes) > 0 {
		b.WriteString(fmt.Sprintf("Exits: tp=%d sl=%d time=%d exit=%d\n",
			outcomes[model.OutcomeTakeProfit], outcomes[model.OutcomeStopLoss],
			outcomes[model.OutcomeTime], outcomes[model.OutcomeExit]))
	}
	return b.String()
}

// FormatBacktestSweep formats a one-line-per-symbol overview of several runs.
func FormatBacktestSweep(results []*backtest.Result, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧪 <b>Backtest sweep</b> | %s\n\n", now.Format("2006-01-02")))
	for _, r := range results {
		b.WriteString(fmt.Sprintf("<b>%s</b>: %d trades, win %.0f%%, avg R %.2f, net %+.2f\n",
			html.EscapeString(r.Symbol), r.Stats.Trades, r.Stats.WinRate*100, r.Stats.AvgR, r.NetPnL))
	}
	if len(results) == 0 {
		b.WriteString("No symbol had enough history.\n")
	}
	return b.String()
}
