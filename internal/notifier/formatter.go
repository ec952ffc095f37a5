package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"TickerScope/internal/recorder"
)

// FormatDigest formats a watchlist snapshot run into a Telegram message.
func FormatDigest(startedAt time.Time, snaps []*recorder.Snapshot, failed map[string]error) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>TickerScope watchlist</b> | %s\n\n", startedAt.Format("2006-01-02 15:04")))

	sorted := make([]*recorder.Snapshot, len(snaps))
	copy(sorted, snaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ticker < sorted[j].Ticker })

	for _, s := range sorted {
		b.WriteString(fmt.Sprintf("<b>%s</b> %.2f (%s)\n", html.EscapeString(s.Ticker), s.Close, s.AsOf.Format("2006-01-02")))
		for _, ma := range s.MovingAverages {
			if !ma.Value.Valid {
				b.WriteString(fmt.Sprintf("  MA%d: n/a\n", ma.Window))
				continue
			}
			dev := 0.0
			if ma.Value.Float64 > 0 {
				dev = (s.Close - ma.Value.Float64) / ma.Value.Float64 * 100
			}
			b.WriteString(fmt.Sprintf("  MA%d: %.2f (%+.1f%%)\n", ma.Window, ma.Value.Float64, dev))
		}
		if s.RSI.Valid {
			b.WriteString(fmt.Sprintf("  RSI: %.1f%s\n", s.RSI.Float64, rsiZone(s.RSI.Float64)))
		} else {
			b.WriteString("  RSI: n/a\n")
		}
	}

	if len(failed) > 0 {
		tickers := make([]string, 0, len(failed))
		for t := range failed {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)
		b.WriteString("\n⚠️ <b>failed:</b>\n")
		for _, t := range tickers {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(t), html.EscapeString(failed[t].Error())))
		}
	}
	return b.String()
}

func rsiZone(v float64) string {
	switch {
	case v >= 70:
		return " overbought"
	case v <= 30:
		return " oversold"
	default:
		return ""
	}
}
