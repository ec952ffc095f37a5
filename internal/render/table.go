package render

import (
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"TickerScope/internal/model"
)

// Table renders the trailing lastN rows of the chart as a text table with
// one column per line or bar trace. lastN <= 0 renders every row.
func Table(desc *model.ChartDescriptor, lastN int) string {
	t := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)

	header := table.Row{"Date", "Open", "High", "Low", "Close"}
	var candles []model.Candle
	var columns []model.Trace
	for _, p := range desc.Panels {
		for _, tr := range p.Traces {
			if tr.Kind == model.TraceCandlestick {
				candles = tr.Candles
				continue
			}
			header = append(header, tr.Name)
			columns = append(columns, tr)
		}
	}
	t.AppendHeader(header)

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i := 2; i <= len(header); i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	start := 0
	if lastN > 0 && len(desc.Dates) > lastN {
		start = len(desc.Dates) - lastN
	}
	t.SetTitle(title(desc.Symbol, desc.Dates[start:]))
	for i := start; i < len(desc.Dates); i++ {
		row := table.Row{desc.Dates[i].Format(time.DateOnly)}
		if i < len(candles) {
			c := candles[i]
			row = append(row, price(c.Open), price(c.High), price(c.Low), price(c.Close))
		} else {
			row = append(row, "", "", "", "")
		}
		for _, col := range columns {
			if i < len(col.Values) {
				row = append(row, cell(col.Kind, col.Values[i]))
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	if desc.Diagnostic != "" {
		t.SetCaption(desc.Diagnostic)
	}
	return t.Render()
}

func title(symbol string, dates []time.Time) string {
	if len(dates) == 0 {
		return symbol
	}
	return fmt.Sprintf("%s %s → %s", symbol,
		dates[0].Format(time.DateOnly), dates[len(dates)-1].Format(time.DateOnly))
}

func price(v float64) string { return fmt.Sprintf("%.2f", v) }

func cell(kind model.TraceKind, v null.Float) string {
	if !v.Valid {
		return "-"
	}
	if kind == model.TraceBar {
		return fmt.Sprintf("%.0f", v.Float64)
	}
	return price(v.Float64)
}
