package render

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/guregu/null/v6"

	"TickerScope/internal/model"
)

const (
	chartWidth   = "1200px"
	priceHeight  = "520px"
	panelHeight  = "240px"
	missingPoint = "-" // echarts gap marker
)

// HTML writes the chart as a single go-echarts page. Empty panels are
// skipped; the diagnostic, if any, is shown as the first chart's subtitle.
func HTML(w io.Writer, desc *model.ChartDescriptor) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s | TickerScope", desc.Symbol)
	page.SetLayout(components.PageFlexLayout)

	dates := axisLabels(desc.Dates)
	subtitle := desc.Diagnostic
	drawn := 0
	for i, p := range desc.Panels {
		if p.Empty() && !(i == 0 && subtitle != "") {
			continue
		}
		page.AddCharts(panelChart(p, dates, i, subtitle))
		subtitle = ""
		drawn++
	}
	if drawn == 0 {
		page.AddCharts(panelChart(model.Panel{Title: desc.Symbol}, dates, 0, desc.Diagnostic))
	}
	return page.Render(w)
}

func panelChart(p model.Panel, dates []string, index int, subtitle string) components.Charter {
	height := panelHeight
	if index == 0 {
		height = priceHeight
	}
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: p.Title, Subtitle: subtitle}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithYAxisOpts(yAxis(p)),
	}

	var base components.Charter
	var overlays []charts.Overlaper
	for _, tr := range p.Traces {
		switch tr.Kind {
		case model.TraceCandlestick:
			k := charts.NewKLine()
			k.SetGlobalOptions(global...)
			k.SetXAxis(dates).AddSeries(tr.Name, klineData(tr.Candles))
			base = k
		case model.TraceBar:
			b := charts.NewBar()
			b.SetGlobalOptions(global...)
			b.SetXAxis(dates).AddSeries(tr.Name, barData(tr.Values))
			if base == nil {
				base = b
			} else {
				overlays = append(overlays, b)
			}
		case model.TraceLine:
			l := charts.NewLine()
			l.SetGlobalOptions(global...)
			l.SetXAxis(dates).AddSeries(tr.Name, lineData(tr.Values),
				charts.WithLineStyleOpts(opts.LineStyle{Color: tr.Color, Width: float32(tr.Width)}))
			if base == nil {
				base = l
			} else {
				overlays = append(overlays, l)
			}
		}
	}

	switch c := base.(type) {
	case *charts.Kline:
		c.Overlap(overlays...)
	case *charts.Bar:
		c.Overlap(overlays...)
	case *charts.Line:
		c.Overlap(overlays...)
	case nil:
		l := charts.NewLine()
		l.SetGlobalOptions(global...)
		l.SetXAxis(dates)
		base = l
	}
	return base
}

func yAxis(p model.Panel) opts.YAxis {
	y := opts.YAxis{}
	if p.YMin.Valid {
		y.Min = p.YMin.Float64
	}
	if p.YMax.Valid {
		y.Max = p.YMax.Float64
	}
	return y
}

func axisLabels(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(time.DateOnly)
	}
	return out
}

// klineData orders values the way echarts expects: open, close, low, high.
func klineData(candles []model.Candle) []opts.KlineData {
	out := make([]opts.KlineData, len(candles))
	for i, c := range candles {
		out[i] = opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}}
	}
	return out
}

func lineData(values []null.Float) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		if v.Valid {
			out[i] = opts.LineData{Value: v.Float64}
		} else {
			out[i] = opts.LineData{Value: missingPoint}
		}
	}
	return out
}

func barData(values []null.Float) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		if v.Valid {
			out[i] = opts.BarData{Value: v.Float64}
		} else {
			out[i] = opts.BarData{Value: missingPoint}
		}
	}
	return out
}
