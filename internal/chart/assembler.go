package chart

import (
	"fmt"

	"github.com/guregu/null/v6"

	"TickerScope/internal/calculator"
	"TickerScope/internal/model"
)

// Palette is cycled by overlay position: the fifth overlay reuses Palette[0].
var Palette = []string{"blue", "red", "green", "purple"}

const (
	TitlePrice  = "Stock Price"
	TitleVolume = "Volume"
	TitleRSI    = "RSI"

	lineWidth = 0.7
	rsiColor  = "black"
	pricePad  = 0.02
)

// OverlayColor returns the palette color for the i-th requested overlay.
func OverlayColor(i int) string {
	return Palette[i%len(Palette)]
}

// Assemble maps a price series and its indicators into a three-panel chart.
// The third panel is always present; it is untitled and empty when rsi is nil.
func Assemble(series *model.PriceSeries, mas model.MovingAverageSet, rsi *model.RSISeries) (*model.ChartDescriptor, error) {
	if series == nil {
		return nil, fmt.Errorf("%w: nil price series", model.ErrInvalidParameter)
	}
	n := series.Len()
	for _, ma := range mas {
		if len(ma.Values) != n {
			return nil, fmt.Errorf("%w: MA%d has %d values for %d bars", model.ErrInvalidParameter, ma.Window, len(ma.Values), n)
		}
	}
	if rsi != nil && len(rsi.Values) != n {
		return nil, fmt.Errorf("%w: RSI has %d values for %d bars", model.ErrInvalidParameter, len(rsi.Values), n)
	}

	symbol := series.Symbol
	desc := &model.ChartDescriptor{
		Symbol: symbol,
		Dates:  series.Dates(),
		Panels: make([]model.Panel, model.PanelCount),
	}

	price := model.Panel{Title: TitlePrice}
	candles := make([]model.Candle, n)
	volumes := make([]null.Float, n)
	for i, b := range series.Bars {
		candles[i] = model.Candle{Open: b.Open, High: b.High, Low: b.Low, Close: b.Close}
		volumes[i] = null.FloatFrom(b.Volume)
	}
	price.Traces = append(price.Traces, model.Trace{Kind: model.TraceCandlestick, Name: symbol, Candles: candles})
	for i, ma := range mas {
		price.Traces = append(price.Traces, model.Trace{
			Kind:   model.TraceLine,
			Name:   fmt.Sprintf("MA %d", ma.Window),
			Color:  OverlayColor(i),
			Width:  lineWidth,
			Values: ma.Values,
		})
	}
	if high, low, err := calculator.CalculateRange(series.Bars); err == nil {
		hi, lo := calculator.PaddedRange(high, low, pricePad)
		price.YMax = null.FloatFrom(hi)
		price.YMin = null.FloatFrom(lo)
	}
	desc.Panels[0] = price

	desc.Panels[1] = model.Panel{
		Title:  TitleVolume,
		Traces: []model.Trace{{Kind: model.TraceBar, Name: TitleVolume, Values: volumes}},
	}

	if rsi != nil {
		desc.Panels[2] = model.Panel{
			Title: TitleRSI,
			Traces: []model.Trace{{
				Kind:   model.TraceLine,
				Name:   TitleRSI,
				Color:  rsiColor,
				Width:  lineWidth,
				Values: rsi.Values,
			}},
			YMin: null.FloatFrom(0),
			YMax: null.FloatFrom(100),
		}
	}
	return desc, nil
}

// Diagnostic returns an empty three-panel chart that carries message.
func Diagnostic(symbol, message string) *model.ChartDescriptor {
	return &model.ChartDescriptor{
		Symbol: symbol,
		Panels: []model.Panel{
			{Title: TitlePrice},
			{Title: TitleVolume},
			{},
		},
		Diagnostic: message,
	}
}
