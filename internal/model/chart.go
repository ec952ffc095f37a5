package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// TraceKind identifies how a trace is drawn.
type TraceKind string

const (
	TraceCandlestick TraceKind = "candlestick"
	TraceLine        TraceKind = "line"
	TraceBar         TraceKind = "bar"
)

// Candle is the OHLC body of a candlestick trace point.
type Candle struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Trace is one drawable series inside a panel.
type Trace struct {
	Kind    TraceKind    `json:"kind"`
	Name    string       `json:"name"`
	Color   string       `json:"color,omitempty"`
	Width   float64      `json:"width,omitempty"`
	Candles []Candle     `json:"candles,omitempty"`
	Values  []null.Float `json:"values,omitempty"`
}

// Panel is one stacked chart area sharing the date axis.
type Panel struct {
	Title  string     `json:"title"`
	Traces []Trace    `json:"traces"`
	YMin   null.Float `json:"y_min"`
	YMax   null.Float `json:"y_max"`
}

// Empty reports whether the panel has nothing to draw.
func (p Panel) Empty() bool { return len(p.Traces) == 0 }

// ChartDescriptor is a render-agnostic description of the dashboard chart.
type ChartDescriptor struct {
	Symbol     string      `json:"symbol"`
	Dates      []time.Time `json:"dates"`
	Panels     []Panel     `json:"panels"`
	Diagnostic string      `json:"diagnostic,omitempty"`
}

// PanelCount is the fixed number of panels in every descriptor.
const PanelCount = 3
