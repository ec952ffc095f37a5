package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds daily bars ordered by strictly increasing date.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of observations.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Closes returns the closing prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	if s == nil {
		return closes
	}
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Dates returns the date index of the series.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, s.Len())
	if s == nil {
		return dates
	}
	for i, b := range s.Bars {
		dates[i] = b.Time
	}
	return dates
}
