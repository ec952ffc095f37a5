package model

import "github.com/guregu/null/v6"

// MovingAverage is a simple moving average aligned to its price series.
// The first Window-1 values are null.
type MovingAverage struct {
	Window int          `json:"window"`
	Values []null.Float `json:"values"`
}

// MovingAverageSet keeps moving averages in the order they were requested.
type MovingAverageSet []MovingAverage

// Get returns the moving average for the given window.
func (s MovingAverageSet) Get(window int) (MovingAverage, bool) {
	for _, ma := range s {
		if ma.Window == window {
			return ma, true
		}
	}
	return MovingAverage{}, false
}

// Windows returns the window lengths in set order.
func (s MovingAverageSet) Windows() []int {
	out := make([]int, len(s))
	for i, ma := range s {
		out[i] = ma.Window
	}
	return out
}

// RSISeries is a relative strength index aligned to its price series.
// Values are null during warm-up and wherever the average loss is zero.
type RSISeries struct {
	Window int          `json:"window"`
	Values []null.Float `json:"values"`
}

// Analysis bundles a fetched series with the indicators derived from it.
type Analysis struct {
	Series         *PriceSeries
	MovingAverages MovingAverageSet
	RSI            *RSISeries // nil when not requested or not computable
	Warnings       []string
}

// Latest returns the last value of a nullable sequence.
func Latest(values []null.Float) null.Float {
	if len(values) == 0 {
		return null.Float{}
	}
	return values[len(values)-1]
}
