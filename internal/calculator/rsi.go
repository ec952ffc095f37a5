package calculator

import (
	"fmt"

	"github.com/guregu/null/v6"

	"TickerScope/internal/model"
)

// DefaultRSIWindow is the lookback used when none is configured.
const DefaultRSIWindow = 14

// ComputeRSI computes the RSI from simple (unweighted) trailing means of
// upward and downward close moves over window deltas.
//
// Entries 0..window-1 are null. Where the average downward move is exactly
// zero the value is null as well, including when both averages are zero.
func ComputeRSI(series *model.PriceSeries, window int) (*model.RSISeries, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: RSI window %d must be positive", model.ErrInvalidParameter, window)
	}
	if series.Len() < 2 {
		return nil, fmt.Errorf("%w: RSI needs at least 2 observations, got %d", model.ErrInvalidParameter, series.Len())
	}

	closes := series.Closes()
	n := len(closes)
	up := make([]float64, n)
	down := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			up[i] = change
		} else {
			down[i] = -change
		}
	}

	values := make([]null.Float, n)
	// The window ending at i covers deltas i-window+1..i; delta 0 does not exist.
	for i := window; i < n; i++ {
		var sumUp, sumDown float64
		for j := i - window + 1; j <= i; j++ {
			sumUp += up[j]
			sumDown += down[j]
		}
		avgUp := sumUp / float64(window)
		avgDown := sumDown / float64(window)
		if avgDown == 0 {
			continue
		}
		rsi := 100.0 - 100.0/(1.0+avgUp/avgDown)
		values[i] = null.FloatFrom(rsi)
	}
	return &model.RSISeries{Window: window, Values: values}, nil
}
