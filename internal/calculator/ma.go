package calculator

import (
	"fmt"

	"github.com/guregu/null/v6"
	"github.com/markcheno/go-talib"

	"TickerScope/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: period must be positive", model.ErrInvalidParameter)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("%w: not enough data for SMA calculation", model.ErrInvalidParameter)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// ComputeMovingAverages returns one close-price SMA per window, aligned to the
// series. Duplicate windows are dropped; the first occurrence keeps its place.
func ComputeMovingAverages(series *model.PriceSeries, windows []int) (model.MovingAverageSet, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: empty price series", model.ErrInvalidParameter)
	}
	for _, w := range windows {
		if w <= 0 {
			return nil, fmt.Errorf("%w: moving average window %d must be positive", model.ErrInvalidParameter, w)
		}
	}

	closes := series.Closes()
	seen := make(map[int]bool, len(windows))
	set := make(model.MovingAverageSet, 0, len(windows))
	for _, w := range windows {
		if seen[w] {
			continue
		}
		seen[w] = true
		set = append(set, model.MovingAverage{Window: w, Values: rollingMean(closes, w)})
	}
	return set, nil
}

// rollingMean wraps talib.Sma, nulling the warm-up entries that talib fills with zero.
func rollingMean(values []float64, window int) []null.Float {
	out := make([]null.Float, len(values))
	if window > len(values) {
		return out
	}
	sma := talib.Sma(values, window)
	for i := window - 1; i < len(values); i++ {
		out[i] = null.FloatFrom(sma[i])
	}
	return out
}
