package calculator

import (
	"fmt"
	"math"

	"TickerScope/internal/model"
)

// CalculateRange returns the highest high and lowest low across all bars.
func CalculateRange(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, fmt.Errorf("%w: no bars provided", model.ErrInvalidParameter)
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// PaddedRange widens [low, high] by pad (a fraction of the span) on each side.
// A flat range is widened by pad of its level instead.
func PaddedRange(high, low, pad float64) (float64, float64) {
	span := high - low
	if span <= 0 {
		span = math.Abs(high)
	}
	return high + span*pad, low - span*pad
}
