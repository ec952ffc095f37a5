package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"TickerScope/internal/calculator"
	"TickerScope/internal/model"
)

// Query describes one indicator computation over a date range.
type Query struct {
	Symbol     string
	Start      time.Time
	End        time.Time
	Windows    []int
	IncludeRSI bool
	RSIWindow  int
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Now: time.Now}
}

// FetchSeries fetches and normalizes the daily series for the range.
// Every failure, including an empty result, is reported as ErrDataUnavailable.
func (c *Collector) FetchSeries(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, start, end)
	if err != nil {
		if errors.Is(err, model.ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", model.ErrDataUnavailable, c.Fetcher.Name(), err)
	}
	bars = normalizeBars(bars, start, end)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s returned no bars for %s between %s and %s", model.ErrDataUnavailable,
			c.Fetcher.Name(), symbol, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: c.Now()}, nil
}

// Collect fetches market data and computes the requested indicators.
// An RSI that cannot be computed from the fetched data is reported as a
// warning and left nil.
func (c *Collector) Collect(ctx context.Context, q Query) (*model.Analysis, error) {
	series, err := c.FetchSeries(ctx, q.Symbol, q.Start, q.End)
	if err != nil {
		return nil, err
	}

	mas, err := calculator.ComputeMovingAverages(series, q.Windows)
	if err != nil {
		return nil, fmt.Errorf("moving averages: %w", err)
	}
	an := &model.Analysis{Series: series, MovingAverages: mas}

	if q.IncludeRSI {
		window := q.RSIWindow
		if window == 0 {
			window = calculator.DefaultRSIWindow
		}
		rsi, err := calculator.ComputeRSI(series, window)
		if err != nil {
			log.Printf("[WARN] %s RSI calculation failed: %v", q.Symbol, err)
			an.Warnings = append(an.Warnings, fmt.Sprintf("RSI unavailable: %v", err))
		} else {
			an.RSI = rsi
		}
	}
	return an, nil
}
