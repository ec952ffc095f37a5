package collector

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"TickerScope/internal/model"
)

// MockFetcher returns deterministic data for development and testing.
// When Bars is set it is returned as is; otherwise a random walk seeded by
// the symbol is generated for every weekday in the range.
type MockFetcher struct {
	Bars      []model.OHLCV
	BasePrice float64
	Err       error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchDailyBars has been called.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		out := make([]model.OHLCV, len(m.Bars))
		copy(out, m.Bars)
		return out, nil
	}
	base := m.BasePrice
	if base <= 0 {
		base = 100
	}
	return generateMockBars(symbol, base, start, end), nil
}

func generateMockBars(symbol string, basePrice float64, start, end time.Time) []model.OHLCV {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	var bars []model.OHLCV
	price := basePrice
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		open := price
		price = math.Max(1, price*(1+rng.NormFloat64()*0.015))
		hi := math.Max(open, price) * (1 + rng.Float64()*0.01)
		lo := math.Min(open, price) * (1 - rng.Float64()*0.01)
		bars = append(bars, model.OHLCV{
			Time:   day,
			Open:   open,
			High:   hi,
			Low:    lo,
			Close:  price,
			Volume: math.Round(1e6 * (0.5 + rng.Float64())),
		})
	}
	return bars
}
