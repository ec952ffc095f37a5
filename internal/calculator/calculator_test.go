package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"TickerScope/internal/model"
)

func seriesFromCloses(closes ...float64) *model.PriceSeries {
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateSMA(t *testing.T) {
	sma, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 4.5 {
		t.Errorf("expected 4.5, got %v", sma)
	}
	if _, err := CalculateSMA([]float64{1}, 2); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for short input, got %v", err)
	}
	if _, err := CalculateSMA([]float64{1}, 0); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for zero period, got %v", err)
	}
}

func TestComputeMovingAverages_TrailingWindow(t *testing.T) {
	series := seriesFromCloses(10, 11, 12, 11, 10)
	set, err := ComputeMovingAverages(series, []int{3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ma, ok := set.Get(3)
	if !ok {
		t.Fatal("expected MA3 in set")
	}
	want := []null.Float{{}, {}, null.FloatFrom(11), null.FloatFrom(34.0 / 3), null.FloatFrom(11)}
	if len(ma.Values) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(ma.Values))
	}
	for i, w := range want {
		got := ma.Values[i]
		if got.Valid != w.Valid {
			t.Fatalf("index %d: valid=%v, want %v", i, got.Valid, w.Valid)
		}
		if w.Valid && !almostEqual(got.Float64, w.Float64) {
			t.Errorf("index %d: got %.6f, want %.6f", i, got.Float64, w.Float64)
		}
	}
}

func TestComputeMovingAverages_TrailingMeanProperty(t *testing.T) {
	closes := []float64{101.2, 99.8, 100.4, 103.1, 102.7, 98.3, 97.9, 99.0, 104.6, 105.2, 103.3, 101.1}
	series := seriesFromCloses(closes...)
	windows := []int{1, 2, 5, 12, 20}
	set, err := ComputeMovingAverages(series, windows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != len(windows) {
		t.Fatalf("expected %d moving averages, got %d", len(windows), len(set))
	}
	for _, ma := range set {
		if len(ma.Values) != len(closes) {
			t.Fatalf("MA%d: expected %d entries, got %d", ma.Window, len(closes), len(ma.Values))
		}
		for i, v := range ma.Values {
			if i < ma.Window-1 {
				if v.Valid {
					t.Errorf("MA%d index %d: expected null during warm-up", ma.Window, i)
				}
				continue
			}
			want, err := CalculateSMA(closes[:i+1], ma.Window)
			if err != nil {
				t.Fatalf("reference SMA: %v", err)
			}
			if !v.Valid || !almostEqual(v.Float64, want) {
				t.Errorf("MA%d index %d: got %v, want %.6f", ma.Window, i, v, want)
			}
		}
	}
}

func TestComputeMovingAverages_OrderAndDuplicates(t *testing.T) {
	series := seriesFromCloses(1, 2, 3, 4, 5, 6)
	set, err := ComputeMovingAverages(series, []int{5, 2, 5, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := set.Windows()
	want := []int{5, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("expected windows %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected windows %v, got %v", want, got)
			break
		}
	}
}

func TestComputeMovingAverages_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		series  *model.PriceSeries
		windows []int
	}{
		{"empty series", &model.PriceSeries{Symbol: "X"}, []int{20}},
		{"nil series", nil, []int{20}},
		{"zero window", seriesFromCloses(1, 2, 3), []int{2, 0}},
		{"negative window", seriesFromCloses(1, 2, 3), []int{-5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeMovingAverages(tt.series, tt.windows)
			if !errors.Is(err, model.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestComputeRSI_KnownValues(t *testing.T) {
	// deltas: +2, -1, +3, -2
	series := seriesFromCloses(10, 12, 11, 14, 12)
	rsi, err := ComputeRSI(series, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rsi.Values) != 5 {
		t.Fatalf("expected 5 values, got %d", len(rsi.Values))
	}
	for i := 0; i < 2; i++ {
		if rsi.Values[i].Valid {
			t.Errorf("index %d: expected null during warm-up", i)
		}
	}
	// i=2: up=(2+0)/2=1, down=(0+1)/2=0.5 → 100-100/3
	// i=3: up=(0+3)/2=1.5, down=(1+0)/2=0.5 → 75
	// i=4: up=(3+0)/2=1.5, down=(0+2)/2=1 → 60
	want := []float64{100 - 100.0/3, 75, 60}
	for k, w := range want {
		got := rsi.Values[k+2]
		if !got.Valid || !almostEqual(got.Float64, w) {
			t.Errorf("index %d: got %v, want %.6f", k+2, got, w)
		}
	}
}

func TestComputeRSI_Bounded(t *testing.T) {
	closes := make([]float64, 120)
	price := 50.0
	for i := range closes {
		// deterministic zig-zag with drift
		step := math.Sin(float64(i)*0.7)*3 + math.Cos(float64(i)*1.3)
		price += step
		closes[i] = price
	}
	series := seriesFromCloses(closes...)
	for _, window := range []int{1, 2, 5, 14, 30} {
		rsi, err := ComputeRSI(series, window)
		if err != nil {
			t.Fatalf("window %d: unexpected error: %v", window, err)
		}
		if len(rsi.Values) != len(closes) {
			t.Fatalf("window %d: expected %d entries, got %d", window, len(closes), len(rsi.Values))
		}
		for i, v := range rsi.Values {
			if i < window && v.Valid {
				t.Errorf("window %d index %d: expected null during warm-up", window, i)
			}
			if v.Valid && (v.Float64 < 0 || v.Float64 > 100) {
				t.Errorf("window %d index %d: %v out of [0,100]", window, i, v.Float64)
			}
		}
	}
}

func TestComputeRSI_ConstantClosesAllNull(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 42
	}
	rsi, err := ComputeRSI(seriesFromCloses(closes...), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range rsi.Values {
		if v.Valid {
			t.Errorf("index %d: expected null for flat prices, got %v", i, v.Float64)
		}
	}
}

func TestComputeRSI_NoDownMoveAllNull(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, err := ComputeRSI(seriesFromCloses(closes...), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range rsi.Values {
		if v.Valid {
			t.Errorf("index %d: expected null when there is no downward move, got %v", i, v.Float64)
		}
	}
}

func TestComputeRSI_ZeroDownInsideWindowOnly(t *testing.T) {
	// A single drop at delta 1, then gains. With window 2 the drop leaves
	// the window at index 3 and the value becomes null again.
	rsi, err := ComputeRSI(seriesFromCloses(10, 9, 10, 11, 12), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rsi.Values[2].Valid {
		t.Error("index 2: expected a value while the drop is in the window")
	}
	for _, i := range []int{3, 4} {
		if rsi.Values[i].Valid {
			t.Errorf("index %d: expected null after the drop left the window", i)
		}
	}
}

func TestComputeRSI_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		series *model.PriceSeries
		window int
	}{
		{"empty series", &model.PriceSeries{}, 14},
		{"single observation", seriesFromCloses(10), 14},
		{"zero window", seriesFromCloses(1, 2, 3), 0},
		{"negative window", seriesFromCloses(1, 2, 3), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeRSI(tt.series, tt.window)
			if !errors.Is(err, model.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestComputeRSI_ShortSeriesAllNull(t *testing.T) {
	rsi, err := ComputeRSI(seriesFromCloses(3, 1, 2), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range rsi.Values {
		if v.Valid {
			t.Errorf("index %d: expected null when window exceeds series", i)
		}
	}
}

func TestIndicators_Deterministic(t *testing.T) {
	series := seriesFromCloses(5, 7, 6, 9, 8, 7, 10, 12, 11, 9, 8, 10, 13, 12, 14, 13)
	ma1, _ := ComputeMovingAverages(series, []int{3, 5})
	ma2, _ := ComputeMovingAverages(series, []int{3, 5})
	for i := range ma1 {
		for j := range ma1[i].Values {
			if !ma1[i].Values[j].Equal(ma2[i].Values[j]) {
				t.Fatalf("MA%d index %d differs between runs", ma1[i].Window, j)
			}
		}
	}
	r1, _ := ComputeRSI(series, 4)
	r2, _ := ComputeRSI(series, 4)
	for j := range r1.Values {
		if !r1.Values[j].Equal(r2.Values[j]) {
			t.Fatalf("RSI index %d differs between runs", j)
		}
	}
}

func TestCalculateRange(t *testing.T) {
	bars := []model.OHLCV{
		{High: 105, Low: 98},
		{High: 110, Low: 101},
		{High: 104, Low: 95},
	}
	high, low, err := CalculateRange(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 110 || low != 95 {
		t.Errorf("expected (110, 95), got (%v, %v)", high, low)
	}
	if _, _, err := CalculateRange(nil); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for no bars, got %v", err)
	}
}

func TestPaddedRange(t *testing.T) {
	hi, lo := PaddedRange(110, 90, 0.05)
	if !almostEqual(hi, 111) || !almostEqual(lo, 89) {
		t.Errorf("expected (111, 89), got (%v, %v)", hi, lo)
	}
	hi, lo = PaddedRange(50, 50, 0.1)
	if !almostEqual(hi, 55) || !almostEqual(lo, 45) {
		t.Errorf("flat range: expected (55, 45), got (%v, %v)", hi, lo)
	}
}
