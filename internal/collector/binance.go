package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"

	"TickerScope/internal/model"
)

const binanceKlineLimit = 1000

// BinanceFetcher implements Fetcher with Binance spot daily klines, for crypto pairs such as BTCUSDT.
type BinanceFetcher struct {
	Client *binance.Client
}

// NewBinanceFetcher creates a fetcher for public market data. baseURL may be
// empty to use the default Binance endpoint.
func NewBinanceFetcher(baseURL, proxyURL string) *BinanceFetcher {
	client := binance.NewClient("", "")
	client.HTTPClient = newHTTPClient(proxyURL)
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &BinanceFetcher{Client: client}
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	startMs := start.UnixMilli()
	endMs := end.UnixMilli() - 1

	var bars []model.OHLCV
	for startMs <= endMs {
		klines, err := f.Client.NewKlinesService().
			Symbol(symbol).
			Interval("1d").
			StartTime(startMs).
			EndTime(endMs).
			Limit(binanceKlineLimit).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		for _, k := range klines {
			bar, err := klineToBar(k)
			if err != nil {
				return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
			}
			bars = append(bars, bar)
		}
		if len(klines) < binanceKlineLimit {
			break
		}
		startMs = klines[len(klines)-1].OpenTime + 1
	}
	return bars, nil
}

func klineToBar(k *binance.Kline) (model.OHLCV, error) {
	var vals [5]float64
	for i, s := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("parse kline field %q: %w", s, err)
		}
		vals[i] = v
	}
	return model.OHLCV{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
