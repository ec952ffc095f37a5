package collector

import "fmt"

// NewFetcher builds the Fetcher for a configured provider name.
func NewFetcher(provider, baseURL, apiKey, proxyURL string) (Fetcher, error) {
	switch provider {
	case "", "yahoo":
		f := NewYahooFetcher(proxyURL)
		if baseURL != "" {
			f.BaseURL = baseURL
		}
		return f, nil
	case "binance":
		return NewBinanceFetcher(baseURL, proxyURL), nil
	case "rest":
		if baseURL == "" {
			return nil, fmt.Errorf("rest provider requires a base URL")
		}
		return NewRESTFetcher(baseURL, apiKey, proxyURL), nil
	case "mock":
		return &MockFetcher{}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", provider)
	}
}
