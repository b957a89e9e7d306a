package collector

import "PatternSentinel/internal/model"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchIntraday returns intraday bars for the symbol at the given
	// interval covering the last `days` days, oldest first.
	FetchIntraday(symbol string, intervalMinutes, days int) ([]model.OHLCV, error)
	Name() string
}
