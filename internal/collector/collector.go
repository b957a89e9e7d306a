// Package collector fetches market data from an external source and stores
// it for pattern analysis, respecting the configured trading window.
package collector

import (
	"time"

	"github.com/rs/zerolog"

	"PatternSentinel/internal/model"
	"PatternSentinel/internal/storage"
)

// TradingHours describes the daily collection window in a given location.
// Collection runs on weekdays only.
type TradingHours struct {
	Start    string // "HH:MM"
	End      string // "HH:MM"
	Location *time.Location
}

// Collector orchestrates data fetching and persistence for a set of symbols.
type Collector struct {
	Fetcher         Fetcher
	Store           storage.Store
	Symbols         []string
	IntervalMinutes int
	Hours           TradingHours
	log             zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, store storage.Store, symbols []string, intervalMinutes int, hours TradingHours, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:         fetcher,
		Store:           store,
		Symbols:         symbols,
		IntervalMinutes: intervalMinutes,
		Hours:           hours,
		log:             log,
	}
}

// CollectLatest fetches the most recent bar for every configured symbol and
// stores it. Failures are isolated per symbol. Returns the number of symbols
// collected successfully.
func (c *Collector) CollectLatest() int {
	c.log.Info().Int("symbols", len(c.Symbols)).Msg("starting collection")
	collected := 0

	for _, symbol := range c.Symbols {
		bars, err := c.Fetcher.FetchIntraday(symbol, c.IntervalMinutes, 1)
		if err != nil {
			c.log.Error().Err(err).Str("symbol", symbol).Msg("fetch failed")
			continue
		}
		if len(bars) == 0 {
			c.log.Warn().Str("symbol", symbol).Msg("no data returned")
			continue
		}

		latest := bars[len(bars)-1]
		if err := c.Store.InsertPrice(symbol, latest); err != nil {
			c.log.Error().Err(err).Str("symbol", symbol).Msg("store failed")
			continue
		}
		c.log.Info().Str("symbol", symbol).Float64("close", latest.Close).Msg("saved latest price")
		collected++
	}

	c.log.Info().Int("collected", collected).Int("symbols", len(c.Symbols)).Msg("collection completed")
	return collected
}

// CollectHistorical fetches and stores bars for the last `days` days for
// every configured symbol. Returns the number of bars stored.
func (c *Collector) CollectHistorical(days int) int {
	c.log.Info().Int("symbols", len(c.Symbols)).Int("days", days).Msg("starting historical collection")
	stored := 0

	for _, symbol := range c.Symbols {
		bars, err := c.Fetcher.FetchIntraday(symbol, c.IntervalMinutes, days)
		if err != nil {
			c.log.Error().Err(err).Str("symbol", symbol).Msg("historical fetch failed")
			continue
		}

		saved := 0
		for _, bar := range bars {
			if err := c.Store.InsertPrice(symbol, bar); err != nil {
				c.log.Error().Err(err).Str("symbol", symbol).Msg("store failed")
				continue
			}
			saved++
		}
		c.log.Info().Str("symbol", symbol).Int("saved", saved).Int("fetched", len(bars)).
			Msg("historical bars saved")
		stored += saved
	}

	c.log.Info().Int("stored", stored).Msg("historical collection completed")
	return stored
}

// CollectIfTradingHours collects the latest bars only when within the
// trading window. Returns the number of symbols collected, or 0 when
// skipped.
func (c *Collector) CollectIfTradingHours() int {
	if !c.IsTradingHours(time.Now()) {
		c.log.Info().Msg("outside trading hours, skipping collection")
		return 0
	}
	return c.CollectLatest()
}

// IsTradingHours reports whether t falls inside the configured window on a
// weekday, evaluated in the window's location.
func (c *Collector) IsTradingHours(t time.Time) bool {
	local := t.In(c.Hours.Location)
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	clock := local.Format("15:04")
	return c.Hours.Start <= clock && clock <= c.Hours.End
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.OHLCV
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntraday(_ string, _, _ int) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars, nil
}
