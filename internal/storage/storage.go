// Package storage persists collected price bars and serves them back in
// chronological order for pattern analysis.
package storage

import (
	"time"

	"PatternSentinel/internal/model"
)

// Store is the persistence contract used by the collector (writes) and the
// pattern scanner (reads).
type Store interface {
	InsertPrice(symbol string, bar model.OHLCV) error
	// GetPrices returns bars for symbol within [start, end], ordered by
	// timestamp ascending.
	GetPrices(symbol string, start, end time.Time) ([]model.OHLCV, error)
	// DeleteOlderThan removes bars older than the retention period and
	// returns the number of rows deleted.
	DeleteOlderThan(retentionDays int) (int64, error)
	Close() error
}
