package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"PatternSentinel/internal/model"
)

// SQLiteStore persists price bars to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log zerolog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so API reads don't block collector writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stock_prices (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol     TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			open       REAL,
			high       REAL,
			low        REAL,
			close      REAL,
			volume     INTEGER,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_timestamp ON stock_prices(symbol, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_timestamp ON stock_prices(timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// InsertPrice stores a single bar for the given symbol.
func (s *SQLiteStore) InsertPrice(symbol string, bar model.OHLCV) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO stock_prices
		(symbol, timestamp, open, high, low, close, volume, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		symbol, bar.Time.Unix(), bar.Open, bar.High, bar.Low, bar.Close,
		int64(bar.Volume), time.Now().Unix(),
	)
	return err
}

// GetPrices returns bars for symbol within [start, end], oldest first.
func (s *SQLiteStore) GetPrices(symbol string, start, end time.Time) ([]model.OHLCV, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT timestamp, open, high, low, close, volume
		FROM stock_prices
		WHERE symbol = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`,
		symbol, start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var ts int64
		var volume int64
		var bar model.OHLCV
		if err := rows.Scan(&ts, &bar.Open, &bar.High, &bar.Low, &bar.Close, &volume); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		bar.Time = time.Unix(ts, 0)
		bar.Volume = float64(volume)
		bars = append(bars, bar)
	}
	return bars, rows.Err()
}

// DeleteOlderThan removes bars past the retention period.
func (s *SQLiteStore) DeleteOlderThan(retentionDays int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -retentionDays).Unix()
	res, err := s.db.Exec("DELETE FROM stock_prices WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old prices: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.log.Info().Msg("closing sqlite store")
	return s.db.Close()
}
