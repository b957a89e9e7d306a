// Package scanner coordinates pattern detection across symbols: it resolves
// historical bars from storage, dispatches registered detectors, and
// isolates per-detector failures.
package scanner

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"PatternSentinel/internal/model"
	"PatternSentinel/internal/pattern"
	"PatternSentinel/internal/storage"
)

// Scanner maps pattern-type names to detector instances and runs detection
// for stored symbols. Detectors are addable at runtime.
type Scanner struct {
	mu        sync.RWMutex
	detectors map[string]pattern.Detector
	store     storage.Store
	log       zerolog.Logger
}

// New creates a Scanner backed by the given store. Detectors are registered
// separately via Register.
func New(store storage.Store, log zerolog.Logger) *Scanner {
	return &Scanner{
		detectors: make(map[string]pattern.Detector),
		store:     store,
		log:       log,
	}
}

// Register adds (or replaces) a detector under the given pattern-type name.
func (s *Scanner) Register(name string, d pattern.Detector) {
	s.mu.Lock()
	s.detectors[name] = d
	s.mu.Unlock()
	s.log.Info().Str("pattern", name).Msg("registered pattern detector")
}

// Available returns the registered pattern-type names, sorted.
func (s *Scanner) Available() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.detectors))
	for name := range s.detectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns metadata for a registered detector.
func (s *Scanner) Describe(patternType string) (pattern.Details, error) {
	s.mu.RLock()
	d, ok := s.detectors[patternType]
	s.mu.RUnlock()
	if !ok {
		return pattern.Details{}, fmt.Errorf("unsupported pattern type: %s", patternType)
	}
	return d.Describe(), nil
}

// Detect checks whether the named pattern is present in the symbol's stored
// bars from the last `days` days. Missing data and detector failures yield a
// negative verdict, never an error.
func (s *Scanner) Detect(symbol, patternType string, days int) bool {
	s.mu.RLock()
	d, ok := s.detectors[patternType]
	s.mu.RUnlock()
	if !ok {
		s.log.Error().Str("pattern", patternType).Msg("unsupported pattern type")
		return false
	}

	bars, ok := s.loadBars(symbol, days)
	if !ok {
		return false
	}

	result := s.safeDetect(patternType, symbol, d, bars)
	s.log.Info().Str("symbol", symbol).Str("pattern", patternType).Bool("detected", result).
		Msg("pattern detection finished")
	return result
}

// DetectBars runs the named detector against caller-supplied bars instead
// of stored history.
func (s *Scanner) DetectBars(patternType string, bars []model.OHLCV) bool {
	s.mu.RLock()
	d, ok := s.detectors[patternType]
	s.mu.RUnlock()
	if !ok {
		s.log.Error().Str("pattern", patternType).Msg("unsupported pattern type")
		return false
	}
	if len(bars) == 0 {
		return false
	}
	return s.safeDetect(patternType, "", d, bars)
}

// DetectAll runs every registered detector against the symbol's stored bars
// and always returns a complete name-to-verdict mapping: one detector
// failing does not prevent the others from running.
func (s *Scanner) DetectAll(symbol string, days int) map[string]bool {
	s.mu.RLock()
	detectors := make(map[string]pattern.Detector, len(s.detectors))
	for name, d := range s.detectors {
		detectors[name] = d
	}
	s.mu.RUnlock()

	results := make(map[string]bool, len(detectors))
	bars, ok := s.loadBars(symbol, days)
	if !ok {
		for name := range detectors {
			results[name] = false
		}
		return results
	}

	for name, d := range detectors {
		results[name] = s.safeDetect(name, symbol, d, bars)
	}
	return results
}

func (s *Scanner) loadBars(symbol string, days int) ([]model.OHLCV, bool) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	bars, err := s.store.GetPrices(symbol, start, end)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("retrieving price data failed")
		return nil, false
	}
	if len(bars) == 0 {
		s.log.Warn().Str("symbol", symbol).Msg("no price data available")
		return nil, false
	}
	return bars, true
}

// safeDetect converts a detector panic into a negative verdict so one
// symbol's malformed data never aborts a batch run.
func (s *Scanner) safeDetect(name, symbol string, d pattern.Detector, bars []model.OHLCV) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("pattern", name).Str("symbol", symbol).
				Interface("panic", r).Msg("detector failed")
			result = false
		}
	}()
	return d.Detect(bars)
}
