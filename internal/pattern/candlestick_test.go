package pattern

import (
	"testing"
	"time"

	"PatternSentinel/internal/model"
)

func TestThreeWhiteSoldiers_InsufficientData(t *testing.T) {
	d := NewThreeWhiteSoldiers()
	if d.Detect(barsFromCloses([]float64{100, 101, 102})) {
		t.Error("short series must be rejected")
	}
}

func TestThreeWhiteSoldiers_FlatSeries(t *testing.T) {
	start := time.Date(2023, 1, 2, 16, 30, 0, 0, time.UTC)
	bars := make([]model.OHLCV, 30)
	for i := range bars {
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * 5 * time.Minute),
			Open:   100,
			High:   100,
			Low:    100,
			Close:  100,
			Volume: 1000,
		}
	}
	if NewThreeWhiteSoldiers().Detect(bars) {
		t.Error("doji-only series must not contain advancing soldiers")
	}
}

func TestThreeWhiteSoldiers_Describe(t *testing.T) {
	d := NewThreeWhiteSoldiers()
	details := d.Describe()
	if details.PatternName != "Three White Soldiers" {
		t.Errorf("unexpected name: %s", details.PatternName)
	}
	if details.Match != nil {
		t.Error("candlestick detector reports no geometry")
	}
	if details.Parameters == nil {
		t.Error("parameters map must be non-nil")
	}
}
