package pattern

import (
	talibcdl "github.com/iwat/talib-cdl-go"

	"PatternSentinel/internal/model"
)

// ThreeWhiteSoldiers detects the three-white-soldiers bullish continuation
// pattern: three consecutive long advancing candles anywhere in the series.
// It is a second registered pattern type exercising the detector registry.
type ThreeWhiteSoldiers struct{}

// NewThreeWhiteSoldiers creates the detector.
func NewThreeWhiteSoldiers() *ThreeWhiteSoldiers {
	return &ThreeWhiteSoldiers{}
}

// Name implements Detector.
func (d *ThreeWhiteSoldiers) Name() string { return "Three White Soldiers" }

// Detect implements Detector. Bars must be in chronological order.
func (d *ThreeWhiteSoldiers) Detect(bars []model.OHLCV) bool {
	if len(bars) < minSamples {
		return false
	}
	for _, signal := range talibcdl.ThreeWhiteSoldiers(toSeries(bars)) {
		if signal != 0 {
			return true
		}
	}
	return false
}

// Describe implements Detector. The pattern has no tunable thresholds and
// no cup geometry to report.
func (d *ThreeWhiteSoldiers) Describe() Details {
	return Details{
		PatternName: d.Name(),
		Parameters:  map[string]float64{},
	}
}

// toSeries converts bars to the talib-cdl-go input format.
func toSeries(bars []model.OHLCV) talibcdl.SimpleSeries {
	series := talibcdl.SimpleSeries{
		Opens:  make([]float64, len(bars)),
		Highs:  make([]float64, len(bars)),
		Lows:   make([]float64, len(bars)),
		Closes: make([]float64, len(bars)),
	}
	for i, b := range bars {
		series.Opens[i] = b.Open
		series.Highs[i] = b.High
		series.Lows[i] = b.Low
		series.Closes[i] = b.Close
	}
	return series
}
