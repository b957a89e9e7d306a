package pattern

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: for any price series, Detect never panics, repeated calls on
// the same detector yield identical verdicts and geometry, and series
// shorter than the minimum sample count are always rejected.
func TestDetect_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("deterministic verdicts, short series rejected", prop.ForAll(
		func(closes []float64) bool {
			d := NewCupAndHandle(Params{})
			bars := barsFromCloses(closes)

			first := d.Detect(bars)
			firstDetails := d.Describe()
			second := d.Detect(bars)
			secondDetails := d.Describe()

			if first != second {
				return false
			}
			if (firstDetails.Match == nil) != (secondDetails.Match == nil) {
				return false
			}
			if firstDetails.Match != nil && *firstDetails.Match != *secondDetails.Match {
				return false
			}
			if len(closes) < minSamples && first {
				return false
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(1, 500)),
	))

	properties.Property("match indices stay inside the series", prop.ForAll(
		func(closes []float64) bool {
			d := NewCupAndHandle(Params{})
			if !d.Detect(barsFromCloses(closes)) {
				return true
			}
			m := d.Describe().Match
			if m == nil {
				return false
			}
			return m.CupLeft >= 0 && m.CupLeft < m.CupBottom &&
				m.CupBottom < m.CupRight && m.CupRight <= m.HandleBottom &&
				m.HandleBottom <= m.HandleEnd && m.HandleEnd < len(closes)
		},
		gen.SliceOf(gen.Float64Range(1, 500)),
	))

	properties.TestingRun(t)
}
