package charts

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

const maxEventTicks = 20

// EventRange returns the x domain of the event index axis.
// A single event yields the degenerate range [0,0].
func EventRange(n int) (lo, hi float64) {
	if n <= 0 {
		return 0, 0
	}
	return 0, float64(n - 1)
}

// EventIndexes returns 0..n-1 as float values.
func EventIndexes(n int) []float64 {
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = float64(i)
	}
	return ret
}

// eventTicks builds the x-axis ticks. The chart derives its x range from the
// outermost ticks, so a single event gets two unlabeled padding ticks to
// keep the range from collapsing.
func eventTicks(n int) []chart.Tick {
	if n <= 1 {
		return []chart.Tick{
			{Value: -0.5, Label: ""},
			{Value: 0, Label: "0"},
			{Value: 0.5, Label: ""},
		}
	}
	step := 1
	if n > maxEventTicks {
		step = int(math.Ceil(float64(n) / float64(maxEventTicks/2)))
	}
	ticks := make([]chart.Tick, 0, n/step+2)
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: strconv.Itoa(i)})
	}
	if last := n - 1; ticks[len(ticks)-1].Value != float64(last) {
		ticks = append(ticks, chart.Tick{Value: float64(last), Label: strconv.Itoa(last)})
	}
	return ticks
}

// eventAxisRange is the drawn x range matching eventTicks.
func eventAxisRange(n int) *chart.ContinuousRange {
	if n <= 1 {
		return &chart.ContinuousRange{Min: -0.5, Max: 0.5}
	}
	lo, hi := EventRange(n)
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// valueRange covers all values and the reference line with 10% margin.
func valueRange(values []float64, reference float64) *chart.ContinuousRange {
	lo, hi := reference, reference
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.1, 1)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
