package charts

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Reference values drawn on the charts. These mirror the trigger
// conditions of the helmet firmware and are not derived from the data.
const (
	AccelThreshold    = 2.5   // g
	GyroThreshold     = 120.0 // deg/s
	LowBatteryLevel   = 20.0  // percent
	HighBatteryLevel  = 50.0  // percent
	BatteryAxisMax    = 105.0
	referenceAlpha    = 178 // ~0.7
	barAlpha          = 178
	lowBatteryAlpha   = 128
	gridAlpha         = 77 // ~0.3
	defaultLineWidth  = 2.0
	defaultMarkerSize = 8.0
)

//nolint:gochecknoglobals // palette
var (
	colorRed    = drawing.Color{R: 255, G: 0, B: 0, A: 255}
	colorOrange = drawing.Color{R: 255, G: 165, B: 0, A: 255}
	colorGreen  = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	colorBlue   = drawing.Color{R: 0, G: 0, B: 255, A: 255}
	colorCyan   = drawing.Color{R: 0, G: 255, B: 255, A: 255}
	colorGrid   = drawing.Color{R: 176, G: 176, B: 176, A: gridAlpha}
)

// BatteryLevel classifies a battery percentage for the bar colors.
type BatteryLevel int

const (
	BatteryHigh BatteryLevel = iota
	BatteryMedium
	BatteryLow
)

// BatteryLevelOf returns high above 50, medium above 20 and low otherwise.
func BatteryLevelOf(percent float64) BatteryLevel {
	switch {
	case percent > HighBatteryLevel:
		return BatteryHigh
	case percent > LowBatteryLevel:
		return BatteryMedium
	default:
		return BatteryLow
	}
}

// String returns the color name of the level.
func (b BatteryLevel) String() string {
	switch b {
	case BatteryHigh:
		return "green"
	case BatteryMedium:
		return "orange"
	case BatteryLow:
		return "red"
	}
	return "unknown"
}

func (b BatteryLevel) Color() drawing.Color {
	switch b {
	case BatteryHigh:
		return colorGreen
	case BatteryMedium:
		return colorOrange
	default:
		return colorRed
	}
}

func withAlpha(c drawing.Color, a uint8) drawing.Color {
	c.A = a
	return c
}

func (r *Renderer) gridStyle() chart.Style {
	return chart.Style{
		StrokeColor: colorGrid,
		StrokeWidth: r.pt(0.8),
	}
}

func (r *Renderer) referenceStyle(c drawing.Color, alpha uint8) chart.Style {
	dash := r.pt(4)
	return chart.Style{
		StrokeColor:     withAlpha(c, alpha),
		StrokeWidth:     r.pt(1.5),
		StrokeDashArray: []float64{dash, dash / 2},
	}
}

func (r *Renderer) background() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    int(r.pt(28)),
			Left:   int(r.pt(12)),
			Right:  int(r.pt(18)),
			Bottom: int(r.pt(12)),
		},
	}
}
