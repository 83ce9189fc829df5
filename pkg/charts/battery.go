package charts

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mpapenbr/crashviz/log"
	"github.com/mpapenbr/crashviz/pkg/model"
)

const axisNameSize = 10

// barDef describes a battery bar chart.
type barDef struct {
	title     string
	xName     string
	yName     string
	reference bool
}

func batteryDef() barDef {
	return barDef{
		title:     "Battery Status at Crash Detection",
		xName:     "Crash Event Number",
		yName:     "Battery Level (%)",
		reference: true,
	}
}

// Battery renders one bar per event colored by BatteryLevelOf with the
// 20% reference line.
func (r *Renderer) Battery(records []model.CrashRecord, path string) error {
	r.l.Info("rendering battery chart", log.String("path", path))
	return r.save(path, func(buf *bytes.Buffer) error {
		w, h := r.FigurePixels()
		bc := r.batteryChart(records, batteryDef(), w, h)
		return bc.Render(chart.PNG, buf)
	})
}

func (r *Renderer) batteryChart(
	records []model.CrashRecord,
	def barDef,
	width, height int,
) chart.BarChart {
	bars := make([]chart.Value, len(records))
	for i := range records {
		c := withAlpha(BatteryLevelOf(records[i].BatteryPercent).Color(), barAlpha)
		bars[i] = chart.Value{
			Label: strconv.Itoa(i),
			Value: records[i].BatteryPercent,
			Style: chart.Style{FillColor: c, StrokeColor: c},
		}
	}
	bg := r.background()
	var elements []chart.Renderable
	if def.xName != "" {
		bg.Padding.Bottom += int(r.pt(axisNameSize * 2))
		elements = append(elements, r.xAxisName(def.xName, height))
	}
	if def.reference {
		ref := r.referenceStyle(colorRed, lowBatteryAlpha)
		label := fmt.Sprintf("Low Battery (%.0f%%)", LowBatteryLevel)
		elements = append(elements, r.horizontalReference(LowBatteryLevel, 0, BatteryAxisMax, ref, label))
	}
	barWidth, spacing := barLayout(len(records), width-bg.Padding.Left-bg.Padding.Right)
	return chart.BarChart{
		Title:      def.title,
		TitleStyle: chart.Style{FontSize: 14},
		Width:      width,
		Height:     height,
		DPI:        r.dpi,
		Background: bg,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis: chart.YAxis{
			Name:           def.yName,
			Range:          &chart.ContinuousRange{Min: 0, Max: BatteryAxisMax},
			GridMajorStyle: r.gridStyle(),
		},
		Bars:     bars,
		Elements: elements,
	}
}

// barLayout splits the plot width into one slot per bar, the bar taking
// 80% of its slot.
func barLayout(n, plotWidth int) (barWidth, spacing int) {
	if n <= 0 || plotWidth <= 0 {
		return 1, 0
	}
	slot := float64(plotWidth) / float64(n)
	if limit := float64(plotWidth) / 3; slot > limit {
		slot = limit
	}
	barWidth = int(math.Max(1, math.Floor(slot*0.8)))
	spacing = int(math.Max(0, math.Floor(slot)-float64(barWidth)))
	return barWidth, spacing
}

// horizontalReference draws a line across the canvas at value, given the
// value range [lo,hi] of the y axis, and labels it in the upper right.
func (r *Renderer) horizontalReference(
	value, lo, hi float64,
	style chart.Style,
	label string,
) chart.Renderable {
	return func(rd chart.Renderer, canvas chart.Box, defaults chart.Style) {
		if hi <= lo {
			return
		}
		y := canvas.Bottom - int(math.Round((value-lo)/(hi-lo)*float64(canvas.Height())))
		rd.SetStrokeColor(style.StrokeColor)
		rd.SetStrokeWidth(style.StrokeWidth)
		rd.SetStrokeDashArray(style.StrokeDashArray)
		rd.MoveTo(canvas.Left, y)
		rd.LineTo(canvas.Right, y)
		rd.Stroke()
		rd.SetStrokeDashArray(nil)

		if label == "" || defaults.Font == nil {
			return
		}
		rd.SetFont(defaults.Font)
		rd.SetFontSize(9)
		rd.SetFontColor(drawing.ColorBlack)
		tb := rd.MeasureText(label)
		pad := int(r.pt(6))
		x := canvas.Right - tb.Width() - pad - int(r.pt(18))
		ty := canvas.Top + pad + tb.Height()
		sample := int(r.pt(14))
		rd.SetStrokeColor(style.StrokeColor)
		rd.SetStrokeWidth(style.StrokeWidth)
		rd.MoveTo(x-sample-pad, ty-tb.Height()/2)
		rd.LineTo(x-pad, ty-tb.Height()/2)
		rd.Stroke()
		rd.Text(label, x, ty)
	}
}

// xAxisName centers name below the bar labels. Bar charts have no axis
// name of their own.
func (r *Renderer) xAxisName(name string, height int) chart.Renderable {
	return func(rd chart.Renderer, canvas chart.Box, defaults chart.Style) {
		if defaults.Font == nil {
			return
		}
		rd.SetFont(defaults.Font)
		rd.SetFontSize(axisNameSize)
		rd.SetFontColor(drawing.ColorBlack)
		tb := rd.MeasureText(name)
		x := canvas.Left + (canvas.Width()-tb.Width())/2
		rd.Text(name, x, height-int(r.pt(axisNameSize)))
	}
}
