package charts

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mpapenbr/crashviz/log"
	"github.com/mpapenbr/crashviz/pkg/model"
)

type lineDef struct {
	title          string
	xName          string
	yName          string
	seriesName     string
	values         []float64
	color          drawing.Color
	reference      float64
	referenceName  string
	referenceColor drawing.Color
	legend         bool
}

// Acceleration renders the acceleration magnitude per event with the
// 2.5g reference line.
func (r *Renderer) Acceleration(records []model.CrashRecord, path string) error {
	r.l.Info("rendering acceleration chart", log.String("path", path))
	return r.save(path, func(buf *bytes.Buffer) error {
		w, h := r.FigurePixels()
		ch := r.lineChart(accelDef(records), w, h)
		return ch.Render(chart.PNG, buf)
	})
}

// Gyroscope renders the angular velocity magnitude per event with the
// 120 deg/s reference line.
func (r *Renderer) Gyroscope(records []model.CrashRecord, path string) error {
	r.l.Info("rendering gyroscope chart", log.String("path", path))
	return r.save(path, func(buf *bytes.Buffer) error {
		w, h := r.FigurePixels()
		ch := r.lineChart(gyroDef(records), w, h)
		return ch.Render(chart.PNG, buf)
	})
}

func accelDef(records []model.CrashRecord) lineDef {
	return lineDef{
		title:      "Crash Detection - Acceleration Analysis",
		xName:      "Crash Event Number",
		yName:      "Acceleration Magnitude (g)",
		seriesName: "Acceleration",
		values: columnOf(records, func(c model.CrashRecord) float64 {
			return c.AccelMagnitude
		}),
		color:          colorRed,
		reference:      AccelThreshold,
		referenceName:  fmt.Sprintf("Detection Threshold (%.1fg)", AccelThreshold),
		referenceColor: colorOrange,
		legend:         true,
	}
}

func gyroDef(records []model.CrashRecord) lineDef {
	return lineDef{
		title:      "Crash Detection - Rotation Analysis",
		xName:      "Crash Event Number",
		yName:      "Gyroscope Magnitude (°/s)",
		seriesName: "Gyroscope",
		values: columnOf(records, func(c model.CrashRecord) float64 {
			return c.GyroMagnitude
		}),
		color:          colorBlue,
		reference:      GyroThreshold,
		referenceName:  fmt.Sprintf("Detection Threshold (%.0f°/s)", GyroThreshold),
		referenceColor: colorCyan,
		legend:         true,
	}
}

func (r *Renderer) lineChart(def lineDef, width, height int) chart.Chart {
	n := len(def.values)
	xr := eventAxisRange(n)
	ch := chart.Chart{
		Title:      def.title,
		TitleStyle: chart.Style{FontSize: 14},
		Width:      width,
		Height:     height,
		DPI:        r.dpi,
		Background: r.background(),
		XAxis: chart.XAxis{
			Name:           def.xName,
			Range:          xr,
			Ticks:          eventTicks(n),
			GridMajorStyle: r.gridStyle(),
		},
		YAxis: chart.YAxis{
			Name:           def.yName,
			Range:          valueRange(def.values, def.reference),
			GridMajorStyle: r.gridStyle(),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    def.seriesName,
				XValues: EventIndexes(n),
				YValues: def.values,
				Style: chart.Style{
					StrokeColor: def.color,
					StrokeWidth: r.pt(defaultLineWidth),
					DotColor:    def.color,
					DotWidth:    r.pt(defaultMarkerSize) / 2,
				},
			},
			chart.ContinuousSeries{
				Name:    def.referenceName,
				XValues: []float64{xr.Min, xr.Max},
				YValues: []float64{def.reference, def.reference},
				Style:   r.referenceStyle(def.referenceColor, referenceAlpha),
			},
		},
	}
	if def.legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch
}

func columnOf(records []model.CrashRecord, sel func(model.CrashRecord) float64) []float64 {
	ret := make([]float64, len(records))
	for i := range records {
		ret[i] = sel(records[i])
	}
	return ret
}
