package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/mpapenbr/crashviz/log"
	"github.com/mpapenbr/crashviz/pkg/model"
	"github.com/mpapenbr/crashviz/pkg/stats"
)

const dashboardTitle = "Smart Helmet - Crash Analysis Dashboard"

type cellRenderer func(buf *bytes.Buffer, width, height int) error

// Dashboard renders the 2x2 overview: acceleration, gyroscope, battery and
// the summary text.
func (r *Renderer) Dashboard(
	records []model.CrashRecord,
	summary *stats.Summary,
	path string,
) error {
	r.l.Info("rendering dashboard", log.String("path", path))
	return r.save(path, func(buf *bytes.Buffer) error {
		img, err := r.dashboardImage(records, summary)
		if err != nil {
			return err
		}
		return png.Encode(buf, img)
	})
}

func (r *Renderer) dashboardImage(
	records []model.CrashRecord,
	summary *stats.Summary,
) (*image.RGBA, error) {
	w, h := r.DashboardPixels()
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	titleHeight := int(r.pt(36))
	cellW, cellH := w/2, (h-titleHeight)/2
	cell := func(col, row int) image.Rectangle {
		x, y := col*cellW, titleHeight+row*cellH
		return image.Rect(x, y, x+cellW, y+cellH)
	}

	accel, gyro, battery := dashboardDefs(records)

	cells := []struct {
		rect   image.Rectangle
		render cellRenderer
	}{
		{cell(0, 0), func(buf *bytes.Buffer, cw, ch int) error {
			c := r.lineChart(accel, cw, ch)
			return c.Render(chart.PNG, buf)
		}},
		{cell(1, 0), func(buf *bytes.Buffer, cw, ch int) error {
			c := r.lineChart(gyro, cw, ch)
			return c.Render(chart.PNG, buf)
		}},
		{cell(0, 1), func(buf *bytes.Buffer, cw, ch int) error {
			c := r.batteryChart(records, battery, cw, ch)
			return c.Render(chart.PNG, buf)
		}},
	}
	for i, c := range cells {
		if err := composeCell(canvas, c.rect, c.render); err != nil {
			return nil, fmt.Errorf("dashboard cell %d: %w", i, err)
		}
	}

	if err := r.drawTitle(canvas, image.Rect(0, 0, w, titleHeight), dashboardTitle); err != nil {
		return nil, err
	}
	if err := r.drawPanel(canvas, cell(1, 1), summary.PanelText()); err != nil {
		return nil, err
	}
	return canvas, nil
}

// dashboardDefs returns the compact chart variants used in the grid cells.
func dashboardDefs(records []model.CrashRecord) (accel, gyro lineDef, battery barDef) {
	accel = accelDef(records)
	accel.title, accel.xName, accel.yName = "Acceleration Magnitude", "Crash Event", "Acceleration (g)"
	accel.legend = false
	gyro = gyroDef(records)
	gyro.title, gyro.xName, gyro.yName = "Gyroscope Magnitude", "Crash Event", "Rotation (°/s)"
	gyro.legend = false
	battery = barDef{
		title: "Battery Level at Crash",
		xName: "Crash Event",
		yName: "Battery (%)",
	}
	return accel, gyro, battery
}

func composeCell(dst draw.Image, rect image.Rectangle, render cellRenderer) error {
	var buf bytes.Buffer
	if err := render(&buf, rect.Dx(), rect.Dy()); err != nil {
		return err
	}
	sub, err := png.Decode(&buf)
	if err != nil {
		return err
	}
	draw.Draw(dst, rect, sub, sub.Bounds().Min, draw.Over)
	return nil
}
