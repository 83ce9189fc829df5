package charts

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/mpapenbr/crashviz/log"
)

const (
	DefaultDPI = 300.0

	// figure sizes in inches
	figureWidth     = 12.0
	figureHeight    = 6.0
	dashboardWidth  = 16.0
	dashboardHeight = 12.0
)

type (
	// Size is a figure size in inches.
	Size struct {
		Width  float64
		Height float64
	}
	Option func(*Renderer)
)

// Renderer produces the PNG charts of a crash report.
type Renderer struct {
	dpi       float64
	figure    Size
	dashboard Size
	l         *log.Logger
}

func NewRenderer(opts ...Option) *Renderer {
	ret := &Renderer{
		dpi:       DefaultDPI,
		figure:    Size{Width: figureWidth, Height: figureHeight},
		dashboard: Size{Width: dashboardWidth, Height: dashboardHeight},
		l:         log.Default().Named("chart"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func WithDPI(dpi float64) Option {
	return func(r *Renderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

func WithFigureSize(s Size) Option {
	return func(r *Renderer) {
		r.figure = s
	}
}

func WithDashboardSize(s Size) Option {
	return func(r *Renderer) {
		r.dashboard = s
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		r.l = l
	}
}

// FigurePixels returns the pixel dimensions of the single charts.
func (r *Renderer) FigurePixels() (width, height int) {
	return r.px(r.figure.Width), r.px(r.figure.Height)
}

// DashboardPixels returns the pixel dimensions of the dashboard.
func (r *Renderer) DashboardPixels() (width, height int) {
	return r.px(r.dashboard.Width), r.px(r.dashboard.Height)
}

// px converts inches to pixels
func (r *Renderer) px(inches float64) int {
	return int(math.Round(inches * r.dpi))
}

// pt converts typographic points to pixels
func (r *Renderer) pt(points float64) float64 {
	return points * r.dpi / 72
}

// save renders into memory first so a failed render leaves no partial file.
func (r *Renderer) save(path string, render func(buf *bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	//nolint:gosec // report files are meant to be world readable
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.l.Debug("chart written", log.String("path", path), log.Int("bytes", buf.Len()))
	return nil
}
