// Package geomap renders crash locations as a Leaflet web map.
package geomap

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/crashviz/log"
	"github.com/mpapenbr/crashviz/pkg/model"
)

const (
	DefaultZoom   = 13
	PopupMaxWidth = 250
	MarkerColor   = "red"
	MarkerIcon    = "info-sign"

	embeddedTemplate = "templates/map.html.tmpl"
)

// ErrCapabilityUnavailable is returned when no usable page template exists.
// No output file is created in that case.
var ErrCapabilityUnavailable = errors.New("map capability unavailable")

var ErrNoRecords = errors.New("no records to place on map")

//go:embed templates/*
var templates embed.FS

type (
	Option func(*config)
	config struct {
		templateFile string
		zoom         int
		l            *log.Logger
	}
)

// WithTemplateFile replaces the embedded page template. An empty path keeps
// the embedded one.
func WithTemplateFile(path string) Option {
	return func(c *config) {
		c.templateFile = path
	}
}

func WithZoom(zoom int) Option {
	return func(c *config) {
		if zoom > 0 {
			c.zoom = zoom
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		c.l = l
	}
}

// Marker is one crash location as handed to the page script.
type Marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Tooltip string  `json:"tooltip"`
	Popup   string  `json:"popup"`
}

type pageData struct {
	Title         string
	CenterLat     float64
	CenterLon     float64
	Zoom          int
	Icon          string
	MarkerColor   string
	PopupMaxWidth int
	MarkersJSON   template.JS
}

// Center returns the arithmetic mean of all latitudes and longitudes.
func Center(records []model.CrashRecord) (lat, lon float64) {
	if len(records) == 0 {
		return 0, 0
	}
	n := float64(len(records))
	lat = lo.SumBy(records, func(r model.CrashRecord) float64 { return r.Latitude }) / n
	lon = lo.SumBy(records, func(r model.CrashRecord) float64 { return r.Longitude }) / n
	return lat, lon
}

// Markers builds one marker per record. Numbering starts at 1.
func Markers(records []model.CrashRecord) []Marker {
	return lo.Map(records, func(r model.CrashRecord, idx int) Marker {
		return Marker{
			Lat:     r.Latitude,
			Lon:     r.Longitude,
			Tooltip: fmt.Sprintf("Crash #%d", idx+1),
			Popup:   popupContent(idx+1, r),
		}
	})
}

func popupContent(num int, r model.CrashRecord) string {
	lines := []string{
		fmt.Sprintf("<b>Crash #%d</b>", num),
		fmt.Sprintf("Time: %dms", r.Timestamp),
		fmt.Sprintf("Acceleration: %.2fg", r.AccelMagnitude),
		fmt.Sprintf("Gyroscope: %.1f°/s", r.GyroMagnitude),
		fmt.Sprintf("Battery: %s%%", shortFloat(r.BatteryPercent)),
		fmt.Sprintf(`<a href="%s" target="_blank">Open in Google Maps</a>`,
			GoogleMapsLink(r.Latitude, r.Longitude)),
	}
	return strings.Join(lines, "<br>")
}

// GoogleMapsLink returns the external map link for a location.
func GoogleMapsLink(lat, lon float64) string {
	return fmt.Sprintf("https://maps.google.com/?q=%s,%s", shortFloat(lat), shortFloat(lon))
}

func shortFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Render writes the map document for records to path.
func Render(records []model.CrashRecord, path string, opts ...Option) error {
	cfg := &config{zoom: DefaultZoom, l: log.Default().Named("geomap")}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(records) == 0 {
		return ErrNoRecords
	}

	tmpl, err := loadTemplate(cfg.templateFile)
	if err != nil {
		return err
	}

	markersJSON, err := marshalTemplateJS(Markers(records))
	if err != nil {
		return fmt.Errorf("marshal markers: %w", err)
	}
	lat, lon := Center(records)
	data := pageData{
		Title:         "Crash Locations",
		CenterLat:     lat,
		CenterLon:     lon,
		Zoom:          cfg.zoom,
		Icon:          MarkerIcon,
		MarkerColor:   MarkerColor,
		PopupMaxWidth: PopupMaxWidth,
		MarkersJSON:   markersJSON,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("%w: execute template: %w", ErrCapabilityUnavailable, err)
	}
	//nolint:gosec // report files are meant to be world readable
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	cfg.l.Debug("map written",
		log.String("path", path),
		log.Int("markers", len(records)),
		log.Float64("centerLat", lat),
		log.Float64("centerLon", lon))
	return nil
}

func loadTemplate(file string) (*template.Template, error) {
	if file == "" {
		tmpl, err := template.ParseFS(templates, embeddedTemplate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCapabilityUnavailable, err)
		}
		return tmpl, nil
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapabilityUnavailable, err)
	}
	tmpl, err := template.New(filepath.Base(file)).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapabilityUnavailable, err)
	}
	return tmpl, nil
}

func marshalTemplateJS(value any) (template.JS, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	//nolint:gosec // payload is JSON produced above
	return template.JS(payload), nil
}
