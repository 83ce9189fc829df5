package geomap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/mpapenbr/crashviz/pkg/model"
	"github.com/mpapenbr/crashviz/testsupport/crashdata"
)

func TestCenter(t *testing.T) {
	tests := []struct {
		name    string
		records []model.CrashRecord
		lat     float64
		lon     float64
	}{
		{name: "same location", records: crashdata.SampleRecords(), lat: 1, lon: 2},
		{name: "spread", records: crashdata.SpreadRecords(), lat: 48.139333, lon: 11.575333},
		{name: "empty", records: nil, lat: 0, lon: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := Center(tt.records)
			assert.InDelta(t, tt.lat, lat, 1e-6)
			assert.InDelta(t, tt.lon, lon, 1e-6)
		})
	}
}

func TestMarkers(t *testing.T) {
	markers := Markers(crashdata.SpreadRecords())
	require.Len(t, markers, 3)

	m := markers[1]
	assert.Equal(t, "Crash #2", m.Tooltip)
	assert.InDelta(t, 48.139, m.Lat, 0)
	assert.Equal(t, "<b>Crash #2</b><br>"+
		"Time: 48811ms<br>"+
		"Acceleration: 4.02g<br>"+
		"Gyroscope: 187.2°/s<br>"+
		"Battery: 20%<br>"+
		`<a href="https://maps.google.com/?q=48.139,11.58" target="_blank">Open in Google Maps</a>`,
		m.Popup)
	assert.Contains(t, markers[0].Popup, "Battery: 91%")
	assert.Contains(t, markers[2].Popup, "Gyroscope: 121.0°/s")
}

func TestGoogleMapsLink(t *testing.T) {
	assert.Equal(t, "https://maps.google.com/?q=48.137154,11.576124",
		GoogleMapsLink(48.137154, 11.576124))
	assert.Equal(t, "https://maps.google.com/?q=-33.5,0", GoogleMapsLink(-33.5, 0))
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crash_map.html")
	require.NoError(t, Render(crashdata.SpreadRecords(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(content)
	assert.Contains(t, page, "leaflet.js")
	assert.Contains(t, page, "leaflet.awesome-markers.js")
	assert.Contains(t, page, "Crash #1")
	assert.Contains(t, page, "Crash #3")
	assert.Contains(t, page, "maps.google.com/?q=48.141846,11.569876")
	assert.Contains(t, page, `"info-sign"`)
	assert.Contains(t, page, `"red"`)
	assert.Regexp(t, `maxWidth:\s*250\b`, page)
	assert.Regexp(t, `zoom:\s*13\b`, page)
}

func TestRender_CustomTemplate(t *testing.T) {
	dir := fs.NewDir(t, "geomap",
		fs.WithFile("page.tmpl", `<p>{{.Zoom}} {{.PopupMaxWidth}} {{len .Title}}</p>`))
	path := filepath.Join(t.TempDir(), "map.html")

	require.NoError(t, Render(crashdata.SampleRecords(), path,
		WithTemplateFile(dir.Join("page.tmpl")), WithZoom(10)))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>10 250 15</p>", string(content))
}

func TestRender_CapabilityUnavailable(t *testing.T) {
	dir := fs.NewDir(t, "geomap",
		fs.WithFile("broken.tmpl", `<p>{{.Zoom</p>`),
		fs.WithFile("badfield.tmpl", `<p>{{.Unknown}}</p>`))

	tests := []struct {
		name     string
		template string
	}{
		{name: "missing", template: dir.Join("nope.tmpl")},
		{name: "parse error", template: dir.Join("broken.tmpl")},
		{name: "execute error", template: dir.Join("badfield.tmpl")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "crash_map.html")
			err := Render(crashdata.SampleRecords(), path, WithTemplateFile(tt.template))
			require.ErrorIs(t, err, ErrCapabilityUnavailable)
			_, statErr := os.Stat(path)
			assert.ErrorIs(t, statErr, os.ErrNotExist)
		})
	}
}

func TestRender_NoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crash_map.html")
	assert.ErrorIs(t, Render(nil, path), ErrNoRecords)
}
