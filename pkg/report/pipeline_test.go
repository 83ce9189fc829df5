package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/mpapenbr/crashviz/pkg/charts"
	"github.com/mpapenbr/crashviz/pkg/config"
	"github.com/mpapenbr/crashviz/pkg/export"
	"github.com/mpapenbr/crashviz/pkg/loader"
	"github.com/mpapenbr/crashviz/pkg/model"
	"github.com/mpapenbr/crashviz/pkg/stats"
	"github.com/mpapenbr/crashviz/testsupport/crashdata"
)

var allFiles = []string{AccelerationFile, GyroscopeFile, BatteryFile, DashboardFile, MapFile}

func testConfig(input, outDir string) *config.Config {
	return &config.Config{Input: input, OutputDir: outDir, LogFormat: "text"}
}

func newTestPipeline(cfg *config.Config, out *bytes.Buffer) *Pipeline {
	return New(cfg,
		WithOutput(out),
		WithChartOptions(charts.WithDPI(30)),
		WithClock(func() time.Time { return time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC) }))
}

func entries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_MissingInput(t *testing.T) {
	outDir := t.TempDir()
	out := &bytes.Buffer{}
	p := newTestPipeline(testConfig(filepath.Join(outDir, "crashes.csv"), outDir), out)

	res, err := p.Run(context.Background())
	require.ErrorIs(t, err, loader.ErrNotFound)
	assert.Equal(t, KindNoData, KindOf(err))
	assert.Empty(t, res.Artifacts)
	assert.Empty(t, entries(t, outDir))
	assert.Contains(t, out.String(), "not found")
	assert.Contains(t, out.String(), "No data to visualize")
	assert.NotContains(t, out.String(), "Generating visualizations")
}

func TestRun_NoRecords(t *testing.T) {
	dir := fs.NewDir(t, "report", fs.WithFile("crashes.csv",
		"Timestamp,AccMag,GyroMag,Battery%,Latitude,Longitude\n"))
	outDir := filepath.Join(dir.Path(), "out")
	out := &bytes.Buffer{}
	p := newTestPipeline(testConfig(dir.Join("crashes.csv"), outDir), out)

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, loader.ErrEmptyData)
	assert.Equal(t, KindNoData, KindOf(err))
	assert.NoDirExists(t, outDir)
	assert.Contains(t, out.String(), "Loaded 0 crash records")
	assert.Contains(t, out.String(), "No data to visualize")
}

func TestRun_MissingColumn(t *testing.T) {
	dir := fs.NewDir(t, "report", fs.WithFile("crashes.csv",
		"Timestamp,AccMag,GyroMag,Latitude,Longitude\n1,2,3,4,5\n"))
	outDir := filepath.Join(dir.Path(), "out")
	out := &bytes.Buffer{}
	p := newTestPipeline(testConfig(dir.Join("crashes.csv"), outDir), out)

	_, err := p.Run(context.Background())
	var missing *loader.ColumnMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{model.ColBattery}, missing.Missing)
	assert.Equal(t, KindNoData, KindOf(err))
	assert.NoDirExists(t, outDir)
	assert.Contains(t, out.String(), "Error loading file")
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := crashdata.WriteCSV(t, dir, crashdata.SampleRecords())
	outDir := filepath.Join(dir, "out")
	out := &bytes.Buffer{}
	p := newTestPipeline(testConfig(input, outDir), out)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Records)
	assert.InDelta(t, 3.0, res.Summary.Accel.Mean, 1e-9)
	assert.InDelta(t, 130.0, res.Summary.Gyro.Max, 1e-9)
	assert.True(t, res.Complete())

	require.Len(t, res.Artifacts, len(allFiles))
	for i, name := range allFiles {
		assert.Equal(t, name, res.Artifacts[i].Name)
		assert.Equal(t, StatusOK, res.Artifacts[i].Status)
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	console := out.String()
	assert.Contains(t, console, "Smart Helmet - Crash Data Visualization")
	assert.Contains(t, console, "Loaded 3 crash records")
	assert.Contains(t, console, "CRASH DATA SUMMARY")
	assert.Contains(t, console, "Average: 3.00g")
	assert.Contains(t, console, "Generating visualizations...")
	assert.Contains(t, console, "Open "+filepath.Join(outDir, MapFile)+" in a web browser")
	assert.Contains(t, console, "All visualizations generated successfully!")
	assert.Contains(t, console, "  • crash_map.html [ok]")
}

func TestRun_MapTemplateUnavailable(t *testing.T) {
	dir := t.TempDir()
	input := crashdata.WriteCSV(t, dir, crashdata.SampleRecords())
	outDir := filepath.Join(dir, "out")
	cfg := testConfig(input, outDir)
	cfg.MapTemplate = filepath.Join(dir, "missing.tmpl")
	out := &bytes.Buffer{}

	res, err := newTestPipeline(cfg, out).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Complete())

	art, ok := res.Artifact(MapFile)
	require.True(t, ok)
	assert.Equal(t, StatusSkipped, art.Status)
	assert.NoFileExists(t, filepath.Join(outDir, MapFile))
	assert.FileExists(t, filepath.Join(outDir, DashboardFile))

	console := out.String()
	assert.Contains(t, console, "Warning: map template unavailable")
	assert.Contains(t, console, "Visualizations generated with warnings")
	assert.Contains(t, console, "  • crash_map.html [skipped]")
	assert.NotContains(t, console, "All visualizations generated successfully!")
}

func TestRun_RenderFailureAborts(t *testing.T) {
	dir := t.TempDir()
	input := crashdata.WriteCSV(t, dir, crashdata.SampleRecords())
	outDir := filepath.Join(dir, "out")
	// a directory in place of the gyroscope chart makes its write fail
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, GyroscopeFile), 0o755))
	out := &bytes.Buffer{}

	res, err := newTestPipeline(testConfig(input, outDir), out).Run(context.Background())
	require.ErrorIs(t, err, ErrRender)
	assert.Equal(t, KindRender, KindOf(err))

	require.Len(t, res.Artifacts, 2)
	assert.Equal(t, StatusOK, res.Artifacts[0].Status)
	assert.Equal(t, StatusFailed, res.Artifacts[1].Status)
	assert.FileExists(t, filepath.Join(outDir, AccelerationFile))
	assert.NoFileExists(t, filepath.Join(outDir, BatteryFile))
	assert.NoFileExists(t, filepath.Join(outDir, MapFile))
	assert.Contains(t, out.String(), "Visualization aborted")
}

func TestRun_Exports(t *testing.T) {
	dir := t.TempDir()
	input := crashdata.WriteCSV(t, dir, crashdata.SampleRecords())
	outDir := filepath.Join(dir, "out")
	cfg := testConfig(input, outDir)
	cfg.Workbook = filepath.Join(dir, "crashes.xlsx")
	cfg.Manifest = filepath.Join(dir, "manifest.yml")

	res, err := newTestPipeline(cfg, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Artifacts, len(allFiles)+2)
	assert.True(t, res.Complete())
	assert.FileExists(t, cfg.Workbook)

	m, err := export.ReadManifest(cfg.Manifest)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, m.RunID)
	assert.Equal(t, 3, m.Records)
	assert.Equal(t, input, m.Input)
	assert.Equal(t, time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC), m.GeneratedAt)
	require.Len(t, m.Artifacts, len(allFiles)+1)
	assert.Equal(t, "crashes.xlsx", m.Artifacts[len(allFiles)].Name)
	assert.Equal(t, "ok", m.Artifacts[0].Status)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "not found", err: fmt.Errorf("%w: x.csv", loader.ErrNotFound), want: KindNoData},
		{name: "parse", err: loader.ErrParse, want: KindNoData},
		{name: "empty", err: loader.ErrEmptyData, want: KindNoData},
		{name: "columns", err: &loader.ColumnMissingError{Missing: []string{"AccMag"}}, want: KindNoData},
		{name: "no records", err: stats.ErrNoRecords, want: KindNoData},
		{name: "render", err: fmt.Errorf("%w: chart", ErrRender), want: KindRender},
		{name: "config", err: config.ErrInvalidConfig, want: KindConfig},
		{name: "other", err: errors.New("boom"), want: KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KindOf(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.String())
		})
	}
}
