package export

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mpapenbr/crashviz/pkg/stats"
	"github.com/mpapenbr/crashviz/testsupport/crashdata"
)

func TestManifest_RoundTrip(t *testing.T) {
	summary, err := stats.Compute(crashdata.SampleRecords())
	require.NoError(t, err)
	m := &Manifest{
		RunID:       "6f1c1f5e-3f7e-4a39-9d8c-0d6a4e8f1b2a",
		Generator:   "crashviz dev",
		Input:       "crashes.csv",
		GeneratedAt: time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC),
		Records:     3,
		Summary:     summary,
		Artifacts: []ArtifactEntry{
			{Name: "crash_acceleration.png", Path: "out/crash_acceleration.png", Status: "ok"},
			{
				Name: "crash_map.html", Path: "out/crash_map.html", Status: "skipped",
				Error: "map capability unavailable",
			},
		},
	}
	path := filepath.Join(t.TempDir(), "manifest.yml")
	require.NoError(t, WriteManifest(path, m))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "runId: 6f1c1f5e-3f7e-4a39-9d8c-0d6a4e8f1b2a")
	assert.Contains(t, string(content), "status: skipped")

	got, err := ReadManifest(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("ReadManifest() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteManifest_BadPath(t *testing.T) {
	err := WriteManifest(filepath.Join(t.TempDir(), "missing", "m.yml"), &Manifest{})
	assert.Error(t, err)
}

type failingCloser struct {
	bytes.Buffer
}

func (f *failingCloser) Close() error { return errors.New("disk full") }

func TestWriteManifest_CloseError(t *testing.T) {
	orig := createFile
	t.Cleanup(func() { createFile = orig })
	out := &failingCloser{}
	createFile = func(string) (io.WriteCloser, error) { return out, nil }

	err := WriteManifest("m.yml", &Manifest{RunID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close manifest: disk full")
	assert.Contains(t, out.String(), "runId: x")
}

func TestWriteWorkbook(t *testing.T) {
	records := crashdata.SampleRecords()
	summary, err := stats.Compute(records)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "crashes.xlsx")
	require.NoError(t, WriteWorkbook(path, records, summary))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetCrashes, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetCrashes)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t,
		[]string{"Event", "Timestamp", "AccMag", "GyroMag", "Battery%", "Latitude", "Longitude", "BatteryLevel"},
		rows[0])
	assert.Equal(t, []string{"0", "1000", "1", "10", "80", "1", "2", "green"}, rows[1])
	assert.Equal(t, "orange", rows[2][7])
	assert.Equal(t, "red", rows[3][7])

	rows, err = f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acceleration (g)", "3", "1", "5"}, rows[1])
	assert.Equal(t, []string{"Total Crashes", "3"}, rows[len(rows)-1])
}

func TestWriteWorkbook_NoSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crashes.xlsx")
	require.NoError(t, WriteWorkbook(path, crashdata.SampleRecords(), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetCrashes}, f.GetSheetList())
}
