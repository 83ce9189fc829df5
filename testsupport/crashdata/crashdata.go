package crashdata

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/crashviz/pkg/model"
)

// SampleRecords returns three crash events with known statistics:
// mean AccMag 3.0, max GyroMag 130, battery levels green/orange/red,
// all located at (1.0, 2.0).
func SampleRecords() []model.CrashRecord {
	return []model.CrashRecord{
		{
			Timestamp: 1000, AccelMagnitude: 1.0, GyroMagnitude: 10,
			BatteryPercent: 80, Latitude: 1.0, Longitude: 2.0,
		},
		{
			Timestamp: 2000, AccelMagnitude: 3.0, GyroMagnitude: 130,
			BatteryPercent: 30, Latitude: 1.0, Longitude: 2.0,
		},
		{
			Timestamp: 3000, AccelMagnitude: 5.0, GyroMagnitude: 50,
			BatteryPercent: 10, Latitude: 1.0, Longitude: 2.0,
		},
	}
}

// SpreadRecords returns records at distinct coordinates.
func SpreadRecords() []model.CrashRecord {
	return []model.CrashRecord{
		{
			Timestamp: 15234, AccelMagnitude: 2.71, GyroMagnitude: 98.4,
			BatteryPercent: 91, Latitude: 48.137154, Longitude: 11.576124,
		},
		{
			Timestamp: 48811, AccelMagnitude: 4.02, GyroMagnitude: 187.25,
			BatteryPercent: 20, Latitude: 48.139000, Longitude: 11.580000,
		},
		{
			Timestamp: 90120, AccelMagnitude: 3.3, GyroMagnitude: 121.0,
			BatteryPercent: 50, Latitude: 48.141846, Longitude: 11.569876,
		},
	}
}

// WriteCSV stores records as a crash file in dir and returns its path.
func WriteCSV(t *testing.T, dir string, records []model.CrashRecord) string {
	t.Helper()
	path := filepath.Join(dir, "crashes.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{model.Columns}
	for _, r := range records {
		rows = append(rows, Row(r))
	}
	require.NoError(t, w.WriteAll(rows))
	return path
}

// Row formats a record in the column order of model.Columns.
func Row(r model.CrashRecord) []string {
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		ff(r.AccelMagnitude),
		ff(r.GyroMagnitude),
		ff(r.BatteryPercent),
		ff(r.Latitude),
		ff(r.Longitude),
		strconv.FormatInt(r.Timestamp, 10),
	}
}
