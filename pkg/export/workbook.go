package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mpapenbr/crashviz/pkg/charts"
	"github.com/mpapenbr/crashviz/pkg/model"
	"github.com/mpapenbr/crashviz/pkg/stats"
)

const (
	SheetCrashes = "Crashes"
	SheetSummary = "Summary"
)

// WriteWorkbook stores the records and their summary as an XLSX file.
func WriteWorkbook(path string, records []model.CrashRecord, summary *stats.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCrashes); err != nil {
		return err
	}
	if err := writeCrashes(f, records); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetCrashes, err)
	}
	if summary != nil {
		if _, err := f.NewSheet(SheetSummary); err != nil {
			return err
		}
		if err := writeSummary(f, summary); err != nil {
			return fmt.Errorf("sheet %s: %w", SheetSummary, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeCrashes(f *excelize.File, records []model.CrashRecord) error {
	header := []any{
		"Event", model.ColTimestamp, model.ColAccMag, model.ColGyroMag,
		model.ColBattery, model.ColLatitude, model.ColLongitude, "BatteryLevel",
	}
	if err := writeRow(f, SheetCrashes, 1, header); err != nil {
		return err
	}
	for i, r := range records {
		row := []any{
			i, r.Timestamp, r.AccelMagnitude, r.GyroMagnitude,
			r.BatteryPercent, r.Latitude, r.Longitude,
			charts.BatteryLevelOf(r.BatteryPercent).String(),
		}
		if err := writeRow(f, SheetCrashes, i+2, row); err != nil {
			return err
		}
	}
	return boldHeader(f, SheetCrashes)
}

func writeSummary(f *excelize.File, s *stats.Summary) error {
	rows := [][]any{
		{"Metric", "Mean", "Min", "Max"},
		{"Acceleration (g)", s.Accel.Mean, s.Accel.Min, s.Accel.Max},
		{"Gyroscope (°/s)", s.Gyro.Mean, s.Gyro.Min, s.Gyro.Max},
		{"Battery (%)", s.Battery.Mean, s.Battery.Min, s.Battery.Max},
		{"Latitude", s.Latitude.Mean, s.Latitude.Min, s.Latitude.Max},
		{"Longitude", s.Longitude.Mean, s.Longitude.Min, s.Longitude.Max},
		{},
		{"Total Crashes", s.Count},
	}
	for i, row := range rows {
		if err := writeRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return boldHeader(f, SheetSummary)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func boldHeader(f *excelize.File, sheet string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	return f.SetRowStyle(sheet, 1, 1, style)
}
