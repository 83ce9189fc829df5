package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mpapenbr/crashviz/log"
	"github.com/mpapenbr/crashviz/pkg/model"
)

const utf8BOM = "\ufeff"

// columnIndex maps the required columns to their position in a row.
type columnIndex map[string]int

// Load reads the crash records from the CSV file at path.
// The file must contain a header row with all of model.Columns.
func Load(ctx context.Context, path string) ([]model.CrashRecord, error) {
	l := log.GetFromContext(ctx).Named("loader")

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: open %s: %w", ErrParse, path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		l.Debug("reading crash file failed", log.String("path", path), log.ErrorField(err))
		return nil, err
	}
	l.Debug("crash file read", log.String("path", path), log.Int("records", len(records)))
	return records, nil
}

// Read parses crash records from r. See Load for the expected layout.
func Read(r io.Reader) ([]model.CrashRecord, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no columns to parse", ErrParse)
		}
		return nil, fmt.Errorf("%w: read header: %w", ErrParse, err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	ret := make([]model.CrashRecord, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		line, _ := reader.FieldPos(0)
		rec, err := cols.toRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
		}
		ret = append(ret, rec)
	}
	if len(ret) == 0 {
		return nil, ErrEmptyData
	}
	return ret, nil
}

func mapColumns(header []string) (columnIndex, error) {
	cols := columnIndex{}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if _, ok := cols[h]; !ok {
			cols[h] = i
		}
	}
	missing := make([]string, 0)
	for _, c := range model.Columns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &ColumnMissingError{Missing: missing}
	}
	return cols, nil
}

func (c columnIndex) toRecord(row []string) (model.CrashRecord, error) {
	var err error
	rec := model.CrashRecord{}
	if rec.Timestamp, err = c.int64(row, model.ColTimestamp); err != nil {
		return rec, err
	}
	floats := []struct {
		col    string
		target *float64
	}{
		{model.ColAccMag, &rec.AccelMagnitude},
		{model.ColGyroMag, &rec.GyroMagnitude},
		{model.ColBattery, &rec.BatteryPercent},
		{model.ColLatitude, &rec.Latitude},
		{model.ColLongitude, &rec.Longitude},
	}
	for _, f := range floats {
		if *f.target, err = c.float64(row, f.col); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

func (c columnIndex) int64(row []string, col string) (int64, error) {
	s := strings.TrimSpace(row[c[col]])
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return v, nil
	}
	// tolerate integral values written as floats (e.g. 1234.0)
	fv, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || fv != math.Trunc(fv) || fv < math.MinInt64 || fv >= math.MaxInt64 {
		return 0, fmt.Errorf("column %s: invalid integer %q", col, s)
	}
	return int64(fv), nil
}

func (c columnIndex) float64(row []string, col string) (float64, error) {
	s := strings.TrimSpace(row[c[col]])
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: invalid number %q", col, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("column %s: non-finite value %q", col, s)
	}
	return v, nil
}
