package stats

import (
	"errors"
	"strconv"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/crashviz/pkg/model"
)

var ErrNoRecords = errors.New("no records to summarize")

// Series holds the descriptive statistics of one column.
type Series struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Min  float64 `json:"min"  yaml:"min"`
	Max  float64 `json:"max"  yaml:"max"`
}

type Summary struct {
	Count     int    `json:"count"     yaml:"count"`
	Accel     Series `json:"accel"     yaml:"accel"`
	Gyro      Series `json:"gyro"      yaml:"gyro"`
	Battery   Series `json:"battery"   yaml:"battery"`
	Latitude  Series `json:"latitude"  yaml:"latitude"`
	Longitude Series `json:"longitude" yaml:"longitude"`
}

// Compute calculates the summary over all records.
func Compute(records []model.CrashRecord) (*Summary, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	column := func(sel func(model.CrashRecord) float64) Series {
		return Of(lo.Map(records, func(r model.CrashRecord, _ int) float64 {
			return sel(r)
		}))
	}
	return &Summary{
		Count:     len(records),
		Accel:     column(func(r model.CrashRecord) float64 { return r.AccelMagnitude }),
		Gyro:      column(func(r model.CrashRecord) float64 { return r.GyroMagnitude }),
		Battery:   column(func(r model.CrashRecord) float64 { return r.BatteryPercent }),
		Latitude:  column(func(r model.CrashRecord) float64 { return r.Latitude }),
		Longitude: column(func(r model.CrashRecord) float64 { return r.Longitude }),
	}, nil
}

// Of computes the series statistics of values. values must not be empty.
// The mean is accumulated in decimal so long columns do not drift.
func Of(values []float64) Series {
	sum := decimal.Sum(decimal.Zero, lo.Map(values, func(v float64, _ int) decimal.Decimal {
		return decimal.NewFromFloat(v)
	})...)
	return Series{
		Mean: sum.Div(decimal.NewFromInt(int64(len(values)))).InexactFloat64(),
		Min:  lo.Min(values),
		Max:  lo.Max(values),
	}
}

// Fixed formats v with the given number of decimal places.
// Rounding works on the exact binary value, so 2.675 yields "2.67".
func Fixed(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}
