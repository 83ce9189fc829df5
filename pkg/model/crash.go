package model

// CSV column names written by the helmet firmware.
const (
	ColTimestamp = "Timestamp"
	ColAccMag    = "AccMag"
	ColGyroMag   = "GyroMag"
	ColBattery   = "Battery%"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
)

// Columns lists the columns every crash file must provide.
//
//nolint:gochecknoglobals // fixed schema
var Columns = []string{
	ColAccMag, ColGyroMag, ColBattery, ColLatitude, ColLongitude, ColTimestamp,
}

// CrashRecord is one detected crash event.
// The position inside the loaded slice is the event number.
type CrashRecord struct {
	Timestamp      int64   `json:"timestamp"      yaml:"timestamp"`      // ms since device boot
	AccelMagnitude float64 `json:"accelMagnitude" yaml:"accelMagnitude"` // g
	GyroMagnitude  float64 `json:"gyroMagnitude"  yaml:"gyroMagnitude"`  // deg/s
	BatteryPercent float64 `json:"batteryPercent" yaml:"batteryPercent"` // 0..100
	Latitude       float64 `json:"latitude"       yaml:"latitude"`
	Longitude      float64 `json:"longitude"      yaml:"longitude"`
}
