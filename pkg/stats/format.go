package stats

import (
	"fmt"
	"io"
	"strings"
)

const ruleWidth = 50

// WriteConsole prints the summary block shown before rendering.
func (s *Summary) WriteConsole(w io.Writer) error {
	rule := strings.Repeat("=", ruleWidth)
	b := &strings.Builder{}
	fmt.Fprintf(b, "\n%s\n", rule)
	fmt.Fprintln(b, "CRASH DATA SUMMARY")
	fmt.Fprintln(b, rule)
	fmt.Fprintf(b, "Total Crashes Recorded: %d\n", s.Count)

	fmt.Fprintln(b, "\nAcceleration Statistics:")
	fmt.Fprintf(b, "  Average: %sg\n", Fixed(s.Accel.Mean, 2))
	fmt.Fprintf(b, "  Max: %sg\n", Fixed(s.Accel.Max, 2))
	fmt.Fprintf(b, "  Min: %sg\n", Fixed(s.Accel.Min, 2))

	fmt.Fprintln(b, "\nGyroscope Statistics:")
	fmt.Fprintf(b, "  Average: %s°/s\n", Fixed(s.Gyro.Mean, 1))
	fmt.Fprintf(b, "  Max: %s°/s\n", Fixed(s.Gyro.Max, 1))
	fmt.Fprintf(b, "  Min: %s°/s\n", Fixed(s.Gyro.Min, 1))

	fmt.Fprintln(b, "\nBattery Statistics:")
	fmt.Fprintf(b, "  Average: %s%%\n", Fixed(s.Battery.Mean, 1))
	fmt.Fprintf(b, "  Lowest: %s%%\n", Fixed(s.Battery.Min, 0))
	fmt.Fprintf(b, "  Highest: %s%%\n", Fixed(s.Battery.Max, 0))

	fmt.Fprintln(b, "\nLocation Range:")
	fmt.Fprintf(b, "  Latitude: %s to %s\n", Fixed(s.Latitude.Min, 6), Fixed(s.Latitude.Max, 6))
	fmt.Fprintf(b, "  Longitude: %s to %s\n", Fixed(s.Longitude.Min, 6), Fixed(s.Longitude.Max, 6))
	fmt.Fprintf(b, "%s\n\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// PanelText returns the statistics block of the dashboard.
func (s *Summary) PanelText() string {
	lines := []string{
		"Crash Statistics",
		"================",
		"",
		fmt.Sprintf("Total Crashes: %d", s.Count),
		"",
		"Acceleration:",
		fmt.Sprintf("  • Average: %sg", Fixed(s.Accel.Mean, 2)),
		fmt.Sprintf("  • Maximum: %sg", Fixed(s.Accel.Max, 2)),
		fmt.Sprintf("  • Minimum: %sg", Fixed(s.Accel.Min, 2)),
		"",
		"Gyroscope:",
		fmt.Sprintf("  • Average: %s°/s", Fixed(s.Gyro.Mean, 1)),
		fmt.Sprintf("  • Maximum: %s°/s", Fixed(s.Gyro.Max, 1)),
		fmt.Sprintf("  • Minimum: %s°/s", Fixed(s.Gyro.Min, 1)),
		"",
		"Battery:",
		fmt.Sprintf("  • Average: %s%%", Fixed(s.Battery.Mean, 1)),
		fmt.Sprintf("  • Lowest: %s%%", Fixed(s.Battery.Min, 0)),
		fmt.Sprintf("  • Highest: %s%%", Fixed(s.Battery.Max, 0)),
	}
	return strings.Join(lines, "\n")
}
