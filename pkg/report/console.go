package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mpapenbr/crashviz/pkg/loader"
)

const ruleWidth = 50

// console prints the user facing progress messages.
type console struct {
	w io.Writer
}

func (c *console) line(s string) {
	fmt.Fprintln(c.w, s)
}

func (c *console) linef(format string, args ...any) {
	fmt.Fprintf(c.w, format+"\n", args...)
}

func (c *console) banner() {
	rule := strings.Repeat("=", ruleWidth)
	c.linef("\n%s", rule)
	c.line("Smart Helmet - Crash Data Visualization")
	c.linef("%s\n", rule)
}

func (c *console) loadFailed(input string, err error) {
	switch {
	case errors.Is(err, loader.ErrNotFound):
		c.linef("❌ Error: %s not found", input)
		c.line("Please download crashes.csv from ESP32 SPIFFS first")
	case errors.Is(err, loader.ErrEmptyData):
		c.line("✅ Loaded 0 crash records")
	default:
		c.linef("❌ Error loading file: %v", err)
	}
}

func (c *console) saved(path string, interactive bool) {
	c.linef("✅ Saved: %s", path)
	if interactive {
		c.linef("   Open %s in a web browser to view interactive map", path)
	}
}

func (c *console) mapUnavailable(err error) {
	c.line("⚠️  Warning: map template unavailable")
	c.linef("   %v", err)
	c.line("   Provide a readable Leaflet page template with --map-template")
}

// final prints the outcome of every attempted artifact.
func (c *console) final(res *Result, aborted bool) {
	switch {
	case aborted:
		c.line("\n❌ Visualization aborted")
	case res.Complete():
		c.line("\n✅ All visualizations generated successfully!")
	default:
		c.line("\n⚠️  Visualizations generated with warnings")
	}
	c.line("\nGenerated files:")
	for _, a := range res.Artifacts {
		c.linef("  • %s [%s]", a.Name, a.Status)
	}
}
