package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel).Named("loader")
	l.Debug("hidden")
	l.Info("loaded", Int("records", 3), String("path", "crashes.csv"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "loaded", entry["msg"])
	assert.Equal(t, "loader", entry["logger"])
	assert.InDelta(t, 3, entry["records"], 0)
	assert.Equal(t, "crashes.csv", entry["path"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    Level
		wantErr bool
	}{
		{name: "debug", arg: "debug", want: DebugLevel},
		{name: "warn", arg: "warn", want: WarnLevel},
		{name: "unknown", arg: "chatty", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFilterOption(t *testing.T) {
	buf := &bytes.Buffer{}
	opt, err := FilterOption("*:chart")
	require.NoError(t, err)

	l := DevLogger(buf, DebugLevel, opt)
	l.Named("chart").Info("rendered")
	l.Named("geomap").Info("dropped")

	out := buf.String()
	assert.Contains(t, out, "rendered")
	assert.NotContains(t, out, "dropped")
}

func TestFilterOption_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	opt, err := FilterOption("")
	require.NoError(t, err)
	DevLogger(buf, InfoLevel, opt).Info("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestContext(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel)

	assert.Same(t, Default(), GetFromContext(context.Background()))
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
}

func TestResetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { ResetDefault(prev) })

	buf := &bytes.Buffer{}
	ResetDefault(New(buf, InfoLevel))
	Info("via package", String("k", "v"))
	assert.Contains(t, buf.String(), "via package")
}
