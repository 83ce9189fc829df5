package report

import (
	"errors"

	"github.com/samber/lo"

	"github.com/mpapenbr/crashviz/pkg/config"
	"github.com/mpapenbr/crashviz/pkg/loader"
	"github.com/mpapenbr/crashviz/pkg/stats"
)

// fixed artifact names
const (
	AccelerationFile = "crash_acceleration.png"
	GyroscopeFile    = "crash_gyro.png"
	BatteryFile      = "crash_battery.png"
	DashboardFile    = "crash_combined.png"
	MapFile          = "crash_map.html"
)

var ErrRender = errors.New("rendering aborted")

type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type Artifact struct {
	Name   string
	Path   string
	Status Status
	Err    error
}

type Result struct {
	RunID     string
	Records   int
	Summary   *stats.Summary
	Artifacts []Artifact
}

// Complete reports whether every artifact was produced.
func (r *Result) Complete() bool {
	return len(r.Artifacts) > 0 && lo.EveryBy(r.Artifacts, func(a Artifact) bool {
		return a.Status == StatusOK
	})
}

// Artifact returns the artifact with the given name.
func (r *Result) Artifact(name string) (Artifact, bool) {
	return lo.Find(r.Artifacts, func(a Artifact) bool { return a.Name == name })
}

// Kind classifies errors returned by a run.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoData
	KindRender
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindNoData:
		return "no-data"
	case KindRender:
		return "render"
	case KindConfig:
		return "config"
	case KindUnknown:
	}
	return "unknown"
}

// KindOf maps err to its Kind.
func KindOf(err error) Kind {
	var missing *loader.ColumnMissingError
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, loader.ErrNotFound),
		errors.Is(err, loader.ErrParse),
		errors.Is(err, loader.ErrEmptyData),
		errors.Is(err, stats.ErrNoRecords),
		errors.As(err, &missing):
		return KindNoData
	case errors.Is(err, ErrRender):
		return KindRender
	case errors.Is(err, config.ErrInvalidConfig):
		return KindConfig
	}
	return KindUnknown
}
