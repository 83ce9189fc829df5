// Package report runs the crash visualization pipeline.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/crashviz/log"
	"github.com/mpapenbr/crashviz/pkg/charts"
	"github.com/mpapenbr/crashviz/pkg/config"
	"github.com/mpapenbr/crashviz/pkg/export"
	"github.com/mpapenbr/crashviz/pkg/geomap"
	"github.com/mpapenbr/crashviz/pkg/loader"
	"github.com/mpapenbr/crashviz/pkg/model"
	"github.com/mpapenbr/crashviz/pkg/stats"
	"github.com/mpapenbr/crashviz/version"
)

const instrumentationName = "github.com/mpapenbr/crashviz/pkg/report"

type (
	Option   func(*Pipeline)
	Pipeline struct {
		cfg        *config.Config
		out        *console
		chartOpts  []charts.Option
		now        func() time.Time
		tracer     trace.Tracer
		artifacts  metric.Int64Counter
		renderTime metric.Float64Histogram
	}
	// step renders one artifact to path
	step struct {
		name   string
		render func(ctx context.Context, path string) error
	}
)

// WithOutput sets the destination of the user facing messages.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		p.out = &console{w: w}
	}
}

// WithChartOptions passes opts to the chart renderer.
func WithChartOptions(opts ...charts.Option) Option {
	return func(p *Pipeline) {
		p.chartOpts = append(p.chartOpts, opts...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func New(cfg *config.Config, opts ...Option) *Pipeline {
	ret := &Pipeline{
		cfg:    cfg,
		out:    &console{w: os.Stdout},
		now:    time.Now,
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(ret)
	}
	meter := otel.Meter(instrumentationName)
	var err error
	if ret.artifacts, err = meter.Int64Counter("crashviz.artifacts",
		metric.WithDescription("Number of processed artifacts by status"),
	); err != nil {
		log.Warn("could not create artifact counter", log.ErrorField(err))
		ret.artifacts = noop.Int64Counter{}
	}
	if ret.renderTime, err = meter.Float64Histogram("crashviz.render.duration",
		metric.WithDescription("Time spent rendering one artifact"),
		metric.WithUnit("ms"),
	); err != nil {
		log.Warn("could not create render histogram", log.ErrorField(err))
		ret.renderTime = noop.Float64Histogram{}
	}
	return ret
}

// Run loads the input, prints the summary and renders all artifacts.
// Load failures end the run before any file is written. A failing chart
// aborts the run, files written before stay in place. An unavailable map
// template only skips the map.
//
//nolint:funlen // sequential pipeline
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "report.Run")
	defer span.End()

	l := log.GetFromContext(ctx).Named("report")
	res := &Result{RunID: uuid.NewString()}
	span.SetAttributes(attribute.String("run.id", res.RunID))
	l.Debug("starting run", log.String("runId", res.RunID), log.String("input", p.cfg.Input))

	p.out.banner()
	records, err := p.load(ctx)
	if err != nil {
		p.out.loadFailed(p.cfg.Input, err)
		p.out.line("❌ No data to visualize")
		return res, p.failed(span, err)
	}
	res.Records = len(records)
	p.out.linef("✅ Loaded %d crash records", len(records))

	summary, err := stats.Compute(records)
	if err != nil {
		p.out.line("❌ No data to visualize")
		return res, p.failed(span, err)
	}
	res.Summary = summary
	if err := summary.WriteConsole(p.out.w); err != nil {
		l.Warn("could not print summary", log.ErrorField(err))
	}

	//nolint:gosec // report directory is meant to be world readable
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return res, p.failed(span, fmt.Errorf("%w: output directory: %w", ErrRender, err))
	}

	p.out.line("Generating visualizations...\n")
	for _, s := range p.steps(ctx, records, summary) {
		art, err := p.runStep(ctx, s)
		res.Artifacts = append(res.Artifacts, art)
		if err != nil {
			p.out.linef("❌ Could not create %s: %v", art.Name, err)
			p.out.final(res, true)
			return res, p.failed(span, fmt.Errorf("%w: %s: %w", ErrRender, art.Name, err))
		}
	}

	p.exports(ctx, res, records)
	p.out.final(res, false)
	l.Info("run finished",
		log.String("runId", res.RunID),
		log.Int("records", res.Records),
		log.Bool("complete", res.Complete()))
	return res, nil
}

func (p *Pipeline) load(ctx context.Context) ([]model.CrashRecord, error) {
	ctx, span := p.tracer.Start(ctx, "report.load")
	defer span.End()
	records, err := loader.Load(ctx, p.cfg.Input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

func (p *Pipeline) steps(
	ctx context.Context,
	records []model.CrashRecord,
	summary *stats.Summary,
) []step {
	base := log.GetFromContext(ctx)
	renderer := charts.NewRenderer(
		append([]charts.Option{charts.WithLogger(base.Named("chart"))}, p.chartOpts...)...)
	mapOpts := []geomap.Option{
		geomap.WithTemplateFile(p.cfg.MapTemplate),
		geomap.WithLogger(base.Named("geomap")),
	}
	return []step{
		{AccelerationFile, func(_ context.Context, path string) error {
			return renderer.Acceleration(records, path)
		}},
		{GyroscopeFile, func(_ context.Context, path string) error {
			return renderer.Gyroscope(records, path)
		}},
		{BatteryFile, func(_ context.Context, path string) error {
			return renderer.Battery(records, path)
		}},
		{DashboardFile, func(_ context.Context, path string) error {
			return renderer.Dashboard(records, summary, path)
		}},
		{MapFile, func(_ context.Context, path string) error {
			return geomap.Render(records, path, mapOpts...)
		}},
	}
}

// runStep renders one artifact. The returned error is only set for failures
// that abort the run.
func (p *Pipeline) runStep(ctx context.Context, s step) (Artifact, error) {
	ctx, span := p.tracer.Start(ctx, "report.render",
		trace.WithAttributes(attribute.String("artifact", s.name)))
	defer span.End()

	art := Artifact{Name: s.name, Path: p.cfg.OutputPath(s.name), Status: StatusOK}
	start := p.now()
	err := s.render(ctx, art.Path)
	p.renderTime.Record(ctx, float64(p.now().Sub(start).Microseconds())/1000,
		metric.WithAttributes(attribute.String("artifact", s.name)))

	switch {
	case err == nil:
		p.out.saved(art.Path, s.name == MapFile)
	case errors.Is(err, geomap.ErrCapabilityUnavailable):
		art.Status, art.Err = StatusSkipped, err
		p.out.mapUnavailable(err)
		log.GetFromContext(ctx).Named("report").Warn("map skipped", log.ErrorField(err))
		err = nil
	default:
		art.Status, art.Err = StatusFailed, err
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
	}
	p.count(ctx, art)
	return art, err
}

// exports writes the optional workbook and manifest. Failures are reported
// as failed artifacts but never abort the run.
func (p *Pipeline) exports(ctx context.Context, res *Result, records []model.CrashRecord) {
	l := log.GetFromContext(ctx).Named("export")
	if p.cfg.Workbook != "" {
		art := Artifact{Name: filepath.Base(p.cfg.Workbook), Path: p.cfg.Workbook, Status: StatusOK}
		if err := export.WriteWorkbook(p.cfg.Workbook, records, res.Summary); err != nil {
			art.Status, art.Err = StatusFailed, err
			l.Warn("workbook export failed", log.ErrorField(err))
			p.out.linef("⚠️  Could not write %s: %v", art.Path, err)
		} else {
			p.out.saved(art.Path, false)
		}
		p.count(ctx, art)
		res.Artifacts = append(res.Artifacts, art)
	}
	if p.cfg.Manifest != "" {
		art := Artifact{Name: filepath.Base(p.cfg.Manifest), Path: p.cfg.Manifest, Status: StatusOK}
		if err := export.WriteManifest(p.cfg.Manifest, p.manifest(res)); err != nil {
			art.Status, art.Err = StatusFailed, err
			l.Warn("manifest export failed", log.ErrorField(err))
			p.out.linef("⚠️  Could not write %s: %v", art.Path, err)
		} else {
			p.out.saved(art.Path, false)
		}
		p.count(ctx, art)
		res.Artifacts = append(res.Artifacts, art)
	}
}

func (p *Pipeline) manifest(res *Result) *export.Manifest {
	generator := "crashviz"
	if v := version.Canonical(); v != "" {
		generator += " " + v
	}
	m := &export.Manifest{
		RunID:       res.RunID,
		Generator:   generator,
		Input:       p.cfg.Input,
		GeneratedAt: p.now().UTC(),
		Records:     res.Records,
		Summary:     res.Summary,
	}
	for _, a := range res.Artifacts {
		entry := export.ArtifactEntry{Name: a.Name, Path: a.Path, Status: string(a.Status)}
		if a.Err != nil {
			entry.Error = a.Err.Error()
		}
		m.Artifacts = append(m.Artifacts, entry)
	}
	return m
}

func (p *Pipeline) count(ctx context.Context, a Artifact) {
	p.artifacts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("artifact", a.Name),
		attribute.String("status", string(a.Status))))
}

func (p *Pipeline) failed(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, KindOf(err).String())
	return err
}
