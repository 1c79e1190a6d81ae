package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/land-temperature-etl/internal/domain"
	"github.com/couchcryptid/land-temperature-etl/internal/observability"
	"github.com/google/uuid"
)

// Source loads the raw monthly observations of one run.
type Source interface {
	Load(ctx context.Context) ([]domain.Observation, error)
}

// Sink receives the finished report of a run.
type Sink interface {
	Name() string
	Publish(ctx context.Context, report *domain.Report) error
}

// Options tune what a run derives beyond the full aggregate tables.
type Options struct {
	TopN       int
	Selections []domain.Selection
}

// varianceDimensions are the dimensions ranked by temperature spread.
var varianceDimensions = []domain.Dimension{domain.DimensionCity, domain.DimensionCountry}

// Pipeline runs the load, clean, aggregate, analyze, publish sequence.
type Pipeline struct {
	source  Source
	sinks   []Sink
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
	ready   atomic.Bool
	last    atomic.Pointer[domain.Report]
}

// New creates a Pipeline with the given source, sinks, and observability.
func New(source Source, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.TopN <= 0 {
		opts.TopN = domain.DefaultTopN
	}
	return &Pipeline{
		source:  source,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// LastReport returns the report of the most recent successful run, or nil.
func (p *Pipeline) LastReport() *domain.Report {
	return p.last.Load()
}

// Run executes one complete pass over the source. Any stage error aborts the
// run; sinks that already published are not rolled back.
func (p *Pipeline) Run(ctx context.Context) (*domain.Report, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	logger.Info("pipeline started", "top_n", p.opts.TopN, "selections", len(p.opts.Selections))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	start := time.Now()

	stageStart := time.Now()
	rows, err := p.source.Load(ctx)
	p.observe("load", stageStart)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("load: %w", domain.ErrEmptyDataset)
	}
	p.metrics.RowsLoaded.Add(float64(len(rows)))

	report := domain.NewReport(runID, p.opts.TopN)
	report.Summary = domain.Summarize(rows)

	stageStart = time.Now()
	domain.SortObservations(rows)
	report.Fill = domain.ForwardFill(rows)
	p.observe("clean", stageStart)
	p.recordFill(report.Fill)
	logger.Info("observations cleaned",
		"rows", len(rows),
		"temperature_imputed", report.Fill.TemperatureImputed,
		"temperature_unresolved", report.Fill.TemperatureUnresolved,
	)

	stageStart = time.Now()
	report.Annual = domain.AggregateAnnual(rows)
	p.observe("annual", stageStart)
	logger.Info("annual means computed", "rows", len(report.Annual))

	for _, d := range domain.Dimensions {
		if err := p.aggregate(logger, report, d); err != nil {
			return nil, err
		}
	}

	stageStart = time.Now()
	for _, d := range varianceDimensions {
		v := domain.AnalyzeVariability(report.Regions[d])
		report.Variability[d] = v
		report.Rankings[d] = v.Rank(report.TopN)
	}
	for _, sel := range p.opts.Selections {
		report.Selections = append(report.Selections, domain.Select(sel.Dimension, report.Regions[sel.Dimension], sel.Names)...)
	}
	p.observe("analyze", stageStart)
	logger.Info("variability analyzed",
		"cities", len(report.Variability[domain.DimensionCity].Deltas),
		"countries", len(report.Variability[domain.DimensionCountry].Deltas),
		"selected_series", len(report.Selections),
	)

	stageStart = time.Now()
	err = p.publish(ctx, report)
	p.observe("publish", stageStart)
	if err != nil {
		return nil, err
	}

	p.last.Store(report)
	p.ready.Store(true)
	p.metrics.LastSuccess.SetToCurrentTime()
	logger.Info("pipeline finished",
		"annual_rows", len(report.Annual),
		"sinks", len(p.sinks),
		"duration", time.Since(start),
	)
	return report, nil
}

func (p *Pipeline) aggregate(logger *slog.Logger, report *domain.Report, d domain.Dimension) error {
	project, err := domain.ProjectionFor(d)
	if err != nil {
		return err
	}
	start := time.Now()
	rows, err := domain.AggregateRegions(report.Annual, project)
	p.observe("aggregate_"+string(d), start)
	if err != nil {
		return fmt.Errorf("aggregate by %s: %w", d, err)
	}
	report.Regions[d] = rows
	p.metrics.GroupsProduced.WithLabelValues(string(d)).Add(float64(len(rows)))
	logger.Info("regions aggregated", "dimension", d, "groups", len(rows))
	return nil
}

// publish hands the report to each sink in order, stopping at the first failure.
func (p *Pipeline) publish(ctx context.Context, report *domain.Report) error {
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, report); err != nil {
			p.metrics.SinkPublishes.WithLabelValues(sink.Name(), "error").Inc()
			p.logger.Error("publish failed", "sink", sink.Name(), "run_id", report.RunID, "error", err)
			return fmt.Errorf("publish to %s: %w", sink.Name(), err)
		}
		p.metrics.SinkPublishes.WithLabelValues(sink.Name(), "success").Inc()
	}
	return nil
}

func (p *Pipeline) recordFill(s domain.FillStats) {
	p.metrics.ValuesImputed.WithLabelValues("temperature").Add(float64(s.TemperatureImputed))
	p.metrics.ValuesImputed.WithLabelValues("uncertainty").Add(float64(s.UncertaintyImputed))
	p.metrics.ValuesUnresolved.WithLabelValues("temperature").Add(float64(s.TemperatureUnresolved))
	p.metrics.ValuesUnresolved.WithLabelValues("uncertainty").Add(float64(s.UncertaintyUnresolved))
}

func (p *Pipeline) observe(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
