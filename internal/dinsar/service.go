package dinsar

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/observability"
)

// ErrNoValidRows is returned when no source produced a single usable row.
var ErrNoValidRows = errors.New("no valid rows in any source")

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	TopEvents int
	Clock     clockwork.Clock
}

// Service runs the load pipeline on every request and builds the dashboard views.
// Only load reports outlive a request; they are kept in the report store.
type Service struct {
	store         ReportStore
	displacement  []Source
	precipitation Source
	logger        *slog.Logger
	metrics       *observability.Metrics
	topEvents     int
	clock         clockwork.Clock
}

// NewService creates a Service reading the given sources. precipitation may be nil.
func NewService(store ReportStore, displacement []Source, precipitation Source, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	if opts.TopEvents <= 0 {
		opts.TopEvents = DefaultTopEvents
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Service{
		store:         store,
		displacement:  displacement,
		precipitation: precipitation,
		logger:        logger,
		metrics:       metrics,
		topEvents:     opts.TopEvents,
		clock:         opts.Clock,
	}
}

// Load reads every source concurrently, reshapes the displacement tables into
// long format and drops sensors that are empty across all runs. Source
// failures are recorded in the report and do not abort the load. When no
// source yields a row, Load returns the data with its report and ErrNoValidRows.
func (s *Service) Load(ctx context.Context) (*Data, error) {
	started := s.clock.Now()
	report := LoadReport{ID: uuid.NewString(), StartedAt: started.UTC()}

	var (
		wg         sync.WaitGroup
		tables     = make([]WideTable, len(s.displacement))
		reports    = make([]SourceReport, len(s.displacement))
		rain       []PrecipitationReading
		rainReport SourceReport
	)

	for i, src := range s.displacement {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			tables[i], reports[i] = s.readDisplacement(ctx, src)
		}(i, src)
	}
	if s.precipitation != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rain, rainReport = s.readPrecipitation(ctx, s.precipitation)
		}()
	}
	wg.Wait()

	var rows []DisplacementReading
	for _, t := range tables {
		rows = append(rows, Melt(t)...)
	}
	rows, report.DroppedSensors = DropEmptySensors(rows)

	report.Sources = reports
	if s.precipitation != nil {
		report.Sources = append(report.Sources, rainReport)
	}
	report.DisplacementRows = len(rows)
	report.PrecipitationRows = len(rain)
	report.Duration = s.clock.Since(started)

	data := &Data{Displacement: rows, Precipitation: rain}
	var err error
	if len(rows) == 0 && len(rain) == 0 {
		err = ErrNoValidRows
		report.Error = err.Error()
	}
	data.Report = report

	s.observe(report)
	if s.store != nil {
		s.store.SaveReport(report)
	}

	if err != nil {
		s.logger.Error("load produced no valid rows", "load_id", report.ID, "sources", len(report.Sources))
		return data, err
	}
	s.logger.Debug("load completed",
		"load_id", report.ID,
		"displacement_rows", report.DisplacementRows,
		"precipitation_rows", report.PrecipitationRows,
		"rejected", report.Rejected(),
		"duration", report.Duration,
	)
	return data, nil
}

func (s *Service) readDisplacement(ctx context.Context, src Source) (WideTable, SourceReport) {
	rc, err := src.Open(ctx)
	if err != nil {
		s.logger.Warn("displacement source unavailable", "source", src.Name(), "error", err)
		return WideTable{Source: src.Name()}, SourceReport{Source: src.Name(), Dataset: DatasetDisplacement, Error: err.Error()}
	}
	defer rc.Close()

	wide, report, err := ReadDisplacement(src.Name(), rc)
	if err != nil {
		s.logger.Warn("displacement source rejected", "source", src.Name(), "error", err)
	}
	return wide, report
}

func (s *Service) readPrecipitation(ctx context.Context, src Source) ([]PrecipitationReading, SourceReport) {
	rc, err := src.Open(ctx)
	if err != nil {
		s.logger.Warn("precipitation source unavailable", "source", src.Name(), "error", err)
		return nil, SourceReport{Source: src.Name(), Dataset: DatasetPrecipitation, Error: err.Error()}
	}
	defer rc.Close()

	readings, report, err := ReadPrecipitation(src.Name(), rc)
	if err != nil {
		s.logger.Warn("precipitation source rejected", "source", src.Name(), "error", err)
	}
	return readings, report
}

func (s *Service) observe(report LoadReport) {
	for _, src := range report.Sources {
		dataset := string(src.Dataset)
		s.metrics.RowsLoaded.WithLabelValues(dataset).Add(float64(src.RowsAccepted))
		s.metrics.RowsRejected.WithLabelValues(dataset).Add(float64(len(src.Rejected)))
		s.metrics.MissingValues.WithLabelValues(dataset).Add(float64(src.MissingValues))
		if src.Error != "" {
			s.metrics.SourceErrors.WithLabelValues(dataset).Inc()
		}
	}
	s.metrics.LoadDuration.Observe(report.Duration.Seconds())
	s.metrics.LastLoadRows.Set(float64(report.DisplacementRows + report.PrecipitationRows))
}

func (s *Service) served(view string, empty bool) {
	s.metrics.ViewsServed.WithLabelValues(view).Inc()
	if empty {
		s.metrics.EmptyViews.WithLabelValues(view).Inc()
	}
}

// Catalog loads the sources and lists the runs with their sensors.
func (s *Service) Catalog(ctx context.Context) ([]RunCatalog, LoadReport, error) {
	data, err := s.Load(ctx)
	if err != nil {
		return nil, data.Report, err
	}
	return Catalog(data.Displacement), data.Report, nil
}

// Displacement loads the sources and builds the displacement view for sel.
func (s *Service) Displacement(ctx context.Context, sel Selection) (DisplacementView, error) {
	data, err := s.Load(ctx)
	if err != nil {
		return DisplacementView{Report: data.Report}, err
	}
	view := BuildDisplacementView(data, sel, s.topEvents)
	s.served("displacement", view.Empty())
	return view, nil
}

// Precipitation loads the sources and builds the rainfall view. A nil run
// selects every run.
func (s *Service) Precipitation(ctx context.Context, run *int) (PrecipitationView, error) {
	data, err := s.Load(ctx)
	if err != nil {
		return PrecipitationView{Report: data.Report}, err
	}
	view := BuildPrecipitationView(data, run)
	s.served("precipitation", view.Empty())
	return view, nil
}

// Combined loads the sources and builds the displacement and rainfall overlay for sel.
func (s *Service) Combined(ctx context.Context, sel Selection) (CombinedView, error) {
	data, err := s.Load(ctx)
	if err != nil {
		return CombinedView{Report: data.Report}, err
	}
	view := BuildCombinedView(data, sel)
	s.served("combined", view.Empty())
	return view, nil
}

// Audit performs a load only to record its report. It is run periodically so
// the load history reflects the state of the sources between page views.
func (s *Service) Audit(ctx context.Context) (LoadReport, error) {
	data, err := s.Load(ctx)
	if warnings := data.Report.Warnings(); len(warnings) > 0 {
		s.logger.Warn("source audit found data-quality issues", "load_id", data.Report.ID, "warnings", len(warnings))
	}
	return data.Report, err
}

// LatestReport returns the most recent load report.
func (s *Service) LatestReport() (LoadReport, error) {
	return s.store.GetLatest()
}

// Reports returns the load reports started between from and to (inclusive).
func (s *Service) Reports(from, to time.Time) ([]LoadReport, error) {
	return s.store.GetRange(from, to)
}
