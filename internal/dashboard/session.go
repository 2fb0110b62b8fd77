// Package dashboard assembles the views shown by the BMI report from one
// loaded dataset.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/bmireport/internal/analysis"
	"github.com/KaramelBytes/bmireport/internal/bmi"
	"github.com/KaramelBytes/bmireport/internal/dataset"
)

// Options controls which views a Session produces.
type Options struct {
	// ReferenceYear is the "current" year used to turn a birth year into an age.
	// 0 means the calendar year at construction.
	ReferenceYear int
	// DistributionYears are the years shown as category distributions.
	DistributionYears []int
	// SampleRows is the number of leading dataset rows included in a Dashboard.
	SampleRows int
}

// DefaultOptions returns the settings of the published report.
func DefaultOptions() Options {
	return Options{
		ReferenceYear:     time.Now().Year(),
		DistributionYears: []int{1975, 2016},
		SampleRows:        5,
	}
}

// Session owns the loaded dataset for the life of the process. Create it once
// and share it; every method computes fresh views from the immutable data and
// is safe for concurrent use.
type Session struct {
	ds     *dataset.Dataset
	opts   Options
	limits bmi.Limits
	logger *zap.Logger
	now    func() time.Time
}

// Open loads the dataset at path and wraps it in a Session.
func Open(path string, opts Options, logger *zap.Logger) (*Session, error) {
	start := time.Now()
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	s := New(ds, opts, logger)
	s.logger.Info("dataset loaded",
		zap.String("source", ds.Name()),
		zap.Int("rows", ds.Len()),
		zap.Int("countries", len(ds.Countries())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return s, nil
}

// New wraps an already loaded dataset. Zero-valued options take their defaults.
func New(ds *dataset.Dataset, opts Options, logger *zap.Logger) *Session {
	def := DefaultOptions()
	if opts.ReferenceYear == 0 {
		opts.ReferenceYear = def.ReferenceYear
	}
	if len(opts.DistributionYears) == 0 {
		opts.DistributionYears = def.DistributionYears
	}
	if opts.SampleRows <= 0 {
		opts.SampleRows = def.SampleRows
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		ds:     ds,
		opts:   opts,
		limits: bmi.DefaultLimits(opts.ReferenceYear),
		logger: logger,
		now:    time.Now,
	}
}

// Dataset returns the loaded table.
func (s *Session) Dataset() *dataset.Dataset { return s.ds }

// Options returns the effective options.
func (s *Session) Options() Options { return s.opts }

// Limits returns the calculator input bounds.
func (s *Session) Limits() bmi.Limits { return s.limits }

// Trends holds the yearly mean-BMI views.
type Trends struct {
	Global     []analysis.Row `json:"global"`
	ByRegion   []analysis.Row `json:"by_region"`
	ByAgeGroup []analysis.Row `json:"by_age_group"`
	BySex      []analysis.Row `json:"by_sex"`
}

// Trends computes the four trend views in parallel.
func (s *Session) Trends(ctx context.Context) (*Trends, error) {
	recs := s.ds.Records()
	out := &Trends{}
	views := []struct {
		name string
		keys []analysis.Field
		dst  *[]analysis.Row
	}{
		{"global", []analysis.Field{analysis.FieldYear}, &out.Global},
		{"region", []analysis.Field{analysis.FieldYear, analysis.FieldRegion}, &out.ByRegion},
		{"age_group", []analysis.Field{analysis.FieldYear, analysis.FieldAgeGroup}, &out.ByAgeGroup},
		{"sex", []analysis.Field{analysis.FieldYear, analysis.FieldSex}, &out.BySex},
	}
	eg, egCtx := errgroup.WithContext(ctx)
	for _, v := range views {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			rows, err := analysis.GroupMean(recs, v.keys, analysis.MeanBMI)
			if err != nil {
				return fmt.Errorf("trend %s: %w", v.name, err)
			}
			*v.dst = rows
			s.logger.Debug("trend computed", zap.String("view", v.name), zap.Int("rows", len(rows)))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Groups computes an arbitrary grouped-mean view.
func (s *Session) Groups(ctx context.Context, keys []analysis.Field) ([]analysis.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return analysis.GroupMean(s.ds.Records(), keys, analysis.MeanBMI)
}

// Distributions computes the category distribution for each year, or for the
// configured DistributionYears when none are given.
func (s *Session) Distributions(ctx context.Context, years ...int) ([]analysis.Distribution, error) {
	if len(years) == 0 {
		years = s.opts.DistributionYears
	}
	out := make([]analysis.Distribution, 0, len(years))
	for _, y := range years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := analysis.CategoryDistribution(s.ds.Records(), y)
		if err != nil {
			return nil, err
		}
		if d.Countries == 0 {
			s.logger.Warn("no data for distribution year", zap.Int("year", y))
		}
		out = append(out, d)
	}
	return out, nil
}

// Summary computes the headline figures. It returns nil for an empty dataset.
func (s *Session) Summary(ctx context.Context) (*analysis.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum, err := analysis.Summarize(s.ds.Records())
	if errors.Is(err, analysis.ErrNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// Dashboard is every view of one report run.
type Dashboard struct {
	ID             string                  `json:"id"`
	GeneratedAt    time.Time               `json:"generated_at"`
	Source         string                  `json:"source"`
	Rows           int                     `json:"rows"`
	Sample         []dataset.Record        `json:"sample"`
	ReferenceLines []bmi.ReferenceLine     `json:"reference_lines"`
	Trends         *Trends                 `json:"trends"`
	Distributions  []analysis.Distribution `json:"distributions"`
	Summary        *analysis.Summary       `json:"summary,omitempty"`
	Personal       *Comparison             `json:"personal,omitempty"`
}

// Build computes a full Dashboard. in is optional; when set the personal
// comparison is included and invalid input fails the build.
func (s *Session) Build(ctx context.Context, in *bmi.Input) (*Dashboard, error) {
	d := &Dashboard{
		ID:             uuid.NewString(),
		GeneratedAt:    s.now(),
		Source:         s.ds.Name(),
		Rows:           s.ds.Len(),
		Sample:         s.ds.Head(s.opts.SampleRows),
		ReferenceLines: bmi.ReferenceLines(),
	}
	logger := s.logger.With(zap.String("dashboard_id", d.ID))

	var err error
	if d.Trends, err = s.Trends(ctx); err != nil {
		return nil, err
	}
	if d.Distributions, err = s.Distributions(ctx); err != nil {
		return nil, err
	}
	if d.Summary, err = s.Summary(ctx); err != nil {
		return nil, err
	}
	if in != nil {
		if d.Personal, err = s.Personal(ctx, *in); err != nil {
			return nil, err
		}
	}
	logger.Info("dashboard built",
		zap.Int("distributions", len(d.Distributions)),
		zap.Bool("personal", d.Personal != nil),
	)
	return d, nil
}
