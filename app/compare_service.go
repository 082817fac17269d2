package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	domaincompare "github.com/ptengelmann/ProfilanIQ/domain/compare"
	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
	"github.com/ptengelmann/ProfilanIQ/internal"
	comparator "github.com/ptengelmann/ProfilanIQ/internal/compare"
	"github.com/ptengelmann/ProfilanIQ/internal/errors"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

// CompareResult bundles the diff with the two underlying profiles.
type CompareResult struct {
	Comparison *domaincompare.Report
	Profile1   *profile.Report
	Profile2   *profile.Report
	ElapsedMs  float64
}

// CompareService profiles two already-parsed datasets in parallel and diffs
// the results.
type CompareService struct {
	sampler  ports.Sampler
	profiler ports.Profiler
	engine   *comparator.Engine
	logger   *internal.Logger
	timeout  time.Duration
}

// NewCompareService builds the comparison orchestrator.
func NewCompareService(sampler ports.Sampler, profiler ports.Profiler, logger *internal.Logger, timeout time.Duration) *CompareService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CompareService{
		sampler:  sampler,
		profiler: profiler,
		engine:   comparator.New(),
		logger:   logger.Tagged("Compare"),
		timeout:  timeout,
	}
}

// CompareRecords runs the profile pipeline over each record array — the two
// sub-requests are independent and run in parallel — then diffs the reports.
func (s *CompareService) CompareRecords(ctx context.Context, records1, records2 []map[string]interface{}, opts Options) (*CompareResult, error) {
	if len(records1) == 0 || len(records2) == 0 {
		return nil, errors.ValidationError("both datasets must contain at least one record")
	}

	view1, err := dataset.FromRecords(records1)
	if err != nil {
		return nil, errors.ValidationError("dataset1: " + err.Error())
	}
	view2, err := dataset.FromRecords(records2)
	if err != nil {
		return nil, errors.ValidationError("dataset2: " + err.Error())
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	var report1, report2 *profile.Report

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		report1, err = s.profileView(groupCtx, view1, opts)
		return err
	})
	group.Go(func() error {
		var err error
		report2, err = s.profileView(groupCtx, view2, opts)
		return err
	})
	if err := group.Wait(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.TimeoutError("comparison exceeded the request deadline")
		}
		return nil, err
	}

	comparison := s.engine.Compare(report1, report2)
	return &CompareResult{
		Comparison: comparison,
		Profile1:   report1,
		Profile2:   report2,
		ElapsedMs:  durationMs(time.Since(start)),
	}, nil
}

// profileView applies the sampling rule and runs the engine over one side.
func (s *CompareService) profileView(ctx context.Context, view *dataset.Table, opts Options) (*profile.Report, error) {
	if opts.EnableSampling && !opts.FullAnalysis && opts.SampleSize > 0 && view.Len() > opts.SampleSize {
		view, _ = s.sampler.CreateSample(view, ports.SampleOptions{
			MaxSampleSize: opts.SampleSize,
			Stratify:      true,
			Seed:          opts.Seed,
		})
	}
	return s.profiler.Profile(ctx, view, ports.ProfileOptions{AlignRows: opts.AlignRows})
}
