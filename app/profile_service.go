// Package app wires the parser, sampler, cache, worker-pool-backed engine
// and comparison engine together for one profiling or comparison request.
package app

import (
	"context"
	"time"

	"github.com/ptengelmann/ProfilanIQ/domain/core"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
	"github.com/ptengelmann/ProfilanIQ/internal"
	"github.com/ptengelmann/ProfilanIQ/internal/cache"
	"github.com/ptengelmann/ProfilanIQ/internal/errors"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

// Payload bounds enforced before any parsing happens.
const (
	MinCSVLength = 10
	MaxCSVBytes  = 50 * 1024 * 1024
)

// Options are the per-request knobs of a profile run.
type Options struct {
	Delimiter      string
	SkipEmptyLines bool
	EnableSampling bool
	SampleSize     int
	FullAnalysis   bool
	UseCache       bool
	AlignRows      bool
	Seed           int32
}

// DefaultOptions mirror the HTTP surface defaults.
func DefaultOptions() Options {
	return Options{
		Delimiter:      ",",
		SkipEmptyLines: true,
		EnableSampling: true,
		SampleSize:     5000,
		UseCache:       true,
		Seed:           42,
	}
}

// Result carries the report plus request-scoped metadata.
type Result struct {
	Report      *profile.Report
	FromCache   bool
	Stored      bool
	Sampling    profile.SamplingMetadata
	ParseErrors int
}

// ProfileService orchestrates one profile request end to end.
type ProfileService struct {
	parser   ports.RecordParser
	cache    ports.ReportCache
	sampler  ports.Sampler
	profiler ports.Profiler
	logger   *internal.Logger
	timeout  time.Duration
}

// NewProfileService builds the orchestrator. cache may be nil to run
// uncached; timeout <= 0 disables the request deadline.
func NewProfileService(parser ports.RecordParser, reportCache ports.ReportCache, sampler ports.Sampler, profiler ports.Profiler, logger *internal.Logger, timeout time.Duration) *ProfileService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ProfileService{
		parser:   parser,
		cache:    reportCache,
		sampler:  sampler,
		profiler: profiler,
		logger:   logger.Tagged("Profile"),
		timeout:  timeout,
	}
}

// ProfileCSV validates, fingerprints, parses, samples, profiles and caches
// in that order. The cache is consulted, before parsing, only for runs with
// default alignment, and written only for such runs on unsampled data.
func (s *ProfileService) ProfileCSV(ctx context.Context, csvText string, opts Options) (*Result, error) {
	if csvText == "" {
		return nil, errors.ValidationError("csv payload is required")
	}
	if len(csvText) < MinCSVLength {
		return nil, errors.ValidationError("csv payload is too small to profile")
	}
	if len(csvText) > MaxCSVBytes {
		return nil, errors.ValidationError("csv payload exceeds the 50 MiB limit")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()

	var fingerprint core.Fingerprint
	cacheEligible := s.cache != nil && opts.UseCache && !opts.AlignRows
	if cacheEligible {
		fingerprint = cache.ComputeFingerprint(csvText, cache.CanonicalOptions{
			Delimiter:      opts.Delimiter,
			SkipEmptyLines: opts.SkipEmptyLines,
		})
		if report, hit := s.cache.Lookup(fingerprint); hit {
			s.logger.Debug("cache hit for %s", fingerprint)
			return &Result{Report: report, FromCache: true}, nil
		}
	}

	view, parseStats, err := s.parser.Parse(csvText, ports.ParseOptions{
		Delimiter:      opts.Delimiter,
		SkipEmptyLines: opts.SkipEmptyLines,
	})
	if err != nil {
		return nil, err
	}
	if view.Len() == 0 {
		return nil, errors.ValidationError("csv contains no data rows")
	}
	parseElapsed := time.Since(start)

	sampling := profile.SamplingMetadata{
		IsSampled:    false,
		OriginalSize: view.Len(),
		SampleSize:   view.Len(),
		SamplingRate: 1,
	}
	if opts.EnableSampling && !opts.FullAnalysis && opts.SampleSize > 0 && view.Len() > opts.SampleSize {
		view, sampling = s.sampler.CreateSample(view, ports.SampleOptions{
			MaxSampleSize: opts.SampleSize,
			Stratify:      true,
			Seed:          opts.Seed,
		})
		s.logger.Info("sampled %d of %d rows (stratified=%t)",
			sampling.SampleSize, sampling.OriginalSize, sampling.Stratified)
	}

	profileStart := time.Now()
	report, err := s.profiler.Profile(ctx, view, ports.ProfileOptions{AlignRows: opts.AlignRows})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.TimeoutError("profiling exceeded the request deadline")
		}
		return nil, err
	}
	annotateTiming(report, time.Since(start), parseElapsed, time.Since(profileStart))

	result := &Result{
		Report:      report,
		Sampling:    sampling,
		ParseErrors: parseStats.RowErrors,
	}
	if cacheEligible && !sampling.IsSampled {
		result.Stored = s.cache.Store(fingerprint, report)
	}
	return result, nil
}

// annotateTiming fills the summary's processing breakdown and throughput.
func annotateTiming(report *profile.Report, total, parse, prof time.Duration) {
	report.Summary.ProcessingTime = profile.ProcessingTime{
		TotalMs:   durationMs(total),
		ParseMs:   durationMs(parse),
		ProfileMs: durationMs(prof),
	}

	seconds := total.Seconds()
	if seconds <= 0 {
		seconds = 1e-6
	}
	report.Summary.RowsPerSecond = float64(report.Summary.TotalRows) / seconds
	report.Summary.ColumnsPerSecond = float64(report.Summary.TotalColumns) / seconds
	report.Summary.Efficiency = efficiencyLabel(report.Summary.RowsPerSecond)
}

func efficiencyLabel(rowsPerSecond float64) string {
	switch {
	case rowsPerSecond >= 100000:
		return "excellent"
	case rowsPerSecond >= 25000:
		return "good"
	case rowsPerSecond >= 5000:
		return "fair"
	default:
		return "slow"
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
