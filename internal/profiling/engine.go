// Package profiling computes per-column statistics, pairwise correlations
// and derived insights over a record view. Per-column failures degrade to an
// unknown-typed column entry; the engine itself only fails when pool work
// times out or its context is cancelled.
package profiling

import (
	"context"
	"time"

	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
	"github.com/ptengelmann/ProfilanIQ/internal"
	"github.com/ptengelmann/ProfilanIQ/internal/pool"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

// Options tune the engine's pool usage. Semantics are identical with the
// pool on or off.
type Options struct {
	MaxWorkers        int
	ChunkSize         int
	ParallelThreshold int
	PoolTimeout       time.Duration
}

// Engine profiles record views.
type Engine struct {
	pool   *pool.Pool
	logger *internal.Logger
	opts   Options
}

// New creates an engine. A nil pool disables parallel dispatch.
func New(p *pool.Pool, logger *internal.Logger, opts Options) *Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if opts.ParallelThreshold <= 0 {
		opts.ParallelThreshold = 8
	}
	if opts.PoolTimeout <= 0 {
		opts.PoolTimeout = 30 * time.Second
	}
	return &Engine{pool: p, logger: logger.Tagged("Engine"), opts: opts}
}

// Profile computes the full report for a view: column stats, correlation
// partitions, insights, and the dataset summary. Timing and throughput
// fields of the summary are left for the orchestrator.
func (e *Engine) Profile(ctx context.Context, view *dataset.Table, opts ports.ProfileOptions) (*profile.Report, error) {
	columns := view.Columns()

	columnStats, err := e.profileAllColumns(ctx, view, columns)
	if err != nil {
		return nil, err
	}

	correlations, err := e.calculateCorrelations(ctx, view, columns, columnStats, opts.AlignRows)
	if err != nil {
		return nil, err
	}

	insights := DeriveInsights(columns, columnStats, correlations)

	summary := profile.Summary{
		TotalRows:    view.Len(),
		TotalColumns: len(columns),
	}
	for _, column := range columns {
		stats := columnStats[column]
		switch stats.Type {
		case profile.TypeNumeric:
			summary.NumericColumns++
		case profile.TypeCategorical:
			summary.CategoricalColumns++
		}
		summary.TotalMissingValues += stats.MissingCount
	}

	return &profile.Report{
		Summary:      summary,
		Columns:      columnStats,
		Correlations: correlations,
		Insights:     insights,
	}, nil
}

// profileAllColumns runs per-column profiling, through the pool when the
// column count crosses the threshold.
func (e *Engine) profileAllColumns(ctx context.Context, view *dataset.Table, columns []string) (map[string]*profile.ColumnStats, error) {
	if e.pool == nil || len(columns) <= e.opts.ParallelThreshold {
		out := make(map[string]*profile.ColumnStats, len(columns))
		for _, column := range columns {
			out[column] = e.ProfileColumn(view, column)
		}
		return out, nil
	}

	e.logger.Debug("profiling %d columns in parallel", len(columns))
	result, err := e.pool.ProcessInParallel(ctx, len(columns),
		func(ctx context.Context, start, end int) (interface{}, error) {
			partial := make(map[string]*profile.ColumnStats, end-start)
			for i := start; i < end; i++ {
				partial[columns[i]] = e.ProfileColumn(view, columns[i])
			}
			return partial, nil
		},
		pool.Options{
			MaxWorkers: e.opts.MaxWorkers,
			ChunkSize:  e.opts.ChunkSize,
			Timeout:    e.opts.PoolTimeout,
			TaskName:   pool.TaskProfileColumns,
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(map[string]*profile.ColumnStats), nil
}
