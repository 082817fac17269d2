package profiling

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
	"github.com/ptengelmann/ProfilanIQ/internal/pool"
)

// minPairedObservations is the floor below which a pair is discarded.
const minPairedObservations = 3

type columnPair struct {
	a, b int
}

// calculateCorrelations computes the Pearson coefficient for every pair of
// numeric columns and publishes the strength partitions. The default mode
// prefix-aligns each column's null-filtered numeric sequence to the shorter
// length; alignRows pairs only rows where both cells are numeric.
func (e *Engine) calculateCorrelations(ctx context.Context, view *dataset.Table, columns []string, columnStats map[string]*profile.ColumnStats, alignRows bool) (*profile.Correlations, error) {
	numericColumns := make([]string, 0, len(columns))
	for _, column := range columns {
		if columnStats[column] != nil && columnStats[column].Type == profile.TypeNumeric {
			numericColumns = append(numericColumns, column)
		}
	}

	series := make([][]float64, len(numericColumns))
	for i, column := range numericColumns {
		series[i] = numericSeries(view.Column(column))
	}

	pairs := make([]columnPair, 0, len(numericColumns)*(len(numericColumns)-1)/2)
	for i := 0; i < len(numericColumns); i++ {
		for j := i + 1; j < len(numericColumns); j++ {
			pairs = append(pairs, columnPair{a: i, b: j})
		}
	}

	compute := func(p columnPair) (profile.CorrelationPair, bool) {
		x, y := series[p.a], series[p.b]
		if alignRows {
			x, y = alignedSeries(view, numericColumns[p.a], numericColumns[p.b])
		} else {
			m := len(x)
			if len(y) < m {
				m = len(y)
			}
			x, y = x[:m], y[:m]
		}
		if len(x) < minPairedObservations {
			return profile.CorrelationPair{}, false
		}
		r := stat.Correlation(x, y, nil)
		if math.IsNaN(r) {
			return profile.CorrelationPair{}, false
		}
		return profile.CorrelationPair{
			ColumnA:     numericColumns[p.a],
			ColumnB:     numericColumns[p.b],
			Correlation: r,
			Strength:    math.Abs(r),
			SampleSize:  len(x),
		}, true
	}

	if e.pool == nil || len(pairs) <= e.opts.ParallelThreshold {
		all := make([]profile.CorrelationPair, 0, len(pairs))
		for _, p := range pairs {
			if pair, ok := compute(p); ok {
				all = append(all, pair)
			}
		}
		return profile.PartitionCorrelations(all), nil
	}

	e.logger.Debug("computing %d correlation pairs in parallel", len(pairs))
	result, err := e.pool.ProcessInParallel(ctx, len(pairs),
		func(ctx context.Context, start, end int) (interface{}, error) {
			partial := make([]profile.CorrelationPair, 0, end-start)
			for i := start; i < end; i++ {
				if pair, ok := compute(pairs[i]); ok {
					partial = append(partial, pair)
				}
			}
			return partial, nil
		},
		pool.Options{
			MaxWorkers: e.opts.MaxWorkers,
			ChunkSize:  e.opts.ChunkSize,
			Timeout:    e.opts.PoolTimeout,
			TaskName:   pool.TaskCalculateCorrelations,
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*profile.Correlations), nil
}

// numericSeries extracts a column's numeric cells in row order.
func numericSeries(cells []dataset.Cell) []float64 {
	out := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if cell.IsNumber() {
			out = append(out, cell.Num)
		}
	}
	return out
}

// alignedSeries pairs the two columns row-wise, keeping rows where both
// cells are numeric.
func alignedSeries(view *dataset.Table, colA, colB string) ([]float64, []float64) {
	a := view.Column(colA)
	b := view.Column(colB)
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(a))
	for i := range a {
		if a[i].IsNumber() && b[i].IsNumber() {
			x = append(x, a[i].Num)
			y = append(y, b[i].Num)
		}
	}
	return x, y
}
