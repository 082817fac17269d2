// Package sampling reduces oversized record views to a representative
// subset before profiling. Reduction is deterministic for a given seed, and
// can stratify on an auto-chosen low-cardinality column so the sample keeps
// the original category mix.
package sampling

import (
	"sort"

	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
	"github.com/ptengelmann/ProfilanIQ/internal/rng"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

// Candidate-column screening bounds.
const (
	screenRows       = 100
	minStrataUnique  = 2
	maxStrataUnique  = 20
	maxStrataNull    = 0.2
	targetUniqueRate = 0.2
)

// Sampler draws reduced views from full tables.
type Sampler struct{}

// New creates a sampler.
func New() *Sampler {
	return &Sampler{}
}

// CreateSample returns a reduced view with sampling metadata. A view already
// within bounds is returned unchanged; an empty view yields an empty sample
// with rate 0.
func (s *Sampler) CreateSample(view *dataset.Table, opts ports.SampleOptions) (*dataset.Table, profile.SamplingMetadata) {
	n := view.Len()
	if n == 0 {
		return view, profile.SamplingMetadata{
			IsSampled:    false,
			OriginalSize: 0,
			SampleSize:   0,
			SamplingRate: 0,
		}
	}
	if opts.MaxSampleSize <= 0 || n <= opts.MaxSampleSize {
		return view, profile.SamplingMetadata{
			IsSampled:             false,
			OriginalSize:          n,
			SampleSize:            n,
			SamplingRate:          1,
			PreservedDistribution: true,
		}
	}

	rate := float64(opts.MaxSampleSize) / float64(n)
	gen := rng.New(opts.Seed)

	if opts.Stratify {
		if column, ok := s.chooseStratificationColumn(view); ok {
			sampled := s.stratifiedSample(view, column, rate, gen)
			return sampled, profile.SamplingMetadata{
				IsSampled:             true,
				OriginalSize:          n,
				SampleSize:            sampled.Len(),
				SamplingRate:          rate,
				Stratified:            true,
				PreservedDistribution: true,
			}
		}
	}

	sampled := s.bernoulliSample(view, rate, gen)
	return sampled, profile.SamplingMetadata{
		IsSampled:    true,
		OriginalSize: n,
		SampleSize:   sampled.Len(),
		SamplingRate: rate,
	}
}

// chooseStratificationColumn screens the first 100 rows for a column with
// unique count in [2, 20] and null ratio under 0.2, preferring the one whose
// unique/non-null ratio sits closest to 0.2.
func (s *Sampler) chooseStratificationColumn(view *dataset.Table) (string, bool) {
	limit := view.Len()
	if limit > screenRows {
		limit = screenRows
	}

	best := ""
	bestDistance := -1.0
	for _, column := range view.Columns() {
		uniques := make(map[string]bool)
		nulls := 0
		for row := 0; row < limit; row++ {
			cell := view.Cell(row, column)
			if cell.IsNull() {
				nulls++
				continue
			}
			uniques[cell.Text()] = true
		}
		nonNull := limit - nulls
		if nonNull == 0 {
			continue
		}
		if float64(nulls)/float64(limit) >= maxStrataNull {
			continue
		}
		unique := len(uniques)
		if unique < minStrataUnique || unique > maxStrataUnique {
			continue
		}
		distance := float64(unique)/float64(nonNull) - targetUniqueRate
		if distance < 0 {
			distance = -distance
		}
		if bestDistance < 0 || distance < bestDistance {
			best = column
			bestDistance = distance
		}
	}
	return best, best != ""
}

// stratifiedSample partitions rows by the column's text value (null rows
// group under the "null" sentinel) and draws each partition independently at
// the global rate, always keeping at least one row per non-empty partition.
func (s *Sampler) stratifiedSample(view *dataset.Table, column string, rate float64, gen *rng.LCG) *dataset.Table {
	order := []string{}
	partitions := map[string][]int{}
	for row := 0; row < view.Len(); row++ {
		key := view.Cell(row, column).Text()
		if _, seen := partitions[key]; !seen {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], row)
	}

	selected := make([]int, 0, int(float64(view.Len())*rate)+len(order))
	for _, key := range order {
		rows := partitions[key]
		kept := make([]int, 0, int(float64(len(rows))*rate)+1)
		for _, row := range rows {
			if gen.Float64() < rate {
				kept = append(kept, row)
			}
		}
		if len(kept) == 0 {
			kept = append(kept, rows[gen.Intn(len(rows))])
		}
		selected = append(selected, kept...)
	}
	sort.Ints(selected)
	return view.Select(selected)
}

// bernoulliSample includes each row independently with probability rate.
func (s *Sampler) bernoulliSample(view *dataset.Table, rate float64, gen *rng.LCG) *dataset.Table {
	selected := make([]int, 0, int(float64(view.Len())*rate)+1)
	for row := 0; row < view.Len(); row++ {
		if gen.Float64() < rate {
			selected = append(selected, row)
		}
	}
	return view.Select(selected)
}
