package profiling

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
)

// ProfileColumn computes one column's statistics. A panic while reading or
// reducing the column degrades to an unknown-typed entry carrying the error
// message; the surrounding request still succeeds.
func (e *Engine) ProfileColumn(view *dataset.Table, column string) (result *profile.ColumnStats) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("column %q failed to profile: %v", column, r)
			result = &profile.ColumnStats{
				Type:  profile.TypeUnknown,
				Error: fmt.Sprintf("%v", r),
			}
		}
	}()

	cells := view.Column(column)
	total := len(cells)

	nonNull := make([]dataset.Cell, 0, total)
	numeric := make([]float64, 0, total)
	for _, cell := range cells {
		if cell.IsNull() {
			continue
		}
		if cell.Kind == dataset.CellString && cell.Str == "" {
			continue
		}
		nonNull = append(nonNull, cell)
		if cell.IsNumber() {
			numeric = append(numeric, cell.Num)
		}
	}

	valid := len(nonNull)
	missing := total - valid

	unique := countUnique(nonNull)

	cs := &profile.ColumnStats{
		Type:         classify(len(numeric), valid),
		TotalCount:   total,
		ValidCount:   valid,
		MissingCount: missing,
		Unique:       unique,
	}
	if total > 0 {
		cs.MissingPercent = float64(missing) / float64(total) * 100
	}
	if valid > 0 {
		cs.UniquePercent = float64(unique) / float64(valid) * 100
	}

	switch cs.Type {
	case profile.TypeNumeric:
		cs.Numeric = numericStats(numeric)
	case profile.TypeCategorical:
		cs.Categorical = categoricalStats(nonNull, valid)
	}
	return cs
}

// classify applies the column-level type rule: numeric when numeric cells
// exist and make up more than half of the non-null cells.
func classify(numericCount, validCount int) profile.ColumnType {
	if numericCount > 0 && float64(numericCount) > 0.5*float64(validCount) {
		return profile.TypeNumeric
	}
	return profile.TypeCategorical
}

func countUnique(cells []dataset.Cell) int {
	seen := make(map[string]bool, len(cells))
	for _, cell := range cells {
		seen[cell.Text()] = true
	}
	return len(seen)
}

// numericStats computes the numeric specialization over the column's
// numeric cells. values is non-empty by construction of the classifier.
func numericStats(values []float64) *profile.NumericStats {
	mean, _ := stats.Mean(values)
	variance, _ := stats.PopulationVariance(values)
	stdDev := math.Sqrt(variance)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	median := percentile(sorted, 50)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	outliers := 0
	for _, v := range values {
		if v < lower || v > upper {
			outliers++
		}
	}

	skewness, kurtosis := 0.0, 0.0
	if stdDev > 0 {
		n := float64(len(values))
		var sum3, sum4 float64
		for _, v := range values {
			z := (v - mean) / stdDev
			sum3 += z * z * z
			sum4 += z * z * z * z
		}
		skewness = sum3 / n
		kurtosis = sum4/n - 3
	}

	return &profile.NumericStats{
		Min:      min,
		Max:      max,
		Mean:     mean,
		Median:   median,
		Mode:     numericMode(values),
		Variance: variance,
		StdDev:   stdDev,
		Q1:       q1,
		Q3:       q3,
		IQR:      iqr,
		Outliers: outliers,
		Skewness: skewness,
		Kurtosis: kurtosis,
	}
}

// percentile linearly interpolates at position p·(n−1) over an ascending
// sort.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// numericMode picks the most frequent value from the numeric multiset, ties
// broken by first appearance in the stream.
func numericMode(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	order := make([]float64, 0, len(values))
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	mode, best := 0.0, 0
	for _, v := range order {
		if counts[v] > best {
			mode, best = v, counts[v]
		}
	}
	return mode
}

// categoricalStats computes the categorical specialization over the
// column's non-null cells.
func categoricalStats(cells []dataset.Cell, valid int) *profile.CategoricalStats {
	counts := make(map[string]int, len(cells))
	order := make([]string, 0, len(cells))
	for _, cell := range cells {
		key := cell.Text()
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	// Descending by count, first-seen on ties: a stable sort over the
	// first-seen order gives both.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	top := make([]profile.ValueCount, 0, 10)
	for _, value := range order {
		if len(top) == 10 {
			break
		}
		top = append(top, profile.ValueCount{Value: value, Count: counts[value]})
	}

	cs := &profile.CategoricalStats{TopValues: top}
	if len(top) > 0 {
		cs.Mode = top[0].Value
		cs.ModeCount = top[0].Count
		if valid > 0 {
			cs.ModePercent = float64(top[0].Count) / float64(valid) * 100
		}
	}

	if valid > 0 {
		entropy := 0.0
		for _, count := range counts {
			p := float64(count) / float64(valid)
			entropy -= p * math.Log2(p)
		}
		cs.Entropy = entropy
	}
	return cs
}
