// Package compare diffs two profile reports into a structured change
// document with derived insights.
package compare

import (
	"fmt"
	"math"
	"sort"

	"github.com/ptengelmann/ProfilanIQ/domain/compare"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
)

// Thresholds for change significance.
const (
	significantValueShift       = 20.0 // percent, top-value drift
	significantCorrelationShift = 0.2  // absolute r movement
	significantMeanShift        = 20.0 // percent
	significantMissingIncrease  = 5.0  // percentage points
)

// Engine compares reports.
type Engine struct{}

// New creates a comparison engine.
func New() *Engine {
	return &Engine{}
}

// Compare diffs p1 against p2. Both reports must be complete; the result is
// sorted by insight severity.
func (e *Engine) Compare(p1, p2 *profile.Report) *compare.Report {
	common, onlyFirst, onlySecond := partitionColumns(p1, p2)

	rows := compare.RowChange{
		Rows1: p1.Summary.TotalRows,
		Rows2: p2.Summary.TotalRows,
		Diff:  p2.Summary.TotalRows - p1.Summary.TotalRows,
	}
	rows.PercentChange = safePercent(float64(rows.Diff), float64(rows.Rows1))

	columnChanges := make(map[string]*compare.ColumnChange, len(common))
	for _, column := range common {
		columnChanges[column] = diffColumn(p1.Columns[column], p2.Columns[column])
	}

	correlations := diffCorrelations(p1.Correlations, p2.Correlations)

	report := &compare.Report{
		CommonColumns: common,
		OnlyInFirst:   onlyFirst,
		OnlyInSecond:  onlySecond,
		Rows:          rows,
		Columns:       columnChanges,
		Correlations:  correlations,
	}
	report.Insights = deriveInsights(report, common, columnChanges)
	return report
}

func partitionColumns(p1, p2 *profile.Report) (common, onlyFirst, onlySecond []string) {
	common = []string{}
	onlyFirst = []string{}
	onlySecond = []string{}
	for column := range p1.Columns {
		if _, ok := p2.Columns[column]; ok {
			common = append(common, column)
		} else {
			onlyFirst = append(onlyFirst, column)
		}
	}
	for column := range p2.Columns {
		if _, ok := p1.Columns[column]; !ok {
			onlySecond = append(onlySecond, column)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyFirst)
	sort.Strings(onlySecond)
	return common, onlyFirst, onlySecond
}

func diffColumn(c1, c2 *profile.ColumnStats) *compare.ColumnChange {
	change := &compare.ColumnChange{
		TypeChanged:          c1.Type != c2.Type,
		MissingDiff:          c2.MissingCount - c1.MissingCount,
		MissingPercentChange: safePercent(float64(c2.MissingCount-c1.MissingCount), float64(c1.MissingCount)),
		MissingPointDiff:     c2.MissingPercent - c1.MissingPercent,
		UniqueDiff:           c2.Unique - c1.Unique,
		UniquePercentChange:  safePercent(float64(c2.Unique-c1.Unique), float64(c1.Unique)),
	}
	if change.TypeChanged {
		change.TypeChange = fmt.Sprintf("%s→%s", c1.Type, c2.Type)
	}

	if c1.Numeric != nil && c2.Numeric != nil {
		n1, n2 := c1.Numeric, c2.Numeric
		change.Numeric = &compare.NumericChange{
			MeanDiff:          n2.Mean - n1.Mean,
			MeanPercentChange: safePercent(n2.Mean-n1.Mean, n1.Mean),
			StdDevDiff:        n2.StdDev - n1.StdDev,
			MinDiff:           n2.Min - n1.Min,
			MaxDiff:           n2.Max - n1.Max,
			RangeDiff:         (n2.Max - n2.Min) - (n1.Max - n1.Min),
			OutliersDiff:      n2.Outliers - n1.Outliers,
		}
	}

	if c1.Categorical != nil && c2.Categorical != nil {
		change.Categorical = &compare.CategoricalChange{
			EntropyDiff: c2.Categorical.Entropy - c1.Categorical.Entropy,
			TopValues:   diffTopValues(c1.Categorical.TopValues, c2.Categorical.TopValues),
		}
	}
	return change
}

// diffTopValues pairs every value seen in either side's top set, first side
// order first.
func diffTopValues(t1, t2 []profile.ValueCount) []compare.ValueDiff {
	counts1 := make(map[string]int, len(t1))
	counts2 := make(map[string]int, len(t2))
	order := make([]string, 0, len(t1)+len(t2))
	seen := make(map[string]bool, len(t1)+len(t2))

	for _, vc := range t1 {
		counts1[vc.Value] = vc.Count
		if !seen[vc.Value] {
			order = append(order, vc.Value)
			seen[vc.Value] = true
		}
	}
	for _, vc := range t2 {
		counts2[vc.Value] = vc.Count
		if !seen[vc.Value] {
			order = append(order, vc.Value)
			seen[vc.Value] = true
		}
	}

	diffs := make([]compare.ValueDiff, 0, len(order))
	for _, value := range order {
		d := compare.ValueDiff{
			Value:  value,
			Count1: counts1[value],
			Count2: counts2[value],
			Diff:   counts2[value] - counts1[value],
		}
		d.PercentChange = safePercent(float64(d.Diff), float64(d.Count1))
		d.Significant = math.Abs(d.PercentChange) > significantValueShift
		diffs = append(diffs, d)
	}
	return diffs
}

func diffCorrelations(c1, c2 *profile.Correlations) compare.CorrelationDelta {
	delta := compare.CorrelationDelta{
		Added:   []profile.CorrelationPair{},
		Removed: []profile.CorrelationPair{},
		Changed: []compare.CorrelationChange{},
	}
	if c1 == nil || c2 == nil {
		return delta
	}

	pairs1 := make(map[string]profile.CorrelationPair, len(c1.All))
	for _, pair := range c1.All {
		pairs1[pair.Key()] = pair
	}
	pairs2 := make(map[string]profile.CorrelationPair, len(c2.All))
	for _, pair := range c2.All {
		pairs2[pair.Key()] = pair
	}

	for _, pair := range c1.All {
		after, ok := pairs2[pair.Key()]
		if !ok {
			delta.Removed = append(delta.Removed, pair)
			continue
		}
		diff := after.Correlation - pair.Correlation
		delta.Changed = append(delta.Changed, compare.CorrelationChange{
			ColumnA:     pair.ColumnA,
			ColumnB:     pair.ColumnB,
			R1:          pair.Correlation,
			R2:          after.Correlation,
			Diff:        diff,
			Significant: math.Abs(diff) > significantCorrelationShift,
			SignChange:  signOf(pair.Correlation)*signOf(after.Correlation) < 0,
		})
	}
	for _, pair := range c2.All {
		if _, ok := pairs1[pair.Key()]; !ok {
			delta.Added = append(delta.Added, pair)
		}
	}
	return delta
}

func deriveInsights(report *compare.Report, common []string, changes map[string]*compare.ColumnChange) []profile.Insight {
	insights := []profile.Insight{}

	rowShift := math.Abs(report.Rows.PercentChange)
	if rowShift > 50 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Data Volume",
			Message:  fmt.Sprintf("Row count changed by %.1f%%", report.Rows.PercentChange),
			Severity: profile.SeverityHigh,
		})
	} else if rowShift > 20 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightInfo,
			Category: "Data Volume",
			Message:  fmt.Sprintf("Row count changed by %.1f%%", report.Rows.PercentChange),
			Severity: profile.SeverityMedium,
		})
	}

	if len(report.OnlyInFirst) > 0 || len(report.OnlyInSecond) > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Schema",
			Message:  fmt.Sprintf("Column set changed: %d removed, %d added", len(report.OnlyInFirst), len(report.OnlyInSecond)),
			Severity: profile.SeverityHigh,
		})
	}

	typeChanges := 0
	missingIncreases := 0
	meanShifts := 0
	for _, column := range common {
		change := changes[column]
		if change.TypeChanged {
			typeChanges++
		}
		if change.MissingPointDiff > significantMissingIncrease {
			missingIncreases++
		}
		if change.Numeric != nil && math.Abs(change.Numeric.MeanPercentChange) > significantMeanShift {
			meanShifts++
		}
	}
	if typeChanges > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Schema",
			Message:  fmt.Sprintf("%d column(s) changed type", typeChanges),
			Severity: profile.SeverityHigh,
		})
	}
	if missingIncreases > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Data Quality",
			Message:  fmt.Sprintf("%d column(s) show rising missing-value rates", missingIncreases),
			Severity: profile.SeverityMedium,
		})
	}
	if meanShifts > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightInfo,
			Category: "Drift",
			Message:  fmt.Sprintf("%d numeric column(s) shifted mean by more than %.0f%%", meanShifts, significantMeanShift),
			Severity: profile.SeverityMedium,
		})
	}

	significantCorrelations := 0
	signFlips := 0
	for _, change := range report.Correlations.Changed {
		if change.Significant {
			significantCorrelations++
		}
		if change.SignChange {
			signFlips++
		}
	}
	if significantCorrelations > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightInsight,
			Category: "Relationships",
			Message:  fmt.Sprintf("%d correlation(s) moved significantly", significantCorrelations),
			Severity: profile.SeverityMedium,
		})
	}
	if signFlips > 0 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Relationships",
			Message:  fmt.Sprintf("%d correlation(s) flipped sign between datasets", signFlips),
			Severity: profile.SeverityHigh,
		})
	}

	profile.SortInsights(insights)
	return insights
}

func safePercent(diff, base float64) float64 {
	if base == 0 {
		return 0
	}
	return diff / base * 100
}

func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
