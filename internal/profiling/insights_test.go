package profiling

import (
	"testing"

	"github.com/ptengelmann/ProfilanIQ/domain/profile"
)

func TestMissingValueWarning(t *testing.T) {
	stats := map[string]*profile.ColumnStats{
		"gap": {Type: profile.TypeCategorical, TotalCount: 10, ValidCount: 6, MissingCount: 4, MissingPercent: 40, Unique: 3},
	}

	insights := DeriveInsights([]string{"gap"}, stats, nil)

	if len(insights) == 0 {
		t.Fatal("expected a missing-value warning")
	}
	if insights[0].Severity != profile.SeverityHigh || insights[0].Type != profile.InsightWarning {
		t.Errorf("unexpected insight: %+v", insights[0])
	}
}

func TestConstantColumnWarning(t *testing.T) {
	stats := map[string]*profile.ColumnStats{
		"c": {Type: profile.TypeCategorical, TotalCount: 5, ValidCount: 5, Unique: 1, UniquePercent: 20},
	}

	insights := DeriveInsights([]string{"c"}, stats, nil)

	found := false
	for _, insight := range insights {
		if insight.Category == "Feature Engineering" && insight.Severity == profile.SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Error("expected the constant-column warning")
	}
}

func TestIdentifierInsight(t *testing.T) {
	stats := map[string]*profile.ColumnStats{
		"id": {Type: profile.TypeCategorical, TotalCount: 5, ValidCount: 5, Unique: 5, UniquePercent: 100},
	}

	insights := DeriveInsights([]string{"id"}, stats, nil)

	found := false
	for _, insight := range insights {
		if insight.Severity == profile.SeverityLow && insight.Type == profile.InsightInfo {
			found = true
		}
	}
	if !found {
		t.Error("expected the likely-identifier info")
	}
}

func TestHighCardinalityInsight(t *testing.T) {
	stats := map[string]*profile.ColumnStats{
		"tag": {Type: profile.TypeCategorical, TotalCount: 200, ValidCount: 200, Unique: 195, UniquePercent: 97.5},
	}

	insights := DeriveInsights([]string{"tag"}, stats, nil)

	found := false
	for _, insight := range insights {
		if insight.Severity == profile.SeverityMedium && insight.Category == "Feature Engineering" {
			found = true
		}
	}
	if !found {
		t.Error("expected the high-cardinality info")
	}
}

func TestMulticollinearityInsight(t *testing.T) {
	correlations := profile.PartitionCorrelations([]profile.CorrelationPair{
		{ColumnA: "a", ColumnB: "b", Correlation: 0.9, Strength: 0.9},
	})

	insights := DeriveInsights(nil, map[string]*profile.ColumnStats{}, correlations)

	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	if insights[0].Category != "Multicollinearity" || insights[0].Type != profile.InsightInsight {
		t.Errorf("unexpected insight: %+v", insights[0])
	}
}

func TestAverageMissingAcrossNumericColumns(t *testing.T) {
	stats := map[string]*profile.ColumnStats{
		"a": {Type: profile.TypeNumeric, MissingPercent: 20, Numeric: &profile.NumericStats{StdDev: 1}},
		"b": {Type: profile.TypeNumeric, MissingPercent: 14, Numeric: &profile.NumericStats{StdDev: 1}},
	}

	insights := DeriveInsights([]string{"a", "b"}, stats, nil)

	found := false
	for _, insight := range insights {
		if insight.Category == "Data Quality" && insight.Severity == profile.SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Error("average missing 17% over numeric columns should warn")
	}
}

func TestInsightsSortedBySeverity(t *testing.T) {
	stats := map[string]*profile.ColumnStats{
		"id":  {Type: profile.TypeCategorical, TotalCount: 5, ValidCount: 5, Unique: 5, UniquePercent: 100},
		"out": {Type: profile.TypeNumeric, TotalCount: 5, ValidCount: 5, Unique: 5, Numeric: &profile.NumericStats{StdDev: 1, Outliers: 1}},
		"gap": {Type: profile.TypeCategorical, TotalCount: 10, ValidCount: 5, MissingCount: 5, MissingPercent: 50, Unique: 2},
	}

	insights := DeriveInsights([]string{"id", "out", "gap"}, stats, nil)

	rank := map[profile.Severity]int{
		profile.SeverityHigh:   0,
		profile.SeverityMedium: 1,
		profile.SeverityLow:    2,
	}
	for i := 1; i < len(insights); i++ {
		if rank[insights[i-1].Severity] > rank[insights[i].Severity] {
			t.Fatalf("insights out of order at %d: %+v", i, insights)
		}
	}
}
