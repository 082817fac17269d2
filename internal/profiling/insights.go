package profiling

import (
	"fmt"

	"github.com/ptengelmann/ProfilanIQ/domain/profile"
)

// DeriveInsights applies the qualitative rules over the computed stats and
// correlations, returning the list sorted high → low severity.
func DeriveInsights(columns []string, columnStats map[string]*profile.ColumnStats, correlations *profile.Correlations) []profile.Insight {
	insights := []profile.Insight{}

	for _, column := range columns {
		cs := columnStats[column]
		if cs == nil {
			continue
		}

		if cs.MissingPercent > 30 {
			insights = append(insights, profile.Insight{
				Type:     profile.InsightWarning,
				Category: "Data Quality",
				Message:  fmt.Sprintf("Column '%s' has %.1f%% missing values", column, cs.MissingPercent),
				Severity: profile.SeverityHigh,
			})
		}

		switch cs.Type {
		case profile.TypeNumeric:
			if cs.Numeric == nil {
				break
			}
			if cs.Numeric.Outliers > 0 {
				insights = append(insights, profile.Insight{
					Type:     profile.InsightInfo,
					Category: "Outliers",
					Message:  fmt.Sprintf("Column '%s' contains %d outlier(s) outside the IQR bounds", column, cs.Numeric.Outliers),
					Severity: profile.SeverityMedium,
				})
			}
			if cs.Numeric.StdDev == 0 {
				insights = append(insights, profile.Insight{
					Type:     profile.InsightWarning,
					Category: "Data Quality",
					Message:  fmt.Sprintf("Column '%s' has zero variance; every value is identical", column),
					Severity: profile.SeverityHigh,
				})
			}
		case profile.TypeCategorical:
			if cs.Unique == 1 {
				insights = append(insights, profile.Insight{
					Type:     profile.InsightWarning,
					Category: "Feature Engineering",
					Message:  fmt.Sprintf("Column '%s' is constant; it carries no signal", column),
					Severity: profile.SeverityHigh,
				})
			}
			if cs.ValidCount > 0 && cs.Unique == cs.ValidCount {
				insights = append(insights, profile.Insight{
					Type:     profile.InsightInfo,
					Category: "Feature Engineering",
					Message:  fmt.Sprintf("Column '%s' is unique per row; likely an identifier", column),
					Severity: profile.SeverityLow,
				})
			}
			if cs.UniquePercent > 90 && cs.Unique > 100 {
				insights = append(insights, profile.Insight{
					Type:     profile.InsightInfo,
					Category: "Feature Engineering",
					Message:  fmt.Sprintf("Column '%s' has very high cardinality (%d distinct values)", column, cs.Unique),
					Severity: profile.SeverityMedium,
				})
			}
		}
	}

	if correlations != nil && len(correlations.Strong) >= 1 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightInsight,
			Category: "Multicollinearity",
			Message:  fmt.Sprintf("%d strong correlation(s) detected; consider dropping redundant columns", len(correlations.Strong)),
			Severity: profile.SeverityMedium,
		})
	}

	numericCount := 0
	missingSum := 0.0
	for _, column := range columns {
		cs := columnStats[column]
		if cs != nil && cs.Type == profile.TypeNumeric {
			numericCount++
			missingSum += cs.MissingPercent
		}
	}
	if numericCount > 0 && missingSum/float64(numericCount) > 15 {
		insights = append(insights, profile.Insight{
			Type:     profile.InsightWarning,
			Category: "Data Quality",
			Message:  fmt.Sprintf("Numeric columns average %.1f%% missing values", missingSum/float64(numericCount)),
			Severity: profile.SeverityHigh,
		})
	}

	profile.SortInsights(insights)
	return insights
}
