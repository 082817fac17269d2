package profile

import "sort"

// ColumnType classifies a column from its observed cells.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeUnknown     ColumnType = "unknown"
)

// NumericStats carries the numeric-specialization attributes of a column.
// Kurtosis is excess kurtosis (fourth standardized moment minus 3).
type NumericStats struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"stdDev"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	Outliers int     `json:"outliers"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// ValueCount is one (value, count) entry of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalStats carries the categorical-specialization attributes.
type CategoricalStats struct {
	TopValues   []ValueCount `json:"topValues"`
	Mode        string       `json:"mode"`
	ModeCount   int          `json:"modeCount"`
	ModePercent float64      `json:"modePercent"`
	Entropy     float64      `json:"entropy"`
}

// ColumnStats is the per-column profile. Exactly one specialization block is
// populated for a successfully profiled column; a failed column carries
// TypeUnknown with the error message and neither block.
type ColumnStats struct {
	Type           ColumnType        `json:"type"`
	TotalCount     int               `json:"totalCount"`
	ValidCount     int               `json:"validCount"`
	MissingCount   int               `json:"missingCount"`
	MissingPercent float64           `json:"missingPercent"`
	Unique         int               `json:"unique"`
	UniquePercent  float64           `json:"uniquePercent"`
	Numeric        *NumericStats     `json:"numeric,omitempty"`
	Categorical    *CategoricalStats `json:"categorical,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// InsightType tags the flavor of a derived insight.
type InsightType string

const (
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
	InsightInsight InsightType = "insight"
)

// Severity ranks insights for presentation.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Insight is one rule-derived qualitative annotation on a report.
type Insight struct {
	Type     InsightType `json:"type"`
	Category string      `json:"category"`
	Message  string      `json:"message"`
	Severity Severity    `json:"severity"`
}

// ProcessingTime is the timing breakdown of one profile request.
type ProcessingTime struct {
	TotalMs   float64 `json:"totalMs"`
	ParseMs   float64 `json:"parseMs"`
	ProfileMs float64 `json:"profileMs"`
}

// Summary aggregates dataset-level counts and throughput.
type Summary struct {
	TotalRows          int            `json:"totalRows"`
	TotalColumns       int            `json:"totalColumns"`
	NumericColumns     int            `json:"numericColumns"`
	CategoricalColumns int            `json:"categoricalColumns"`
	TotalMissingValues int            `json:"totalMissingValues"`
	ProcessingTime     ProcessingTime `json:"processingTime"`
	RowsPerSecond      float64        `json:"rowsPerSecond"`
	ColumnsPerSecond   float64        `json:"columnsPerSecond"`
	Efficiency         string         `json:"efficiency"`
}

// SamplingMetadata describes how (and whether) the input was reduced.
type SamplingMetadata struct {
	IsSampled             bool    `json:"isSampled"`
	OriginalSize          int     `json:"originalSize"`
	SampleSize            int     `json:"sampleSize"`
	SamplingRate          float64 `json:"samplingRate"`
	Stratified            bool    `json:"stratified"`
	PreservedDistribution bool    `json:"preservedDistribution"`
}

// Report is the immutable top-level profiling result.
type Report struct {
	Summary      Summary                 `json:"summary"`
	Columns      map[string]*ColumnStats `json:"columns"`
	Correlations *Correlations           `json:"correlations"`
	Insights     []Insight               `json:"insights"`
}

var severityRank = map[Severity]int{
	SeverityHigh:   0,
	SeverityMedium: 1,
	SeverityLow:    2,
}

// SortInsights orders insights high → medium → low, keeping emission order
// inside each band.
func SortInsights(insights []Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return severityRank[insights[i].Severity] < severityRank[insights[j].Severity]
	})
}
