package compare

import (
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
)

// RowChange is the record-count delta between two reports.
type RowChange struct {
	Rows1         int     `json:"rows1"`
	Rows2         int     `json:"rows2"`
	Diff          int     `json:"diff"`
	PercentChange float64 `json:"percentChange"`
}

// ValueDiff pairs one top-value's counts across both sides.
type ValueDiff struct {
	Value         string  `json:"value"`
	Count1        int     `json:"count1"`
	Count2        int     `json:"count2"`
	Diff          int     `json:"diff"`
	PercentChange float64 `json:"percentChange"`
	Significant   bool    `json:"significant"`
}

// NumericChange holds deltas of the numeric specialization.
type NumericChange struct {
	MeanDiff          float64 `json:"meanDiff"`
	MeanPercentChange float64 `json:"meanPercentChange"`
	StdDevDiff        float64 `json:"stdDevDiff"`
	MinDiff           float64 `json:"minDiff"`
	MaxDiff           float64 `json:"maxDiff"`
	RangeDiff         float64 `json:"rangeDiff"`
	OutliersDiff      int     `json:"outliersDiff"`
}

// CategoricalChange holds deltas of the categorical specialization.
type CategoricalChange struct {
	EntropyDiff float64     `json:"entropyDiff"`
	TopValues   []ValueDiff `json:"topValues"`
}

// ColumnChange describes how one common column moved between reports.
type ColumnChange struct {
	TypeChanged          bool               `json:"typeChanged"`
	TypeChange           string             `json:"typeChange,omitempty"`
	MissingDiff          int                `json:"missingDiff"`
	MissingPercentChange float64            `json:"missingPercentChange"`
	MissingPointDiff     float64            `json:"missingPointDiff"`
	UniqueDiff           int                `json:"uniqueDiff"`
	UniquePercentChange  float64            `json:"uniquePercentChange"`
	Numeric              *NumericChange     `json:"numeric,omitempty"`
	Categorical          *CategoricalChange `json:"categorical,omitempty"`
}

// CorrelationChange records a pair present in both reports with its r on
// each side, whether or not r moved.
type CorrelationChange struct {
	ColumnA     string  `json:"columnA"`
	ColumnB     string  `json:"columnB"`
	R1          float64 `json:"r1"`
	R2          float64 `json:"r2"`
	Diff        float64 `json:"diff"`
	Significant bool    `json:"significant"`
	SignChange  bool    `json:"signChange"`
}

// CorrelationDelta categorizes every pair seen in either report.
type CorrelationDelta struct {
	Added   []profile.CorrelationPair `json:"added"`
	Removed []profile.CorrelationPair `json:"removed"`
	Changed []CorrelationChange       `json:"changed"`
}

// Report is the structured diff of two profile reports.
type Report struct {
	CommonColumns []string                 `json:"commonColumns"`
	OnlyInFirst   []string                 `json:"onlyInFirst"`
	OnlyInSecond  []string                 `json:"onlyInSecond"`
	Rows          RowChange                `json:"rows"`
	Columns       map[string]*ColumnChange `json:"columns"`
	Correlations  CorrelationDelta         `json:"correlations"`
	Insights      []profile.Insight        `json:"insights"`
}
