package ports

import (
	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
)

// ParseOptions control how raw CSV text becomes a record view.
type ParseOptions struct {
	Delimiter      string
	SkipEmptyLines bool
}

// ParseStats reports tolerated per-row failures.
type ParseStats struct {
	RowErrors   int
	SkippedRows int
}

// RecordParser turns delimited text into a record view. Delimiter-level
// failures return an error; per-row failures are tolerated and counted.
type RecordParser interface {
	Parse(text string, opts ParseOptions) (*dataset.Table, ParseStats, error)
}
