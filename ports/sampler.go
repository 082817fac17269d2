package ports

import (
	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
)

// SampleOptions configure one sampling operation.
type SampleOptions struct {
	MaxSampleSize int
	Stratify      bool
	Seed          int32
}

// Sampler reduces oversized views, deterministically for a given seed.
type Sampler interface {
	CreateSample(view *dataset.Table, opts SampleOptions) (*dataset.Table, profile.SamplingMetadata)
}
