package ports

import (
	"context"

	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
)

// ProfileOptions vary per profiling run.
type ProfileOptions struct {
	// AlignRows selects row-aligned correlation pairing instead of the
	// default prefix alignment.
	AlignRows bool
}

// Profiler computes a full statistical report over a record view.
type Profiler interface {
	Profile(ctx context.Context, view *dataset.Table, opts ProfileOptions) (*profile.Report, error)
}
