package ports

import (
	"github.com/ptengelmann/ProfilanIQ/domain/core"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
)

// ReportCache is the best-effort fingerprint-addressed result store. Lookup
// misses on expiry or corruption; Store reports failure without erroring.
type ReportCache interface {
	Lookup(fp core.Fingerprint) (*profile.Report, bool)
	Store(fp core.Fingerprint, report *profile.Report) bool
}
