package cache

import (
	"fmt"

	"github.com/ptengelmann/ProfilanIQ/domain/core"
)

// CanonicalOptions are the only option fields that participate in the
// fingerprint. Sampling and cache toggles are excluded: the orchestrator
// never stores sampled analyses, so every cached report is an unsampled one.
type CanonicalOptions struct {
	Delimiter      string
	SkipEmptyLines bool
}

// canonical serializes the options in a fixed key order.
func (o CanonicalOptions) canonical() string {
	return fmt.Sprintf("delimiter=%q&skipEmptyLines=%t", o.Delimiter, o.SkipEmptyLines)
}

// ComputeFingerprint hashes H(content) || "|" || canonical(options) into the
// 64-hex cache address.
func ComputeFingerprint(content string, opts CanonicalOptions) core.Fingerprint {
	contentHash := core.NewHash([]byte(content))
	return core.NewFingerprint([]byte(contentHash.String() + "|" + opts.canonical()))
}
