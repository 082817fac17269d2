package profile

import "sort"

// CorrelationPair is one Pearson pairing between two numeric columns.
type CorrelationPair struct {
	ColumnA     string  `json:"columnA"`
	ColumnB     string  `json:"columnB"`
	Correlation float64 `json:"correlation"`
	Strength    float64 `json:"strength"`
	SampleSize  int     `json:"sampleSize"`
}

// Correlations publishes the strength-band partitions over all pairs.
// strong ∪ moderate ∪ weak = all, disjoint by construction.
type Correlations struct {
	All      []CorrelationPair `json:"all"`
	Strong   []CorrelationPair `json:"strong"`
	Moderate []CorrelationPair `json:"moderate"`
	Weak     []CorrelationPair `json:"weak"`
	Positive []CorrelationPair `json:"positive"`
	Negative []CorrelationPair `json:"negative"`
}

// Strength band thresholds on |r|.
const (
	StrongThreshold   = 0.7
	ModerateThreshold = 0.3
)

// PartitionCorrelations sorts pairs by descending strength and derives the
// published partitions. The sort is stable so equal-strength pairs keep
// their discovery order.
func PartitionCorrelations(all []CorrelationPair) *Correlations {
	sorted := make([]CorrelationPair, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Strength > sorted[j].Strength
	})

	c := &Correlations{
		All:      sorted,
		Strong:   []CorrelationPair{},
		Moderate: []CorrelationPair{},
		Weak:     []CorrelationPair{},
		Positive: []CorrelationPair{},
		Negative: []CorrelationPair{},
	}
	for _, pair := range sorted {
		switch {
		case pair.Strength > StrongThreshold:
			c.Strong = append(c.Strong, pair)
		case pair.Strength > ModerateThreshold:
			c.Moderate = append(c.Moderate, pair)
		default:
			c.Weak = append(c.Weak, pair)
		}
		if pair.Correlation > 0 && len(c.Positive) < 5 {
			c.Positive = append(c.Positive, pair)
		}
		if pair.Correlation < 0 && len(c.Negative) < 5 {
			c.Negative = append(c.Negative, pair)
		}
	}
	return c
}

// Key returns the unordered pair identity "a|b" with the names in a fixed
// order, for diffing correlation sets across reports.
func (p CorrelationPair) Key() string {
	a, b := p.ColumnA, p.ColumnB
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
