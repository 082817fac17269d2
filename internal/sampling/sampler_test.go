package sampling

import (
	"fmt"
	"testing"

	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

func buildTable(t *testing.T, n int, category func(i int) string) *dataset.Table {
	t.Helper()
	rows := make([][]dataset.Cell, n)
	for i := 0; i < n; i++ {
		rows[i] = []dataset.Cell{
			dataset.Number(float64(i)),
			dataset.String(category(i)),
		}
	}
	table, err := dataset.New([]string{"id", "segment"}, rows)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return table
}

func TestSmallViewReturnedUnchanged(t *testing.T) {
	table := buildTable(t, 50, func(i int) string { return "a" })
	sampler := New()

	sampled, meta := sampler.CreateSample(table, ports.SampleOptions{MaxSampleSize: 100, Seed: 1})

	if meta.IsSampled {
		t.Error("expected isSampled=false for view within bounds")
	}
	if meta.SamplingRate != 1 {
		t.Errorf("samplingRate = %v, want 1", meta.SamplingRate)
	}
	if meta.OriginalSize != 50 {
		t.Errorf("originalSize = %d, want 50", meta.OriginalSize)
	}
	if sampled.Len() != 50 {
		t.Errorf("sample size = %d, want 50", sampled.Len())
	}
}

func TestEmptyView(t *testing.T) {
	table := buildTable(t, 0, func(i int) string { return "" })
	sampler := New()

	sampled, meta := sampler.CreateSample(table, ports.SampleOptions{MaxSampleSize: 100, Seed: 1})

	if sampled.Len() != 0 {
		t.Errorf("sample size = %d, want 0", sampled.Len())
	}
	if meta.SamplingRate != 0 {
		t.Errorf("samplingRate = %v, want 0", meta.SamplingRate)
	}
}

func TestSameSeedSameSample(t *testing.T) {
	table := buildTable(t, 2000, func(i int) string { return fmt.Sprintf("s%d", i%4) })
	sampler := New()
	opts := ports.SampleOptions{MaxSampleSize: 500, Seed: 42}

	a, _ := sampler.CreateSample(table, opts)
	b, _ := sampler.CreateSample(table, opts)

	if a.Len() != b.Len() {
		t.Fatalf("sample sizes differ: %d vs %d", a.Len(), b.Len())
	}
	idsA := a.Column("id")
	idsB := b.Column("id")
	for i := range idsA {
		if idsA[i].Num != idsB[i].Num {
			t.Fatalf("samples diverge at row %d: %v vs %v", i, idsA[i].Num, idsB[i].Num)
		}
	}
}

func TestBernoulliSampleApproximatesTarget(t *testing.T) {
	table := buildTable(t, 10000, func(i int) string { return fmt.Sprintf("v%d", i) })
	sampler := New()

	sampled, meta := sampler.CreateSample(table, ports.SampleOptions{MaxSampleSize: 1000, Seed: 7})

	if !meta.IsSampled {
		t.Fatal("expected isSampled=true")
	}
	if meta.Stratified {
		t.Error("stratification was not requested")
	}
	// Bernoulli draw at rate 0.1 over 10k rows; allow generous slack.
	if sampled.Len() < 700 || sampled.Len() > 1300 {
		t.Errorf("sample size %d too far from target 1000", sampled.Len())
	}
}

func TestStratifiedKeepsEveryPartition(t *testing.T) {
	// 4 segments, one of them rare: 10 rows out of 5000.
	table := buildTable(t, 5000, func(i int) string {
		if i < 10 {
			return "rare"
		}
		return fmt.Sprintf("s%d", i%3)
	})
	sampler := New()

	sampled, meta := sampler.CreateSample(table, ports.SampleOptions{MaxSampleSize: 500, Stratify: true, Seed: 3})

	if !meta.Stratified {
		t.Fatal("expected a stratified sample")
	}
	seen := map[string]bool{}
	for _, cell := range sampled.Column("segment") {
		seen[cell.Str] = true
	}
	for _, segment := range []string{"rare", "s0", "s1", "s2"} {
		if !seen[segment] {
			t.Errorf("partition %q lost by stratified sampling", segment)
		}
	}
}

func TestStratifyFallsBackWithoutCandidate(t *testing.T) {
	// Every value unique: no column passes the cardinality screen.
	table := buildTable(t, 2000, func(i int) string { return fmt.Sprintf("u%d", i) })
	sampler := New()

	_, meta := sampler.CreateSample(table, ports.SampleOptions{MaxSampleSize: 200, Stratify: true, Seed: 5})

	if meta.Stratified {
		t.Error("expected fallback to unstratified sampling")
	}
	if !meta.IsSampled {
		t.Error("expected isSampled=true")
	}
}
