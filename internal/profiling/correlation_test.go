package profiling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

func twoColumnTable(t *testing.T, a, b []float64) *dataset.Table {
	t.Helper()
	rows := make([][]dataset.Cell, len(a))
	for i := range a {
		rows[i] = []dataset.Cell{dataset.Number(a[i]), dataset.Number(b[i])}
	}
	table, err := dataset.New([]string{"a", "b"}, rows)
	require.NoError(t, err)
	return table
}

func TestPerfectPositiveCorrelation(t *testing.T) {
	engine := newTestEngine()
	table := twoColumnTable(t, []float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8, 10})

	report, err := engine.Profile(context.Background(), table, ports.ProfileOptions{})
	require.NoError(t, err)

	c := report.Correlations
	require.Len(t, c.All, 1)
	assert.InDelta(t, 1.0, c.All[0].Correlation, 1e-12)
	assert.Equal(t, 5, c.All[0].SampleSize)
	require.Len(t, c.Strong, 1)
	require.Len(t, c.Positive, 1)
	assert.Equal(t, c.All[0], c.Positive[0])
}

func TestNegativeCorrelation(t *testing.T) {
	engine := newTestEngine()
	table := twoColumnTable(t, []float64{1, 2, 3, 4, 5}, []float64{10, 8, 6, 4, 2})

	report, err := engine.Profile(context.Background(), table, ports.ProfileOptions{})
	require.NoError(t, err)

	c := report.Correlations
	require.Len(t, c.All, 1)
	assert.InDelta(t, -1.0, c.All[0].Correlation, 1e-12)
	require.Len(t, c.Negative, 1)
}

func TestTooFewObservationsDiscarded(t *testing.T) {
	engine := newTestEngine()
	table := twoColumnTable(t, []float64{1, 2}, []float64{2, 4})

	report, err := engine.Profile(context.Background(), table, ports.ProfileOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Correlations.All)
}

func TestZeroVariancePairDiscarded(t *testing.T) {
	engine := newTestEngine()
	table := twoColumnTable(t, []float64{1, 2, 3, 4}, []float64{5, 5, 5, 5})

	report, err := engine.Profile(context.Background(), table, ports.ProfileOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Correlations.All, "NaN coefficients are never published")
}

func TestPrefixAlignmentUsesShorterSeries(t *testing.T) {
	engine := newTestEngine()
	// Column b has a null in the middle; its numeric sequence is shorter
	// and the legacy contract pairs prefixes, not rows.
	rows := [][]dataset.Cell{
		{dataset.Number(1), dataset.Number(2)},
		{dataset.Number(2), dataset.Null()},
		{dataset.Number(3), dataset.Number(6)},
		{dataset.Number(4), dataset.Number(8)},
		{dataset.Number(5), dataset.Number(10)},
	}
	table, err := dataset.New([]string{"a", "b"}, rows)
	require.NoError(t, err)

	report, err := engine.Profile(context.Background(), table, ports.ProfileOptions{})
	require.NoError(t, err)

	require.Len(t, report.Correlations.All, 1)
	assert.Equal(t, 4, report.Correlations.All[0].SampleSize)
}

func TestRowAlignedMode(t *testing.T) {
	engine := newTestEngine()
	rows := [][]dataset.Cell{
		{dataset.Number(1), dataset.Number(2)},
		{dataset.Number(2), dataset.Null()},
		{dataset.Number(3), dataset.Number(6)},
		{dataset.Number(4), dataset.Number(8)},
		{dataset.Number(5), dataset.Number(10)},
	}
	table, err := dataset.New([]string{"a", "b"}, rows)
	require.NoError(t, err)

	report, err := engine.Profile(context.Background(), table, ports.ProfileOptions{AlignRows: true})
	require.NoError(t, err)

	require.Len(t, report.Correlations.All, 1)
	pair := report.Correlations.All[0]
	assert.Equal(t, 4, pair.SampleSize)
	// Row alignment drops the (2, null) record, keeping the exact 2x
	// relationship on the remaining rows.
	assert.InDelta(t, 1.0, pair.Correlation, 1e-12)
}

func TestPartitionsCoverAll(t *testing.T) {
	pairs := []profile.CorrelationPair{
		{ColumnA: "a", ColumnB: "b", Correlation: 0.95, Strength: 0.95},
		{ColumnA: "a", ColumnB: "c", Correlation: -0.5, Strength: 0.5},
		{ColumnA: "b", ColumnB: "c", Correlation: 0.1, Strength: 0.1},
		{ColumnA: "a", ColumnB: "d", Correlation: 0.7, Strength: 0.7},
	}

	c := profile.PartitionCorrelations(pairs)

	assert.Len(t, c.All, 4)
	assert.Equal(t, len(c.All), len(c.Strong)+len(c.Moderate)+len(c.Weak))
	// 0.7 is not strictly greater than the strong threshold.
	assert.Len(t, c.Strong, 1)
	assert.Len(t, c.Moderate, 2)
	assert.Len(t, c.Weak, 1)
	for i := 1; i < len(c.All); i++ {
		assert.GreaterOrEqual(t, c.All[i-1].Strength, c.All[i].Strength)
	}
}

func TestCorrelationColumnsAreNumericInReport(t *testing.T) {
	engine := newTestEngine()
	rows := [][]dataset.Cell{}
	for i := 0; i < 10; i++ {
		rows = append(rows, []dataset.Cell{
			dataset.Number(float64(i)),
			dataset.Number(float64(10 - i)),
			dataset.String("label"),
		})
	}
	table, err := dataset.New([]string{"x", "y", "label"}, rows)
	require.NoError(t, err)

	report, err := engine.Profile(context.Background(), table, ports.ProfileOptions{})
	require.NoError(t, err)

	for _, pair := range report.Correlations.All {
		assert.Equal(t, profile.TypeNumeric, report.Columns[pair.ColumnA].Type)
		assert.Equal(t, profile.TypeNumeric, report.Columns[pair.ColumnB].Type)
	}
}
