package curve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-d/liquid-extraction/pkg/core"
)

func TestCurveEvaluate(t *testing.T) {
	c, err := New("test", []float64{0, 1, 2}, []float64{0, 10, 30})
	require.NoError(t, err)

	tests := []struct {
		name string
		u    float64
		want float64
	}{
		{name: "Test case 1: first knot", u: 0, want: 0},
		{name: "Test case 2: interior of first segment", u: 0.5, want: 5},
		{name: "Test case 3: interior knot", u: 1, want: 10},
		{name: "Test case 4: interior of second segment", u: 1.5, want: 20},
		{name: "Test case 5: last knot", u: 2, want: 30},
		{name: "Test case 6: extrapolate below with first slope", u: -1, want: -10},
		{name: "Test case 7: extrapolate above with last slope", u: 3, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, c.Evaluate(tt.u), 1e-12)
		})
	}
}

func TestCurveSortsSamples(t *testing.T) {
	c, err := New("unsorted", []float64{2, 0, 1}, []float64{30, 0, 10})
	require.NoError(t, err)

	want := []Sample{{U: 0, V: 0}, {U: 1, V: 10}, {U: 2, V: 30}}
	if diff := cmp.Diff(want, c.Samples()); diff != "" {
		t.Errorf("Samples() mismatch (-want +got):\n%s", diff)
	}
	lo, hi := c.Domain()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 2.0, hi)
	assert.InDelta(t, 20.0, c.Evaluate(1.5), 1e-12)
}

func TestNewRejectsBadSamples(t *testing.T) {
	tests := []struct {
		name string
		us   []float64
		vs   []float64
	}{
		{name: "Test case 1: single sample", us: []float64{0}, vs: []float64{1}},
		{name: "Test case 2: length mismatch", us: []float64{0, 1}, vs: []float64{1}},
		{name: "Test case 3: duplicate abscissa", us: []float64{0, 1, 1}, vs: []float64{0, 1, 2}},
		{name: "Test case 4: no samples", us: nil, vs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("bad", tt.us, tt.vs)
			assert.ErrorIs(t, err, core.ErrConfiguration)
		})
	}
}

func TestFromSamples(t *testing.T) {
	c, err := FromSamples("pairs", []Sample{{U: 1, V: 2}, {U: 0, V: 0}})
	require.NoError(t, err)
	assert.Equal(t, "pairs", c.Name())
	assert.InDelta(t, 1.0, c.Evaluate(0.5), 1e-12)
}

func TestNewDiagram(t *testing.T) {
	raffinate := []core.Composition{
		{A: 1, B: 0, C: 0},
		{A: 0.25, B: 0.5, C: 0.25},
		{A: 0, B: 0.5, C: 0.5},
	}
	extract := []core.Composition{
		{A: 0.1, B: 0.9, C: 0},
		{A: 0.05, B: 0.9, C: 0.05},
		{A: 0, B: 0.9, C: 0.1},
	}

	d, err := NewDiagram(raffinate, extract)
	require.NoError(t, err)

	// Raffinate X values are 0, 0.5, 1 with carrier ratios 0, 1, 1.
	assert.InDelta(t, 0.5, d.Raffinate.Evaluate(0.25), 1e-12)
	// Extract carrier ratio is 9 everywhere.
	assert.InDelta(t, 9.0, d.Extract.Evaluate(0.3), 1e-12)
	// Distribution maps each raffinate X to the paired extract Y.
	assert.InDelta(t, 0.5, d.Distribution.Evaluate(0.5), 1e-12)

	tl := d.TieLineAt(0.5)
	assert.InDelta(t, 0.5, tl.Raffinate.X, 1e-12)
	assert.InDelta(t, 1.0, tl.Raffinate.N, 1e-12)
	assert.InDelta(t, 0.5, tl.Extract.X, 1e-12)
	assert.InDelta(t, 9.0, tl.Extract.N, 1e-12)
	assert.InDelta(t, 9.0, d.ExtractCarrierAt(0.5), 1e-12)
}

func TestNewDiagramErrors(t *testing.T) {
	good := []core.Composition{{A: 1}, {A: 0.5, C: 0.5}}

	_, err := NewDiagram(good, good[:1])
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = NewDiagram(good, []core.Composition{{A: 1}, {B: 1}})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = NewDiagramFromCurves(nil, nil, nil)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
