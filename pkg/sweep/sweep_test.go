package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-d/liquid-extraction/pkg/config"
	"github.com/llm-d/liquid-extraction/pkg/core"
	"github.com/llm-d/liquid-extraction/pkg/curve"
)

func linearDiagram(t *testing.T) *curve.Diagram {
	t.Helper()
	raffinate, err := curve.New(curve.RaffinateCurveName, []float64{0, 1}, []float64{0, 0})
	require.NoError(t, err)
	extract, err := curve.New(curve.ExtractCurveName, []float64{0, 1}, []float64{10, 10})
	require.NoError(t, err)
	distribution, err := curve.New(curve.DistributionCurveName, []float64{0, 1}, []float64{0, 2})
	require.NoError(t, err)
	d, err := curve.NewDiagramFromCurves(raffinate, extract, distribution)
	require.NoError(t, err)
	return d
}

func baseCase() Case {
	return Case{
		Feed:    core.Stream{Mass: 100, X: 0.5, N: 0},
		Solvent: core.EffectiveSolvent{Mass: 110, Ys: 0, Ns: 10},
		Stages:  1,
	}
}

func TestGrid(t *testing.T) {
	cases := Grid(baseCase(), []int{1, 2}, []float64{110, 220})
	require.Len(t, cases, 4)
	assert.Equal(t, 1, cases[0].Stages)
	assert.Equal(t, 110.0, cases[0].Solvent.Mass)
	assert.Equal(t, 2, cases[3].Stages)
	assert.Equal(t, 220.0, cases[3].Solvent.Mass)
	assert.Equal(t, "stages=2,solvent=220", cases[3].Name)
	assert.Equal(t, 10.0, cases[3].Solvent.Ns)

	single := Grid(baseCase(), nil, nil)
	require.Len(t, single, 1)
	assert.Equal(t, baseCase().Stages, single[0].Stages)
}

func TestRunPreservesOrder(t *testing.T) {
	runner, err := NewRunner(linearDiagram(t), config.Defaults(), WithConcurrency(3))
	require.NoError(t, err)

	cases := Grid(baseCase(), []int{1, 2, 3, 4, 5, 6}, nil)
	results, err := runner.Run(context.Background(), cases)
	require.NoError(t, err)
	require.Len(t, results, len(cases))

	for i, res := range results {
		require.NoError(t, res.Err, res.Case.Name)
		assert.Equal(t, cases[i], res.Case)
		assert.Len(t, res.Result.Stages, i+1)
		assert.InDelta(t, 110*float64(i+1), res.Result.Composite.TotalExtractMass, 1e-6)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	runner, err := NewRunner(linearDiagram(t), config.Defaults())
	require.NoError(t, err)

	bad := baseCase()
	bad.Stages = -1
	results, err := runner.Run(context.Background(), []Case{baseCase(), bad, baseCase()})
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, core.ErrConfiguration)
	assert.Nil(t, results[1].Result)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, results[0].Result, results[2].Result)
}

func TestRunCancelled(t *testing.T) {
	runner, err := NewRunner(linearDiagram(t), config.Defaults(), WithConcurrency(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Run(ctx, Grid(baseCase(), []int{1, 2, 3}, nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerErrors(t *testing.T) {
	_, err := NewRunner(nil, config.Defaults())
	assert.ErrorIs(t, err, core.ErrConfiguration)

	cfg := config.Defaults()
	cfg.MaxIterations = 0
	_, err = NewRunner(linearDiagram(t), cfg)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
