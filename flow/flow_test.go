package flow_test

import (
	"context"
	"testing"

	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/geom"
	"github.com/Emeline-1/citygen/population"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probesAt(coords ...[2]float64) []population.Probe {
	probes := make([]population.Probe, len(coords))
	for i, c := range coords {
		probes[i] = population.Probe{Location: geom.Point3{X: c[0], Y: c[1]}}
	}
	return probes
}

func TestConnectionIDAndReverse(t *testing.T) {
	c := flow.ProbeConnection{Src: 3, Dst: 7}
	assert.Equal(t, "3_7", c.ID())
	assert.Equal(t, flow.ProbeConnection{Src: 7, Dst: 3}, c.Reverse())
}

func TestNearestComputeTopologyConnectsClosestPair(t *testing.T) {
	probes := probesAt([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{100, 100})

	conns, score, err := (flow.Nearest{}).ComputeTopology(context.Background(), probes, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
	assert.Contains(t, conns, flow.ProbeConnection{Src: 0, Dst: 1})
	assert.Contains(t, conns, flow.ProbeConnection{Src: 1, Dst: 0})
}

func TestNearestEstimateFlowIsUniform(t *testing.T) {
	conns := []flow.ProbeConnection{{Src: 0, Dst: 1}, {Src: 1, Dst: 0}}
	flows, err := (flow.Nearest{}).EstimateFlow(context.Background(), nil, conns, 0)
	require.NoError(t, err)
	require.Len(t, flows, 2)
	for _, f := range flows {
		assert.Equal(t, 1.0, f.Flow)
		assert.Equal(t, 1, f.LaneCount)
	}
}

func TestAdapterDelegatesToOracle(t *testing.T) {
	a := flow.Adapter{Oracle: flow.Nearest{}}
	probes := probesAt([2]float64{0, 0}, [2]float64{1, 0})
	conns, _, err := a.ComputeTopology(context.Background(), probes, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, conns)

	flows, err := a.EstimateFlow(context.Background(), probes, conns, 0)
	require.NoError(t, err)
	assert.Len(t, flows, len(conns))
}
