package intersection_test

import (
	"testing"

	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/geom"
	"github.com/Emeline-1/citygen/intersection"
	"github.com/Emeline-1/citygen/population"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s4Probes() []population.Probe {
	return []population.Probe{
		{Location: geom.Point3{X: 0, Y: 0, Z: 0}},
		{Location: geom.Point3{X: 500, Y: 0, Z: 0}},
		{Location: geom.Point3{X: 1000, Y: 0, Z: 0}},
	}
}

func s4Conns() []flow.ProbeConnectionFlow {
	return []flow.ProbeConnectionFlow{
		{ProbeConnection: flow.ProbeConnection{Src: 0, Dst: 1}, LaneCount: 2},
		{ProbeConnection: flow.ProbeConnection{Src: 1, Dst: 0}, LaneCount: 1},
		{ProbeConnection: flow.ProbeConnection{Src: 1, Dst: 2}, LaneCount: 1},
		{ProbeConnection: flow.ProbeConnection{Src: 2, Dst: 1}, LaneCount: 3},
	}
}

func TestIntersectionAreaRadii(t *testing.T) {
	areas := intersection.ComputeAreas(s4Probes(), s4Conns())
	require.Len(t, areas, 3)

	byProbe := make(map[int]*intersection.Area, len(areas))
	for _, a := range areas {
		byProbe[a.Probe] = a
	}

	assert.InDelta(t, 5.775, byProbe[0].Radius, 1e-9)
	assert.InDelta(t, 7.7, byProbe[1].Radius, 1e-9)
	assert.InDelta(t, 7.7, byProbe[2].Radius, 1e-9)
}

func TestIntersectionAreaMergesOpposingLanes(t *testing.T) {
	areas := intersection.ComputeAreas(s4Probes(), s4Conns())
	byProbe := make(map[int]*intersection.Area, len(areas))
	for _, a := range areas {
		byProbe[a.Probe] = a
	}

	// Probe 1 merges 0<->1 into a 3-lane street and 1<->2 into a 4-lane
	// street; probes 0 and 2 each see a single merged street (2+1 and 1+3).
	assert.Equal(t, 4, byProbe[1].MaxLanes)
	assert.Equal(t, 3, byProbe[0].MaxLanes)
	assert.Equal(t, 4, byProbe[2].MaxLanes)
}
