package trafficway_test

import (
	"testing"

	"github.com/Emeline-1/citygen/curve"
	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/geom"
	"github.com/Emeline-1/citygen/trafficway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightCenterline() curve.CatmulRomCurve3 {
	return curve.New(
		geom.Point3{X: -1000, Y: 0, Z: 0},
		geom.Point3{X: 0, Y: 0, Z: 0},
		geom.Point3{X: 1000, Y: 0, Z: 0},
		geom.Point3{X: 2000, Y: 0, Z: 0},
	)
}

func TestBuildLaneAndMarkingCounts(t *testing.T) {
	conns := []flow.ProbeConnectionFlow{
		{ProbeConnection: flow.ProbeConnection{Src: 0, Dst: 1}, LaneCount: 3},
	}
	ways := trafficway.Build(conns, []curve.CatmulRomCurve3{straightCenterline()})
	require.Len(t, ways, 1)

	w := ways[0]
	assert.Len(t, w.BoundaryCurves, 4) // N+1
	assert.Len(t, w.Lanes, 3)
	assert.Equal(t, []int{0, 1, 2}, w.EntranceLanes)
	assert.Equal(t, []int{0, 1, 2}, w.ExitLanes)
}

func TestBoundaryMarkingsYellowAndWhiteEdges(t *testing.T) {
	conns := []flow.ProbeConnectionFlow{
		{ProbeConnection: flow.ProbeConnection{Src: 0, Dst: 1}, LaneCount: 2},
	}
	ways := trafficway.Build(conns, []curve.CatmulRomCurve3{straightCenterline()})
	w := ways[0]

	require.Len(t, w.Markings[0], 1)
	assert.Equal(t, trafficway.SolidYellow, w.Markings[0][0].Kind)

	require.Len(t, w.Markings[len(w.Markings)-1], 1)
	assert.Equal(t, trafficway.SolidWhite, w.Markings[len(w.Markings)-1][0].Kind)
}

func TestInteriorBoundaryHasSandwichedDashedWindow(t *testing.T) {
	conns := []flow.ProbeConnectionFlow{
		{ProbeConnection: flow.ProbeConnection{Src: 0, Dst: 1}, LaneCount: 2},
	}
	ways := trafficway.Build(conns, []curve.CatmulRomCurve3{straightCenterline()})
	w := ways[0]

	interior := w.Markings[1]
	require.Len(t, interior, 3)
	assert.Equal(t, trafficway.SolidWhite, interior[0].Kind)
	assert.Equal(t, trafficway.DashedWhite, interior[1].Kind)
	assert.Equal(t, trafficway.SolidWhite, interior[2].Kind)
}

func TestLaneAdjacencyByIndexNotReference(t *testing.T) {
	conns := []flow.ProbeConnectionFlow{
		{ProbeConnection: flow.ProbeConnection{Src: 0, Dst: 1}, LaneCount: 3},
	}
	ways := trafficway.Build(conns, []curve.CatmulRomCurve3{straightCenterline()})
	lanes := ways[0].Lanes

	assert.Equal(t, -1, lanes[0].LeftAdjacentLaneIndex)
	assert.Equal(t, 1, lanes[0].RightAdjacentLaneIndex)
	assert.Equal(t, 0, lanes[1].LeftAdjacentLaneIndex)
	assert.Equal(t, 2, lanes[1].RightAdjacentLaneIndex)
	assert.Equal(t, -1, lanes[2].RightAdjacentLaneIndex)

	assert.NotEmpty(t, lanes[1].LeftLaneChangeWindows)
	assert.NotEmpty(t, lanes[1].RightLaneChangeWindows)
}
