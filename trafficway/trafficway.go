// Package trafficway builds the per-connection lane geometry and markings
// intermediate representation.
//
// Grounded on _examples/original_source/intermediate_representation/
// ir_traffic_way.py. The per-index (not cumulative) lane-boundary offset
// is the REDESIGN FLAG fix spec.md §4.H/§9 calls for; the central normal
// drops the dz leak for the same reason. Parallel per-connection dispatch
// follows the teacher's own github.com/Emeline-1/pool usage
// (anaximander_driver.go, rib.go).
package trafficway

import (
	"strconv"

	pool "github.com/Emeline-1/pool"

	"github.com/Emeline-1/citygen/curve"
	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/geom"
)

// LaneWidth mirrors intersection.LaneWidth; kept as an independent constant
// (rather than importing the intersection package) since §4.H and §4.G use
// it as an unrelated, independently tunable parameter in the original.
const LaneWidth = 3.85

// SolidLineLengthBeforeIntersection is the arc length, measured from each
// end of a traffic way's centerline, over which an interior lane boundary's
// dashed marking gives way to a solid one near an intersection.
const SolidLineLengthBeforeIntersection = 15.0

const trafficwayConcurrency = 16

// MarkingKind is the paint style of one lane-boundary marking segment.
type MarkingKind int

const (
	SolidYellow MarkingKind = iota
	SolidWhite
	DashedWhite
)

// Marking is one painted window, in curve-parameter space, on a lane
// boundary curve.
type Marking struct {
	Kind   MarkingKind
	T1, T2 float64
}

// Lane is one travel lane, referencing its bounding curves and adjacent
// lanes by integer index (never by direct pointer) to avoid the cyclic
// object graph the reference's lane-object references would otherwise
// form (§9).
type Lane struct {
	LeftCurveIndex, RightCurveIndex int

	LeftLaneChangeWindows  []Marking
	RightLaneChangeWindows []Marking
	LeftAdjacentLaneIndex  int // -1 if none
	RightAdjacentLaneIndex int // -1 if none
}

// TrafficWay is the full IR for one directed connection.
type TrafficWay struct {
	Connection flow.ProbeConnectionFlow
	Centerline curve.CatmulRomCurve3

	// BoundaryCurves has LaneCount+1 entries: boundary i is centerline
	// offset by i*LaneWidth along the central normal.
	BoundaryCurves []curve.CatmulRomCurve3
	Markings       [][]Marking // per boundary curve

	Lanes []Lane

	EntranceLanes []int
	ExitLanes     []int
}

func (w *TrafficWay) LaneCount() int { return len(w.Lanes) }

// Params bundles the §6 tunables cmd/citygen surfaces as -lane-width and
// -solid-line-length.
type Params struct {
	LaneWidth                         float64
	SolidLineLengthBeforeIntersection float64
}

// DefaultParams returns the baseline's tunable values.
func DefaultParams() Params {
	return Params{LaneWidth: LaneWidth, SolidLineLengthBeforeIntersection: SolidLineLengthBeforeIntersection}
}

// Build constructs one TrafficWay per (connection, centerline) pair, in
// input order, dispatched over the teacher's worker pool, using the
// baseline's default tunables.
func Build(conns []flow.ProbeConnectionFlow, centerlines []curve.CatmulRomCurve3) []*TrafficWay {
	return BuildWithParams(conns, centerlines, DefaultParams())
}

// BuildWithParams is Build with caller-supplied lane-width and
// solid-line-length tunables.
func BuildWithParams(conns []flow.ProbeConnectionFlow, centerlines []curve.CatmulRomCurve3, params Params) []*TrafficWay {
	ways := make([]*TrafficWay, len(conns))
	jobs := make([]string, len(conns))
	for i := range jobs {
		jobs[i] = strconv.Itoa(i)
	}

	pool.Launch_pool(trafficwayConcurrency, jobs, func(job string) {
		i, _ := strconv.Atoi(job)
		ways[i] = buildOne(conns[i], centerlines[i], params)
	})
	return ways
}

func buildOne(conn flow.ProbeConnectionFlow, centerline curve.CatmulRomCurve3, params Params) *TrafficWay {
	n := conn.LaneCount
	normal := centralNormal(centerline)

	boundaries := make([]curve.CatmulRomCurve3, n+1)
	for i := 0; i <= n; i++ {
		boundaries[i] = translate(centerline, normal.Scale(float64(i)*params.LaneWidth))
	}

	markings := make([][]Marking, n+1)
	for i := 0; i <= n; i++ {
		markings[i] = boundaryMarkings(boundaries[i], i, n, params.SolidLineLengthBeforeIntersection)
	}

	lanes := make([]Lane, n)
	for i := 0; i < n; i++ {
		lane := Lane{
			LeftCurveIndex:         i,
			RightCurveIndex:        i + 1,
			LeftAdjacentLaneIndex:  -1,
			RightAdjacentLaneIndex: -1,
		}
		if i > 0 {
			lane.LeftLaneChangeWindows = dashedWindows(markings[i])
			lane.LeftAdjacentLaneIndex = i - 1
		}
		if i < n-1 {
			lane.RightLaneChangeWindows = dashedWindows(markings[i+1])
			lane.RightAdjacentLaneIndex = i + 1
		}
		lanes[i] = lane
	}

	entrance := make([]int, n)
	exit := make([]int, n)
	for i := 0; i < n; i++ {
		entrance[i], exit[i] = i, i
	}

	return &TrafficWay{
		Connection:     conn,
		Centerline:     centerline,
		BoundaryCurves: boundaries,
		Markings:       markings,
		Lanes:          lanes,
		EntranceLanes:  entrance,
		ExitLanes:      exit,
	}
}

// centralNormal computes the unit 2D left-normal of the centerline's
// p1->p2 segment, embedded in 3D with z=0. This intentionally drops the
// dz leak the reference's (dy,-dx,dz) formula has (§9).
func centralNormal(c curve.CatmulRomCurve3) geom.Point3 {
	dir := c.P2.Sub(c.P1)
	n := geom.Point3{X: dir.Y, Y: -dir.X, Z: 0}
	return n.Unit()
}

// translate offsets every control point of c by delta, per-index from the
// original centerline rather than cumulatively (the REDESIGN FLAG fix).
func translate(c curve.CatmulRomCurve3, delta geom.Point3) curve.CatmulRomCurve3 {
	return curve.New(
		c.P0.Add(delta),
		c.P1.Add(delta),
		c.P2.Add(delta),
		c.P3.Add(delta),
	)
}

func boundaryMarkings(boundary curve.CatmulRomCurve3, index, laneCount int, solidLineLength float64) []Marking {
	t1, t2 := boundary.Domain()

	if index == 0 {
		return []Marking{{Kind: SolidYellow, T1: t1, T2: t2}}
	}
	if index == laneCount {
		return []Marking{{Kind: SolidWhite, T1: t1, T2: t2}}
	}

	dashStart, err := boundary.ArcLengthToT(solidLineLength, 0)
	if err != nil {
		dashStart = t1
	}
	dashEnd := t2 - (dashStart - t1)
	if dashEnd < dashStart {
		dashEnd = dashStart
	}

	return []Marking{
		{Kind: SolidWhite, T1: t1, T2: dashStart},
		{Kind: DashedWhite, T1: dashStart, T2: dashEnd},
		{Kind: SolidWhite, T1: dashEnd, T2: t2},
	}
}

func dashedWindows(markings []Marking) []Marking {
	var out []Marking
	for _, m := range markings {
		if m.Kind == DashedWhite {
			out = append(out, m)
		}
	}
	return out
}
