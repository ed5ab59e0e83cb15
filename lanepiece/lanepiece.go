// Package lanepiece implements the searchable polyline primitive used for
// arc-length and nearest-point queries against a lane boundary curve.
//
// Grounded on _examples/original_source/navigation/lane_piece.py: the same
// nearest-vertex-then-project strategy, relying on the three preconditions
// documented there (roughly equidistant vertices with spacing < width/2,
// and segment gaps exceeding width*(sqrt(2)-1)/2) to make the heuristic
// correct. Those preconditions are design contracts, not checked here.
package lanepiece

import "github.com/Emeline-1/citygen/geom"

// LanePiece is a polyline with a constant width and a precomputed
// arc-length prefix table. It holds no spatial index: each projection query
// finds the nearest vertex by scanning every vertex (linear in the vertex
// count), then does a constant amount of local segment math.
type LanePiece struct {
	points []geom.Point3
	width  float64
	prefix []float64 // prefix[i] = arc length from points[0] to points[i]
}

// New builds a LanePiece from an ordered polyline of at least two points.
func New(points []geom.Point3, width float64) *LanePiece {
	if len(points) < 2 {
		panic("lanepiece: polyline needs at least 2 points")
	}

	prefix := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		prefix[i] = prefix[i-1] + points[i].Sub(points[i-1]).Norm()
	}

	return &LanePiece{points: append([]geom.Point3(nil), points...), width: width, prefix: prefix}
}

// Length returns the total polyline length.
func (lp *LanePiece) Length() float64 {
	return lp.prefix[len(lp.prefix)-1]
}

// Width returns the constant lane-piece width.
func (lp *LanePiece) Width() float64 {
	return lp.width
}

// nearestVertex is the lane piece's k-NN index query with k=1: it scans the
// (typically short) vertex list and returns the closest one. The
// preconditions on vertex spacing guarantee this is sufficient to seed the
// segment-projection logic in findSegment.
func (lp *LanePiece) nearestVertex(loc geom.Point3) int {
	best, bestDist := 0, loc.Distance(lp.points[0])
	for i := 1; i < len(lp.points); i++ {
		if d := loc.Distance(lp.points[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// segmentProjection projects loc onto the segment (points[a], points[a+1])
// and returns the signed abscissa along the segment direction and the
// projected point.
func (lp *LanePiece) segmentProjection(a int, loc geom.Point3) (abscissa float64, projected geom.Point3) {
	p0, p1 := lp.points[a], lp.points[a+1]
	dir := p1.Sub(p0)
	segLen := dir.Norm()
	if segLen == 0 {
		return 0, p0
	}
	u := dir.Scale(1 / segLen)
	abscissa = loc.Sub(p0).Dot(u)
	return abscissa, p0.Add(u.Scale(abscissa))
}

// segmentResult describes which segment FindSegment chose, or that loc
// falls before the start / past the end of the polyline.
type segmentResult struct {
	segment   int // index a such that the chosen segment is (a, a+1); unset (0) if before/after
	beforeAll bool
	afterAll  bool
	abscissa  float64
	projected geom.Point3
}

// findSegment implements the nearest-vertex-then-project heuristic from
// §4.C: find the nearest vertex i, then decide whether loc lies on the
// segment ending at i, the segment starting at i, before the polyline
// start, or past its end.
func (lp *LanePiece) findSegment(loc geom.Point3) segmentResult {
	i := lp.nearestVertex(loc)
	last := len(lp.points) - 1

	if i == last {
		abscissa, projected := lp.segmentProjection(i-1, loc)
		segLen := lp.points[i].Sub(lp.points[i-1]).Norm()
		if abscissa > segLen {
			return segmentResult{afterAll: true}
		}
		return segmentResult{segment: i - 1, abscissa: abscissa, projected: projected}
	}

	abscissa, projected := lp.segmentProjection(i, loc)
	if abscissa >= 0 {
		return segmentResult{segment: i, abscissa: abscissa, projected: projected}
	}

	if i == 0 {
		return segmentResult{beforeAll: true}
	}

	abscissaPrev, projectedPrev := lp.segmentProjection(i-1, loc)
	return segmentResult{segment: i - 1, abscissa: abscissaPrev, projected: projectedPrev}
}

// LengthFromStart returns the arc length from the polyline start to the
// point of loc's projection onto the polyline (clamped to [0, Length()] at
// the ends).
func (lp *LanePiece) LengthFromStart(loc geom.Point3) float64 {
	r := lp.findSegment(loc)
	switch {
	case r.beforeAll:
		return 0
	case r.afterAll:
		return lp.Length()
	default:
		return lp.prefix[r.segment] + r.abscissa
	}
}

// LengthFromStartToLocation is an alias for LengthFromStart matching the
// spec's naming in §8 scenario S2.
func (lp *LanePiece) LengthFromStartToLocation(loc geom.Point3) float64 {
	return lp.LengthFromStart(loc)
}

// LengthFromLocationToEnd returns Length() - LengthFromStart(loc).
func (lp *LanePiece) LengthFromLocationToEnd(loc geom.Point3) float64 {
	return lp.Length() - lp.LengthFromStart(loc)
}

// DistanceToLocation returns the Euclidean distance from loc to its
// projection onto the polyline (or to the corresponding endpoint, if loc
// falls before the start or past the end).
func (lp *LanePiece) DistanceToLocation(loc geom.Point3) float64 {
	r := lp.findSegment(loc)
	switch {
	case r.beforeAll:
		return loc.Distance(lp.points[0])
	case r.afterAll:
		return loc.Distance(lp.points[len(lp.points)-1])
	default:
		return loc.Distance(r.projected)
	}
}
