// Package curve implements the centripetal Catmull-Rom spline used as the
// centerline of every traffic way, and its arc-length reparameterization.
//
// Grounded on _examples/original_source/intermediate_representation/catmul_rom.py
// (Barry-Goldman triangular evaluation, forward-difference tangent, linear
// arc-length table). The teacher repo has no equivalent; the numeric style
// (plain math, no external matrix library) follows the teacher's own
// preference for stdlib-only numerics (see misc.go's hand-rolled helpers).
package curve

import (
	"fmt"
	"math"

	"github.com/Emeline-1/citygen/cityerr"
	"github.com/Emeline-1/citygen/geom"
)

const tangentDelta = 1e-3

// defaultSampleCount is the number of parameter samples used to build the
// arc-length table when the caller does not specify one.
const defaultSampleCount = 10

// CatmulRomCurve3 is an ordered sequence of exactly four control points,
// evaluated as a centripetal (alpha=1/2) Catmull-Rom spline between P1 and
// P2.
type CatmulRomCurve3 struct {
	P0, P1, P2, P3 geom.Point3
}

// New builds a curve from four control points.
func New(p0, p1, p2, p3 geom.Point3) CatmulRomCurve3 {
	return CatmulRomCurve3{P0: p0, P1: p1, P2: p2, P3: p3}
}

// knots returns the centripetal knot sequence t0..t3 with t0=0.
func (c CatmulRomCurve3) knots() (t0, t1, t2, t3 float64) {
	t0 = 0
	t1 = t0 + math.Sqrt(c.P1.Sub(c.P0).Norm())
	t2 = t1 + math.Sqrt(c.P2.Sub(c.P1).Norm())
	t3 = t2 + math.Sqrt(c.P3.Sub(c.P2).Norm())
	return
}

// Domain returns (t1, t2), the range over which the curve interpolates
// between P1 and P2.
func (c CatmulRomCurve3) Domain() (t1, t2 float64) {
	_, t1, t2, _ = c.knots()
	return
}

// Evaluate computes the curve position at parameter t using the
// Barry-Goldman triangular construction.
func (c CatmulRomCurve3) Evaluate(t float64) geom.Point3 {
	t0, t1, t2, t3 := c.knots()

	a1 := geom.Lerp(c.P0, c.P1, (t-t0)/(t1-t0))
	a2 := geom.Lerp(c.P1, c.P2, (t-t1)/(t2-t1))
	a3 := geom.Lerp(c.P2, c.P3, (t-t2)/(t3-t2))
	b1 := geom.Lerp(a1, a2, (t-t0)/(t2-t0))
	b2 := geom.Lerp(a2, a3, (t-t1)/(t3-t1))
	return geom.Lerp(b1, b2, (t-t1)/(t2-t1))
}

// EvaluateBatch evaluates the curve at every parameter in ts, in order.
func (c CatmulRomCurve3) EvaluateBatch(ts []float64) []geom.Point3 {
	out := make([]geom.Point3, len(ts))
	for i, t := range ts {
		out[i] = c.Evaluate(t)
	}
	return out
}

// UnitTangent returns the forward-difference unit tangent at t.
func (c CatmulRomCurve3) UnitTangent(t float64) geom.Point3 {
	p := c.Evaluate(t)
	pNext := c.Evaluate(t + tangentDelta)
	return pNext.Sub(p).Scale(1 / tangentDelta).Unit()
}

// arcLengthTable samples sampleCount parameters uniformly over [t1,t2] and
// returns the parameters together with the cumulative chord-length prefix
// sums (prefix[0] == 0).
func (c CatmulRomCurve3) arcLengthTable(sampleCount int) (ts, prefix []float64) {
	t1, t2 := c.Domain()
	ts = make([]float64, sampleCount)
	for i := range ts {
		ts[i] = t1 + (t2-t1)*float64(i)/float64(sampleCount-1)
	}
	points := c.EvaluateBatch(ts)

	prefix = make([]float64, sampleCount)
	for i := 1; i < sampleCount; i++ {
		prefix[i] = prefix[i-1] + points[i].Sub(points[i-1]).Norm()
	}
	return
}

// T2ArcLength computes the arc length from t1 to t, using sampleCount
// parameter samples (default 10 if sampleCount <= 0). t must lie in
// [t1, t2]; values outside the domain return cityerr.ErrOutOfDomain.
func (c CatmulRomCurve3) T2ArcLength(t float64, sampleCount int) (float64, error) {
	if sampleCount <= 0 {
		sampleCount = defaultSampleCount
	}
	if sampleCount < 2 {
		return 0, fmt.Errorf("curve: sample_count %d < 2: %w", sampleCount, cityerr.ErrInvalidArgument)
	}

	t1, t2 := c.Domain()
	if t < t1 || t > t2 {
		return 0, fmt.Errorf("curve: t=%g outside domain [%g,%g]: %w", t, t1, t2, cityerr.ErrOutOfDomain)
	}

	ts, prefix := c.arcLengthTable(sampleCount)

	i := 1
	for i < len(ts)-1 && ts[i] < t {
		i++
	}
	alpha := (t - ts[i-1]) / (ts[i] - ts[i-1])
	return (1-alpha)*prefix[i-1] + alpha*prefix[i], nil
}

// ArcLengthToT converts an arc length (measured from t1) back to a curve
// parameter, clamped into [t1, t2]. Fails with cityerr.ErrInvalidArgument if
// sampleCount < 2 or the curve's total arc length is zero.
func (c CatmulRomCurve3) ArcLengthToT(s float64, sampleCount int) (float64, error) {
	if sampleCount <= 0 {
		sampleCount = defaultSampleCount
	}
	if sampleCount < 2 {
		return 0, fmt.Errorf("curve: sample_count %d < 2: %w", sampleCount, cityerr.ErrInvalidArgument)
	}

	t1, t2 := c.Domain()
	ts, prefix := c.arcLengthTable(sampleCount)
	total := prefix[len(prefix)-1]
	// A fully degenerate curve (coincident knots) evaluates to NaN, so its
	// total is NaN rather than 0; both mean a zero-length curve.
	if total == 0 || math.IsNaN(total) {
		return 0, fmt.Errorf("curve: zero-length curve: %w", cityerr.ErrInvalidArgument)
	}

	i := 1
	for i < len(ts)-1 && prefix[i] < s {
		i++
	}
	alpha := (s - prefix[i-1]) / (prefix[i] - prefix[i-1])
	t := (1-alpha)*ts[i-1] + alpha*ts[i]

	if t < t1 {
		t = t1
	}
	if t > t2 {
		t = t2
	}
	return t, nil
}
