package curve_test

import (
	"testing"

	"github.com/Emeline-1/citygen/cityerr"
	"github.com/Emeline-1/citygen/curve"
	"github.com/Emeline-1/citygen/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1 from the spec: a simple near-straight spline with a known arc length.
func s1Curve() curve.CatmulRomCurve3 {
	return curve.New(
		geom.Point3{X: -15, Y: -20},
		geom.Point3{X: -10, Y: -10},
		geom.Point3{X: 10, Y: 10},
		geom.Point3{X: 15, Y: 20},
	)
}

func TestDomainEndpointInterpolation(t *testing.T) {
	c := s1Curve()
	t1, t2 := c.Domain()

	p1 := c.Evaluate(t1)
	p2 := c.Evaluate(t2)

	assert.InDelta(t, -10.0, p1.X, 1e-6)
	assert.InDelta(t, -10.0, p1.Y, 1e-6)
	assert.InDelta(t, 10.0, p2.X, 1e-6)
	assert.InDelta(t, 10.0, p2.Y, 1e-6)
}

func TestArcLengthTotalAndMidpoint(t *testing.T) {
	c := s1Curve()
	t1, t2 := c.Domain()

	total, err := c.T2ArcLength(t2, 10)
	require.NoError(t, err)
	assert.InDelta(t, 28.3, total, 0.1)

	mid := (t1 + t2) / 2
	midLen, err := c.T2ArcLength(mid, 10)
	require.NoError(t, err)
	assert.InDelta(t, 14.2, midLen, 0.2)
}

func TestArcLengthMonotonic(t *testing.T) {
	c := s1Curve()
	t1, t2 := c.Domain()

	prev := -1.0
	for i := 0; i <= 20; i++ {
		tt := t1 + (t2-t1)*float64(i)/20
		s, err := c.T2ArcLength(tt, 10)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s, prev)
		prev = s
	}
}

func TestArcLengthRoundTrip(t *testing.T) {
	c := s1Curve()
	t1, t2 := c.Domain()
	avgGap := (t2 - t1) / 9

	for i := 1; i < 9; i++ {
		tt := t1 + (t2-t1)*float64(i)/9
		s, err := c.T2ArcLength(tt, 10)
		require.NoError(t, err)

		back, err := c.ArcLengthToT(s, 10)
		require.NoError(t, err)
		assert.InDelta(t, tt, back, avgGap*0.1+1e-9)
	}
}

func TestT2ArcLengthRejectsSmallSampleCount(t *testing.T) {
	c := s1Curve()
	_, t2 := c.Domain()
	_, err := c.T2ArcLength(t2, 1)
	require.ErrorIs(t, err, cityerr.ErrInvalidArgument)
}

func TestT2ArcLengthRejectsOutOfDomain(t *testing.T) {
	c := s1Curve()
	t1, t2 := c.Domain()
	_, err := c.T2ArcLength(t2+1, 10)
	require.ErrorIs(t, err, cityerr.ErrOutOfDomain)
	_, err = c.T2ArcLength(t1-1, 10)
	require.ErrorIs(t, err, cityerr.ErrOutOfDomain)
}

func TestArcLengthToTRejectsZeroLengthCurve(t *testing.T) {
	p := geom.Point3{X: 1, Y: 1}
	c := curve.New(p, p, p, p)
	_, err := c.ArcLengthToT(1, 10)
	require.ErrorIs(t, err, cityerr.ErrInvalidArgument)
}

func TestUnitTangentIsUnitLength(t *testing.T) {
	c := s1Curve()
	t1, t2 := c.Domain()
	tan := c.UnitTangent((t1 + t2) / 2)
	assert.InDelta(t, 1.0, tan.Norm(), 1e-6)
}
