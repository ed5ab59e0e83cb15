package lanepiece_test

import (
	"testing"

	"github.com/Emeline-1/citygen/geom"
	"github.com/Emeline-1/citygen/lanepiece"
	"github.com/stretchr/testify/assert"
)

// S2 from the spec.
func s2Piece() *lanepiece.LanePiece {
	return lanepiece.New([]geom.Point3{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
	}, 3.2)
}

func TestLanePieceLength(t *testing.T) {
	lp := s2Piece()
	assert.Equal(t, 1.0, lp.Length())
}

func TestLanePieceDistanceToLocation(t *testing.T) {
	lp := s2Piece()
	assert.InDelta(t, 0.5, lp.DistanceToLocation(geom.Point3{X: 0.2, Y: 0.5}), 1e-9)
}

func TestLanePieceBeforeStart(t *testing.T) {
	lp := s2Piece()
	assert.Equal(t, 0.0, lp.LengthFromStartToLocation(geom.Point3{X: -0.2, Y: 1}))
}

func TestLanePieceAfterEnd(t *testing.T) {
	lp := s2Piece()
	assert.Equal(t, 1.0, lp.LengthFromStartToLocation(geom.Point3{X: 1.5, Y: 1}))
}

func TestLanePieceLengthFromStartMatchesSegmentSum(t *testing.T) {
	lp := lanepiece.New([]geom.Point3{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 2, Y: 1},
	}, 0.5)

	expected := 0.0
	pts := []geom.Point3{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}}
	for i := 1; i < len(pts); i++ {
		expected += pts[i].Sub(pts[i-1]).Norm()
	}
	assert.InDelta(t, expected, lp.Length(), 1e-9)
}

func TestLanePieceProjectionBoundsSumToLength(t *testing.T) {
	lp := lanepiece.New([]geom.Point3{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 2, Y: 1},
	}, 0.5)

	candidates := []geom.Point3{
		{X: 0.5, Y: 0.1},
		{X: 1.1, Y: 0.5},
		{X: -1, Y: 0},
		{X: 5, Y: 1},
	}
	for _, c := range candidates {
		sum := lp.LengthFromStartToLocation(c) + lp.LengthFromLocationToEnd(c)
		assert.InDelta(t, lp.Length(), sum, 1e-9)
	}
}
