package population_test

import (
	"testing"

	"github.com/Emeline-1/citygen/population"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbesUnique(t *testing.T) {
	probes := population.Generate(5000, 13)
	require.NotEmpty(t, probes)

	seen := make(map[[3]float64]struct{}, len(probes))
	for _, p := range probes {
		key := [3]float64{p.Location.X, p.Location.Y, p.Location.Z}
		_, dup := seen[key]
		assert.False(t, dup, "duplicate probe location %+v", p.Location)
		seen[key] = struct{}{}
	}
}

func TestProbeRangeMonotoneInSize(t *testing.T) {
	var ranges []float64
	for _, size := range []float64{3000, 5000, 7000} {
		probes := population.Generate(size, 13)
		ranges = append(ranges, diagonalRange(probes))
	}

	for i := 1; i < len(ranges); i++ {
		assert.GreaterOrEqual(t, ranges[i], ranges[i-1])
	}
}

func diagonalRange(probes []population.Probe) float64 {
	if len(probes) == 0 {
		return 0
	}
	minX, minY := probes[0].Location.X, probes[0].Location.Y
	maxX, maxY := minX, minY
	for _, p := range probes {
		if p.Location.X < minX {
			minX = p.Location.X
		}
		if p.Location.X > maxX {
			maxX = p.Location.X
		}
		if p.Location.Y < minY {
			minY = p.Location.Y
		}
		if p.Location.Y > maxY {
			maxY = p.Location.Y
		}
	}
	dx, dy := maxX-minX, maxY-minY
	return dx*dx + dy*dy
}

func TestPopulationMagnitude(t *testing.T) {
	probes := population.Generate(10000, 13)
	require.NotEmpty(t, probes)

	total := 0.0
	for _, p := range probes {
		total += p.Pop200
	}
	assert.InDelta(t, 348000.0, total, 5000.0)
}

func TestEmptyCityBelowCoreThreshold(t *testing.T) {
	probes := population.Generate(10, 13)
	assert.Empty(t, probes)
}
