// Package intersection computes the circular intersection area at each
// probe from the incident directed traffic ways.
//
// Grounded on _examples/original_source/procedural/street/intersection_area.py
// for the merge/sort/radius pipeline; the polar sort and tolerance-based
// direction matching follow the teacher's own style of small, single-purpose
// helper functions (e.g. anaximander_greedy.go's pairwise comparisons).
package intersection

import (
	"math"
	"sort"

	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/geom"
	"github.com/Emeline-1/citygen/population"
)

// Default tunables from §4.G/§6.
const (
	LaneWidth                     = 3.85
	IntersectionAreaScalingFactor = 1.5

	// sameDirectionRelTol is the relative tolerance used to decide that two
	// directed ways at a probe point the same way (and should be merged
	// into one street).
	sameDirectionRelTol = 1e-3
)

// Params bundles the tunables §6 surfaces as CLI flags in cmd/citygen.
type Params struct {
	LaneWidth                     float64
	IntersectionAreaScalingFactor float64
}

// DefaultParams returns the baseline's tunable values.
func DefaultParams() Params {
	return Params{LaneWidth: LaneWidth, IntersectionAreaScalingFactor: IntersectionAreaScalingFactor}
}

// Area is the circular intersection area computed at one probe.
type Area struct {
	Probe     int
	Center    geom.Point3
	Radius    float64
	MaxLanes  int
	// Streets holds the merged, polar-sorted per-direction streets used to
	// derive Radius. streetcurve's boundary cuts read only Center and
	// Radius, and intersectionir orders its ways independently.
	Streets []MergedStreet
}

// MergedStreet is one or two same-direction traffic ways at a probe, merged
// into a single angular slot for the radius computation.
type MergedStreet struct {
	Direction geom.Point3 // unit direction, outward from the probe
	LaneCount int         // summed lane count of the merged ways
	Ways      []flow.ProbeConnectionFlow
}

// ComputeAreas computes the intersection area for every probe that appears
// in conns, in probe-index order, using the baseline's default tunables.
func ComputeAreas(probes []population.Probe, conns []flow.ProbeConnectionFlow) []*Area {
	return ComputeAreasWithParams(probes, conns, DefaultParams())
}

// ComputeAreasWithParams is ComputeAreas with caller-supplied lane-width
// and scaling-factor tunables (surfaced as -lane-width/-intersection-scale
// in cmd/citygen).
func ComputeAreasWithParams(probes []population.Probe, conns []flow.ProbeConnectionFlow, params Params) []*Area {
	byProbe := make(map[int][]flow.ProbeConnectionFlow)
	for _, c := range conns {
		byProbe[c.Src] = append(byProbe[c.Src], c)
		byProbe[c.Dst] = append(byProbe[c.Dst], c)
	}

	probeIDs := make([]int, 0, len(byProbe))
	for p := range byProbe {
		probeIDs = append(probeIDs, p)
	}
	sort.Ints(probeIDs)

	areas := make([]*Area, len(probeIDs))
	for i, p := range probeIDs {
		areas[i] = computeAreaAt(probes, p, byProbe[p], params)
	}
	return areas
}

func computeAreaAt(probes []population.Probe, p int, incident []flow.ProbeConnectionFlow, params Params) *Area {
	center := probes[p].Location

	ways := make([]wayAt, 0, len(incident))
	for _, c := range incident {
		var dir geom.Point3
		if c.Src == p {
			dir = probes[c.Dst].Location.Sub(probes[c.Src].Location)
		} else {
			dir = probes[c.Src].Location.Sub(probes[c.Dst].Location)
		}
		ways = append(ways, wayAt{dir: dir.Unit(), conn: c})
	}

	merged := mergeSameDirection(ways)
	sortPolar(merged)

	maxLanes := 0
	for _, s := range merged {
		if s.LaneCount > maxLanes {
			maxLanes = s.LaneCount
		}
	}

	return &Area{
		Probe:    p,
		Center:   center,
		Radius:   float64(maxLanes) * params.LaneWidth / 2 * params.IntersectionAreaScalingFactor,
		MaxLanes: maxLanes,
		Streets:  merged,
	}
}

type wayAt struct {
	dir  geom.Point3
	conn flow.ProbeConnectionFlow
}

// mergeSameDirection groups ways pointing the same way (within
// sameDirectionRelTol) into a single MergedStreet with summed lane count.
func mergeSameDirection(ways []wayAt) []MergedStreet {
	used := make([]bool, len(ways))
	var merged []MergedStreet

	for i := range ways {
		if used[i] {
			continue
		}
		used[i] = true
		group := MergedStreet{Direction: ways[i].dir, LaneCount: ways[i].conn.LaneCount, Ways: []flow.ProbeConnectionFlow{ways[i].conn}}

		for j := i + 1; j < len(ways); j++ {
			if used[j] {
				continue
			}
			if sameDirection(ways[i].dir, ways[j].dir) {
				used[j] = true
				group.LaneCount += ways[j].conn.LaneCount
				group.Ways = append(group.Ways, ways[j].conn)
			}
		}
		merged = append(merged, group)
	}
	return merged
}

func sameDirection(a, b geom.Point3) bool {
	dx := math.Abs(a.X-b.X) <= sameDirectionRelTol*math.Max(1, math.Abs(a.X))
	dy := math.Abs(a.Y-b.Y) <= sameDirectionRelTol*math.Max(1, math.Abs(a.Y))
	dz := math.Abs(a.Z-b.Z) <= sameDirectionRelTol*math.Max(1, math.Abs(a.Z))
	return dx && dy && dz
}

// sortPolar sorts streets counter-clockwise by atan2(dir_x, dir_y), the
// ordering convention §4.G fixes (distinct from §4.J's atan2(dir_y, dir_x)).
func sortPolar(streets []MergedStreet) {
	sort.Slice(streets, func(i, j int) bool {
		return math.Atan2(streets[i].Direction.X, streets[i].Direction.Y) <
			math.Atan2(streets[j].Direction.X, streets[j].Direction.Y)
	})
}
