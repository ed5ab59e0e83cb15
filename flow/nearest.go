package flow

import (
	"context"

	"github.com/Emeline-1/citygen/population"
)

// Nearest is a trivial, in-repo stand-in for the real topology/flow solver:
// it connects each probe to its single nearest neighbor in both directions
// and reports a uniform one-lane flow. It exists so the rest of the
// pipeline (street curves, traffic ways, intersections) can be exercised
// end-to-end in tests and CLI demo mode without a real solver wired in.
// It is not a claim to approximate the real oracle's regularity/efficiency
// optimization in any way.
type Nearest struct{}

var _ Oracle = Nearest{}

// ComputeTopology connects every probe to its nearest other probe, in both
// directions, ignoring regularitySteps/efficiencySteps (the real solver's
// tuning knobs have no equivalent here). The reported score is always 0.
func (Nearest) ComputeTopology(_ context.Context, probes []population.Probe, _, _ uint32) ([]ProbeConnection, float64, error) {
	if len(probes) < 2 {
		return nil, 0, nil
	}

	conns := make([]ProbeConnection, 0, 2*len(probes))
	for i := range probes {
		j := nearestOther(probes, i)
		conns = append(conns, ProbeConnection{Src: i, Dst: j}, ProbeConnection{Src: j, Dst: i})
	}
	return dedupConnections(conns), 0, nil
}

// EstimateFlow reports a uniform single-lane flow for every requested
// connection, independent of population and iterationCount.
func (Nearest) EstimateFlow(_ context.Context, _ []population.Probe, conns []ProbeConnection, _ uint32) ([]ProbeConnectionFlow, error) {
	out := make([]ProbeConnectionFlow, len(conns))
	for i, c := range conns {
		out[i] = ProbeConnectionFlow{ProbeConnection: c, Flow: 1, LaneCount: 1}
	}
	return out, nil
}

func nearestOther(probes []population.Probe, i int) int {
	best := -1
	bestDist := 0.0
	for j := range probes {
		if j == i {
			continue
		}
		d := probes[i].Location.Distance(probes[j].Location)
		if best == -1 || d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func dedupConnections(conns []ProbeConnection) []ProbeConnection {
	seen := make(map[ProbeConnection]struct{}, len(conns))
	out := make([]ProbeConnection, 0, len(conns))
	for _, c := range conns {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
