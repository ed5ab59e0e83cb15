// Package intersectionir builds per-probe inbound/outbound routing: which
// lane of which incoming traffic way feeds which lane of which outgoing
// traffic way.
//
// Grounded on _examples/original_source/intermediate_representation/
// ir_intersection.py (TrafficWayIO construction, U-turn handling, the
// backward walk collecting cross/forward outbounds, and the two-stride
// lane assignment). Parallel per-probe dispatch follows the teacher's own
// github.com/Emeline-1/pool usage.
package intersectionir

import (
	"math"
	"sort"
	"strconv"

	pool "github.com/Emeline-1/pool"

	"github.com/Emeline-1/citygen/population"
	"github.com/Emeline-1/citygen/trafficway"
)

const intersectionirConcurrency = 16

// TrafficWayIO pairs a neighbor's inbound and/or outbound traffic way at a
// probe.
type TrafficWayIO struct {
	Neighbor int
	Inbound  *trafficway.TrafficWay // way neighbor->probe, nil if absent
	Outbound *trafficway.TrafficWay // way probe->neighbor, nil if absent
	Dir      [2]float64             // unit direction probe->neighbor, input to the sort key (see angle)
}

// Connection is one inbound-lane-to-outbound-way routing at an
// intersection, mirroring the reference's (inbound, lane, outbound)
// triple exactly.
type Connection struct {
	Inbound     *trafficway.TrafficWay
	InboundLane int
	Outbound    *trafficway.TrafficWay
}

// Intersection is the full routing IR for one probe.
type Intersection struct {
	Probe       int
	IOs         []TrafficWayIO
	Connections []Connection
}

// Build computes the Intersection IR for every probe that appears as a
// traffic-way endpoint, in probe-index order, dispatched over the worker
// pool.
func Build(probes []population.Probe, ways []*trafficway.TrafficWay) []*Intersection {
	byProbe := make(map[int][]*trafficway.TrafficWay)
	for _, w := range ways {
		byProbe[w.Connection.Src] = append(byProbe[w.Connection.Src], w)
		byProbe[w.Connection.Dst] = append(byProbe[w.Connection.Dst], w)
	}

	probeIDs := make([]int, 0, len(byProbe))
	for p := range byProbe {
		probeIDs = append(probeIDs, p)
	}
	sort.Ints(probeIDs)

	results := make([]*Intersection, len(probeIDs))
	jobs := make([]string, len(probeIDs))
	for i := range jobs {
		jobs[i] = strconv.Itoa(i)
	}

	pool.Launch_pool(intersectionirConcurrency, jobs, func(job string) {
		i, _ := strconv.Atoi(job)
		p := probeIDs[i]
		results[i] = buildOne(probes, p, byProbe[p])
	})
	return results
}

func buildOne(probes []population.Probe, p int, incident []*trafficway.TrafficWay) *Intersection {
	ioByNeighbor := make(map[int]*TrafficWayIO)
	for _, w := range incident {
		var neighbor int
		var inbound, outbound *trafficway.TrafficWay
		if w.Connection.Src == p {
			neighbor = w.Connection.Dst
			outbound = w
		} else {
			neighbor = w.Connection.Src
			inbound = w
		}

		io, ok := ioByNeighbor[neighbor]
		if !ok {
			dx := probes[neighbor].Location.X - probes[p].Location.X
			dy := probes[neighbor].Location.Y - probes[p].Location.Y
			norm := math.Hypot(dx, dy)
			if norm == 0 {
				norm = 1
			}
			io = &TrafficWayIO{Neighbor: neighbor, Dir: [2]float64{dx / norm, dy / norm}}
			ioByNeighbor[neighbor] = io
		}
		if inbound != nil {
			io.Inbound = inbound
		}
		if outbound != nil {
			io.Outbound = outbound
		}
	}

	ios := make([]TrafficWayIO, 0, len(ioByNeighbor))
	for _, io := range ioByNeighbor {
		ios = append(ios, *io)
	}
	sort.Slice(ios, func(i, j int) bool { return angle(ios[i]) < angle(ios[j]) })

	var conns []Connection
	k := len(ios)
	for j, io := range ios {
		if io.Inbound == nil {
			continue
		}

		if io.Outbound != nil {
			conns = append(conns, Connection{Inbound: io.Inbound, InboundLane: 0, Outbound: io.Outbound})
		}

		outbounds := collectOtherOutbounds(ios, j, k)
		if len(outbounds) == 0 {
			continue
		}

		e := io.Inbound.LaneCount()
		m := len(outbounds)
		conns = append(conns, routeLanes(io.Inbound, outbounds, e, m)...)
	}

	return &Intersection{Probe: p, IOs: ios, Connections: conns}
}

// collectOtherOutbounds walks the IO list from (j-1) mod k backwards to
// (j+1) mod k -- i.e. every other direction in clockwise-from-j order --
// collecting outbounds to neighbors other than j's own.
func collectOtherOutbounds(ios []TrafficWayIO, j, k int) []*trafficway.TrafficWay {
	var out []*trafficway.TrafficWay
	for step := 0; step < k-1; step++ {
		idx := ((j-1-step)%k + k) % k
		if ios[idx].Outbound != nil {
			out = append(out, ios[idx].Outbound)
		}
	}
	return out
}

// routeLanes emits max(E,M) inbound-lane -> outbound-way connections using
// the two-stride assignment.
func routeLanes(inbound *trafficway.TrafficWay, outbounds []*trafficway.TrafficWay, e, m int) []Connection {
	outboundStride := 1.0
	if m < e {
		if e > 1 {
			outboundStride = float64(m-1) / float64(e-1)
		} else {
			outboundStride = 0
		}
	}
	laneStride := 1.0
	if e < m {
		if m > 1 {
			laneStride = float64(e-1) / float64(m-1)
		} else {
			laneStride = 0
		}
	}

	count := e
	if m > count {
		count = m
	}

	conns := make([]Connection, count)
	for k := 0; k < count; k++ {
		inboundLane := clamp(int(math.Round(float64(k)*laneStride)), 0, e-1)
		outboundIdx := clamp(int(math.Round(float64(k)*outboundStride)), 0, len(outbounds)-1)

		conns[k] = Connection{
			Inbound:     inbound,
			InboundLane: inboundLane,
			Outbound:    outbounds[outboundIdx],
		}
	}
	return conns
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// angle is the §4.J sort key, atan2(dir_y, dir_x) -- distinct from the
// intersection package's atan2(dir_x, dir_y).
func angle(io TrafficWayIO) float64 {
	return math.Atan2(io.Dir[1], io.Dir[0])
}
