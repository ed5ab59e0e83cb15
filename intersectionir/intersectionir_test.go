package intersectionir_test

import (
	"testing"

	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/geom"
	"github.com/Emeline-1/citygen/intersectionir"
	"github.com/Emeline-1/citygen/population"
	"github.com/Emeline-1/citygen/trafficway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s5Probes() []population.Probe {
	return []population.Probe{
		{Location: geom.Point3{X: 0, Y: 0, Z: 0}},
		{Location: geom.Point3{X: 1000, Y: 0, Z: 0}},
	}
}

func s5Ways() []*trafficway.TrafficWay {
	forward := &trafficway.TrafficWay{
		Connection: flow.ProbeConnectionFlow{ProbeConnection: flow.ProbeConnection{Src: 0, Dst: 1}, LaneCount: 1},
		Lanes:      make([]trafficway.Lane, 1),
	}
	backward := &trafficway.TrafficWay{
		Connection: flow.ProbeConnectionFlow{ProbeConnection: flow.ProbeConnection{Src: 1, Dst: 0}, LaneCount: 2},
		Lanes:      make([]trafficway.Lane, 2),
	}
	return []*trafficway.TrafficWay{forward, backward}
}

func TestDeadEndRoutingEmitsSingleUTurn(t *testing.T) {
	probes := s5Probes()
	ways := s5Ways()

	intersections := intersectionir.Build(probes, ways)
	require.Len(t, intersections, 2)

	byProbe := make(map[int]*intersectionir.Intersection, len(intersections))
	for _, ix := range intersections {
		byProbe[ix.Probe] = ix
	}

	at0 := byProbe[0]
	require.Len(t, at0.Connections, 1)
	assert.Equal(t, 0, at0.Connections[0].InboundLane)
	assert.Equal(t, flow.ProbeConnection{Src: 1, Dst: 0}, at0.Connections[0].Inbound.Connection.ProbeConnection)
	assert.Equal(t, flow.ProbeConnection{Src: 0, Dst: 1}, at0.Connections[0].Outbound.Connection.ProbeConnection)

	at1 := byProbe[1]
	require.Len(t, at1.Connections, 1)
	assert.Equal(t, flow.ProbeConnection{Src: 0, Dst: 1}, at1.Connections[0].Inbound.Connection.ProbeConnection)
	assert.Equal(t, flow.ProbeConnection{Src: 1, Dst: 0}, at1.Connections[0].Outbound.Connection.ProbeConnection)
}
