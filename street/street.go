// Package street assembles bidirectional Street records from the directed
// traffic ways built by package trafficway.
//
// Grounded on _examples/original_source/intermediate_representation/
// ir_street.py: a Street is the pairing of up to two opposing TrafficWays
// over the same probe pair plus their shared center curve.
package street

import (
	"github.com/Emeline-1/citygen/curve"
	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/trafficway"
)

// Street is a bidirectional pairing of up to two TrafficWays between the
// same probe pair, plus the center curve recorded on first encounter --
// ir_street.py's GenerateStreets sets Street.center_curve from whichever
// direction's curve it processes first and never touches it again.
type Street struct {
	Probes      flow.ProbeConnection // normalized, Src < Dst
	CenterCurve curve.CatmulRomCurve3
	TrafficWays []*trafficway.TrafficWay
}

// Assemble groups ways by unordered probe pair, in the order each pair's
// first member appears in ways.
func Assemble(ways []*trafficway.TrafficWay) []*Street {
	index := make(map[flow.ProbeConnection]*Street)
	var streets []*Street

	for _, w := range ways {
		key := normalize(w.Connection.ProbeConnection)
		s, ok := index[key]
		if !ok {
			s = &Street{Probes: key, CenterCurve: w.Centerline}
			index[key] = s
			streets = append(streets, s)
		}
		s.TrafficWays = append(s.TrafficWays, w)
	}
	return streets
}

func normalize(c flow.ProbeConnection) flow.ProbeConnection {
	if c.Src <= c.Dst {
		return c
	}
	return c.Reverse()
}
