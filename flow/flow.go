// Package flow defines the connection/flow data model and the external
// flow-oracle contract the core treats as a blocking collaborator.
//
// Grounded on _examples/original_source/procedural/probing/topology.py
// (ProbeConnection) and flow.py (ProbeConnectionFlow, the
// EstimateProbeTopologyFlow entry point, here expressed as the Oracle
// interface instead of a foreign-function binding).
package flow

import (
	"context"
	"strconv"

	"github.com/Emeline-1/citygen/population"
)

// ProbeConnection is an unordered pair identifier with directional fields:
// two ProbeConnections with swapped endpoints refer to the two directed
// traffic ways of the same bidirectional street.
type ProbeConnection struct {
	Src, Dst int
}

// Reverse returns the connection with endpoints swapped.
func (c ProbeConnection) Reverse() ProbeConnection {
	return ProbeConnection{Src: c.Dst, Dst: c.Src}
}

// ID is the "{src}_{dst}" traffic-way identifier used throughout the IR.
func (c ProbeConnection) ID() string {
	return strconv.Itoa(c.Src) + "_" + strconv.Itoa(c.Dst)
}

// ProbeConnectionFlow extends a directed connection with the oracle's
// estimated flow and the lane count it implies.
type ProbeConnectionFlow struct {
	ProbeConnection
	Flow      float64
	LaneCount int
}

// Oracle is the sole external collaborator the core requires: a
// topology/flow solver treated as an opaque, blocking oracle. The core
// never implements one itself -- callers plug in their own (see Adapter and
// the trivial Nearest oracle below for tests/demos).
type Oracle interface {
	// EstimateFlow returns the per-connection flow and lane count for a
	// fixed connection set. It must block until the estimate is ready; the
	// core imposes no timeout and performs no retries.
	EstimateFlow(ctx context.Context, probes []population.Probe, conns []ProbeConnection, iterationCount uint32) ([]ProbeConnectionFlow, error)

	// ComputeTopology derives a connection set (and a regularity/efficiency
	// score) from probes alone.
	ComputeTopology(ctx context.Context, probes []population.Probe, regularitySteps, efficiencySteps uint32) (conns []ProbeConnection, score float64, err error)
}

// Adapter is a thin, explicit wrapper around a caller-supplied Oracle. It
// exists so call sites depend on a concrete type (mirroring the teacher's
// preference for small, named wrapper functions over raw interface values
// scattered through the driver) while still treating the oracle as an
// external, replaceable collaborator.
type Adapter struct {
	Oracle Oracle
}

func (a Adapter) EstimateFlow(ctx context.Context, probes []population.Probe, conns []ProbeConnection, iterationCount uint32) ([]ProbeConnectionFlow, error) {
	return a.Oracle.EstimateFlow(ctx, probes, conns, iterationCount)
}

func (a Adapter) ComputeTopology(ctx context.Context, probes []population.Probe, regularitySteps, efficiencySteps uint32) ([]ProbeConnection, float64, error) {
	return a.Oracle.ComputeTopology(ctx, probes, regularitySteps, efficiencySteps)
}
