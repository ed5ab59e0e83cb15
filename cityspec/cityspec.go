// Package cityspec wires every generation stage into a single
// GenerateCity entry point, used by both cmd/citygen and the test suite.
//
// Grounded on anaximander_driver.go's role in the teacher repo (the single
// driver function sequencing probing/graph-building/analysis stages) --
// this package plays the same "sequence the pipeline, own nothing else"
// role for the street-network generator.
package cityspec

import (
	"context"
	"fmt"
	"strconv"

	graph "github.com/Emeline-1/basic_graph"

	"github.com/Emeline-1/citygen/curve"
	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/intersection"
	"github.com/Emeline-1/citygen/intersectionir"
	"github.com/Emeline-1/citygen/population"
	"github.com/Emeline-1/citygen/street"
	"github.com/Emeline-1/citygen/streetcurve"
	"github.com/Emeline-1/citygen/trafficway"
)

// CitySpec is the caller-facing input to a generation run.
type CitySpec struct {
	Size            float64
	Seed            uint64
	RegularitySteps uint32
	EfficiencySteps uint32
	Oracle          flow.Oracle

	// IntersectionParams and TrafficWayParams default to the baseline's
	// tunables (intersection.DefaultParams, trafficway.DefaultParams) when
	// left zero-valued; cmd/citygen overrides them from -lane-width,
	// -intersection-scale and -solid-line-length.
	IntersectionParams intersection.Params
	TrafficWayParams   trafficway.Params
}

// CityResult is the full output bundle of one generation run.
type CityResult struct {
	Probes        []population.Probe
	Connections   []flow.ProbeConnectionFlow
	Centerlines   []curve.CatmulRomCurve3
	Areas         []*intersection.Area
	TrafficWays   []*trafficway.TrafficWay
	Streets       []*street.Street
	Intersections []*intersectionir.Intersection
}

// GenerateCity runs the full pipeline: population sampling, topology
// computation and flow estimation, intersection-area computation,
// street-curve construction, traffic-way construction (dispatched over the
// worker pool), street assembly from the built traffic ways, and
// intersection IR routing, in that order (SPEC_FULL.md §4.K).
func GenerateCity(ctx context.Context, spec CitySpec) (*CityResult, error) {
	if spec.Oracle == nil {
		return nil, fmt.Errorf("cityspec: CitySpec.Oracle is required")
	}
	adapter := flow.Adapter{Oracle: spec.Oracle}

	intersectionParams := spec.IntersectionParams
	if intersectionParams == (intersection.Params{}) {
		intersectionParams = intersection.DefaultParams()
	}
	trafficwayParams := spec.TrafficWayParams
	if trafficwayParams == (trafficway.Params{}) {
		trafficwayParams = trafficway.DefaultParams()
	}

	probes := population.Generate(spec.Size, spec.Seed)
	if len(probes) == 0 {
		return nil, fmt.Errorf("cityspec: no population probes generated for size %g", spec.Size)
	}

	rawConns, _, err := adapter.ComputeTopology(ctx, probes, spec.RegularitySteps, spec.EfficiencySteps)
	if err != nil {
		return nil, fmt.Errorf("cityspec: compute topology: %w", err)
	}
	if len(rawConns) == 0 {
		return nil, fmt.Errorf("cityspec: topology solver returned no connections")
	}

	conns, err := adapter.EstimateFlow(ctx, probes, rawConns, flowIterationCount)
	if err != nil {
		return nil, fmt.Errorf("cityspec: estimate flow: %w", err)
	}

	areas := intersection.ComputeAreasWithParams(probes, conns, intersectionParams)

	centerlines, err := streetcurve.Build(probes, conns, areas)
	if err != nil {
		return nil, fmt.Errorf("cityspec: build street curves: %w", err)
	}

	ways := trafficway.BuildWithParams(conns, centerlines, trafficwayParams)
	streets := street.Assemble(ways)
	intersections := intersectionir.Build(probes, ways)

	return &CityResult{
		Probes:        probes,
		Connections:   conns,
		Centerlines:   centerlines,
		Areas:         areas,
		TrafficWays:   ways,
		Streets:       streets,
		Intersections: intersections,
	}, nil
}

// flowIterationCount is the iteration budget handed to the flow oracle's
// EstimateFlow call. Not part of CitySpec since it tunes the oracle's own
// convergence, not the city's geometry.
const flowIterationCount = 1000

// Validate reports every probe component disconnected from the largest
// one, as a diagnostic only -- it never fails generation. Built on
// github.com/Emeline-1/basic_graph's connected-component walk, exactly as
// overlays_processing.go uses it to find overlay closures.
func Validate(result *CityResult) []int {
	if result == nil || len(result.Connections) == 0 {
		return nil
	}

	g := graph.New()
	for _, c := range result.Connections {
		g.Add_edge(strconv.Itoa(c.Src), strconv.Itoa(c.Dst))
	}

	var largest []string
	var components [][]string
	g.Set_iterator()
	for g.Next_connected_component() {
		cc := g.Connected_component()
		components = append(components, cc)
		if len(cc) > len(largest) {
			largest = cc
		}
	}

	inLargest := make(map[string]bool, len(largest))
	for _, id := range largest {
		inLargest[id] = true
	}

	var disconnected []int
	for _, cc := range components {
		for _, id := range cc {
			if !inLargest[id] {
				probe, err := strconv.Atoi(id)
				if err != nil {
					continue
				}
				disconnected = append(disconnected, probe)
			}
		}
	}
	return disconnected
}
