package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Emeline-1/citygen/cityspec"
	"github.com/Emeline-1/citygen/flow"
	"github.com/Emeline-1/citygen/intersection"
	"github.com/Emeline-1/citygen/population"
	"github.com/Emeline-1/citygen/storage"
	"github.com/Emeline-1/citygen/trafficway"
)

func usage() {
	println("\nUsage of citygen:\n")
	println("citygen has two modes:")
	println("  - generate: run the full pipeline and write sqlite3 (and optionally JSON) output.")
	println("  - inspect: load a saved run and print an ascii summary tree.\n")
	println("Type")
	println("  ./citygen [mode] -h")
	println("for further information on each mode.\n")
}

func main() {
	log.SetFlags(0)
	if len(os.Args) == 1 {
		usage()
		return
	}

	switch command := os.Args[1]; command {
	case "generate":
		launch_generate(os.Args[2:])
	case "inspect":
		launch_inspect(os.Args[2:])
	case "-h":
		usage()
	case "--help":
		usage()
	default:
		log.Println("Unknown command:", command)
		log.Println("Type './citygen -h' for help:")
	}
}

func launch_generate(args []string) {
	size, seed, regularity_steps, efficiency_steps, output_db, output_json, lane_width, intersection_scale, solid_line_length := handle_args_generate(args)

	spec := cityspec.CitySpec{
		Size:            size,
		Seed:            seed,
		RegularitySteps: uint32(regularity_steps),
		EfficiencySteps: uint32(efficiency_steps),
		Oracle:          flow.Nearest{},
		IntersectionParams: intersection.Params{
			LaneWidth:                     lane_width,
			IntersectionAreaScalingFactor: intersection_scale,
		},
		TrafficWayParams: trafficway.Params{
			LaneWidth:                         lane_width,
			SolidLineLengthBeforeIntersection: solid_line_length,
		},
	}

	result, err := cityspec.GenerateCity(context.Background(), spec)
	if err != nil {
		log.Fatal("[citygen generate]: ", err)
	}

	if disconnected := cityspec.Validate(result); len(disconnected) > 0 {
		log.Println("[citygen generate]: warning:", len(disconnected), "probes disconnected from the largest component")
	}

	store, err := storage.Open(output_db)
	if err != nil {
		log.Fatal("[citygen generate]: ", err)
	}
	defer store.Close()

	if err := store.Save(result); err != nil {
		log.Fatal("[citygen generate]: ", err)
	}

	if output_json != "" {
		if err := storage.DumpJSON(output_json, result); err != nil {
			log.Fatal("[citygen generate]: ", err)
		}
	}

	fmt.Printf("generated %d probes, %d connections -> %s\n", len(result.Probes), len(result.Connections), output_db)
}

func launch_inspect(args []string) {
	input_db := handle_args_inspect(args)

	store, err := storage.Open(input_db)
	if err != nil {
		log.Fatal("[citygen inspect]: ", err)
	}
	defer store.Close()

	probes, err := store.LoadProbes()
	if err != nil {
		log.Fatal("[citygen inspect]: ", err)
	}
	conns, err := store.LoadConnections()
	if err != nil {
		log.Fatal("[citygen inspect]: ", err)
	}

	outgoing := make(map[int][]flow.ProbeConnectionFlow, len(probes))
	for _, c := range conns {
		outgoing[c.Src] = append(outgoing[c.Src], c)
	}

	summary := summaryTree{}
	for i := range probes {
		summary.Add([]string{"city", probeLabel(i, probes[i])})
		for _, c := range outgoing[i] {
			summary.Add([]string{"city", probeLabel(i, probes[i]), connectionLabel(c)})
		}
	}

	summary.Fprint(os.Stdout, true, "")
}

func probeLabel(i int, p population.Probe) string {
	return fmt.Sprintf("probe[%d] pop200=%.1f", i, p.Pop200)
}

func connectionLabel(c flow.ProbeConnectionFlow) string {
	return fmt.Sprintf("-> probe[%d] lanes=%d flow=%.1f", c.Dst, c.LaneCount, c.Flow)
}
