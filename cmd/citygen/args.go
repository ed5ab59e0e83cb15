/* ==================================================================================== *\
    args.go

    Program arguments handling
\* ==================================================================================== */

package main

import (
	"flag"
	"os"
)

/* --------------------------------------- *\
 *          GENERATE
\* --------------------------------------- */

func handle_args_generate(args []string) (size float64, seed uint64, regularity_steps, efficiency_steps int, output_db, output_json string, lane_width, intersection_scale, solid_line_length float64) {
	if len(args) <= 0 {
		println("Missing arguments")
		os.Exit(-1)
	}
	cmd := flag.NewFlagSet(args[0], flag.ExitOnError)

	cmd.Float64Var(&size, "size", 10000, "City size in meters")
	var seed_i int
	cmd.IntVar(&seed_i, "seed", 13, "RNG seed")
	cmd.IntVar(&regularity_steps, "regularity-steps", 20000000, "Topology regularity optimization steps (passed to the flow oracle)")
	cmd.IntVar(&efficiency_steps, "efficiency-steps", 0, "Topology efficiency optimization steps (passed to the flow oracle)")
	cmd.StringVar(&output_db, "db", "city.sqlite3", "Output sqlite3 database path")
	cmd.StringVar(&output_json, "json", "", "Optional output JSON debug dump path")
	cmd.Float64Var(&lane_width, "lane-width", 3.85, "Lane width in meters")
	cmd.Float64Var(&intersection_scale, "intersection-scale", 1.5, "Intersection area radius scaling factor")
	cmd.Float64Var(&solid_line_length, "solid-line-length", 15.0, "Solid line length before an intersection, in meters")

	cmd.Parse(args[1:])
	seed = uint64(seed_i)
	return
}

/* --------------------------------------- *\
 *          INSPECT
\* --------------------------------------- */

func handle_args_inspect(args []string) (input_db string) {
	if len(args) <= 0 {
		println("Missing arguments")
		os.Exit(-1)
	}
	cmd := flag.NewFlagSet(args[0], flag.ExitOnError)

	cmd.StringVar(&input_db, "db", "city.sqlite3", "Input sqlite3 database path")

	cmd.Parse(args[1:])
	return
}
