package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/kvernberg/fracnet"
	"github.com/kvernberg/fracnet/pkg/trace"
)

var infoCmd = &cobra.Command{
	Use:   "info [map.json]",
	Short: "Classify a trace map and print its intersection topology",
	Long:  "Runs only the topology classifier and reports how many endpoints are free, crossing, or abutting, plus the crossing pairs.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	infoCmd.Flags().Float64Var(&flagTolerance, "tolerance", fracnet.DefaultTolerance, "classification tolerance")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	points, edges, err := loadTraceMap(args[0])
	if err != nil {
		log.Fatalf("reading trace map: %v", err)
	}

	traces := make([]trace.Trace, len(edges))
	for i, e := range edges {
		if e[0] < 0 || e[0] >= len(points) || e[1] < 0 || e[1] >= len(points) {
			log.Fatalf("edge %d references a point outside the map", i)
		}
		traces[i] = trace.Trace{ID: trace.ID(i), A: points[e[0]], B: points[e[1]]}
	}

	c := &trace.Classifier{Tol: flagTolerance}
	rels, errs := c.Classify(traces)

	fmt.Println("Trace Map Topology")
	fmt.Println("==================")
	fmt.Printf("Traces: %d\n", len(traces))
	fmt.Printf("Endpoints free: %d\n", rels.CountKind(trace.Free))
	fmt.Printf("Endpoints crossing: %d\n", rels.CountKind(trace.Crossing))
	fmt.Printf("Endpoints abutting: %d\n\n", rels.CountKind(trace.Abutting))

	if len(rels.Crossings) > 0 {
		fmt.Println("Crossings:")
		for _, cp := range rels.Crossings {
			fmt.Printf("  trace %d x trace %d at (%.4f, %.4f)\n", cp.A, cp.B, cp.At.X, cp.At.Y)
		}
	}
	if abuts := rels.Abutments(); len(abuts) > 0 {
		fmt.Println("Abutments:")
		for _, ab := range abuts {
			fmt.Printf("  trace %d terminates into trace %d at (%.4f, %.4f)\n",
				ab.Terminated, ab.Constraining, ab.At.X, ab.At.Y)
		}
	}
	for _, e := range errs {
		fmt.Printf("Skipped: %v\n", e)
	}
}
