package main

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvernberg/fracnet"
	"github.com/kvernberg/fracnet/pkg/fracture"
)

var (
	flagTolerance float64
	flagDip       float64
	flagSeed      int64
	flagWorkers   int
	flagNoCuts    bool
	flagOutput    string
)

var extrudeCmd = &cobra.Command{
	Use:   "extrude [map.json]",
	Short: "Extrude a trace map and write the 3D network as JSON",
	Args:  cobra.ExactArgs(1),
	Run:   runExtrude,
}

func init() {
	extrudeCmd.Flags().Float64Var(&flagTolerance, "tolerance", fracnet.DefaultTolerance, "classification tolerance")
	extrudeCmd.Flags().Float64Var(&flagDip, "dip", 0, "fixed dip angle in radians (0 samples uniformly)")
	extrudeCmd.Flags().Int64Var(&flagSeed, "seed", 0, "random seed (0 seeds from the clock)")
	extrudeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "classification/construction fan-out")
	extrudeCmd.Flags().BoolVar(&flagNoCuts, "no-realistic-cuts", false, "skip abutment reconciliation")
	extrudeCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(extrudeCmd)
}

func buildConfig() fracnet.Config {
	cfg := fracnet.DefaultConfig()
	cfg.Tolerance = flagTolerance
	cfg.Workers = flagWorkers
	cfg.EnsureRealisticCuts = !flagNoCuts
	if flagDip != 0 {
		dip := flagDip
		cfg.DipAngle = &dip
	}
	if flagSeed != 0 {
		seed := flagSeed
		cfg.Seed = &seed
	}
	return cfg
}

func runExtrude(cmd *cobra.Command, args []string) {
	points, edges, err := loadTraceMap(args[0])
	if err != nil {
		log.Fatalf("reading trace map: %v", err)
	}

	res, err := fracnet.Extrude(points, edges, buildConfig())
	if err != nil {
		log.Fatalf("extruding: %v", err)
	}
	for _, w := range res.Warnings {
		log.Printf("warning: %s", w)
	}

	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			log.Fatalf("creating output: %v", err)
		}
		defer f.Close()
		out = f
	}

	exp := &jsonExporter{out: out, warnings: res.Warnings}
	if err := exp.Export(res.Network); err != nil {
		log.Fatalf("writing network: %v", err)
	}
}

// Compile-time interface check.
var _ fracnet.Exporter = (*jsonExporter)(nil)

// jsonExporter writes a finished network as indented JSON. It is one
// example of the external exporter collaborators the core hands its
// result to.
type jsonExporter struct {
	out      io.Writer
	warnings []fracture.Warning
}

type jsonNetwork struct {
	ID        string         `json:"id"`
	Fractures []jsonFracture `json:"fractures"`
	Crossings []jsonCrossing `json:"crossings"`
	Abutments []jsonAbutment `json:"abutments"`
	Failures  []string       `json:"failures,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

type jsonFracture struct {
	Trace  int        `json:"trace"`
	Center [3]float64 `json:"center"`
	Normal [3]float64 `json:"normal"`
	Radius float64    `json:"radius"`
}

type jsonCrossing struct {
	A  int        `json:"a"`
	B  int        `json:"b"`
	At [2]float64 `json:"at"`
}

type jsonAbutment struct {
	Terminated   int        `json:"terminated"`
	Constraining int        `json:"constraining"`
	At           [2]float64 `json:"at"`
}

func (e *jsonExporter) Export(n *fracture.Network) error {
	out := jsonNetwork{ID: n.ID.String()}
	for _, d := range n.Discs {
		out.Fractures = append(out.Fractures, jsonFracture{
			Trace:  int(d.Trace),
			Center: [3]float64{d.Center.X, d.Center.Y, d.Center.Z},
			Normal: [3]float64{d.Normal.X, d.Normal.Y, d.Normal.Z},
			Radius: d.Radius,
		})
	}
	for _, cp := range n.Relations.Crossings {
		out.Crossings = append(out.Crossings, jsonCrossing{
			A: int(cp.A), B: int(cp.B), At: [2]float64{cp.At.X, cp.At.Y},
		})
	}
	for _, ab := range n.Relations.Abutments() {
		out.Abutments = append(out.Abutments, jsonAbutment{
			Terminated:   int(ab.Terminated),
			Constraining: int(ab.Constraining),
			At:           [2]float64{ab.At.X, ab.At.Y},
		})
	}
	for _, f := range n.Failures {
		out.Failures = append(out.Failures, f.Error())
	}
	for _, w := range e.warnings {
		out.Warnings = append(out.Warnings, w.String())
	}

	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
