package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fracnet",
	Short: "Extrude a 2D outcrop trace map into a 3D fracture disc network",
	Long: `fracnet reads a trace map observed on a 2D outcrop (points plus edge
index pairs), classifies trace intersections into crossings and
abutments, and lifts every trace into a 3D fracture disc such that
slicing the network at the outcrop plane reproduces the original map.`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
