package main

import (
	"encoding/json"
	"fmt"
	"os"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// traceMap is the JSON input format: a point sequence and edges as
// index pairs into it, matching the core pipeline's contract.
type traceMap struct {
	Points [][2]float64 `json:"points"`
	Edges  [][2]int     `json:"edges"`
}

func loadTraceMap(path string) ([]v2.Vec, [][2]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var tm traceMap
	if err := json.Unmarshal(data, &tm); err != nil {
		return nil, nil, fmt.Errorf("parsing trace map %s: %w", path, err)
	}
	points := make([]v2.Vec, len(tm.Points))
	for i, p := range tm.Points {
		points[i] = v2.Vec{X: p[0], Y: p[1]}
	}
	return points, tm.Edges, nil
}
