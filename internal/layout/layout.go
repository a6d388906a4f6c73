// Package layout assigns initial 2D coordinates to network nodes so the
// client visualization has a valid starting state. Placement is idempotent:
// nodes that already carry coordinates are never moved.
package layout

import (
	"fmt"
	"math"

	"github.com/knutsen/biograph/internal/graph"
)

// Type names a placement algorithm.
type Type string

const (
	// Random places nodes with a seeded generator, reproducible per seed.
	Random Type = "random"
	// Circle places nodes evenly around a fixed-radius circle.
	Circle Type = "circle"
	// Grid places nodes on a square grid centered at the origin.
	Grid Type = "grid"
)

// ParseType validates a layout-type string. Empty defaults to Random.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case "":
		return Random, nil
	case Random, Circle, Grid:
		return Type(s), nil
	}
	return "", fmt.Errorf("invalid layout %q: must be random, circle, or grid", s)
}

// Placement bounds.
const (
	randomExtent = 500.0 // random coordinates fall in [-500, 500]^2
	circleRadius = 400.0
	gridSpacing  = 100.0
)

// Options configures coordinate placement.
type Options struct {
	Type Type
	Seed int64 // seed for the random layout; same seed, same coordinates
}

// Populate returns a copy of the snapshot in which every node has numeric
// coordinates. Nodes already placed keep their coordinates untouched, so a
// second pass over a laid-out graph is a no-op. The input snapshot is never
// mutated; workers share it read-only.
func Populate(snap *graph.Snapshot, opts Options) (*graph.Snapshot, error) {
	layoutType, err := ParseType(string(opts.Type))
	if err != nil {
		return nil, err
	}

	out := &graph.Snapshot{
		Nodes: make([]graph.Node, len(snap.Nodes)),
		Edges: snap.Edges,
	}
	copy(out.Nodes, snap.Nodes)

	// Indexes of nodes still lacking coordinates, in discovery order.
	var missing []int
	for i := range out.Nodes {
		if !out.Nodes[i].Placed() {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	switch layoutType {
	case Random:
		placeRandom(out.Nodes, missing, opts.Seed)
	case Circle:
		placeCircle(out.Nodes, missing)
	case Grid:
		placeGrid(out.Nodes, missing)
	}
	return out, nil
}

// lcg is a linear-congruential generator. The fixed multiplier/increment
// pair gives a full-period 64-bit sequence, so coordinates are reproducible
// across platforms for the same seed.
type lcg struct {
	state uint64
}

func newLCG(seed int64) *lcg {
	return &lcg{state: uint64(seed)}
}

// next returns a value in [0, 1).
func (l *lcg) next() float64 {
	l.state = l.state*6364136223846793005 + 1442695040888963407
	return float64(l.state>>11) / float64(1<<53)
}

func placeRandom(nodes []graph.Node, missing []int, seed int64) {
	gen := newLCG(seed)
	for _, i := range missing {
		x := gen.next()*2*randomExtent - randomExtent
		y := gen.next()*2*randomExtent - randomExtent
		nodes[i].X = &x
		nodes[i].Y = &y
	}
}

func placeCircle(nodes []graph.Node, missing []int) {
	step := 2 * math.Pi / float64(len(missing))
	for k, i := range missing {
		angle := step * float64(k)
		x := circleRadius * math.Cos(angle)
		y := circleRadius * math.Sin(angle)
		nodes[i].X = &x
		nodes[i].Y = &y
	}
}

func placeGrid(nodes []graph.Node, missing []int) {
	cols := int(math.Ceil(math.Sqrt(float64(len(missing)))))
	rows := (len(missing) + cols - 1) / cols

	// Center the grid on the origin.
	offsetX := float64(cols-1) * gridSpacing / 2
	offsetY := float64(rows-1) * gridSpacing / 2

	for k, i := range missing {
		x := float64(k%cols)*gridSpacing - offsetX
		y := float64(k/cols)*gridSpacing - offsetY
		nodes[i].X = &x
		nodes[i].Y = &y
	}
}
