package layout

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/knutsen/biograph/internal/graph"
	"github.com/knutsen/biograph/internal/person"
)

// Force-simulation tuning.
const (
	forceTick       = 10 * time.Millisecond
	repulsion       = 80000.0 // pairwise push strength
	springLength    = 120.0   // preferred edge length
	springStrength  = 0.02
	initialCooling  = 1.0
	coolingDecay    = 0.98
	minDisplacement = 0.5 // stop early once the layout settles
)

// ErrUnplacedNodes is returned when Refine is called on a snapshot that
// still has nodes without coordinates; run Populate first.
var ErrUnplacedNodes = errors.New("snapshot has unplaced nodes")

// Refine runs a time-boxed force-directed pass over an already-placed
// snapshot and returns a new snapshot with adjusted coordinates. It is a
// best-effort visual refinement: it stops at the deadline, on context
// cancellation, or once movement settles, whichever comes first. The input
// is never mutated, and the internal ticker is always released.
func Refine(ctx context.Context, snap *graph.Snapshot, budget time.Duration) (*graph.Snapshot, error) {
	out := &graph.Snapshot{
		Nodes: make([]graph.Node, len(snap.Nodes)),
		Edges: snap.Edges,
	}
	copy(out.Nodes, snap.Nodes)
	if len(out.Nodes) < 2 || budget <= 0 {
		return out, nil
	}

	index := make(map[person.Key]int, len(out.Nodes))
	xs := make([]float64, len(out.Nodes))
	ys := make([]float64, len(out.Nodes))
	for i := range out.Nodes {
		if !out.Nodes[i].Placed() {
			return nil, ErrUnplacedNodes
		}
		index[out.Nodes[i].ID] = i
		xs[i] = *out.Nodes[i].X
		ys[i] = *out.Nodes[i].Y
	}

	deadline := time.Now().Add(budget)
	ticker := time.NewTicker(forceTick)
	defer ticker.Stop()

	cooling := initialCooling
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		moved := step(out, index, xs, ys, cooling)
		cooling *= coolingDecay
		if moved < minDisplacement {
			break
		}
	}

	for i := range out.Nodes {
		x, y := xs[i], ys[i]
		out.Nodes[i].X = &x
		out.Nodes[i].Y = &y
	}
	return out, nil
}

// step runs one simulation iteration and returns the largest displacement.
func step(snap *graph.Snapshot, index map[person.Key]int, xs, ys []float64, cooling float64) float64 {
	n := len(xs)
	fx := make([]float64, n)
	fy := make([]float64, n)

	// Pairwise repulsion
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := xs[i] - xs[j]
			dy := ys[i] - ys[j]
			distSq := dx*dx + dy*dy
			if distSq < 1 {
				distSq = 1
			}
			f := repulsion / distSq
			dist := math.Sqrt(distSq)
			fx[i] += f * dx / dist
			fy[i] += f * dy / dist
			fx[j] -= f * dx / dist
			fy[j] -= f * dy / dist
		}
	}

	// Spring attraction along edges
	for _, e := range snap.Edges {
		i, iok := index[e.Source]
		j, jok := index[e.Target]
		if !iok || !jok || i == j {
			continue
		}
		dx := xs[j] - xs[i]
		dy := ys[j] - ys[i]
		dist := math.Hypot(dx, dy)
		if dist < 1 {
			dist = 1
		}
		f := springStrength * (dist - springLength)
		fx[i] += f * dx / dist
		fy[i] += f * dy / dist
		fx[j] -= f * dx / dist
		fy[j] -= f * dy / dist
	}

	maxMove := 0.0
	for i := 0; i < n; i++ {
		dx := fx[i] * cooling
		dy := fy[i] * cooling
		xs[i] += dx
		ys[i] += dy
		if move := math.Hypot(dx, dy); move > maxMove {
			maxMove = move
		}
	}
	return maxMove
}
