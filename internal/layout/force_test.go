package layout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/knutsen/biograph/internal/graph"
	"github.com/knutsen/biograph/internal/relation"
)

func placedPair() *graph.Snapshot {
	x1, y1 := -10.0, 0.0
	x2, y2 := 10.0, 0.0
	return &graph.Snapshot{
		Nodes: []graph.Node{
			{ID: 1, X: &x1, Y: &y1},
			{ID: 2, X: &x2, Y: &y2},
		},
		Edges: []graph.Edge{{Source: 1, Target: 2, Type: relation.Kinship}},
	}
}

func TestRefineStaysWithinBudget(t *testing.T) {
	snap := placedPair()
	budget := 50 * time.Millisecond

	start := time.Now()
	out, err := Refine(context.Background(), snap, budget)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if elapsed > budget+200*time.Millisecond {
		t.Errorf("Refine ran %v, budget was %v", elapsed, budget)
	}
	for _, n := range out.Nodes {
		if !n.Placed() {
			t.Errorf("node %d lost its coordinates", n.ID)
		}
	}
	// Input coordinates untouched.
	if *snap.Nodes[0].X != -10.0 || *snap.Nodes[1].X != 10.0 {
		t.Error("Refine mutated the input snapshot")
	}
}

func TestRefineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Refine(ctx, placedPair(), time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("Refine() = %v, want context.Canceled", err)
	}
}

func TestRefineUnplacedNodes(t *testing.T) {
	x := 0.0
	snap := &graph.Snapshot{Nodes: []graph.Node{
		{ID: 1, X: &x, Y: &x},
		{ID: 2},
	}}
	if _, err := Refine(context.Background(), snap, time.Second); !errors.Is(err, ErrUnplacedNodes) {
		t.Errorf("Refine() = %v, want ErrUnplacedNodes", err)
	}
}

func TestRefineTrivialInputs(t *testing.T) {
	// Fewer than two nodes or no budget: returned unchanged, no error.
	single := unplaced(1)
	out, err := Refine(context.Background(), single, time.Second)
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if len(out.Nodes) != 1 {
		t.Errorf("got %d nodes, want 1", len(out.Nodes))
	}

	if _, err := Refine(context.Background(), placedPair(), 0); err != nil {
		t.Errorf("Refine with zero budget returned error: %v", err)
	}
}

func TestRefineSeparatesOverlappingNodes(t *testing.T) {
	// Two connected nodes starting close together should be pushed toward
	// the spring length.
	x1, y1 := 0.0, 0.0
	x2, y2 := 1.0, 0.0
	snap := &graph.Snapshot{
		Nodes: []graph.Node{
			{ID: 1, X: &x1, Y: &y1},
			{ID: 2, X: &x2, Y: &y2},
		},
		Edges: []graph.Edge{{Source: 1, Target: 2, Type: relation.Kinship}},
	}

	out, err := Refine(context.Background(), snap, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	before := 1.0
	after := distance(out.Nodes[0], out.Nodes[1])
	if after <= before {
		t.Errorf("node distance %v after refinement, started at %v", after, before)
	}
}

func distance(a, b graph.Node) float64 {
	dx := *a.X - *b.X
	dy := *a.Y - *b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	// Coordinates here stay on one axis, so Manhattan distance suffices.
	return dx + dy
}
