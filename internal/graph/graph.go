// Package graph defines the request-scoped network snapshot assembled for
// visualization: a node list plus an edge list. Snapshots have no persistent
// identity; they are built fresh per request and discarded after
// serialization.
package graph

import (
	"errors"
	"fmt"

	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
)

// Node is a person in the network. X and Y are populated lazily by the
// layout pass only when absent; nil means "not yet placed".
type Node struct {
	ID    person.Key `json:"id"`
	Label string     `json:"label"`
	X     *float64   `json:"x,omitempty"`
	Y     *float64   `json:"y,omitempty"`

	// Tooltip fields
	BirthYear int `json:"birth_year,omitempty"`
	DeathYear int `json:"death_year,omitempty"`
}

// Placed reports whether the node already carries valid coordinates.
func (n *Node) Placed() bool {
	return n.X != nil && n.Y != nil
}

// Edge is a relation in the network. Edges are directed in storage but
// consumed as undirected for metric purposes.
type Edge struct {
	Source person.Key    `json:"source"`
	Target person.Key    `json:"target"`
	Type   relation.Type `json:"edgeType"`
	Code   int           `json:"edgeCode"`
	Label  string        `json:"label,omitempty"`
}

// Snapshot is the transient node/edge assembly for one request. The request
// that built it owns it exclusively; workers treat it as read-only input.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// IsEmpty returns true if the snapshot has no nodes.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Nodes) == 0
}

// ErrMalformed indicates an edge referencing a node absent from the node
// set. A snapshot like this must fail loud: dropping the edge would silently
// corrupt every metric computed from it.
var ErrMalformed = errors.New("malformed graph")

// Validate checks the no-dangling-edge invariant: every edge endpoint must
// appear in the node set.
func (s *Snapshot) Validate() error {
	ids := s.NodeSet()
	for _, e := range s.Edges {
		if !ids[e.Source] {
			return fmt.Errorf("edge %d->%d references unknown source node: %w", e.Source, e.Target, ErrMalformed)
		}
		if !ids[e.Target] {
			return fmt.Errorf("edge %d->%d references unknown target node: %w", e.Source, e.Target, ErrMalformed)
		}
	}
	return nil
}

// NodeSet returns the set of node IDs in the snapshot.
func (s *Snapshot) NodeSet() map[person.Key]bool {
	ids := make(map[person.Key]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		ids[n.ID] = true
	}
	return ids
}

// pairKey identifies an unordered node pair per edge type.
type pairKey struct {
	a, b person.Key
	t    relation.Type
}

func newPairKey(e Edge) pairKey {
	a, b := e.Source, e.Target
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b, t: e.Type}
}

// DedupeEdges removes duplicate edges between the same unordered pair of
// nodes with the same edge type, keeping the first occurrence (insertion
// order is the order discovered during expansion).
func DedupeEdges(edges []Edge) []Edge {
	seen := make(map[pairKey]bool, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		key := newPairKey(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

// Adjacency builds the undirected adjacency sets for the snapshot. Self
// loops are ignored. The snapshot must be valid (see Validate).
func (s *Snapshot) Adjacency() map[person.Key]map[person.Key]bool {
	adj := make(map[person.Key]map[person.Key]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		adj[n.ID] = make(map[person.Key]bool)
	}
	for _, e := range s.Edges {
		if e.Source == e.Target {
			continue
		}
		adj[e.Source][e.Target] = true
		adj[e.Target][e.Source] = true
	}
	return adj
}
