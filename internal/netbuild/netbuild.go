// Package netbuild assembles relationship-network snapshots by bounded
// breadth-first expansion from one or more seed persons.
package netbuild

import (
	"context"
	"errors"
	"fmt"

	"github.com/knutsen/biograph/internal/graph"
	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
)

// Store is the read-only batch boundary to the relational store.
type Store interface {
	// FindEdges retrieves all relations touching the given IDs, restricted
	// to the given relation types, in a constant number of queries.
	FindEdges(personIDs []person.Key, types []relation.Type) ([]relation.Relation, error)
	// FindNodes retrieves person records for the given IDs in one query.
	FindNodes(personIDs []person.Key) ([]person.Person, error)
}

// ErrInvalidInput indicates a request rejected before any I/O: an empty
// seed set, a negative depth, or a depth beyond the configured ceiling.
var ErrInvalidInput = errors.New("invalid input")

// Limits bound expansion on densely connected seeds. Without a ceiling a
// deep BFS on a well-connected person can pull in most of the database.
type Limits struct {
	MaxDepth int // depth ceiling; requests beyond it are rejected
	MaxNodes int // node ceiling; expansion stops once reached
}

// DefaultLimits are conservative bounds for interactive use.
var DefaultLimits = Limits{MaxDepth: 6, MaxNodes: 25000}

// Builder performs network expansion against a store.
type Builder struct {
	store  Store
	limits Limits
}

// NewBuilder creates a builder. Zero-valued limit fields fall back to
// DefaultLimits.
func NewBuilder(store Store, limits Limits) *Builder {
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = DefaultLimits.MaxDepth
	}
	if limits.MaxNodes <= 0 {
		limits.MaxNodes = DefaultLimits.MaxNodes
	}
	return &Builder{store: store, limits: limits}
}

// Result is an assembled snapshot plus expansion bookkeeping.
type Result struct {
	Snapshot *graph.Snapshot
	// Truncated is set when the node ceiling cut expansion short; the
	// snapshot is still internally consistent (no dangling edges).
	Truncated bool
	// Depth is the number of layers actually expanded (less than requested
	// when the graph reached a fixed point first).
	Depth int
}

// Build expands a network from the seeds out to the requested depth,
// restricted to the given relation types.
//
// Layer 0 is the seed set. Each subsequent layer fetches edges for the
// frontier only (the nodes newly discovered in the previous layer), so no
// node's edges are fetched twice. Expansion halts at the requested depth,
// at a fixed point, or at the node ceiling. A visited set keyed by person
// ID guarantees termination on cyclic kinship graphs.
//
// Seeds without a store record are kept as one-node placeholders rather
// than failing the whole request.
func (b *Builder) Build(ctx context.Context, seeds []person.Key, depth int, types []relation.Type) (*Result, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("seed set is empty: %w", ErrInvalidInput)
	}
	if depth < 0 {
		return nil, fmt.Errorf("depth %d is negative: %w", depth, ErrInvalidInput)
	}
	if depth > b.limits.MaxDepth {
		return nil, fmt.Errorf("depth %d exceeds ceiling %d: %w", depth, b.limits.MaxDepth, ErrInvalidInput)
	}

	seeds = person.DedupeKeys(seeds)
	if len(seeds) > b.limits.MaxNodes {
		return nil, fmt.Errorf("seed count %d exceeds node ceiling %d: %w", len(seeds), b.limits.MaxNodes, ErrInvalidInput)
	}

	snap := &graph.Snapshot{}
	visited := make(map[person.Key]bool, len(seeds))
	for _, id := range seeds {
		visited[id] = true
	}
	if err := b.appendNodes(snap, seeds); err != nil {
		return nil, err
	}

	result := &Result{Snapshot: snap}
	frontier := seeds

	for layer := 1; layer <= depth; layer++ {
		if len(frontier) == 0 || result.Truncated {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rels, err := b.store.FindEdges(frontier, types)
		if err != nil {
			return nil, fmt.Errorf("expanding layer %d: %w", layer, err)
		}

		// Collect newly discovered neighbors in discovery order.
		var discovered []person.Key
		for _, r := range rels {
			for _, id := range []person.Key{r.SourceID, r.TargetID} {
				if !visited[id] {
					visited[id] = true
					discovered = append(discovered, id)
				}
			}
		}

		// Enforce the node ceiling: trim the tail of this layer's
		// discoveries and stop expanding.
		if room := b.limits.MaxNodes - len(snap.Nodes); len(discovered) > room {
			for _, id := range discovered[room:] {
				delete(visited, id)
			}
			discovered = discovered[:room]
			result.Truncated = true
		}

		if err := b.appendNodes(snap, discovered); err != nil {
			return nil, err
		}

		// Append this layer's edges in discovery order, skipping any whose
		// endpoint was trimmed; dangling edges never reach the snapshot.
		for _, r := range rels {
			if visited[r.SourceID] && visited[r.TargetID] {
				snap.Edges = append(snap.Edges, graph.Edge{
					Source: r.SourceID,
					Target: r.TargetID,
					Type:   r.Type,
					Code:   r.Code,
					Label:  r.Label,
				})
			}
		}

		result.Depth = layer
		frontier = discovered
	}

	snap.Edges = graph.DedupeEdges(snap.Edges)
	return result, nil
}

// appendNodes fetches metadata for the given IDs in one batch and appends a
// node per ID, falling back to a placeholder label when the store has no
// record.
func (b *Builder) appendNodes(snap *graph.Snapshot, ids []person.Key) error {
	if len(ids) == 0 {
		return nil
	}

	persons, err := b.store.FindNodes(ids)
	if err != nil {
		return fmt.Errorf("fetching node batch: %w", err)
	}

	byID := make(map[person.Key]person.Person, len(persons))
	for _, p := range persons {
		byID[p.ID] = p
	}

	for _, id := range ids {
		if p, ok := byID[id]; ok {
			snap.Nodes = append(snap.Nodes, graph.Node{
				ID:        p.ID,
				Label:     p.Label(),
				BirthYear: p.BirthYear,
				DeathYear: p.DeathYear,
			})
		} else {
			snap.Nodes = append(snap.Nodes, graph.Node{ID: id, Label: id.String()})
		}
	}
	return nil
}
