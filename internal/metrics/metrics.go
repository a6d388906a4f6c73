// Package metrics computes graph-level statistics over network snapshots.
// Computation is CPU-bound and runs on a bounded pool of goroutines so a
// large snapshot never blocks the request path on a single core.
package metrics

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/knutsen/biograph/internal/graph"
	"github.com/knutsen/biograph/internal/person"
)

// Distribution summarizes the degree sequence of a snapshot.
type Distribution struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
}

// NodeScore pairs a node with a centrality score.
type NodeScore struct {
	ID    person.Key `json:"id"`
	Score float64    `json:"score"`
}

// Result is a read-only aggregate derived from one snapshot. It is computed
// on demand, never persisted, and never mutated after construction.
type Result struct {
	NodeCount             int          `json:"nodeCount"`
	EdgeCount             int          `json:"edgeCount"`
	Density               float64      `json:"density"`
	AvgDegree             float64      `json:"avgDegree"`
	ClusteringCoefficient float64      `json:"clusteringCoefficient"`
	DegreeDistribution    Distribution `json:"degreeDistribution"`
	ComponentCount        int          `json:"componentCount"`
	LargestComponentSize  int          `json:"largestComponentSize"`
	IsConnected           bool         `json:"isConnected"`

	// Betweenness is a degree-based approximation (normalized degree
	// centrality), not exact shortest-path betweenness. Callers must not
	// treat it as exact; it ranks hubs, nothing more. Sorted by score
	// descending, ties by ID ascending.
	Betweenness []NodeScore `json:"betweenness,omitempty"`
}

// maxWorkers bounds the pool for per-node computation.
func maxWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Compute derives a Result from a snapshot. The snapshot is treated as
// read-only input. An edge referencing an unknown node is a fatal
// validation error (graph.ErrMalformed), never silently dropped.
func Compute(ctx context.Context, snap *graph.Snapshot) (*Result, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	adj := snap.Adjacency()
	n := len(snap.Nodes)

	// Undirected edge count from the adjacency sets, so duplicate or
	// self-referential edges in the input cannot skew density.
	edgeCount := 0
	for _, neighbors := range adj {
		edgeCount += len(neighbors)
	}
	edgeCount /= 2

	res := &Result{
		NodeCount: n,
		EdgeCount: edgeCount,
	}
	if n == 0 {
		return res, nil
	}

	if n > 1 {
		res.Density = float64(edgeCount) / (float64(n) * float64(n-1) / 2)
		res.AvgDegree = 2 * float64(edgeCount) / float64(n)
	}

	degrees := make([]int, 0, n)
	for _, node := range snap.Nodes {
		degrees = append(degrees, len(adj[node.ID]))
	}
	res.DegreeDistribution = summarizeDegrees(degrees)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cc, err := clusteringCoefficient(ctx, snap, adj)
	if err != nil {
		return nil, err
	}
	res.ClusteringCoefficient = cc

	count, largest := connectedComponents(snap, adj)
	res.ComponentCount = count
	res.LargestComponentSize = largest
	res.IsConnected = count == 1

	res.Betweenness = approxBetweenness(snap, adj)
	return res, nil
}

// summarizeDegrees computes min/max/median/mean over the degree sequence.
func summarizeDegrees(degrees []int) Distribution {
	if len(degrees) == 0 {
		return Distribution{}
	}

	sorted := make([]int, len(degrees))
	copy(sorted, degrees)
	sort.Ints(sorted)

	sum := 0
	for _, d := range sorted {
		sum += d
	}

	mid := len(sorted) / 2
	median := float64(sorted[mid])
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	}

	return Distribution{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median,
		Mean:   float64(sum) / float64(len(sorted)),
	}
}

// clusteringCoefficient computes the global clustering coefficient: the
// mean of local coefficients over nodes with degree >= 2. Nodes with fewer
// than two neighbors are excluded from the average, not counted as zero.
//
// Local coefficients are computed in parallel over node chunks with a
// bounded worker pool; each worker only reads the shared adjacency sets.
func clusteringCoefficient(ctx context.Context, snap *graph.Snapshot, adj map[person.Key]map[person.Key]bool) (float64, error) {
	ids := make([]person.Key, 0, len(snap.Nodes))
	for _, node := range snap.Nodes {
		if len(adj[node.ID]) >= 2 {
			ids = append(ids, node.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	workers := maxWorkers()
	chunkSize := (len(ids) + workers - 1) / workers

	sums := make([]float64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		if lo >= len(ids) {
			break
		}
		hi := lo + chunkSize
		if hi > len(ids) {
			hi = len(ids)
		}

		wg.Add(1)
		go func(w int, chunk []person.Key) {
			defer wg.Done()
			for _, id := range chunk {
				if ctx.Err() != nil {
					return
				}
				sums[w] += localCoefficient(adj, id)
			}
		}(w, ids[lo:hi])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	total := 0.0
	for _, s := range sums {
		total += s
	}
	return total / float64(len(ids)), nil
}

// localCoefficient is the fraction of a node's neighbor pairs that are
// themselves connected (triangle density around the node).
func localCoefficient(adj map[person.Key]map[person.Key]bool, id person.Key) float64 {
	neighbors := make([]person.Key, 0, len(adj[id]))
	for nb := range adj[id] {
		neighbors = append(neighbors, nb)
	}

	k := len(neighbors)
	possible := k * (k - 1) / 2
	if possible == 0 {
		return 0
	}

	links := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if adj[neighbors[i]][neighbors[j]] {
				links++
			}
		}
	}
	return float64(links) / float64(possible)
}

// connectedComponents counts components and the largest component size via
// iterative BFS over the undirected adjacency.
func connectedComponents(snap *graph.Snapshot, adj map[person.Key]map[person.Key]bool) (count, largest int) {
	visited := make(map[person.Key]bool, len(snap.Nodes))

	for _, node := range snap.Nodes {
		if visited[node.ID] {
			continue
		}
		count++

		size := 0
		queue := []person.Key{node.ID}
		visited[node.ID] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			size++
			for nb := range adj[id] {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		if size > largest {
			largest = size
		}
	}
	return count, largest
}

// approxBetweenness ranks nodes by normalized degree. This is a stand-in
// for true betweenness centrality: far cheaper, same hubs on top, wrong
// for bridge nodes on long paths.
func approxBetweenness(snap *graph.Snapshot, adj map[person.Key]map[person.Key]bool) []NodeScore {
	n := len(snap.Nodes)
	if n < 2 {
		return nil
	}

	scores := make([]NodeScore, 0, n)
	for _, node := range snap.Nodes {
		scores = append(scores, NodeScore{
			ID:    node.ID,
			Score: float64(len(adj[node.ID])) / float64(n-1),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].ID < scores[j].ID
	})
	return scores
}

// String renders a one-line summary for human output.
func (r *Result) String() string {
	return fmt.Sprintf("%d nodes, %d edges, density %.4f, %d component(s)",
		r.NodeCount, r.EdgeCount, r.Density, r.ComponentCount)
}
