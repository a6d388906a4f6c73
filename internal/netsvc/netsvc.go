// Package netsvc orchestrates a network request end to end: BFS assembly,
// then concurrent fan-out of metric computation and coordinate seeding,
// merged into one response. Metrics and layout are independent; either can
// fail without discarding the other's result.
package netsvc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/knutsen/biograph/internal/graph"
	"github.com/knutsen/biograph/internal/layout"
	"github.com/knutsen/biograph/internal/metrics"
	"github.com/knutsen/biograph/internal/netbuild"
	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
)

// WorkerError wraps a failure (or panic) inside one fan-out task. The task
// name tells the caller which part of the response is missing.
type WorkerError struct {
	Task string
	Err  error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("%s worker: %v", e.Task, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// TaskFailure is the serialized form of a WorkerError in a partial
// response.
type TaskFailure struct {
	Task    string `json:"task"`
	Message string `json:"message"`
}

// Request describes one "network around persons X" query.
type Request struct {
	Seeds  []person.Key
	Depth  int
	Types  []relation.Type
	Layout layout.Options
	// Refine, when positive, runs a time-boxed force-directed pass over
	// the seeded coordinates before the response is assembled.
	Refine time.Duration
	// SkipStats suppresses metric computation for callers that only want
	// the graph.
	SkipStats bool
}

// Response is the combined result: nodes and edges with seeded
// coordinates, graph statistics, and a content fingerprint. TaskFailures
// is non-empty when the response is partial.
type Response struct {
	Nodes        []graph.Node    `json:"nodes"`
	Edges        []graph.Edge    `json:"edges"`
	Stats        *metrics.Result `json:"stats,omitempty"`
	Fingerprint  string          `json:"fingerprint"`
	Truncated    bool            `json:"truncated,omitempty"`
	TaskFailures []TaskFailure   `json:"taskFailures,omitempty"`
}

// Service builds network responses.
type Service struct {
	builder *netbuild.Builder

	// Task hooks, replaceable in tests.
	computeStats func(ctx context.Context, snap *graph.Snapshot) (*metrics.Result, error)
	populate     func(snap *graph.Snapshot, opts layout.Options) (*graph.Snapshot, error)
	refine       func(ctx context.Context, snap *graph.Snapshot, budget time.Duration) (*graph.Snapshot, error)
}

// New creates a service over the given store with the given expansion
// limits.
func New(store netbuild.Store, limits netbuild.Limits) *Service {
	return &Service{
		builder:      netbuild.NewBuilder(store, limits),
		computeStats: metrics.Compute,
		populate:     layout.Populate,
		refine:       layout.Refine,
	}
}

// BuildNetwork assembles the network and fans out metrics and layout
// concurrently. Assembly errors fail the whole request; a failure in one
// fan-out task only blanks that task's part of the response and records a
// TaskFailure, so the caller still gets everything that succeeded.
func (s *Service) BuildNetwork(ctx context.Context, req Request) (*Response, error) {
	built, err := s.builder.Build(ctx, req.Seeds, req.Depth, req.Types)
	if err != nil {
		return nil, err
	}
	snap := built.Snapshot

	resp := &Response{
		Fingerprint: snap.Fingerprint(),
		Truncated:   built.Truncated,
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		stats    *metrics.Result
		placed   *graph.Snapshot
		failures []*WorkerError
	)

	record := func(werr *WorkerError) {
		mu.Lock()
		failures = append(failures, werr)
		mu.Unlock()
	}

	if !req.SkipStats {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runTask("metrics", func() error {
				r, err := s.computeStats(ctx, snap)
				if err != nil {
					return err
				}
				stats = r
				return nil
			})
			if err != nil {
				record(err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := runTask("layout", func() error {
			p, err := s.populate(snap, req.Layout)
			if err != nil {
				return err
			}
			placed = p
			return nil
		})
		if err != nil {
			record(err)
		}
	}()

	wg.Wait()

	// Refinement needs seeded coordinates, so it runs after the layout
	// task, inside the same partial-success contract.
	if placed != nil && req.Refine > 0 {
		err := runTask("refine", func() error {
			refined, err := s.refine(ctx, placed, req.Refine)
			if err != nil {
				return err
			}
			placed = refined
			return nil
		})
		if err != nil {
			record(err)
		}
	}

	if placed != nil {
		resp.Nodes = placed.Nodes
		resp.Edges = placed.Edges
	} else {
		resp.Nodes = snap.Nodes
		resp.Edges = snap.Edges
	}
	resp.Stats = stats
	for _, f := range failures {
		resp.TaskFailures = append(resp.TaskFailures, TaskFailure{
			Task:    f.Task,
			Message: f.Err.Error(),
		})
	}
	return resp, nil
}

// runTask executes one fan-out task, converting errors and panics into
// WorkerErrors so a crashing worker cannot take down the request.
func runTask(name string, fn func() error) (werr *WorkerError) {
	defer func() {
		if r := recover(); r != nil {
			werr = &WorkerError{Task: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &WorkerError{Task: name, Err: err}
	}
	return nil
}
