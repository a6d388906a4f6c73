package search

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// DefaultQueriesPerSecond throttles interactive search against the store.
const DefaultQueriesPerSecond = 10

// Searcher serializes interactive queries: issuing a new query cancels the
// previous in-flight one, so only the most recent query's result is ever
// honored. A rate limiter debounces rapid-fire keystrokes; a query
// superseded while waiting for a limiter slot never reaches the store.
type Searcher struct {
	store   Store
	limiter *rate.Limiter

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSearcher creates a searcher over the given store. A qps of 0 uses
// DefaultQueriesPerSecond.
func NewSearcher(store Store, qps rate.Limit) *Searcher {
	if qps <= 0 {
		qps = DefaultQueriesPerSecond
	}
	return &Searcher{
		store:   store,
		limiter: rate.NewLimiter(qps, 1),
	}
}

// Search runs a name search, cancelling any previous in-flight search.
// A superseded search returns its context error; its result is discarded,
// never merged with the newer query's.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	myGen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		// Deregister only if a newer query hasn't replaced us.
		if s.gen == myGen {
			s.cancel = nil
		}
		s.mu.Unlock()
	}()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := ByName(ctx, s.store, query, opts)
	if err != nil {
		return nil, err
	}
	// Superseded while the store call was in flight: discard.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
