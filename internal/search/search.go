// Package search provides person name search with optional importance
// ranking, where importance is a person's total relation-edge count.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/storage"
)

// Store is the read-only boundary search composes queries against.
type Store interface {
	FindByName(query string, opts storage.SearchOptions) ([]person.Person, int, error)
	RelationCounts(personIDs []person.Key) (map[person.Key]int, error)
}

// ErrEmptyQuery indicates a search rejected before any I/O.
var ErrEmptyQuery = errors.New("search query is empty")

// Options controls a name search.
type Options struct {
	Accurate         bool
	Start            int
	Limit            int
	SortByImportance bool
}

// Result is one page of search results. Total counts every match of the
// query, not just this page, and is identical whether or not importance
// sorting is requested.
type Result struct {
	Data  []person.Person `json:"data"`
	Total int             `json:"total"`
}

// ByName searches persons by name. With SortByImportance the page is
// re-ordered by relation-edge count (descending) at the cost of one extra
// store query; ties keep the store's natural order (stable sort). Sorting
// changes order only, never result-set membership.
func ByName(ctx context.Context, store Store, query string, opts Options) (*Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	persons, total, err := store.FindByName(query, storage.SearchOptions{
		Accurate: opts.Accurate,
		Start:    opts.Start,
		Limit:    opts.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("searching by name: %w", err)
	}

	if opts.SortByImportance && len(persons) > 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ids := make([]person.Key, len(persons))
		for i, p := range persons {
			ids[i] = p.ID
		}
		counts, err := store.RelationCounts(ids)
		if err != nil {
			return nil, fmt.Errorf("ranking results by connectivity: %w", err)
		}
		sort.SliceStable(persons, func(i, j int) bool {
			return counts[persons[i].ID] > counts[persons[j].ID]
		})
	}

	return &Result{Data: persons, Total: total}, nil
}
