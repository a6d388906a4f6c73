package main

import (
	"fmt"
	"os"

	"github.com/knutsen/biograph/internal/graph"
	"github.com/knutsen/biograph/internal/relation"
	"github.com/knutsen/biograph/internal/storage"
)

// labelCache holds relation-code display labels, populated once per
// process and invalidated by rebuild.
var labelCache *relation.LabelCache

// relationLabels returns the process-wide label cache backed by the given
// database.
func relationLabels(db *storage.DB) *relation.LabelCache {
	if labelCache == nil {
		labelCache = relation.NewLabelCache(db.AllRelationCodes)
	}
	return labelCache
}

// fillEdgeLabels resolves display labels for edges that carry none, using
// the relation-code table.
func fillEdgeLabels(db *storage.DB, edges []graph.Edge) {
	cache := relationLabels(db)
	for i := range edges {
		if edges[i].Label != "" {
			continue
		}
		label, err := cache.Get(edges[i].Type, edges[i].Code)
		if err != nil {
			// Unlabeled edges render fine, but a failed code-table load
			// must not look like an empty one.
			if humanOutput {
				fmt.Fprintf(os.Stderr, "warning: relation labels unavailable: %v\n", err)
			}
			return
		}
		edges[i].Label = label
	}
}
