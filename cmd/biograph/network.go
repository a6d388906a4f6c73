package main

import (
	"context"
	"fmt"
	"time"

	"github.com/knutsen/biograph/internal/config"
	"github.com/knutsen/biograph/internal/layout"
	"github.com/knutsen/biograph/internal/netbuild"
	"github.com/knutsen/biograph/internal/netsvc"
	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
	"github.com/spf13/cobra"
)

var (
	networkPersons []string
	networkDepth   int
	networkTypes   []string
	networkLayout  string
	networkSeed    int64
	networkRefine  time.Duration
	networkNoStats bool
)

func init() {
	addNetworkFlags(networkCmd)
	networkCmd.Flags().StringVar(&networkLayout, "layout", "", "Coordinate layout: random, circle, or grid")
	networkCmd.Flags().Int64Var(&networkSeed, "seed", 0, "Seed for the random layout (same seed, same coordinates)")
	networkCmd.Flags().DurationVar(&networkRefine, "refine", 0, "Force-directed refinement time budget (e.g. 500ms)")
	networkCmd.Flags().BoolVar(&networkNoStats, "no-stats", false, "Skip graph statistics")
	rootCmd.AddCommand(networkCmd)
}

// addNetworkFlags registers the expansion flags shared by network-building
// commands.
func addNetworkFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&networkPersons, "person", "p", nil, "Seed person ID (repeatable, at least one required)")
	cmd.Flags().IntVarP(&networkDepth, "depth", "d", -1, "Expansion depth (default from config)")
	cmd.Flags().StringArrayVarP(&networkTypes, "type", "t", nil, "Relation types to follow (default: all)")
	cmd.MarkFlagRequired("person")
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Build the relationship network around one or more persons",
	Long: `Assemble a multi-hop relationship network by breadth-first expansion
from the seed persons, following the selected relation types.

The response contains the node and edge lists, seeded 2D coordinates,
graph statistics, and a fingerprint that changes only when the graph's
node/edge identity changes.

Examples:
  biograph network -p 1762 -d 1 -t kinship
  biograph network -p 1762 -p 526 -d 2 --layout circle
  biograph network -p 1762 --seed 42 --no-stats`,
	RunE: runNetwork,
}

// parseNetworkRequest turns the shared expansion flags into a request,
// applying config defaults. Exits on invalid flag values.
func parseNetworkRequest(repoRoot string) netsvc.Request {
	cfg := mustLoadConfig(repoRoot)

	seeds, err := parseSeeds(networkPersons)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	depth := networkDepth
	if depth < 0 {
		depth = cfg.DefaultDepth
	}

	typeNames := networkTypes
	if len(typeNames) == 0 {
		for _, t := range relation.AllTypes {
			typeNames = append(typeNames, string(t))
		}
	}
	types, err := relation.ParseTypes(typeNames)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	layoutName := networkLayout
	if layoutName == "" {
		layoutName = cfg.DefaultLayout
	}
	layoutType, err := layout.ParseType(layoutName)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	return netsvc.Request{
		Seeds: seeds,
		Depth: depth,
		Types: types,
		Layout: layout.Options{
			Type: layoutType,
			Seed: networkSeed,
		},
		Refine:    networkRefine,
		SkipStats: networkNoStats,
	}
}

// parseSeeds parses the repeatable --person flag values into person keys.
func parseSeeds(values []string) ([]person.Key, error) {
	seeds := make([]person.Key, 0, len(values))
	for _, s := range values {
		id, err := person.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("--person %q: %w", s, err)
		}
		seeds = append(seeds, id)
	}
	return seeds, nil
}

// limitsFromConfig derives expansion limits from repository config; zero
// fields fall back to netbuild defaults.
func limitsFromConfig(cfg *config.Config) netbuild.Limits {
	return netbuild.Limits{MaxDepth: cfg.MaxDepth, MaxNodes: cfg.MaxNodes}
}

func runNetwork(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	req := parseNetworkRequest(repoRoot)
	cfg := mustLoadConfig(repoRoot)

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	svc := netsvc.New(db, limitsFromConfig(cfg))
	resp, err := svc.BuildNetwork(context.Background(), req)
	exitOnErr(err)
	fillEdgeLabels(db, resp.Edges)

	if humanOutput {
		outputHuman("%d node(s), %d edge(s)\n", len(resp.Nodes), len(resp.Edges))
		if resp.Stats != nil {
			outputHuman("%s\n", resp.Stats)
		}
		if resp.Truncated {
			outputHuman("(truncated at node ceiling)\n")
		}
		for _, f := range resp.TaskFailures {
			outputHuman("warning: %s task failed: %s\n", f.Task, f.Message)
		}
		return nil
	}
	return outputJSON(resp)
}
