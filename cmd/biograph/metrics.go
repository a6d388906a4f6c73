package main

import (
	"context"

	"github.com/knutsen/biograph/internal/metrics"
	"github.com/knutsen/biograph/internal/netbuild"
	"github.com/spf13/cobra"
)

func init() {
	addNetworkFlags(metricsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute graph statistics for a relationship network",
	Long: `Build the network around the seed persons and report its statistics:
density, average degree, clustering coefficient, degree distribution,
and connected components.

The betweenness ranking is a degree-based approximation, not exact
shortest-path betweenness.

Examples:
  biograph metrics -p 1762 -d 2
  biograph metrics -p 1762 -t kinship -t association`,
	RunE: runMetrics,
}

func runMetrics(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	req := parseNetworkRequest(repoRoot)
	cfg := mustLoadConfig(repoRoot)

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	ctx := context.Background()
	builder := netbuild.NewBuilder(db, limitsFromConfig(cfg))
	built, err := builder.Build(ctx, req.Seeds, req.Depth, req.Types)
	exitOnErr(err)

	result, err := metrics.Compute(ctx, built.Snapshot)
	exitOnErr(err)

	if humanOutput {
		outputHuman("%s\n", result)
		outputHuman("clustering %.4f, avg degree %.2f, degrees %d..%d (median %.1f)\n",
			result.ClusteringCoefficient, result.AvgDegree,
			result.DegreeDistribution.Min, result.DegreeDistribution.Max,
			result.DegreeDistribution.Median)
		return nil
	}
	return outputJSON(result)
}
