package main

import (
	"context"

	"github.com/knutsen/biograph/internal/search"
	"github.com/spf13/cobra"
)

var (
	searchLimit        int
	searchStart        int
	searchAccurate     bool
	searchByImportance bool
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().IntVar(&searchStart, "start", 0, "Result offset for paging")
	searchCmd.Flags().BoolVar(&searchAccurate, "accurate", false, "Structured surname/given matching instead of full-text search")
	searchCmd.Flags().BoolVar(&searchByImportance, "by-importance", false, "Rank results by relation-edge count")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search persons by name",
	Long: `Search persons by name against the full-text index.

By default results follow the store's natural match order. With
--by-importance, results are re-ranked by each person's total relation
count: well-connected persons first, ties keeping natural order. Ranking
needs an extra store query, so it is slower; the total match count is
identical either way.

Examples:
  biograph search "Wang"
  biograph search "Wang Anshi" --accurate
  biograph search "Wang" --by-importance --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	// All searches go through the same throttled entry point.
	searcher := search.NewSearcher(db, 0)
	result, err := searcher.Search(context.Background(), args[0], search.Options{
		Accurate:         searchAccurate,
		Start:            searchStart,
		Limit:            searchLimit,
		SortByImportance: searchByImportance,
	})
	exitOnErr(err)

	if humanOutput {
		outputHuman("%d match(es)\n", result.Total)
		for _, p := range result.Data {
			outputHuman("  %-8d %s\n", p.ID, p.Label())
		}
		return nil
	}
	return outputJSON(result)
}
