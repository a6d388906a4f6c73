package main

import (
	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <person-id>",
	Short: "Show one person with relation counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// RelationSummary is one relation-type count in a person detail view.
type RelationSummary struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// GetResult is the response for the get command.
type GetResult struct {
	Person    *person.Person    `json:"person"`
	Relations []RelationSummary `json:"relations"`
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := person.ParseKey(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	p, err := db.GetPerson(id)
	exitOnErr(err)
	if p == nil {
		exitWithError(ExitDataError, "person %d not found", id)
	}

	counts, err := db.RelationCountsByType(id)
	exitOnErr(err)

	result := GetResult{Person: p}
	for _, t := range relation.AllTypes {
		if n, ok := counts[t]; ok {
			result.Relations = append(result.Relations, RelationSummary{Type: string(t), Count: n})
		}
	}

	if humanOutput {
		outputHuman("%s (%d)\n", p.Label(), p.ID)
		if p.BirthYear != 0 || p.DeathYear != 0 {
			outputHuman("  %d - %d\n", p.BirthYear, p.DeathYear)
		}
		for _, r := range result.Relations {
			outputHuman("  %-12s %d\n", r.Type, r.Count)
		}
		return nil
	}
	return outputJSON(result)
}
