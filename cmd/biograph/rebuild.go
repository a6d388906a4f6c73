package main

import (
	"os"

	"github.com/knutsen/biograph/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from the JSONL source files.

Use this after pulling changes from git or if the database becomes corrupted.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status    string `json:"status"`
	Persons   int    `json:"persons"`
	Relations int    `json:"relations"`
	Codes     int    `json:"codes"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	// Ensure cache directory exists
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	personsCount, err := db.RebuildPersonsFromJSONL(config.PersonsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding persons database: %v", err)
	}

	relationsCount, err := db.RebuildRelationsFromJSONL(config.RelationsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding relations database: %v", err)
	}

	codesCount, err := db.RebuildCodesFromJSONL(config.CodesPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding relation codes: %v", err)
	}

	// The code table changed; drop any cached labels
	relationLabels(db).Invalidate()

	if humanOutput {
		outputHuman("Rebuilt: %d persons, %d relations, %d code labels\n",
			personsCount, relationsCount, codesCount)
		return nil
	}
	return outputJSON(RebuildResult{
		Status:    "rebuilt",
		Persons:   personsCount,
		Relations: relationsCount,
		Codes:     codesCount,
	})
}
