package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show repository statistics",
	RunE:  runInfo,
}

// InfoResult is the response for the info command.
type InfoResult struct {
	Path      string `json:"path"`
	Persons   int    `json:"persons"`
	Relations int    `json:"relations"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	persons, err := db.CountPersons()
	exitOnErr(err)
	relations, err := db.CountRelations()
	exitOnErr(err)

	if humanOutput {
		outputHuman("Repository: %s\nPersons:    %d\nRelations:  %d\n", repoRoot, persons, relations)
		return nil
	}
	return outputJSON(InfoResult{Path: repoRoot, Persons: persons, Relations: relations})
}
