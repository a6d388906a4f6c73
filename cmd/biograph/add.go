package main

import (
	"github.com/knutsen/biograph/internal/config"
	"github.com/knutsen/biograph/internal/person"
	"github.com/knutsen/biograph/internal/relation"
	"github.com/knutsen/biograph/internal/storage"
	"github.com/spf13/cobra"
)

var (
	addPersonName      string
	addPersonAltName   string
	addPersonBirthYear int
	addPersonDeathYear int

	addRelationType  string
	addRelationCode  int
	addRelationLabel string
)

func init() {
	addPersonCmd.Flags().StringVar(&addPersonName, "name", "", "Person name (required)")
	addPersonCmd.Flags().StringVar(&addPersonAltName, "alt-name", "", "Alternate or courtesy name")
	addPersonCmd.Flags().IntVar(&addPersonBirthYear, "birth", 0, "Birth year")
	addPersonCmd.Flags().IntVar(&addPersonDeathYear, "death", 0, "Death year")
	addPersonCmd.MarkFlagRequired("name")

	addRelationCmd.Flags().StringVar(&addRelationType, "type", "", "Relation type: kinship, association, or office (required)")
	addRelationCmd.Flags().IntVar(&addRelationCode, "code", 0, "Relation-type code")
	addRelationCmd.Flags().StringVar(&addRelationLabel, "label", "", "Display label for this relation")
	addRelationCmd.MarkFlagRequired("type")

	addCmd.AddCommand(addPersonCmd)
	addCmd.AddCommand(addRelationCmd)
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add persons and relations",
}

var addPersonCmd = &cobra.Command{
	Use:   "person <id>",
	Short: "Add a person record",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddPerson,
}

var addRelationCmd = &cobra.Command{
	Use:   "relation <source-id> <target-id>",
	Short: "Add a relation between two persons",
	Args:  cobra.ExactArgs(2),
	RunE:  runAddRelation,
}

func runAddPerson(cmd *cobra.Command, args []string) error {
	id, err := person.ParseKey(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	p := person.Person{
		ID:        id,
		Name:      addPersonName,
		AltName:   addPersonAltName,
		BirthYear: addPersonBirthYear,
		DeathYear: addPersonDeathYear,
	}
	if err := p.ValidateForCreate(); err != nil {
		exitWithError(ExitDataError, "invalid person: %v", err)
	}

	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	// Source of truth first, then the query cache
	if err := storage.AppendPerson(config.PersonsPath(repoRoot), p); err != nil {
		exitWithError(ExitError, "appending person: %v", err)
	}
	exitOnErr(db.InsertPerson(p))

	if humanOutput {
		outputHuman("Added person %s (%d)\n", p.Name, p.ID)
		return nil
	}
	return outputJSON(StatusResponse{Status: "added"})
}

func runAddRelation(cmd *cobra.Command, args []string) error {
	sourceID, err := person.ParseKey(args[0])
	if err != nil {
		exitWithError(ExitError, "source: %v", err)
	}
	targetID, err := person.ParseKey(args[1])
	if err != nil {
		exitWithError(ExitError, "target: %v", err)
	}
	relType, err := relation.ParseType(addRelationType)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	r := relation.Relation{
		SourceID: sourceID,
		TargetID: targetID,
		Type:     relType,
		Code:     addRelationCode,
		Label:    addRelationLabel,
	}
	if err := r.ValidateForCreate(); err != nil {
		exitWithError(ExitDataError, "invalid relation: %v", err)
	}
	r.SetCreatedAt()

	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	if err := storage.AppendRelation(config.RelationsPath(repoRoot), r); err != nil {
		exitWithError(ExitError, "appending relation: %v", err)
	}
	exitOnErr(db.InsertRelation(r))

	if humanOutput {
		outputHuman("Added %s relation %d -> %d\n", r.Type, r.SourceID, r.TargetID)
		return nil
	}
	return outputJSON(StatusResponse{Status: "added"})
}
