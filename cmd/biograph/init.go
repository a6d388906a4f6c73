package main

import (
	"os"
	"path/filepath"

	"github.com/knutsen/biograph/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a new biograph repository",
	Long: `Create a .biograph directory with empty data files and a default config.

The repository is created in the given path, or the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		exitWithError(ExitError, "resolving path: %v", err)
	}

	if config.IsRepository(abs) {
		exitWithError(ExitConfigError, "repository already exists at %s", abs)
	}

	if err := os.MkdirAll(config.CachePath(abs), 0755); err != nil {
		exitWithError(ExitError, "creating repository directories: %v", err)
	}

	// Touch the data files so a fresh repo rebuilds cleanly
	for _, path := range []string{
		config.PersonsPath(abs),
		config.RelationsPath(abs),
		config.CodesPath(abs),
	} {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			exitWithError(ExitError, "creating %s: %v", filepath.Base(path), err)
		}
		f.Close()
	}

	cfg := &config.Config{
		DefaultDepth:  config.DefaultDepth,
		DefaultLayout: config.DefaultLayout,
	}
	if err := cfg.Save(abs); err != nil {
		exitWithError(ExitError, "writing config: %v", err)
	}

	if humanOutput {
		outputHuman("Initialized biograph repository at %s\n", abs)
		return nil
	}
	return outputJSON(StatusResponse{Status: "initialized", Path: abs})
}
