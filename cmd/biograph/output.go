package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/knutsen/biograph/internal/graph"
	"github.com/knutsen/biograph/internal/netbuild"
	"github.com/knutsen/biograph/internal/storage"
)

// DefaultSearchLimit is the default limit for search commands.
const DefaultSearchLimit = 50

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitOnErr maps known error kinds to exit codes so callers can tell a
// retryable store outage from bad input, and exits. No-op on nil.
func exitOnErr(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, storage.ErrUnavailable):
		exitWithError(ExitStoreError, "%v", err)
	case errors.Is(err, netbuild.ErrInvalidInput):
		exitWithError(ExitError, "%v", err)
	case errors.Is(err, graph.ErrMalformed):
		exitWithError(ExitDataError, "%v", err)
	default:
		exitWithError(ExitError, "%v", err)
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}
