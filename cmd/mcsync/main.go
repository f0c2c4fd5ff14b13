// Package main is the entry point for the mcsync CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcsync/cmd/mcsync/commands"
	"github.com/thoreinstein/mcsync/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}
