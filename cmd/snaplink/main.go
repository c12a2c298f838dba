// Package main is the entry point for the snaplink CLI.
package main

import (
	"fmt"
	"os"

	"github.com/mjansson/snaplink/cmd/snaplink/commands"
	"github.com/mjansson/snaplink/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	code := errors.ExitUser
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
	}
	os.Exit(code)
}
