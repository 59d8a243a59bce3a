// Package main provides the entry point for the Tern CLI.
package main

import (
	"fmt"
	"os"

	"github.com/tern-ai/tern/cmd/tern/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
