// Package main provides the CLI for the concerto metamodel validator.
package main

import (
	"os"

	"github.com/leapstack-labs/concerto/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
