// Package main provides the blockgraph CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/blockgraph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
