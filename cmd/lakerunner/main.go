// Package main provides the CLI for the lakerunner conformance runner.
package main

import (
	"github.com/leapstack-labs/lakerunner/internal/cli"
)

func main() {
	cli.Execute()
}
