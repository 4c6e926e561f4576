// Package main provides the CLI for the LeapBridge data-access bridge.
package main

import (
	"os"

	"github.com/leapstack-labs/leapbridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
