// Package main provides the entrypoint for gh-issue-bridge.
package main

import (
	"os"

	"github.com/isometry/gh-issue-bridge/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
