// Package main is the entry point for the mergescout CLI binary.
package main

import (
	"os"

	"github.com/irahardianto/mergescout/cmd/mergescout/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(2)
	}
}
