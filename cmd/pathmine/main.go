// Package main is the entry point for the pathmine CLI.
package main

import (
	"os"

	"github.com/miradorstack/mirador-pathmine/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
