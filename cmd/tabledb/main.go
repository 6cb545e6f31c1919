// Package main is the entry point for the tabledb CLI binary.
package main

import (
	"os"

	"github.com/hupe1980/tabledb/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
