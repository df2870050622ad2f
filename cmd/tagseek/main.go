// Package main is the entry point for the tagseek CLI.
package main

import (
	"os"

	"github.com/kailas-cloud/tagseek/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
