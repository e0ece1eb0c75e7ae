// Package main is the entry point for the custseg CLI.
package main

import (
	"os"

	"github.com/f3rmion/custseg/cmd/custseg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
