// Package main provides the entry point for the cclsearch CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/cclsearch/cmd/cclsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
