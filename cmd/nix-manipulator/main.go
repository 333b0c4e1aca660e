// Package main provides the nix-manipulator CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/hoh/nix-manipulator/cmd/nix-manipulator/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
