// Package cli provides the command-line interface for Butterfly Brain
package cli

import (
	"os"
)

const Version = "0.1.0"

// Run starts the CLI application
func Run() {
	rootCmd := NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
