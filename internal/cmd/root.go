// Package cmd wires the collint CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"collint/internal/ui"
)

var (
	// Global flags
	verbose    bool
	format     string
	configPath string
	preset     string
)

// RootCmd is the top-level collint command
var RootCmd = &cobra.Command{
	Use:   "collint",
	Short: "A linter for JavaScript collection truthiness",
	Long: `collint finds JavaScript conditions that test a collection directly.
Arrays, plain objects, Sets, and Maps are always truthy, even when
empty, so code like "if (items) { ... }" never takes the empty branch it
reads as guarding. collint classifies the expression in every boolean
position, reports why it was flagged and with what confidence, and
suggests the emptiness check that was probably intended.`,
}

var globalUI *ui.UI

// GetUI returns the process-wide UI, built from the format flag on first use
func GetUI() *ui.UI {
	if globalUI == nil {
		globalUI = ui.New(os.Stdout, os.Stderr, format)
	}
	return globalUI
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().StringVarP(&format, "format", "f", "terminal", "Output format (terminal, json)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a collint config file")
	RootCmd.PersistentFlags().StringVar(&preset, "preset", "", "Preset to start from (recommended, strict)")
}
