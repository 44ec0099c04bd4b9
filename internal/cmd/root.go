package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for compass
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compass",
		Short: "Principle-grounded decision journal",
		Long: `Compass is a personal decision journal. You record a small set of life
principles, describe a dilemma, and work through AI-generated reflection
questions grounded in those principles before receiving synthesized advice.

All records stay on your machine; only the two analysis calls leave it.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewOpenCommand())
	cmd.AddCommand(NewDecideCommand())
	cmd.AddCommand(NewPrinciplesCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewCredentialCommand())

	return cmd
}
