package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/compass/internal/display"
	"github.com/harrison/compass/internal/filelock"
	"github.com/harrison/compass/internal/journal"
	"github.com/harrison/compass/internal/models"
)

// NewPrinciplesCommand creates the `compass principles` command group for
// non-interactive principle management.
func NewPrinciplesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "principles",
		Short: "Manage the principle set",
	}

	cmd.AddCommand(newPrinciplesListCommand())
	cmd.AddCommand(newPrinciplesAddCommand())
	cmd.AddCommand(newPrinciplesEditCommand())
	cmd.AddCommand(newPrinciplesRemoveCommand())
	cmd.AddCommand(newPrinciplesImportCommand())
	cmd.AddCommand(newPrinciplesExportCommand())

	return cmd
}

func newPrinciplesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List principles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			principles, persisted := a.journal.Principles(cmd.Context())
			if !persisted {
				display.Warn("No saved principle set yet; showing the starter set.")
			}
			display.PrincipleList(principles)
			return nil
		},
	}
}

func newPrinciplesAddCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a principle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			principles, _ := a.journal.Principles(ctx)
			if len(principles) >= models.MaxPrinciples {
				return fmt.Errorf("the set is limited to %d principles", models.MaxPrinciples)
			}

			principles = append(principles, models.NewPrinciple(args[0], description))
			if err := a.journal.SavePrinciples(ctx, principles); err != nil {
				return err
			}
			display.Success("Added %q (%d/%d).", args[0], len(principles), models.MaxPrinciples)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "principle description")
	return cmd
}

func newPrinciplesEditCommand() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "Edit a principle in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			principles, persisted := a.journal.Principles(ctx)
			if !persisted {
				return fmt.Errorf("no saved principle set to edit")
			}

			idx, ok := parseIndex(args[0], len(principles))
			if !ok {
				return fmt.Errorf("no principle numbered %s", args[0])
			}

			if title != "" {
				principles[idx].Title = title
			}
			if description != "" {
				principles[idx].Description = description
			}
			if err := a.journal.SavePrinciples(ctx, principles); err != nil {
				return err
			}
			display.Success("Updated %q.", principles[idx].Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func newPrinciplesRemoveCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <number>",
		Short: "Remove a principle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			principles, persisted := a.journal.Principles(ctx)
			if !persisted {
				return fmt.Errorf("no saved principle set to edit")
			}

			idx, ok := parseIndex(args[0], len(principles))
			if !ok {
				return fmt.Errorf("no principle numbered %s", args[0])
			}

			if !yes {
				return fmt.Errorf("removing %q requires --yes to confirm", principles[idx].Title)
			}

			removed := principles[idx].Title
			principles = append(principles[:idx], principles[idx+1:]...)
			if err := a.journal.SavePrinciples(ctx, principles); err != nil {
				return err
			}
			display.Success("Removed %q.", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the removal")
	return cmd
}

func newPrinciplesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.md>",
		Short: "Replace the principle set from a markdown file",
		Long: `Import reads a markdown document in which each level-2 heading is a
principle title and the paragraphs that follow are its description. The
imported set replaces the current one and is subject to the same
10-principle cap.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			principles, err := journal.ImportPrinciplesMarkdown(source)
			if err != nil {
				return err
			}

			if err := a.journal.SavePrinciples(cmd.Context(), principles); err != nil {
				return err
			}
			display.Success("Imported %d principles from %s.", len(principles), args[0])
			return nil
		},
	}
}

func newPrinciplesExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.md>",
		Short: "Export the principle set as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			principles, _ := a.journal.Principles(cmd.Context())
			data := journal.ExportPrinciplesMarkdown(principles)
			if err := filelock.AtomicWrite(args[0], data); err != nil {
				return err
			}
			display.Success("Exported %d principles to %s.", len(principles), args[0])
			return nil
		},
	}
}
