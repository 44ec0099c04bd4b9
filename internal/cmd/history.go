package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/compass/internal/display"
	"github.com/harrison/compass/internal/filelock"
	"github.com/harrison/compass/internal/journal"
	"github.com/harrison/compass/internal/models"
)

// NewHistoryCommand creates the `compass history` command group.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past decisions",
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryDeleteCommand())
	cmd.AddCommand(newHistoryExportCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List decisions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			display.HistoryList(a.journal.History(cmd.Context()))
			return nil
		},
	}
}

// resolveRecord accepts either a 1-based list position or a record id.
func resolveRecord(records []models.DecisionRecord, ref string) (models.DecisionRecord, error) {
	if idx, ok := parseIndex(ref, len(records)); ok {
		return records[idx], nil
	}
	for _, rec := range records {
		if rec.ID == ref {
			return rec, nil
		}
	}
	return models.DecisionRecord{}, fmt.Errorf("no decision matching %q", ref)
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <number|id>",
		Short: "Show one decision in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := resolveRecord(a.journal.History(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			display.DecisionDetail(rec)
			return nil
		},
	}
}

func newHistoryDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <number|id>",
		Short: "Delete one decision record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			rec, err := resolveRecord(a.journal.History(ctx), args[0])
			if err != nil {
				return err
			}

			if !yes {
				return fmt.Errorf("deleting the decision from %s requires --yes to confirm",
					rec.Date.Format("2006-01-02"))
			}

			if err := a.journal.DeleteDecision(ctx, rec.ID); err != nil {
				return err
			}
			display.Success("Deleted the decision from %s.", rec.Date.Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func newHistoryExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.md>",
		Short: "Export the decision history as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			records := a.journal.History(cmd.Context())
			data := journal.ExportHistoryMarkdown(records)
			if err := filelock.AtomicWrite(args[0], data); err != nil {
				return err
			}
			display.Success("Exported %d decisions to %s.", len(records), args[0])
			return nil
		},
	}
}
