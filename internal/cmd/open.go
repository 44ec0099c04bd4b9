package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/compass/internal/config"
	"github.com/harrison/compass/internal/filelock"
	"github.com/harrison/compass/internal/workflow"
)

// addGatewayFlags registers the per-invocation overrides for the gateway
// settings; unset flags keep the configured values.
func addGatewayFlags(cmd *cobra.Command) {
	cmd.Flags().String("locale", "", "language for generated questions and advice")
	cmd.Flags().String("model", "", "model identifier for gateway calls")
	cmd.Flags().Duration("timeout", 0, "timeout per gateway request")
}

// NewOpenCommand creates the `compass open` command: the full interactive
// session starting at onboarding or the dashboard.
func NewOpenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open an interactive journal session",
		Long: `Open starts the interactive session. On first run it walks through
onboarding; afterwards it lands on the dashboard, from which decisions,
principles, and history are reachable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, false)
		},
	}
	addGatewayFlags(cmd)
	return cmd
}

// NewDecideCommand creates the `compass decide` command: the same session,
// but jumping straight into the decision workflow.
func NewDecideCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Start a decision immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, true)
		},
	}
	addGatewayFlags(cmd)
	return cmd
}

// runSession boots the app, guards against a second concurrent session, and
// runs the view loop.
func runSession(cmd *cobra.Command, jumpToDecision bool) error {
	a, cleanup, err := newApp(true, overridesFromFlags(cmd))
	if err != nil {
		return err
	}
	defer cleanup()
	a.log.LogInfo(fmt.Sprintf("journal store: %s", a.store.Path()))

	lockPath, err := config.GetLockPath()
	if err != nil {
		return err
	}
	lock := filelock.NewFileLock(lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("another compass session is already running")
	}
	defer lock.Unlock()

	ctx := cmd.Context()
	machine := workflow.NewMachine(ctx, a.journal, a.gateway, a.log)
	session := NewSession(a, machine, newStdinReader())

	if jumpToDecision && machine.State() == workflow.StateDashboard {
		if err := machine.StartDecision(ctx); err != nil {
			// Fall back to the dashboard, which redirects to credential
			// entry when that was the blocker.
			a.log.LogWarn(fmt.Sprintf("cannot jump into decision: %v", err))
		}
	}

	return session.Run(ctx)
}
