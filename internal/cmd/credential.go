package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/compass/internal/display"
	"github.com/harrison/compass/internal/models"
)

// NewCredentialCommand creates the `compass credential` command group.
// The stored key is obfuscated against casual inspection only; the store
// file should be treated as containing the key in the clear.
func NewCredentialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage the API credential",
	}

	cmd.AddCommand(newCredentialSetCommand())
	cmd.AddCommand(newCredentialStatusCommand())
	cmd.AddCommand(newCredentialClearCommand())

	return cmd
}

func newCredentialSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Enter and validate a new API key",
		Long: `Set reads the key from stdin, probes the provider with it, and stores
it only when the probe succeeds. An invalid key is never saved and never
retried automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			display.Prompt("API key: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read key: %w", err)
			}
			candidate := strings.TrimSpace(line)
			if candidate == "" {
				return fmt.Errorf("no key entered")
			}

			ctx := cmd.Context()
			display.Working(fmt.Sprintf("Credential status: %s", models.CredentialTesting))
			if !a.gateway.ValidateCredential(ctx, candidate) {
				return fmt.Errorf("credential status: %s, key was not saved", models.CredentialInvalid)
			}

			a.journal.SaveCredential(ctx, candidate)
			display.Success("Credential status: %s. Key saved.", models.CredentialValid)
			return nil
		},
	}
}

func newCredentialStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a usable credential is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			credential := a.journal.Credential(ctx)
			if credential == "" {
				display.Warn("Credential status: %s.", models.CredentialUnset)
				return nil
			}

			display.Working(fmt.Sprintf("Credential status: %s", models.CredentialTesting))
			if a.gateway.ValidateCredential(ctx, credential) {
				display.Success("Credential status: %s.", models.CredentialValid)
			} else {
				display.ErrorLine("Credential status: %s. Set a new key with 'compass credential set'.",
					models.CredentialInvalid)
			}
			return nil
		},
	}
}

func newCredentialClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(false, flagOverrides{})
			if err != nil {
				return err
			}
			defer cleanup()

			a.journal.ClearCredential(cmd.Context())
			display.Success("Credential removed.")
			return nil
		},
	}
}
