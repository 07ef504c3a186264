package cli

import (
	"github.com/spf13/cobra"

	"github.com/RivinHD/ltexctl/internal/commands"
)

// newClearCmd creates the "clear" subcommand, clearing the
// diagnostics of one document.
func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [document]",
		Short: "Clear the diagnostics of a single document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := newCommandSet(cmd, opts, true)
			if err != nil {
				return err
			}
			defer set.cleanup()

			params := commands.ClearDiagnosticsParams{}
			if len(args) == 1 {
				params.URI = args[0]
			}
			if !set.commands.ClearDiagnosticsCurrent(cmd.Context(), params) {
				return ErrCommandFailed
			}
			return nil
		},
	}
}

// newClearAllCmd creates the "clear-all" subcommand.
func newClearAllCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-all",
		Short: "Clear the diagnostics of all documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := newCommandSet(cmd, opts, true)
			if err != nil {
				return err
			}
			defer set.cleanup()

			if !set.commands.ClearDiagnosticsAll(cmd.Context()) {
				return ErrCommandFailed
			}
			return nil
		},
	}
}
