package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/RivinHD/ltexctl/internal/commands"
	"github.com/RivinHD/ltexctl/internal/tui"
)

// newCheckCmd creates the "check" subcommand for single documents.
func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [document]",
		Short: "Check a single document",
		Long: "Check one document with the external checking server. With no " +
			"argument the active document (--document) is checked.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := newCommandSet(cmd, opts, true)
			if err != nil {
				return err
			}
			defer set.cleanup()

			params := commands.CheckDocumentParams{}
			if len(args) == 1 {
				params.URI = args[0]
			}
			if !set.commands.CheckCurrentDocument(cmd.Context(), params) {
				return ErrCommandFailed
			}
			return nil
		},
	}
}

// newCheckAllCmd creates the "check-all" subcommand for the whole
// workspace. When stdout is a terminal the batch renders a progress
// bar; otherwise progress stays in the log.
func newCheckAllCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-all",
		Short: "Check every eligible document in the workspace",
		Long: "Enumerate all workspace documents matching the enabled language " +
			"extensions and check them sequentially, stopping at the first " +
			"failure.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := newCommandSet(cmd, opts, true)
			if err != nil {
				return err
			}
			defer set.cleanup()

			ctx := cmd.Context()
			var ok bool
			if isTerminal(os.Stdout) {
				ok, err = tui.RunBatch(ctx, set.commands.Batch)
				if err != nil {
					return err
				}
			} else {
				ok = set.commands.CheckAllDocuments(ctx)
			}
			if !ok {
				return ErrCommandFailed
			}
			return nil
		},
	}
}
