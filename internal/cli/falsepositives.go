package cli

import (
	"github.com/spf13/cobra"

	"github.com/RivinHD/ltexctl/internal/commands"
)

// newFalsePositivesCmd creates the "false-positives hide" command
// group.
func newFalsePositivesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "false-positives",
		Short: "Manage hidden false positives",
	}

	flags := &settingFlags{}
	hide := &cobra.Command{
		Use:   "hide SIGNATURE...",
		Short: "Hide false positives",
		Long: "Add sentence signatures to the hiddenFalsePositives setting for " +
			"one language. The storage scope and medium follow the " +
			"configurationTarget.hiddenFalsePositives setting.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := newCommandSet(cmd, opts, flags.recheck)
			if err != nil {
				return err
			}
			defer set.cleanup()

			params := commands.HideFalsePositivesParams{
				URI:            opts.document,
				FalsePositives: map[string][]string{flags.language: args},
			}
			if !set.commands.HideFalsePositives(cmd.Context(), params) {
				return ErrCommandFailed
			}
			return nil
		},
	}
	flags.register(hide)

	cmd.AddCommand(hide)
	return cmd
}
