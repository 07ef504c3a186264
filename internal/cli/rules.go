package cli

import (
	"github.com/spf13/cobra"

	"github.com/RivinHD/ltexctl/internal/commands"
)

// newRulesCmd creates the "rules disable" command group.
func newRulesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage checking rules",
	}

	flags := &settingFlags{}
	disable := &cobra.Command{
		Use:   "disable RULE_ID...",
		Short: "Disable checking rules",
		Long: "Add rule IDs to the disabledRules setting for one language. The " +
			"storage scope and medium follow the " +
			"configurationTarget.disabledRules setting.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := newCommandSet(cmd, opts, flags.recheck)
			if err != nil {
				return err
			}
			defer set.cleanup()

			params := commands.DisableRulesParams{
				URI:     opts.document,
				RuleIDs: map[string][]string{flags.language: args},
			}
			if !set.commands.DisableRules(cmd.Context(), params) {
				return ErrCommandFailed
			}
			return nil
		},
	}
	flags.register(disable)

	cmd.AddCommand(disable)
	return cmd
}
