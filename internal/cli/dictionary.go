package cli

import (
	"github.com/spf13/cobra"

	"github.com/RivinHD/ltexctl/internal/commands"
)

// defaultLanguage is the language key used when --language is unset.
const defaultLanguage = "en-US"

// settingFlags holds the flags shared by the setting-merging
// subcommands (dictionary, rules, false-positives).
type settingFlags struct {
	language string
	recheck  bool
}

func (f *settingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.language, "language", defaultLanguage, "language the entries apply to")
	cmd.Flags().BoolVar(&f.recheck, "recheck", false, "re-check the active document after updating the setting")
}

// newDictionaryCmd creates the "dictionary add" command group.
func newDictionaryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Manage the user dictionary",
	}

	flags := &settingFlags{}
	add := &cobra.Command{
		Use:   "add WORD...",
		Short: "Add words to the user dictionary",
		Long: "Add words to the dictionary setting for one language. The storage " +
			"scope and medium follow the configurationTarget.dictionary setting.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := newCommandSet(cmd, opts, flags.recheck)
			if err != nil {
				return err
			}
			defer set.cleanup()

			params := commands.AddToDictionaryParams{
				URI:   opts.document,
				Words: map[string][]string{flags.language: args},
			}
			if !set.commands.AddToDictionary(cmd.Context(), params) {
				return ErrCommandFailed
			}
			return nil
		},
	}
	flags.register(add)

	cmd.AddCommand(add)
	return cmd
}
