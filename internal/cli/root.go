// Package cli wires the command surface onto a cobra command tree.
// Each subcommand maps onto one command of the internal/commands
// package; the command's boolean result becomes the process exit
// code.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RivinHD/ltexctl/internal/logging"
)

// ErrCommandFailed is returned by subcommands whose underlying
// command reported failure; the message shown to the user has already
// been delivered through the notifier.
var ErrCommandFailed = errors.New("command failed")

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// rootOptions holds the persistent flag values shared by all
// subcommands.
type rootOptions struct {
	logLevel   string
	workspaces []string
	document   string
	serverPath string
}

// NewRootCmd creates the root cobra command for ltexctl.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ltexctl",
		Short: "ltexctl drives an external grammar and spell checking server",
		Long: "ltexctl checks LaTeX, BibTeX and Markdown documents by delegating " +
			"analysis to an external checking server, and manages the layered " +
			"settings (dictionary, disabled rules, hidden false positives) the " +
			"server consults.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := logging.New(cmd.ErrOrStderr(), opts.logLevel)
			cmd.SetContext(logging.WithContext(cmd.Context(), logger))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.StringArrayVar(&opts.workspaces, "workspace", nil, "workspace root folder (repeatable; defaults to the current directory)")
	flags.StringVar(&opts.document, "document", "", "path of the active document")
	flags.StringVar(&opts.serverPath, "server", "", "path to the checking server binary (overrides the serverPath setting)")

	cmd.AddCommand(
		newCheckCmd(opts),
		newCheckAllCmd(opts),
		newClearCmd(opts),
		newClearAllCmd(opts),
		newDictionaryCmd(opts),
		newRulesCmd(opts),
		newFalsePositivesCmd(opts),
	)

	return cmd
}
