// Command ltexctl checks LaTeX, BibTeX and Markdown documents by
// delegating analysis to an external checking server.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/RivinHD/ltexctl/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev" //nolint:gochecknoglobals // Overridden by the linker.

func main() {
	cmd := cli.NewRootCmd(version)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, cli.ErrCommandFailed) {
			cmd.PrintErrln("Error:", err)
		}
		os.Exit(1)
	}
}
