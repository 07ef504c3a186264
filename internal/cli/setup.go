package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RivinHD/ltexctl/internal/checker"
	"github.com/RivinHD/ltexctl/internal/commands"
	"github.com/RivinHD/ltexctl/internal/config"
	"github.com/RivinHD/ltexctl/internal/extfile"
	"github.com/RivinHD/ltexctl/internal/logging"
	"github.com/RivinHD/ltexctl/internal/lserver"
	"github.com/RivinHD/ltexctl/internal/settings"
	"github.com/RivinHD/ltexctl/internal/workspace"
)

// serverPathSettingKey is the configuration key naming the checking
// server binary, consulted when the --server flag is unset.
const serverPathSettingKey = "serverPath"

// commandSet bundles the wired command surface plus its cleanup.
type commandSet struct {
	commands  *commands.Commands
	store     *config.Store
	workspace *workspace.Workspace
	cleanup   func()
}

// newCommandSet builds the collaborators behind the command surface.
// The checking server is launched only when connectServer is true;
// settings-only commands run without one.
func newCommandSet(cmd *cobra.Command, opts *rootOptions, connectServer bool) (*commandSet, error) {
	ctx := cmd.Context()

	ws, err := buildWorkspace(opts)
	if err != nil {
		return nil, err
	}

	store, err := config.NewStore(ws.Roots)
	if err != nil {
		return nil, err
	}

	diagnostics := checker.NewDiagnosticsStore()
	notifier := &cmdNotifier{cmd: cmd}

	var client *lserver.Client
	if connectServer {
		client, err = launchServer(ctx, opts, store, diagnostics)
		if err != nil {
			return nil, err
		}
	}

	service := commands.NewServerService(client, diagnostics)
	docChecker := &checker.Checker{Service: service}

	merger := &settings.Merger{
		Config: store,
		Files:  &extfile.Store{ScopeDir: store.ScopeDir},
	}
	cleanup := func() {}
	if connectServer {
		merger.Recheck = func(ctx context.Context) {
			if ws.ActiveDocument == "" {
				return
			}
			docChecker.Check(ctx, checker.CheckRequest{
				URI:        ws.ActiveDocument,
				LanguageID: workspace.LanguageForPath(ws.ActiveDocument),
			})
		}
		// Drain pending re-checks before killing the server so the
		// courtesy check is not lost with the process.
		cleanup = func() {
			merger.Wait()
			_ = client.Close(ctx)
		}
	}

	return &commandSet{
		commands: &commands.Commands{
			Checker: docChecker,
			Batch: &checker.BatchChecker{
				Checker:   docChecker,
				Config:    store,
				Workspace: ws,
				Notifier:  notifier,
			},
			Merger:      merger,
			Diagnostics: diagnostics,
			Workspace:   ws,
			Notifier:    notifier,
		},
		store:     store,
		workspace: ws,
		cleanup:   cleanup,
	}, nil
}

// buildWorkspace resolves the workspace roots and active document
// from the persistent flags. With no --workspace flags the current
// directory is the single root.
func buildWorkspace(opts *rootOptions) (*workspace.Workspace, error) {
	roots := opts.workspaces
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving current directory: %w", err)
		}
		roots = []string{cwd}
	}
	return &workspace.Workspace{
		Roots:          roots,
		ActiveDocument: opts.document,
	}, nil
}

// launchServer starts the checking server named by the --server flag
// or the serverPath setting.
func launchServer(
	ctx context.Context,
	opts *rootOptions,
	store *config.Store,
	diagnostics *checker.DiagnosticsStore,
) (*lserver.Client, error) {
	path := opts.serverPath
	if path == "" {
		if value, ok := store.Get(serverPathSettingKey, opts.document); ok {
			path, _ = value.(string)
		}
	}
	if path == "" {
		return nil, fmt.Errorf("no checking server configured: set --server or the %s setting", serverPathSettingKey)
	}

	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "cli").
		Str("server_path", path).
		Msg("launching checking server")

	return lserver.NewClient(ctx, lserver.NewProcessLauncher(), path,
		lserver.WithDiagnosticsHandler(commands.DiagnosticsHandler(diagnostics)))
}

// cmdNotifier reports user-facing messages on the command's output
// streams.
type cmdNotifier struct {
	cmd *cobra.Command
}

func (n *cmdNotifier) NotifyError(_ context.Context, msg string) {
	n.cmd.PrintErrln(msg)
}

func (n *cmdNotifier) NotifyInfo(_ context.Context, msg string) {
	n.cmd.Println(msg)
}
