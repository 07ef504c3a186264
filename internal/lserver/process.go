package lserver

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/RivinHD/ltexctl/internal/logging"
)

// processWaitDelay bounds how long Wait blocks on process I/O after
// the process is killed.
const processWaitDelay = 100 * time.Millisecond

// Conn is a bidirectional byte stream to a running server process.
type Conn struct {
	// Reader carries server-to-client messages (the process stdout).
	Reader io.Reader
	// Writer carries client-to-server messages (the process stdin).
	Writer io.Writer
	// Close terminates the connection and the underlying process.
	Close func() error
}

// Launcher abstracts how the checking server process is started, so
// tests can substitute an in-memory server.
type Launcher interface {
	Start(ctx context.Context, path string, args ...string) (*Conn, error)
}

// ProcessLauncher launches the checking server as a child process
// communicating over stdio.
type ProcessLauncher struct{}

// NewProcessLauncher creates a stdio process launcher.
func NewProcessLauncher() *ProcessLauncher {
	return &ProcessLauncher{}
}

// Start spawns the server binary and wires its stdio pipes. The
// returned Conn's Close kills the process after closing stdin.
func (l *ProcessLauncher) Start(ctx context.Context, path string, args ...string) (*Conn, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "lserver").
		Str("operation", "start_server").
		Str("server_path", path).
		Msg("starting checking server process")

	//nolint:gosec // Server path comes from configuration validated by the caller.
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = os.Stderr
	cmd.WaitDelay = processWaitDelay

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting checking server: %w", err)
	}

	log.Debug().
		Str("component", "lserver").
		Int("pid", cmd.Process.Pid).
		Msg("checking server process started")

	closeFn := func() error {
		closeErr := stdin.Close()
		if cmd.Process != nil {
			pid := cmd.Process.Pid
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			log.Debug().
				Str("component", "lserver").
				Int("pid", pid).
				Msg("checking server process terminated")
		}
		if closeErr != nil {
			return fmt.Errorf("closing server stdin: %w", closeErr)
		}
		return nil
	}

	return &Conn{Reader: stdout, Writer: stdin, Close: closeFn}, nil
}
