// Package lserver manages the connection to the external checking
// server: process lifecycle, the JSON-RPC transport, and the small
// command surface the command layer drives it through.
package lserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/RivinHD/ltexctl/internal/logging"
)

// MinServerVersion is the lowest checking-server version this client
// drives. Older servers lack the checkDocument command contract.
const MinServerVersion = "15.0.0"

// initializeTimeout bounds the initial handshake; a server that never
// answers initialize would otherwise hang the whole command.
const initializeTimeout = 30 * time.Second

// Checking-server command names invoked via workspace/executeCommand.
const (
	CommandCheckDocument    = "_ltex.checkDocument"
	CommandClearDiagnostics = "_ltex.clearDiagnosticsInDocument"
)

// CommandResult is the server's response to an executed command.
type CommandResult struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// DocumentArguments identifies a document in a server command. When
// LanguageID and Text are empty the server reads the document itself.
type DocumentArguments struct {
	URI        string `json:"uri"`
	LanguageID string `json:"codeLanguageId,omitempty"`
	Text       string `json:"text,omitempty"`
}

// DiagnosticsHandler receives published diagnostics per document URI.
type DiagnosticsHandler func(uri string, diagnostics []json.RawMessage)

// initializeResult is the subset of the initialize response we use.
type initializeResult struct {
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

// publishDiagnosticsParams is the payload of the diagnostics
// notification.
type publishDiagnosticsParams struct {
	URI         string            `json:"uri"`
	Diagnostics []json.RawMessage `json:"diagnostics"`
}

// showMessageParams is the payload of the window/showMessage
// notification. Type follows the LSP MessageType numbering
// (1 error, 2 warning, 3 info, 4 log).
type showMessageParams struct {
	Type    int    `json:"type"`
	Message string `json:"message"`
}

// Client is a connection to a running checking server.
type Client struct {
	transport *Transport
	closeConn func() error

	serverName    string
	serverVersion string

	mu            sync.Mutex
	onDiagnostics DiagnosticsHandler
	closed        bool
}

// ClientOption customizes client construction.
type ClientOption func(*Client)

// WithDiagnosticsHandler registers a handler for diagnostics the
// server publishes during checks.
func WithDiagnosticsHandler(handler DiagnosticsHandler) ClientOption {
	return func(c *Client) {
		c.onDiagnostics = handler
	}
}

// NewClient launches the checking server, performs the initialize
// handshake, and validates version compatibility. An incompatible
// server is shut down before the error is returned.
func NewClient(ctx context.Context, launcher Launcher, binPath string, opts ...ClientOption) (*Client, error) {
	log := logging.FromContext(ctx)

	conn, err := launcher.Start(ctx, binPath)
	if err != nil {
		return nil, err
	}

	client := &Client{
		transport: NewTransport(conn.Reader, conn.Writer),
		closeConn: conn.Close,
	}
	for _, opt := range opts {
		opt(client)
	}

	client.transport.OnNotification("textDocument/publishDiagnostics", client.handleDiagnostics)
	client.transport.OnNotification("window/showMessage", func(_ string, raw json.RawMessage) {
		client.handleShowMessage(ctx, raw)
	})
	client.transport.Start(ctx)

	initCtx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()

	var result initializeResult
	initParams := map[string]any{
		"processId":    nil,
		"capabilities": map[string]any{},
	}
	if err := client.transport.Call(initCtx, "initialize", initParams, &result); err != nil {
		_ = client.Close(ctx)
		return nil, fmt.Errorf("initializing checking server: %w", err)
	}
	client.serverName = result.ServerInfo.Name
	client.serverVersion = result.ServerInfo.Version

	if err := checkServerVersion(ctx, result.ServerInfo.Version); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}

	if err := client.transport.Notify("initialized", map[string]any{}); err != nil {
		_ = client.Close(ctx)
		return nil, fmt.Errorf("completing server handshake: %w", err)
	}

	log.Info().
		Str("component", "lserver").
		Str("server_name", client.serverName).
		Str("server_version", client.serverVersion).
		Msg("checking server connected")
	return client, nil
}

// checkServerVersion validates the server's reported version against
// MinServerVersion. Servers that report no parsable version are
// accepted with a warning; refusing them would break development
// builds that report versions like "develop".
func checkServerVersion(ctx context.Context, version string) error {
	log := logging.FromContext(ctx)

	if version == "" {
		log.Warn().
			Str("component", "lserver").
			Msg("server did not report a version, skipping compatibility check")
		return nil
	}

	parsed, err := semver.NewVersion(version)
	if err != nil {
		log.Warn().
			Str("component", "lserver").
			Str("server_version", version).
			Msg("unparsable server version, skipping compatibility check")
		return nil //nolint:nilerr // Unparsable versions are tolerated.
	}

	minimum := semver.MustParse(MinServerVersion)
	if parsed.LessThan(minimum) {
		return fmt.Errorf("%w: server %s, minimum %s",
			ErrIncompatibleServer, version, MinServerVersion)
	}
	return nil
}

// ServerVersion returns the version reported during initialize.
func (c *Client) ServerVersion() string {
	return c.serverVersion
}

// Initialized reports whether the connection is usable.
func (c *Client) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// ExecuteCommand runs a named server command with the given document
// arguments and returns the server's result.
func (c *Client) ExecuteCommand(ctx context.Context, command string, args DocumentArguments) (*CommandResult, error) {
	if !c.Initialized() {
		return nil, ErrNotInitialized
	}

	params := map[string]any{
		"command":   command,
		"arguments": []DocumentArguments{args},
	}

	var result CommandResult
	if err := c.transport.Call(ctx, "workspace/executeCommand", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Close shuts the transport and terminates the server process.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "lserver").
		Str("operation", "close_server").
		Msg("closing checking server connection")

	c.transport.Close()
	if c.closeConn != nil {
		if err := c.closeConn(); err != nil {
			log.Warn().
				Str("component", "lserver").
				Err(err).
				Msg("error terminating checking server")
			return err
		}
	}
	return nil
}

// handleDiagnostics decodes a publishDiagnostics notification and
// forwards it to the registered handler. Runs on the read goroutine.
func (c *Client) handleDiagnostics(_ string, raw json.RawMessage) {
	c.mu.Lock()
	handler := c.onDiagnostics
	c.mu.Unlock()
	if handler == nil {
		return
	}

	var params publishDiagnosticsParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return
	}
	handler(params.URI, params.Diagnostics)
}

// handleShowMessage forwards server-issued messages to the log. Runs
// on the read goroutine.
func (c *Client) handleShowMessage(ctx context.Context, raw json.RawMessage) {
	var params showMessageParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return
	}

	log := logging.FromContext(ctx)
	event := log.Info()
	switch params.Type {
	case 1:
		event = log.Error()
	case 2:
		event = log.Warn()
	}
	event.
		Str("component", "lserver").
		Msg("server message: " + params.Message)
}
