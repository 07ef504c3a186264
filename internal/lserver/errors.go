package lserver

import "errors"

// Common checking-server client errors.
var (
	// ErrNotInitialized indicates no server connection exists yet.
	// Commands surface this immediately as failure; it is never
	// retried automatically.
	ErrNotInitialized = errors.New("checking server connection not initialized")

	// ErrShutdown indicates the transport was closed while a request
	// was pending or about to be sent.
	ErrShutdown = errors.New("checking server connection closed")

	// ErrIncompatibleServer indicates the server's reported version is
	// below the minimum this client supports.
	ErrIncompatibleServer = errors.New("checking server version incompatible")
)
