// Package checker implements the single-document check primitive and
// the batch orchestration that drives it across every eligible
// document in the workspace.
package checker

import (
	"context"

	"github.com/RivinHD/ltexctl/internal/logging"
)

// CheckRequest identifies a document to check. LanguageID and Text are
// optional; when absent the checking server reads the document itself.
// A request is immutable once constructed.
type CheckRequest struct {
	URI        string
	LanguageID string
	Text       string
}

// CheckResult is the outcome of a single document check. Failed checks
// are never retried automatically.
type CheckResult struct {
	Success      bool
	ErrorMessage string
}

// Service is the boundary to the external checking service. The
// lserver client satisfies it through an adapter in the commands
// package; tests substitute fakes.
type Service interface {
	// Initialized reports whether a server connection exists.
	Initialized() bool
	// CheckDocument asks the server to check one document.
	CheckDocument(ctx context.Context, req CheckRequest) (CheckResult, error)
	// ClearDiagnostics removes the server's diagnostics for a document.
	ClearDiagnostics(ctx context.Context, uri string) error
}

// UserNotifier displays human-readable messages to the user. Failures
// never propagate past the command boundary; they are reported here.
type UserNotifier interface {
	NotifyError(ctx context.Context, msg string)
	NotifyInfo(ctx context.Context, msg string)
}

// LogNotifier is a UserNotifier that writes to the structured log.
// Used when no interactive surface is attached.
type LogNotifier struct{}

// NotifyError logs msg at error level.
func (LogNotifier) NotifyError(ctx context.Context, msg string) {
	log := logging.FromContext(ctx)
	log.Error().Str("component", "checker").Msg(msg)
}

// NotifyInfo logs msg at info level.
func (LogNotifier) NotifyInfo(ctx context.Context, msg string) {
	log := logging.FromContext(ctx)
	log.Info().Str("component", "checker").Msg(msg)
}

// Checker performs single-document checks against the service.
type Checker struct {
	Service Service
}

// Check runs the single-document check. An absent or uninitialized
// server connection surfaces immediately as a failed result; it is
// never retried here.
func (c *Checker) Check(ctx context.Context, req CheckRequest) CheckResult {
	log := logging.FromContext(ctx)

	if c.Service == nil || !c.Service.Initialized() {
		log.Error().
			Str("component", "checker").
			Str("uri", req.URI).
			Msg("check requested before the checking server was initialized")
		return CheckResult{
			Success:      false,
			ErrorMessage: "checking server connection not initialized",
		}
	}

	result, err := c.Service.CheckDocument(ctx, req)
	if err != nil {
		log.Error().
			Str("component", "checker").
			Str("uri", req.URI).
			Err(err).
			Msg("document check failed")
		return CheckResult{Success: false, ErrorMessage: err.Error()}
	}
	return result
}
