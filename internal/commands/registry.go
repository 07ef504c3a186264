package commands

import (
	"context"
	"encoding/json"

	"github.com/RivinHD/ltexctl/internal/logging"
)

// Command names as exposed to external dispatchers.
const (
	NameCheckCurrentDocument    = "check-current-document"
	NameCheckAllDocuments       = "check-all-documents"
	NameClearDiagnosticsCurrent = "clear-diagnostics-current"
	NameClearDiagnosticsAll     = "clear-diagnostics-all"
	NameAddToDictionary         = "add-to-dictionary"
	NameDisableRules            = "disable-rules"
	NameHideFalsePositives      = "hide-false-positives"
)

// Handler executes one command with raw JSON parameters and returns
// whether it succeeded.
type Handler func(ctx context.Context, params json.RawMessage) bool

// Registry maps command names to handlers for external dispatch.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds the registry over a command set.
func NewRegistry(c *Commands) *Registry {
	return &Registry{handlers: map[string]Handler{
		NameCheckCurrentDocument: decode(c.CheckCurrentDocument),
		NameCheckAllDocuments: func(ctx context.Context, _ json.RawMessage) bool {
			return c.CheckAllDocuments(ctx)
		},
		NameClearDiagnosticsCurrent: decode(c.ClearDiagnosticsCurrent),
		NameClearDiagnosticsAll: func(ctx context.Context, _ json.RawMessage) bool {
			return c.ClearDiagnosticsAll(ctx)
		},
		NameAddToDictionary:    decode(c.AddToDictionary),
		NameDisableRules:       decode(c.DisableRules),
		NameHideFalsePositives: decode(c.HideFalsePositives),
	}}
}

// Names returns the registered command names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Execute dispatches a command by name. Unknown commands and malformed
// parameters are logged and reported as failure.
func (r *Registry) Execute(ctx context.Context, name string, params json.RawMessage) bool {
	handler, ok := r.handlers[name]
	if !ok {
		log := logging.FromContext(ctx)
		log.Error().
			Str("component", "commands").
			Str("command", name).
			Msg("unknown command")
		return false
	}
	return handler(ctx, params)
}

// decode adapts a typed command method into a raw-JSON handler.
func decode[P any](fn func(context.Context, P) bool) Handler {
	return func(ctx context.Context, raw json.RawMessage) bool {
		var params P
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &params); err != nil {
				log := logging.FromContext(ctx)
				log.Error().
					Str("component", "commands").
					Err(err).
					Msg("malformed command parameters")
				return false
			}
		}
		return fn(ctx, params)
	}
}
