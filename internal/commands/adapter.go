package commands

import (
	"context"
	"encoding/json"

	"github.com/RivinHD/ltexctl/internal/checker"
	"github.com/RivinHD/ltexctl/internal/lserver"
)

// serverService adapts the checking-server client to the checker's
// Service boundary and feeds published diagnostics into the store.
type serverService struct {
	client      *lserver.Client
	diagnostics *checker.DiagnosticsStore
}

// NewServerService wraps a server client as a checker.Service. The
// client may be nil, in which case the service reports uninitialized.
func NewServerService(client *lserver.Client, diagnostics *checker.DiagnosticsStore) checker.Service {
	return &serverService{client: client, diagnostics: diagnostics}
}

// DiagnosticsHandler returns the handler to register on the client so
// published diagnostics land in the store.
func DiagnosticsHandler(diagnostics *checker.DiagnosticsStore) lserver.DiagnosticsHandler {
	return func(uri string, diags []json.RawMessage) {
		diagnostics.Publish(uri, diags)
	}
}

func (s *serverService) Initialized() bool {
	return s.client != nil && s.client.Initialized()
}

func (s *serverService) CheckDocument(ctx context.Context, req checker.CheckRequest) (checker.CheckResult, error) {
	if s.client == nil {
		return checker.CheckResult{}, lserver.ErrNotInitialized
	}
	result, err := s.client.ExecuteCommand(ctx, lserver.CommandCheckDocument, lserver.DocumentArguments{
		URI:        req.URI,
		LanguageID: req.LanguageID,
		Text:       req.Text,
	})
	if err != nil {
		return checker.CheckResult{}, err
	}
	return checker.CheckResult{
		Success:      result.Success,
		ErrorMessage: result.ErrorMessage,
	}, nil
}

func (s *serverService) ClearDiagnostics(ctx context.Context, uri string) error {
	s.diagnostics.Clear(uri)
	if s.client == nil {
		return lserver.ErrNotInitialized
	}
	_, err := s.client.ExecuteCommand(ctx, lserver.CommandClearDiagnostics, lserver.DocumentArguments{URI: uri})
	return err
}
