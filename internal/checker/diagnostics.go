package checker

import (
	"encoding/json"
	"sync"
)

// DiagnosticsStore records the diagnostics the checking server has
// published per document URI, so the clear-diagnostics commands have
// state to clear. Publishes arrive on the transport's read goroutine
// while commands read from the main flow, hence the lock.
type DiagnosticsStore struct {
	mu    sync.Mutex
	byURI map[string][]json.RawMessage
}

// NewDiagnosticsStore creates an empty store.
func NewDiagnosticsStore() *DiagnosticsStore {
	return &DiagnosticsStore{byURI: make(map[string][]json.RawMessage)}
}

// Publish replaces the recorded diagnostics for a document. An empty
// list removes the entry, mirroring the server's own clearing
// behavior.
func (s *DiagnosticsStore) Publish(uri string, diagnostics []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(diagnostics) == 0 {
		delete(s.byURI, uri)
		return
	}
	s.byURI[uri] = diagnostics
}

// Clear removes the recorded diagnostics for one document.
func (s *DiagnosticsStore) Clear(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byURI, uri)
}

// ClearAll removes all recorded diagnostics and returns the URIs that
// had any, so callers can forward the clear to the server per
// document.
func (s *DiagnosticsStore) ClearAll() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	uris := make([]string, 0, len(s.byURI))
	for uri := range s.byURI {
		uris = append(uris, uri)
	}
	s.byURI = make(map[string][]json.RawMessage)
	return uris
}

// Count returns the number of recorded diagnostics for a document.
func (s *DiagnosticsStore) Count(uri string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byURI[uri])
}
