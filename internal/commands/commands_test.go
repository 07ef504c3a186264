package commands

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RivinHD/ltexctl/internal/checker"
	"github.com/RivinHD/ltexctl/internal/config"
	"github.com/RivinHD/ltexctl/internal/settings"
	"github.com/RivinHD/ltexctl/internal/workspace"
)

// stubService answers single-document operations from canned results.
type stubService struct {
	mu          sync.Mutex
	initialized bool
	result      checker.CheckResult
	checked     []string
	cleared     []string
}

func (s *stubService) Initialized() bool { return s.initialized }

func (s *stubService) CheckDocument(_ context.Context, req checker.CheckRequest) (checker.CheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = append(s.checked, req.URI)
	return s.result, nil
}

func (s *stubService) ClearDiagnostics(_ context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, uri)
	return nil
}

type stubNotifier struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

func (n *stubNotifier) NotifyError(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *stubNotifier) NotifyInfo(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

// stubConfigStore accepts every write at every scope.
type stubConfigStore struct {
	mu      sync.Mutex
	values  map[string]any
	updates []string
}

func (s *stubConfigStore) Get(key, _ string) (any, bool) {
	value, ok := s.values[key]
	return value, ok
}

func (s *stubConfigStore) Update(key string, value any, _ config.Scope, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, key)
	if s.values == nil {
		s.values = map[string]any{}
	}
	s.values[key] = value
	return nil
}

type stubFileStore struct{}

func (stubFileStore) FirstExistingPath(string, string, config.Scope, string) string { return "" }
func (stubFileStore) Append(string, []string) error                                 { return nil }

type commandsFixture struct {
	commands *Commands
	service  *stubService
	notifier *stubNotifier
	cfg      *stubConfigStore
}

func newCommandsFixture(activeDocument string) *commandsFixture {
	service := &stubService{initialized: true, result: checker.CheckResult{Success: true}}
	notifier := &stubNotifier{}
	cfg := &stubConfigStore{values: map[string]any{
		"configurationTarget.dictionary": "workspace",
	}}
	ws := &workspace.Workspace{ActiveDocument: activeDocument}
	return &commandsFixture{
		commands: &Commands{
			Checker:     &checker.Checker{Service: service},
			Merger:      &settings.Merger{Config: cfg, Files: stubFileStore{}},
			Diagnostics: checker.NewDiagnosticsStore(),
			Workspace:   ws,
			Notifier:    notifier,
		},
		service:  service,
		notifier: notifier,
		cfg:      cfg,
	}
}

func TestCheckCurrentDocument(t *testing.T) {
	t.Run("ExplicitURI", func(t *testing.T) {
		fx := newCommandsFixture("")

		ok := fx.commands.CheckCurrentDocument(context.Background(), CheckDocumentParams{
			URI: "file:///doc.tex",
		})
		require.True(t, ok)
		assert.Equal(t, []string{"file:///doc.tex"}, fx.service.checked)
	})

	t.Run("FallsBackToActiveDocument", func(t *testing.T) {
		fx := newCommandsFixture("file:///active.md")

		ok := fx.commands.CheckCurrentDocument(context.Background(), CheckDocumentParams{})
		require.True(t, ok)
		assert.Equal(t, []string{"file:///active.md"}, fx.service.checked)
	})

	t.Run("NoDocumentAnywhere", func(t *testing.T) {
		fx := newCommandsFixture("")

		ok := fx.commands.CheckCurrentDocument(context.Background(), CheckDocumentParams{})
		assert.False(t, ok)
		assert.Empty(t, fx.service.checked)
		require.Len(t, fx.notifier.errors, 1)
	})

	t.Run("FailedCheckNotifiesUser", func(t *testing.T) {
		fx := newCommandsFixture("")
		fx.service.result = checker.CheckResult{Success: false, ErrorMessage: "server busy"}

		ok := fx.commands.CheckCurrentDocument(context.Background(), CheckDocumentParams{
			URI: "file:///doc.tex",
		})
		assert.False(t, ok)
		require.Len(t, fx.notifier.errors, 1)
		assert.Contains(t, fx.notifier.errors[0], "server busy")
	})
}

func TestClearDiagnosticsCurrent(t *testing.T) {
	fx := newCommandsFixture("file:///active.tex")

	ok := fx.commands.ClearDiagnosticsCurrent(context.Background(), ClearDiagnosticsParams{})
	require.True(t, ok)
	assert.Equal(t, []string{"file:///active.tex"}, fx.service.cleared)
}

func TestClearDiagnosticsAll(t *testing.T) {
	fx := newCommandsFixture("")
	fx.commands.Diagnostics.Publish("file:///a.tex", []json.RawMessage{json.RawMessage(`{}`)})
	fx.commands.Diagnostics.Publish("file:///b.md", []json.RawMessage{json.RawMessage(`{}`)})

	ok := fx.commands.ClearDiagnosticsAll(context.Background())
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"file:///a.tex", "file:///b.md"}, fx.service.cleared)
	assert.Zero(t, fx.commands.Diagnostics.Count("file:///a.tex"))
	assert.Zero(t, fx.commands.Diagnostics.Count("file:///b.md"))
}

func TestAddToDictionary(t *testing.T) {
	fx := newCommandsFixture("file:///active.tex")

	ok := fx.commands.AddToDictionary(context.Background(), AddToDictionaryParams{
		Words: map[string][]string{"en-US": {"ltexctl"}},
	})
	require.True(t, ok)

	fx.cfg.mu.Lock()
	defer fx.cfg.mu.Unlock()
	require.Equal(t, []string{settings.SettingDictionary}, fx.cfg.updates)
	stored, ok := fx.cfg.values[settings.SettingDictionary].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"ltexctl"}, stored["en-US"])
}
