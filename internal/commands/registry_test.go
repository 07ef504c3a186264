package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ExecuteDispatches(t *testing.T) {
	fx := newCommandsFixture("")
	registry := NewRegistry(fx.commands)

	ok := registry.Execute(context.Background(), NameCheckCurrentDocument,
		json.RawMessage(`{"uri":"file:///doc.tex"}`))
	require.True(t, ok)
	assert.Equal(t, []string{"file:///doc.tex"}, fx.service.checked)
}

func TestRegistry_ExecuteUnknownCommand(t *testing.T) {
	fx := newCommandsFixture("")
	registry := NewRegistry(fx.commands)

	assert.False(t, registry.Execute(context.Background(), "no-such-command", nil))
}

func TestRegistry_ExecuteMalformedParams(t *testing.T) {
	fx := newCommandsFixture("")
	registry := NewRegistry(fx.commands)

	ok := registry.Execute(context.Background(), NameAddToDictionary,
		json.RawMessage(`{"words": "not a map"}`))
	assert.False(t, ok)
	fx.cfg.mu.Lock()
	defer fx.cfg.mu.Unlock()
	assert.Empty(t, fx.cfg.updates)
}

func TestRegistry_ExecuteEmptyParams(t *testing.T) {
	fx := newCommandsFixture("file:///active.tex")
	registry := NewRegistry(fx.commands)

	ok := registry.Execute(context.Background(), NameClearDiagnosticsCurrent, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"file:///active.tex"}, fx.service.cleared)
}

func TestRegistry_Names(t *testing.T) {
	registry := NewRegistry(newCommandsFixture("").commands)

	assert.ElementsMatch(t, []string{
		NameCheckCurrentDocument,
		NameCheckAllDocuments,
		NameClearDiagnosticsCurrent,
		NameClearDiagnosticsAll,
		NameAddToDictionary,
		NameDisableRules,
		NameHideFalsePositives,
	}, registry.Names())
}
