package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RivinHD/ltexctl/internal/config"
)

// fakeConfigStore records Update calls and can reject writes per scope.
type fakeConfigStore struct {
	values       map[string]any
	rejectScopes map[config.Scope]bool
	updates      []recordedUpdate
}

type recordedUpdate struct {
	key   string
	value any
	scope config.Scope
}

func (f *fakeConfigStore) Get(key, _ string) (any, bool) {
	value, ok := f.values[key]
	return value, ok
}

func (f *fakeConfigStore) Update(key string, value any, scope config.Scope, _ string) error {
	if f.rejectScopes[scope] {
		return fmt.Errorf("%w: scope %s", config.ErrWriteRejected, scope)
	}
	f.updates = append(f.updates, recordedUpdate{key: key, value: value, scope: scope})
	return nil
}

// fakeFileStore serves existing external-file paths and records appends.
type fakeFileStore struct {
	// existing maps "<scope>/<language>" to a path.
	existing  map[string]string
	appendErr error
	appends   map[string][]string
}

func (f *fakeFileStore) FirstExistingPath(_ string, _ string, scope config.Scope, language string) string {
	return f.existing[fmt.Sprintf("%s/%s", scope, language)]
}

func (f *fakeFileStore) Append(path string, values []string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if f.appends == nil {
		f.appends = map[string][]string{}
	}
	f.appends[path] = append(f.appends[path], values...)
	return nil
}

func TestMerger_InlineMergeNormalizes(t *testing.T) {
	cfg := &fakeConfigStore{values: map[string]any{
		"configurationTarget.dictionary": "workspace",
		"dictionary":                     map[string]any{"en-US": []any{"foo"}},
	}}
	merger := &Merger{Config: cfg, Files: &fakeFileStore{}}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary,
		map[string][]string{"en-US": {"foo", "bar"}})

	require.Len(t, cfg.updates, 1)
	update := cfg.updates[0]
	assert.Equal(t, SettingDictionary, update.key)
	assert.Equal(t, config.ScopeWorkspace, update.scope)
	merged, ok := update.value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"bar", "foo"}, merged["en-US"])
}

func TestMerger_InlinePreservesUntouchedLanguages(t *testing.T) {
	cfg := &fakeConfigStore{values: map[string]any{
		"configurationTarget.dictionary": "workspace",
		"dictionary": map[string]any{
			"en-US": []any{"foo"},
			"de-DE": []any{"wort"},
			"fr":    "not a list",
		},
	}}
	merger := &Merger{Config: cfg, Files: &fakeFileStore{}}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary,
		map[string][]string{"en-US": {"bar"}})

	require.Len(t, cfg.updates, 1)
	merged, ok := cfg.updates[0].value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"bar", "foo"}, merged["en-US"])
	assert.Equal(t, []any{"wort"}, merged["de-DE"], "untouched languages keep their stored value")
	assert.Equal(t, "not a list", merged["fr"], "malformed values survive the rewrite untouched")
}

func TestMerger_InlineFallbackThroughChain(t *testing.T) {
	cfg := &fakeConfigStore{
		values:       map[string]any{"configurationTarget.dictionary": "workspaceFolder"},
		rejectScopes: map[config.Scope]bool{config.ScopeFolder: true, config.ScopeWorkspace: true},
	}
	merger := &Merger{Config: cfg, Files: &fakeFileStore{}}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary,
		map[string][]string{"en-US": {"word"}})

	require.Len(t, cfg.updates, 1)
	assert.Equal(t, config.ScopeGlobal, cfg.updates[0].scope)
}

func TestMerger_AllScopesReject(t *testing.T) {
	cfg := &fakeConfigStore{
		values: map[string]any{"configurationTarget.dictionary": "user"},
		rejectScopes: map[config.Scope]bool{
			config.ScopeFolder: true, config.ScopeWorkspace: true, config.ScopeGlobal: true,
		},
	}
	merger := &Merger{Config: cfg, Files: &fakeFileStore{}}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary,
		map[string][]string{"en-US": {"word"}})

	assert.Empty(t, cfg.updates)
}

func TestMerger_InvalidScopeWritesNothing(t *testing.T) {
	cfg := &fakeConfigStore{values: map[string]any{
		"configurationTarget.dictionary": "sideways",
	}}
	files := &fakeFileStore{}
	merger := &Merger{Config: cfg, Files: files}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary,
		map[string][]string{"en-US": {"word"}})

	assert.Empty(t, cfg.updates)
	assert.Empty(t, files.appends)
}

func TestMerger_AppendsToFirstExistingExternalFile(t *testing.T) {
	cfg := &fakeConfigStore{values: map[string]any{}}
	files := &fakeFileStore{existing: map[string]string{
		"workspace/en-US": "/ws/.ltex/ltex.dictionary.en-US.txt",
	}}
	merger := &Merger{Config: cfg, Files: files}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary,
		map[string][]string{"en-US": {"zeta", "alpha", "zeta"}})

	require.Len(t, files.appends, 1)
	assert.Equal(t, []string{"alpha", "zeta"},
		files.appends["/ws/.ltex/ltex.dictionary.en-US.txt"])
	assert.Empty(t, cfg.updates, "appended entries must not also be stored inline")
}

func TestMerger_ExternalFallsBackInlinePerLanguage(t *testing.T) {
	cfg := &fakeConfigStore{values: map[string]any{
		"configurationTarget.dictionary": "workspaceExternalFile",
	}}
	files := &fakeFileStore{existing: map[string]string{
		"global/de-DE": "/home/.config/ltexctl/ltex.dictionary.de-DE.txt",
	}}
	merger := &Merger{Config: cfg, Files: files}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary, map[string][]string{
		"en-US": {"inlineword"},
		"de-DE": {"dateiwort"},
	})

	// de-DE had an existing file in the chain, en-US did not.
	require.Len(t, files.appends, 1)
	assert.Equal(t, []string{"dateiwort"},
		files.appends["/home/.config/ltexctl/ltex.dictionary.de-DE.txt"])

	require.Len(t, cfg.updates, 1)
	update := cfg.updates[0]
	assert.Equal(t, config.ScopeWorkspace, update.scope)
	merged, ok := update.value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"inlineword"}, merged["en-US"])
	assert.NotContains(t, merged, "de-DE")
}

func TestMerger_AppendErrorFallsBackInline(t *testing.T) {
	cfg := &fakeConfigStore{values: map[string]any{}}
	files := &fakeFileStore{
		existing:  map[string]string{"folder/en-US": "/ws/proj/.ltex/ltex.dictionary.en-US.txt"},
		appendErr: errors.New("disk full"),
	}
	merger := &Merger{Config: cfg, Files: files}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary,
		map[string][]string{"en-US": {"word"}})

	require.Len(t, cfg.updates, 1)
	merged, ok := cfg.updates[0].value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"word"}, merged["en-US"])
}

func TestMerger_EmptyEntriesIsNoOp(t *testing.T) {
	cfg := &fakeConfigStore{values: map[string]any{
		"configurationTarget.dictionary": "workspace",
	}}
	files := &fakeFileStore{}
	merger := &Merger{Config: cfg, Files: files}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary, map[string][]string{})

	assert.Empty(t, cfg.updates)
	assert.Empty(t, files.appends)
}

func TestMerger_WaitDrainsRecheck(t *testing.T) {
	cfg := &fakeConfigStore{values: map[string]any{
		"configurationTarget.dictionary": "workspace",
	}}
	var rechecked atomic.Bool
	merger := &Merger{
		Config: cfg,
		Files:  &fakeFileStore{},
		Recheck: func(context.Context) {
			time.Sleep(10 * time.Millisecond)
			rechecked.Store(true)
		},
	}

	merger.AddEntries(context.Background(), "/doc.tex", SettingDictionary,
		map[string][]string{"en-US": {"word"}})
	merger.Wait()

	assert.True(t, rechecked.Load(), "Wait must not return before the re-check ran")
}

func TestMerger_RecheckFiredAfterAdd(t *testing.T) {
	cfg := &fakeConfigStore{values: map[string]any{
		"configurationTarget.dictionary": "workspace",
	}}

	var (
		mu        sync.Mutex
		rechecked bool
	)
	done := make(chan struct{})
	merger := &Merger{
		Config: cfg,
		Files:  &fakeFileStore{},
		Recheck: func(ctx context.Context) {
			mu.Lock()
			rechecked = true
			mu.Unlock()
			assert.NoError(t, ctx.Err(), "recheck context must not inherit cancellation")
			close(done)
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	merger.AddEntries(ctx, "/doc.tex", SettingDictionary,
		map[string][]string{"en-US": {"word"}})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("recheck was not fired")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, rechecked)
}
