package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	scopeDir := filepath.Join(dir, ScopeDirName)
	require.NoError(t, os.MkdirAll(scopeDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scopeDir, SettingsFileName), []byte(content), 0o600))
}

func writeGlobalSettings(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0o600))
}

func TestStore_GetScopePrecedence(t *testing.T) {
	root := t.TempDir()
	global := t.TempDir()
	store := &Store{Roots: []string{root}, GlobalDir: global}
	doc := filepath.Join(root, "doc.tex")

	writeGlobalSettings(t, global, "language: en-US\nserverPath: /usr/bin/server\n")
	writeSettings(t, root, "language: de-DE\n")

	value, ok := store.Get("language", doc)
	require.True(t, ok)
	assert.Equal(t, "de-DE", value, "folder scope shadows global")

	value, ok = store.Get("serverPath", doc)
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/server", value, "unshadowed keys fall through to global")
}

func TestStore_GetFreshOnEveryCall(t *testing.T) {
	root := t.TempDir()
	store := &Store{Roots: []string{root}, GlobalDir: t.TempDir()}
	doc := filepath.Join(root, "doc.tex")

	writeSettings(t, root, "language: en-US\n")
	_, ok := store.Get("language", doc)
	require.True(t, ok)

	writeSettings(t, root, "language: de-DE\n")
	value, ok := store.Get("language", doc)
	require.True(t, ok)
	assert.Equal(t, "de-DE", value)
}

func TestStore_GetDottedKey(t *testing.T) {
	root := t.TempDir()
	store := &Store{Roots: []string{root}, GlobalDir: t.TempDir()}
	doc := filepath.Join(root, "doc.tex")

	writeSettings(t, root, "configurationTarget:\n  dictionary: workspace\n")

	value, ok := store.Get("configurationTarget.dictionary", doc)
	require.True(t, ok)
	assert.Equal(t, "workspace", value)

	_, ok = store.Get("configurationTarget.missing", doc)
	assert.False(t, ok)
}

func TestStore_GetDefault(t *testing.T) {
	store := &Store{GlobalDir: t.TempDir()}

	assert.Equal(t, "fallback", store.GetDefault("missing", "", "fallback"))
}

func TestStore_UpdateRoundTrip(t *testing.T) {
	root := t.TempDir()
	store := &Store{Roots: []string{root}, GlobalDir: t.TempDir()}
	doc := filepath.Join(root, "doc.tex")

	require.NoError(t, store.Update("dictionary", map[string][]string{"en-US": {"word"}}, ScopeFolder, doc))

	value, ok := store.Get("dictionary", doc)
	require.True(t, ok)
	lists := LanguageLists(value)
	assert.Equal(t, []string{"word"}, lists["en-US"])
}

func TestStore_UpdatePreservesOtherKeys(t *testing.T) {
	root := t.TempDir()
	store := &Store{Roots: []string{root}, GlobalDir: t.TempDir()}
	doc := filepath.Join(root, "doc.tex")

	writeSettings(t, root, "language: en-US\n")
	require.NoError(t, store.Update("enabled", false, ScopeFolder, doc))

	value, ok := store.Get("language", doc)
	require.True(t, ok)
	assert.Equal(t, "en-US", value)
}

func TestStore_UpdateRejections(t *testing.T) {
	t.Run("FolderScopeWithoutContainingRoot", func(t *testing.T) {
		store := &Store{Roots: []string{t.TempDir()}, GlobalDir: t.TempDir()}

		err := store.Update("enabled", false, ScopeFolder, filepath.Join(t.TempDir(), "doc.tex"))
		assert.ErrorIs(t, err, ErrWriteRejected)
	})

	t.Run("WorkspaceScopeWithoutRoots", func(t *testing.T) {
		store := &Store{GlobalDir: t.TempDir()}

		err := store.Update("enabled", false, ScopeWorkspace, "")
		assert.ErrorIs(t, err, ErrWriteRejected)
	})
}

func TestStore_ScopeDir(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	global := t.TempDir()
	store := &Store{Roots: []string{rootA, rootB}, GlobalDir: global}

	dir, ok := store.ScopeDir(ScopeFolder, filepath.Join(rootB, "sub", "doc.tex"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(rootB, ScopeDirName), dir)

	dir, ok = store.ScopeDir(ScopeWorkspace, "")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(rootA, ScopeDirName), dir, "workspace scope uses the first root")

	dir, ok = store.ScopeDir(ScopeGlobal, "")
	require.True(t, ok)
	assert.Equal(t, global, dir)

	_, ok = store.ScopeDir(ScopeFolder, "/outside/doc.tex")
	assert.False(t, ok)
}

func TestLanguageLists(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  map[string][]string
	}{
		{name: "Nil", input: nil, want: map[string][]string{}},
		{name: "NotAMap", input: "word", want: map[string][]string{}},
		{
			name: "DropsNonListAndNonStringEntries",
			input: map[string]any{
				"en-US": []any{"foo", 7, "bar"},
				"de-DE": "not a list",
			},
			want: map[string][]string{"en-US": {"foo", "bar"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LanguageLists(tt.input))
		})
	}
}
