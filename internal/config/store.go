// Package config implements the layered settings store consulted by
// the command layer. Settings live in per-scope YAML files (folder,
// workspace, global); reads walk the scopes most-specific-first and
// return the first value found, writes target exactly one scope and
// may be rejected when that scope has no writable target.
//
// The store never caches file contents: configuration may be edited
// between command invocations, so every Get and Update re-reads the
// backing file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the name of the per-scope settings file.
const SettingsFileName = "settings.yaml"

// ScopeDirName is the hidden directory holding folder- and
// workspace-scoped configuration inside a workspace root.
const ScopeDirName = ".ltex"

// ErrWriteRejected indicates a scope-level write could not be applied.
// Callers are expected to retry at the next less-specific scope.
var ErrWriteRejected = errors.New("configuration write rejected")

// Store reads and writes settings across the scope hierarchy.
//
// Roots are the workspace root folders in workspace order; GlobalDir
// is the directory holding the user's global settings file.
type Store struct {
	Roots     []string
	GlobalDir string
}

// NewStore creates a store for the given workspace roots, placing
// global configuration under the user config directory.
func NewStore(roots []string) (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving user config dir: %w", err)
	}
	return &Store{
		Roots:     roots,
		GlobalDir: filepath.Join(base, "ltexctl"),
	}, nil
}

// ScopeDir returns the directory holding the given scope's
// configuration for the given document, and whether the scope has a
// target at all. Folder scope requires the document to live under a
// workspace root; workspace scope requires at least one open root.
func (s *Store) ScopeDir(scope Scope, docPath string) (string, bool) {
	switch scope {
	case ScopeFolder:
		root, ok := s.folderOf(docPath)
		if !ok {
			return "", false
		}
		return filepath.Join(root, ScopeDirName), true
	case ScopeWorkspace:
		if len(s.Roots) == 0 {
			return "", false
		}
		return filepath.Join(s.Roots[0], ScopeDirName), true
	case ScopeGlobal:
		return s.GlobalDir, true
	default:
		return "", false
	}
}

// Get returns the value stored under the dotted key, consulting scopes
// most-specific-first relative to the document. The second return is
// false when no scope defines the key.
func (s *Store) Get(key, docPath string) (any, bool) {
	for _, scope := range AllScopes() {
		dir, ok := s.ScopeDir(scope, docPath)
		if !ok {
			continue
		}
		data, err := readSettingsFile(filepath.Join(dir, SettingsFileName))
		if err != nil {
			continue
		}
		if value, found := lookup(data, key); found {
			return value, true
		}
	}
	return nil, false
}

// GetDefault returns the value under key, or def when absent.
func (s *Store) GetDefault(key, docPath string, def any) any {
	if value, ok := s.Get(key, docPath); ok {
		return value
	}
	return def
}

// Update writes value under the dotted key at the given scope. It
// returns an error wrapping ErrWriteRejected when the scope has no
// target for the document or the settings file cannot be written.
func (s *Store) Update(key string, value any, scope Scope, docPath string) error {
	dir, ok := s.ScopeDir(scope, docPath)
	if !ok {
		return fmt.Errorf("%w: no %s target for %s", ErrWriteRejected, scope, docPath)
	}

	path := filepath.Join(dir, SettingsFileName)
	data, err := readSettingsFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrWriteRejected, path, err)
	}
	if data == nil {
		data = map[string]any{}
	}

	assign(data, key, value)

	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %w", ErrWriteRejected, path, err)
	}
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrWriteRejected, dir, mkErr)
	}
	if writeErr := os.WriteFile(path, out, 0o600); writeErr != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrWriteRejected, path, writeErr)
	}
	return nil
}

// folderOf returns the workspace root containing the given document.
func (s *Store) folderOf(docPath string) (string, bool) {
	if docPath == "" {
		return "", false
	}
	abs, err := filepath.Abs(docPath)
	if err != nil {
		return "", false
	}
	for _, root := range s.Roots {
		rootAbs, rootErr := filepath.Abs(root)
		if rootErr != nil {
			continue
		}
		rel, relErr := filepath.Rel(rootAbs, abs)
		if relErr != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return rootAbs, true
		}
	}
	return "", false
}

// readSettingsFile parses a settings file into a nested map. A missing
// file yields an empty map.
func readSettingsFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// lookup traverses nested maps along the dotted key.
func lookup(data map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	current := any(data)
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// assign sets value under the dotted key, creating intermediate maps.
// A non-map value in the middle of the path is replaced.
func assign(data map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// LanguageLists converts a decoded YAML value into a per-language
// string-list mapping. Non-map values and non-string entries are
// dropped. Used for the list-valued settings (dictionary, disabled
// rules, hidden false positives).
func LanguageLists(value any) map[string][]string {
	result := map[string][]string{}
	m, ok := value.(map[string]any)
	if !ok {
		return result
	}
	for language, entry := range m {
		list, listOK := entry.([]any)
		if !listOK {
			continue
		}
		values := make([]string, 0, len(list))
		for _, item := range list {
			if str, strOK := item.(string); strOK {
				values = append(values, str)
			}
		}
		result[language] = values
	}
	return result
}
