// Package extfile implements the external flat-file storage mode for
// list-valued settings. Instead of living inside the structured
// settings file, values are kept one per line in a plain text file
// next to the scope's configuration (for example
// .ltex/ltex.dictionary.en-US.txt), which keeps them easy to diff and
// share.
package extfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RivinHD/ltexctl/internal/config"
)

// ScopeDirFunc resolves the configuration directory for a scope
// relative to a document. config.Store.ScopeDir satisfies it.
type ScopeDirFunc func(scope config.Scope, docPath string) (string, bool)

// Store resolves and appends to external setting files.
type Store struct {
	// ScopeDir resolves per-scope directories; required.
	ScopeDir ScopeDirFunc
}

// FileName returns the external file name for a setting and language,
// e.g. "ltex.dictionary.en-US.txt".
func FileName(settingName, language string) string {
	return fmt.Sprintf("ltex.%s.%s.txt", settingName, language)
}

// FirstExistingPath returns the path of the external file for the
// given setting, scope and language if one already exists, or "" when
// it does not. Files are never created by this method.
func (s *Store) FirstExistingPath(docPath, settingName string, scope config.Scope, language string) string {
	dir, ok := s.ScopeDir(scope, docPath)
	if !ok {
		return ""
	}
	path := filepath.Join(dir, FileName(settingName, language))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}

// Append appends the given values to the file, one per line, creating
// the file and its parent directory when missing.
func (s *Store) Append(path string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	for _, value := range values {
		sb.WriteString(value)
		sb.WriteByte('\n')
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return nil
}

// Read returns the non-empty lines of an external file.
func (s *Store) Read(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var values []string
	for line := range strings.SplitSeq(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			values = append(values, line)
		}
	}
	return values, nil
}
