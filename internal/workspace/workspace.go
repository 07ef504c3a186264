// Package workspace models the set of open root folders and provides
// document enumeration for the batch checker.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/RivinHD/ltexctl/internal/logging"
)

// Workspace is the ordered set of open root folders plus the document
// the user is currently working on (may be empty).
type Workspace struct {
	Roots          []string
	ActiveDocument string
}

// languageByExtension maps file extensions (without dot) to the
// language identifier reported to the checking service. Both LaTeX and
// R Sweave sources use .tex; plain LaTeX wins for detection purposes.
var languageByExtension = map[string]string{ //nolint:gochecknoglobals // Static lookup table.
	"bib": "bibtex",
	"tex": "latex",
	"md":  "markdown",
}

// LanguageForPath returns the code language identifier for a document
// path, or "" when the extension is not a checkable type.
func LanguageForPath(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return languageByExtension[strings.ToLower(ext)]
}

// FindFiles enumerates all files under the workspace roots matching
// the doublestar pattern (relative to each root). Roots are scanned
// concurrently; the combined result is deduplicated and sorted with a
// locale-aware collator so processing order is reproducible across
// runs and platforms.
func (w *Workspace) FindFiles(ctx context.Context, pattern string) ([]string, error) {
	log := logging.FromContext(ctx)

	var mu sync.Mutex
	var matches []string

	g, gctx := errgroup.WithContext(ctx)
	for _, root := range w.Roots {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found, err := doublestar.Glob(os.DirFS(root), pattern)
			if err != nil {
				return fmt.Errorf("globbing %s under %s: %w", pattern, root, err)
			}
			mu.Lock()
			for _, rel := range found {
				matches = append(matches, filepath.Join(root, filepath.FromSlash(rel)))
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.Sort(matches)
	matches = slices.Compact(matches)

	// Locale-aware stable ordering. The root locale keeps the order
	// deterministic regardless of the user's environment.
	coll := collate.New(language.Und)
	slices.SortStableFunc(matches, coll.CompareString)

	log.Debug().
		Str("component", "workspace").
		Str("pattern", pattern).
		Int("match_count", len(matches)).
		Msg("workspace enumeration complete")
	return matches, nil
}

// Contains reports whether the document lives under any workspace root.
func (w *Workspace) Contains(docPath string) bool {
	abs, err := filepath.Abs(docPath)
	if err != nil {
		return false
	}
	for _, root := range w.Roots {
		rootAbs, rootErr := filepath.Abs(root)
		if rootErr != nil {
			continue
		}
		rel, relErr := filepath.Rel(rootAbs, abs)
		if relErr != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
