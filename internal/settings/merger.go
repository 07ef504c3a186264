package settings

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/RivinHD/ltexctl/internal/config"
	"github.com/RivinHD/ltexctl/internal/logging"
)

// ConfigStore is the configuration-store collaborator: per-scope
// reads and writes, where any individual write may be rejected.
type ConfigStore interface {
	ConfigReader
	Update(key string, value any, scope config.Scope, docPath string) error
}

// FileStore is the external flat-file collaborator.
type FileStore interface {
	// FirstExistingPath returns the path of an already-existing
	// external file for the setting at the given scope, or "".
	FirstExistingPath(docPath, settingName string, scope config.Scope, language string) string
	// Append appends values to the file, one per line.
	Append(path string, values []string) error
}

// Merger persistently merges language-keyed entry lists into the
// resolved storage target.
type Merger struct {
	Config ConfigStore
	Files  FileStore

	// Recheck, when set, re-runs the check on the currently active
	// document after an add. It is a courtesy side effect: fired
	// without awaiting, and its outcome never affects the add.
	Recheck func(ctx context.Context)

	recheckWG sync.WaitGroup
}

// Wait blocks until re-checks issued by earlier AddEntries calls have
// run. Short-lived callers drain this before exiting so the re-check
// is not lost with the process.
func (m *Merger) Wait() {
	m.recheckWG.Wait()
}

// AddEntries merges the per-language entries into the setting's
// resolved storage. The scope chain and storage medium are resolved
// fresh for every call. An unrecognized scope preference aborts the
// whole operation with no partial write; an empty entries map is a
// legal no-op. Languages absent from entries are never touched.
func (m *Merger) AddEntries(ctx context.Context, docPath, settingName string, entries map[string][]string) {
	log := logging.FromContext(ctx)

	target, err := ResolveTarget(ctx, m.Config, docPath, settingName)
	if err != nil {
		log.Error().
			Str("component", "settings").
			Str("setting", settingName).
			Err(err).
			Msg("aborting setting update")
		return
	}

	inline := entries
	if target.External {
		inline = m.appendExternal(ctx, docPath, settingName, target.Chain, entries)
	}
	if len(inline) > 0 {
		m.mergeInline(ctx, docPath, settingName, target.Chain, inline)
	}

	// Courtesy re-check of the active document. Detached from the
	// command's cancellation: the add already happened.
	if m.Recheck != nil {
		m.recheckWG.Add(1)
		go func() {
			defer m.recheckWG.Done()
			m.Recheck(context.WithoutCancel(ctx))
		}()
	}
}

// appendExternal handles external-file storage per language
// independently: entries are appended to the first scope in the chain
// that already has an external file; nothing is written to later
// scopes and no file is created. Languages with no existing file
// anywhere in the chain are returned for inline fallback so every
// entry is persisted somewhere.
func (m *Merger) appendExternal(
	ctx context.Context,
	docPath, settingName string,
	chain []config.Scope,
	entries map[string][]string,
) map[string][]string {
	log := logging.FromContext(ctx)
	fallback := map[string][]string{}

	// Deterministic language order keeps file writes and logs stable.
	languages := make([]string, 0, len(entries))
	for language := range entries {
		languages = append(languages, language)
	}
	slices.Sort(languages)

	for _, language := range languages {
		path := ""
		for _, scope := range chain {
			if found := m.Files.FirstExistingPath(docPath, settingName, scope, language); found != "" {
				path = found
				break
			}
		}
		if path == "" {
			fallback[language] = entries[language]
			continue
		}

		if err := m.Files.Append(path, Normalize(entries[language])); err != nil {
			log.Error().
				Str("component", "settings").
				Str("setting", settingName).
				Str("language", language).
				Str("path", path).
				Err(err).
				Msg("could not append to external setting file, storing inline instead")
			fallback[language] = entries[language]
			continue
		}
		log.Debug().
			Str("component", "settings").
			Str("setting", settingName).
			Str("language", language).
			Str("path", path).
			Msg("appended entries to external setting file")
	}

	return fallback
}

// mergeInline merges entries into the structured setting and persists
// the full updated mapping at the first scope in the chain that
// accepts the write. Rejections fall through to the next scope; only
// exhaustion of the whole chain is logged as unrecoverable. Languages
// absent from entries keep their stored value untouched, even when it
// is not a well-formed string list.
func (m *Merger) mergeInline(
	ctx context.Context,
	docPath, settingName string,
	chain []config.Scope,
	entries map[string][]string,
) {
	log := logging.FromContext(ctx)

	current, _ := m.Config.Get(settingName, docPath)
	merged := map[string]any{}
	if existing, ok := current.(map[string]any); ok {
		maps.Copy(merged, existing)
	}
	lists := config.LanguageLists(current)
	for language, values := range entries {
		merged[language] = Normalize(append(lists[language], values...))
	}

	var lastErr error
	for _, scope := range chain {
		err := m.Config.Update(settingName, merged, scope, docPath)
		if err == nil {
			log.Debug().
				Str("component", "settings").
				Str("setting", settingName).
				Str("scope", scope.String()).
				Msg("setting updated")
			return
		}
		lastErr = err
		log.Debug().
			Str("component", "settings").
			Str("setting", settingName).
			Str("scope", scope.String()).
			Err(err).
			Msg("scope rejected setting write, trying next scope")
	}

	log.Error().
		Str("component", "settings").
		Str("setting", settingName).
		Err(lastErr).
		Msg("every scope rejected the setting write")
}
