package checker

import "slices"

// extensionsByLanguage maps checkable language identifiers to the file
// extensions they cover. LaTeX and R Sweave share .tex.
var extensionsByLanguage = map[string][]string{ //nolint:gochecknoglobals // Static lookup table.
	"bibtex":   {"bib"},
	"latex":    {"tex"},
	"markdown": {"md"},
	"rsweave":  {"tex"},
}

// defaultLanguages is the language set a bare `enabled: true` expands
// to, matching the historical behavior of the boolean setting.
var defaultLanguages = []string{"bibtex", "latex", "markdown", "rsweave"} //nolint:gochecknoglobals // Static lookup table.

// EnabledExtensions derives the set of checkable file extensions from
// the `enabled` setting. The setting is either a boolean (legacy:
// true expands to the default language set, false disables checking)
// or an explicit list of language identifiers. The result is
// deduplicated and sorted so enumeration order is deterministic; an
// empty result means checking is disabled.
func EnabledExtensions(setting any) []string {
	var languages []string
	switch value := setting.(type) {
	case nil:
		languages = defaultLanguages
	case bool:
		if !value {
			return nil
		}
		languages = defaultLanguages
	case []any:
		for _, entry := range value {
			if lang, ok := entry.(string); ok {
				languages = append(languages, lang)
			}
		}
	case []string:
		languages = value
	default:
		languages = defaultLanguages
	}

	var extensions []string
	for _, lang := range languages {
		extensions = append(extensions, extensionsByLanguage[lang]...)
	}
	slices.Sort(extensions)
	return slices.Compact(extensions)
}
