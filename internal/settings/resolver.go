// Package settings resolves where a language-keyed, list-valued user
// setting should be stored (scope and medium) and merges new entries
// into the existing content without duplication, falling back through
// successive scopes when a write is rejected.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RivinHD/ltexctl/internal/config"
	"github.com/RivinHD/ltexctl/internal/logging"
)

// The list-valued settings managed by this package.
const (
	SettingDictionary           = "dictionary"
	SettingDisabledRules        = "disabledRules"
	SettingHiddenFalsePositives = "hiddenFalsePositives"
)

// ErrInvalidScopeConfiguration indicates an unrecognized
// scope-preference string. The whole add operation aborts with no
// partial write.
var ErrInvalidScopeConfiguration = errors.New("invalid configuration target")

// deprecatedTargetKeys maps each setting name to its legacy
// scope-preference key, consulted when the current key is unset.
var deprecatedTargetKeys = map[string]string{ //nolint:gochecknoglobals // Static lookup table.
	SettingDictionary:           "addToDictionaryTarget",
	SettingDisabledRules:        "disableRulesTarget",
	SettingHiddenFalsePositives: "hideFalsePositivesTarget",
}

// Target is the resolved storage decision for one add operation.
type Target struct {
	// Chain lists the scopes to try, most specific first. Never empty.
	Chain []config.Scope
	// External selects flat-file storage over the structured setting.
	External bool
}

// ConfigReader is the read side of the configuration store.
type ConfigReader interface {
	Get(key, docPath string) (any, bool)
}

// targetCandidate is one entry of the lookup chain for the
// scope-preference value.
type targetCandidate struct {
	key        string
	deprecated bool
}

// ResolveTarget determines the scope chain and storage medium for a
// setting relative to a document. The scope-preference value is read
// from configurationTarget.<settingName>, falling back to the
// deprecated per-setting alias. The preference string maps as:
//
//	unset or "workspaceFolder..."  -> folder, workspace, global
//	"workspace..." (not folder)    -> workspace, global
//	"user..." or "global..."       -> global
//	anything else                  -> ErrInvalidScopeConfiguration
//
// An unset value or an "...ExternalFile" suffix selects external-file
// storage. Resolution is recomputed on every call.
func ResolveTarget(ctx context.Context, cfg ConfigReader, docPath, settingName string) (Target, error) {
	log := logging.FromContext(ctx)

	candidates := []targetCandidate{
		{key: "configurationTarget." + settingName},
	}
	if alias, ok := deprecatedTargetKeys[settingName]; ok {
		candidates = append(candidates, targetCandidate{key: alias, deprecated: true})
	}

	preference := ""
	for _, candidate := range candidates {
		value, found := cfg.Get(candidate.key, docPath)
		str, isString := value.(string)
		if !found || !isString || str == "" {
			continue
		}
		if candidate.deprecated {
			log.Warn().
				Str("component", "settings").
				Str("setting", settingName).
				Str("deprecated_key", candidate.key).
				Msg("using deprecated configuration target setting")
		}
		preference = str
		break
	}

	target := Target{
		External: preference == "" || strings.HasSuffix(preference, "ExternalFile"),
	}

	switch {
	case preference == "" || strings.HasPrefix(preference, "workspaceFolder"):
		target.Chain = []config.Scope{config.ScopeFolder, config.ScopeWorkspace, config.ScopeGlobal}
	case strings.HasPrefix(preference, "workspace"):
		target.Chain = []config.Scope{config.ScopeWorkspace, config.ScopeGlobal}
	case strings.HasPrefix(preference, "user"), strings.HasPrefix(preference, "global"):
		target.Chain = []config.Scope{config.ScopeGlobal}
	default:
		return Target{}, fmt.Errorf("%w: %q for setting %q",
			ErrInvalidScopeConfiguration, preference, settingName)
	}

	return target, nil
}
