package config

// Scope identifies a level of configuration specificity. More specific
// scopes shadow less specific ones on read; writes target exactly one
// scope.
type Scope int

const (
	// ScopeFolder targets the workspace folder containing the document.
	ScopeFolder Scope = iota
	// ScopeWorkspace targets the workspace as a whole.
	ScopeWorkspace
	// ScopeGlobal targets the user's global configuration.
	ScopeGlobal
)

// String returns a human-readable name for the scope.
func (s Scope) String() string {
	switch s {
	case ScopeFolder:
		return "folder"
	case ScopeWorkspace:
		return "workspace"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// AllScopes returns the full scope hierarchy, most specific first.
func AllScopes() []Scope {
	return []Scope{ScopeFolder, ScopeWorkspace, ScopeGlobal}
}
