// Package commands implements the user-facing command surface: each
// command takes a structured parameter object and returns a boolean
// success indicator. Failures are reported to the user through the
// notifier and never propagate past this boundary.
package commands

import (
	"context"
	"fmt"

	"github.com/RivinHD/ltexctl/internal/checker"
	"github.com/RivinHD/ltexctl/internal/logging"
	"github.com/RivinHD/ltexctl/internal/settings"
	"github.com/RivinHD/ltexctl/internal/workspace"
)

// CheckDocumentParams identifies the document to check. An empty URI
// falls back to the workspace's active document. LanguageID and Text
// are optional; when absent the server reads the document itself.
type CheckDocumentParams struct {
	URI        string `json:"uri,omitempty"`
	LanguageID string `json:"codeLanguageId,omitempty"`
	Text       string `json:"text,omitempty"`
}

// ClearDiagnosticsParams identifies the document whose diagnostics to
// clear. An empty URI falls back to the active document.
type ClearDiagnosticsParams struct {
	URI string `json:"uri,omitempty"`
}

// AddToDictionaryParams carries per-language word lists to add.
type AddToDictionaryParams struct {
	URI   string              `json:"uri,omitempty"`
	Words map[string][]string `json:"words"`
}

// DisableRulesParams carries per-language rule IDs to disable.
type DisableRulesParams struct {
	URI     string              `json:"uri,omitempty"`
	RuleIDs map[string][]string `json:"ruleIds"`
}

// HideFalsePositivesParams carries per-language false-positive
// signatures to hide.
type HideFalsePositivesParams struct {
	URI            string              `json:"uri,omitempty"`
	FalsePositives map[string][]string `json:"falsePositives"`
}

// Commands bundles the collaborators behind the command surface.
type Commands struct {
	Checker     *checker.Checker
	Batch       *checker.BatchChecker
	Merger      *settings.Merger
	Diagnostics *checker.DiagnosticsStore
	Workspace   *workspace.Workspace
	Notifier    checker.UserNotifier
}

// CheckCurrentDocument checks one document and reports the outcome.
func (c *Commands) CheckCurrentDocument(ctx context.Context, params CheckDocumentParams) bool {
	uri, ok := c.resolveDocument(ctx, params.URI)
	if !ok {
		return false
	}

	languageID := params.LanguageID
	if languageID == "" {
		languageID = workspace.LanguageForPath(uri)
	}

	result := c.Checker.Check(ctx, checker.CheckRequest{
		URI:        uri,
		LanguageID: languageID,
		Text:       params.Text,
	})
	if !result.Success {
		c.Notifier.NotifyError(ctx,
			fmt.Sprintf("Could not check document %q: %s", uri, result.ErrorMessage))
		return false
	}
	return true
}

// CheckAllDocuments checks every eligible document in the workspace.
func (c *Commands) CheckAllDocuments(ctx context.Context) bool {
	return c.Batch.CheckAll(ctx)
}

// ClearDiagnosticsCurrent clears the diagnostics of one document.
func (c *Commands) ClearDiagnosticsCurrent(ctx context.Context, params ClearDiagnosticsParams) bool {
	uri, ok := c.resolveDocument(ctx, params.URI)
	if !ok {
		return false
	}
	if err := c.Checker.Service.ClearDiagnostics(ctx, uri); err != nil {
		log := logging.FromContext(ctx)
		log.Warn().
			Str("component", "commands").
			Str("uri", uri).
			Err(err).
			Msg("could not clear diagnostics on the server")
	}
	return true
}

// ClearDiagnosticsAll clears the diagnostics of every document the
// server has reported on.
func (c *Commands) ClearDiagnosticsAll(ctx context.Context) bool {
	log := logging.FromContext(ctx)
	for _, uri := range c.Diagnostics.ClearAll() {
		if err := c.Checker.Service.ClearDiagnostics(ctx, uri); err != nil {
			log.Warn().
				Str("component", "commands").
				Str("uri", uri).
				Err(err).
				Msg("could not clear diagnostics on the server")
		}
	}
	return true
}

// AddToDictionary merges words into the dictionary setting.
func (c *Commands) AddToDictionary(ctx context.Context, params AddToDictionaryParams) bool {
	c.Merger.AddEntries(ctx, c.documentOrActive(params.URI), settings.SettingDictionary, params.Words)
	return true
}

// DisableRules merges rule IDs into the disabled-rules setting.
func (c *Commands) DisableRules(ctx context.Context, params DisableRulesParams) bool {
	c.Merger.AddEntries(ctx, c.documentOrActive(params.URI), settings.SettingDisabledRules, params.RuleIDs)
	return true
}

// HideFalsePositives merges sentence signatures into the hidden
// false-positives setting.
func (c *Commands) HideFalsePositives(ctx context.Context, params HideFalsePositivesParams) bool {
	c.Merger.AddEntries(ctx, c.documentOrActive(params.URI), settings.SettingHiddenFalsePositives, params.FalsePositives)
	return true
}

// resolveDocument returns the target document, reporting an error to
// the user when neither the params nor the workspace name one.
func (c *Commands) resolveDocument(ctx context.Context, uri string) (string, bool) {
	if resolved := c.documentOrActive(uri); resolved != "" {
		return resolved, true
	}
	c.Notifier.NotifyError(ctx, "No document specified and no active document available.")
	return "", false
}

func (c *Commands) documentOrActive(uri string) string {
	if uri != "" {
		return uri
	}
	return c.Workspace.ActiveDocument
}
