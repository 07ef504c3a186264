package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RivinHD/ltexctl/internal/config"
	"github.com/RivinHD/ltexctl/internal/logging"
	"github.com/RivinHD/ltexctl/internal/workspace"
)

// Distinguished batch failure reasons for empty discovery results.
var (
	// ErrNoWorkspaceOpen indicates no workspace root folders are open.
	ErrNoWorkspaceOpen = errors.New("no workspace folders open")
	// ErrNoDocumentsFound indicates the open workspace contains no
	// documents matching the enabled extensions.
	ErrNoDocumentsFound = errors.New("no checkable documents found in workspace")
)

// enabledSettingKey is the configuration key holding the bool-or-list
// `enabled` setting the extension set derives from.
const enabledSettingKey = "enabled"

// BatchChecker walks every eligible workspace document through the
// single-document check primitive.
//
// Checks run strictly sequentially: the checking server keeps
// per-document diagnostic state and is not safe for overlapping
// requests from one orchestrator, so serialization is a correctness
// requirement rather than a simplification.
type BatchChecker struct {
	Checker   *Checker
	Config    *config.Store
	Workspace *workspace.Workspace
	Notifier  UserNotifier

	// OnProgress, when set, receives a snapshot after discovery and
	// before each document check.
	OnProgress ProgressFunc
}

// CheckAll checks every workspace document matching the enabled
// extension set, in stable path order, aborting on the first failed
// check. It returns false only on failure; cancellation and a
// disabled extension set both count as success.
//
// The extension set and workspace contents are resolved fresh on
// every call; configuration may change between commands.
func (b *BatchChecker) CheckAll(ctx context.Context) bool {
	log := logging.FromContext(ctx)

	extensions := EnabledExtensions(b.Config.GetDefault(enabledSettingKey, "", nil))
	if len(extensions) == 0 {
		// Checking is disabled, not an error.
		log.Info().
			Str("component", "checker").
			Msg("no languages enabled for checking, nothing to do")
		return true
	}

	progress := NewProgress()
	log = log.With().Str("batch_id", progress.OperationID()).Logger()
	ctx = logging.WithContext(ctx, log)
	b.report(progress)

	if ctx.Err() != nil {
		return b.cancelled(ctx, progress)
	}

	pattern := fmt.Sprintf("**/*.{%s}", strings.Join(extensions, ","))
	documents, err := b.Workspace.FindFiles(ctx, pattern)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return b.cancelled(ctx, progress)
		}
		log.Error().
			Str("component", "checker").
			Str("operation", "check_all").
			Err(err).
			Msg("workspace enumeration failed")
		b.Notifier.NotifyError(ctx, fmt.Sprintf("Could not enumerate workspace documents: %v", err))
		return false
	}

	progress.FinishDiscovery(len(documents))
	b.report(progress)

	if ctx.Err() != nil {
		return b.cancelled(ctx, progress)
	}

	if len(documents) == 0 {
		reason := ErrNoDocumentsFound
		if len(b.Workspace.Roots) == 0 {
			reason = ErrNoWorkspaceOpen
		}
		log.Error().
			Str("component", "checker").
			Str("operation", "check_all").
			Err(reason).
			Msg("batch check found nothing to check")
		b.Notifier.NotifyError(ctx, fmt.Sprintf("Could not check workspace: %v.", reason))
		return false
	}

	for i, doc := range documents {
		if ctx.Err() != nil {
			return b.cancelled(ctx, progress)
		}

		progress.BeginDocument(i, doc)
		b.report(progress)

		result := b.Checker.Check(ctx, CheckRequest{
			URI:        doc,
			LanguageID: workspace.LanguageForPath(doc),
		})
		if !result.Success {
			log.Error().
				Str("component", "checker").
				Str("operation", "check_all").
				Str("uri", doc).
				Int("document_index", i).
				Int("document_count", len(documents)).
				Msg("batch check aborted on first failure")
			b.Notifier.NotifyError(ctx,
				fmt.Sprintf("Could not check document %q: %s", doc, result.ErrorMessage))
			return false
		}
	}

	progress.Finish()
	b.report(progress)

	log.Info().
		Str("component", "checker").
		Str("operation", "check_all").
		Int("document_count", len(documents)).
		Msg("batch check complete")
	b.Notifier.NotifyInfo(ctx, fmt.Sprintf("Checked %d documents.", len(documents)))
	return true
}

// cancelled handles a cooperative cancellation: the batch stops at the
// next suspension point and reports success.
func (b *BatchChecker) cancelled(ctx context.Context, progress *Progress) bool {
	log := logging.FromContext(ctx)
	log.Info().
		Str("component", "checker").
		Str("operation", "check_all").
		Int("documents_checked", progress.Snapshot().DocumentIndex).
		Msg("batch check cancelled")
	return true
}

func (b *BatchChecker) report(progress *Progress) {
	if b.OnProgress != nil {
		b.OnProgress(progress.Snapshot())
	}
}
