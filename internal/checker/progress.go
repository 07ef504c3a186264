package checker

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Fixed weight allocation for the two batch phases: discovery
// (workspace enumeration) accounts for 10% of total progress, the
// checking phase for the remaining 90% subdivided evenly per document.
const (
	discoveryWeight = 0.10
	checkingWeight  = 0.90
)

// BatchStage identifies which phase of the batch a progress snapshot
// belongs to.
type BatchStage int

const (
	// StageDiscovery covers workspace enumeration.
	StageDiscovery BatchStage = iota
	// StageChecking covers per-document checks.
	StageChecking
	// StageDone means the batch finished (successfully or not).
	StageDone
)

// Progress tracks fractional progress of one batch check. A batch is
// identified by a ULID so progress events and log lines correlate.
type Progress struct {
	mu sync.Mutex

	operationID    string
	stage          BatchStage
	totalDocuments int
	documentIndex  int
	currentURI     string
	startTime      time.Time
}

// ProgressSnapshot is an immutable view of batch progress.
type ProgressSnapshot struct {
	OperationID    string
	Stage          BatchStage
	Fraction       float64
	TotalDocuments int
	DocumentIndex  int
	CurrentURI     string
	Elapsed        time.Duration
}

// ProgressFunc receives progress snapshots during a batch check.
type ProgressFunc func(ProgressSnapshot)

// NewProgress creates a progress tracker for a fresh batch.
func NewProgress() *Progress {
	return &Progress{
		operationID: ulid.Make().String(),
		startTime:   time.Now(),
	}
}

// OperationID returns the batch correlation ID.
func (p *Progress) OperationID() string {
	return p.operationID
}

// FinishDiscovery records the end of the enumeration phase.
func (p *Progress) FinishDiscovery(totalDocuments int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stage = StageChecking
	p.totalDocuments = totalDocuments
	p.documentIndex = 0
}

// BeginDocument records that document index (0-based) is about to be
// checked.
func (p *Progress) BeginDocument(index int, uri string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.documentIndex = index
	p.currentURI = uri
}

// Finish marks the batch complete.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stage = StageDone
	p.documentIndex = p.totalDocuments
	p.currentURI = ""
}

// Snapshot returns the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProgressSnapshot{
		OperationID:    p.operationID,
		Stage:          p.stage,
		Fraction:       p.fractionLocked(),
		TotalDocuments: p.totalDocuments,
		DocumentIndex:  p.documentIndex,
		CurrentURI:     p.currentURI,
		Elapsed:        time.Since(p.startTime),
	}
}

// fractionLocked computes overall fractional progress. Discovery in
// progress reports 0; before checking document i of n the fraction is
// discoveryWeight + checkingWeight*i/n.
func (p *Progress) fractionLocked() float64 {
	switch p.stage {
	case StageDiscovery:
		return 0
	case StageDone:
		return 1
	case StageChecking:
		if p.totalDocuments == 0 {
			return discoveryWeight
		}
		return discoveryWeight + checkingWeight*float64(p.documentIndex)/float64(p.totalDocuments)
	default:
		return 0
	}
}
