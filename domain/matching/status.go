// Package matching holds the requirement-to-feature matching domain: the
// requirement lifecycle, classification thresholds, candidates, match
// records, and the searcher contract.
package matching

// RequirementStatus is the processing state of a capability requirement.
//
// Transitions: pending → processing → completed | failed. Completed and
// failed are stable but not final — re-running matching moves a requirement
// back to processing, so reprocessing is always safe.
type RequirementStatus string

// RequirementStatus values.
const (
	StatusPending    RequirementStatus = "pending"
	StatusProcessing RequirementStatus = "processing"
	StatusCompleted  RequirementStatus = "completed"
	StatusFailed     RequirementStatus = "failed"
)

// IsStable reports whether the status is a resting state (anything but
// processing). A requirement stuck in processing indicates an interrupted
// run that failed to mark itself failed.
func (s RequirementStatus) IsStable() bool {
	return s != StatusProcessing
}

// MatchStatus classifies how well a candidate feature covers an item.
type MatchStatus string

// MatchStatus values, from weakest to strongest.
const (
	StatusUnmatched      MatchStatus = "unmatched"
	StatusPartialMatched MatchStatus = "partial_matched"
	StatusMatched        MatchStatus = "matched"
)

// Level returns the ordering of the status: unmatched < partial_matched <
// matched. Classification is monotonic in the similarity score with respect
// to this order.
func (s MatchStatus) Level() int {
	switch s {
	case StatusMatched:
		return 2
	case StatusPartialMatched:
		return 1
	default:
		return 0
	}
}

// Default classification thresholds. The matched threshold is process-wide;
// the partial threshold is configurable per matching run.
const (
	DefaultMatchedThreshold = 0.85
	DefaultPartialThreshold = 0.75
)

// Thresholds holds the two-tier classification ladder.
type Thresholds struct {
	matched float64
	partial float64
}

// NewThresholds creates a Thresholds. A partial threshold above the matched
// threshold would make the partial tier unreachable, so it is capped.
func NewThresholds(matched, partial float64) Thresholds {
	if partial > matched {
		partial = matched
	}
	return Thresholds{matched: matched, partial: partial}
}

// DefaultThresholds returns the default ladder.
func DefaultThresholds() Thresholds {
	return NewThresholds(DefaultMatchedThreshold, DefaultPartialThreshold)
}

// WithPartial returns a copy with the run-specific partial threshold.
func (t Thresholds) WithPartial(partial float64) Thresholds {
	return NewThresholds(t.matched, partial)
}

// Matched returns the matched-tier threshold.
func (t Thresholds) Matched() float64 { return t.matched }

// Partial returns the partial-tier threshold.
func (t Thresholds) Partial() float64 { return t.partial }

// Classify assigns a match status to a similarity score using the strict
// two-threshold ladder.
func (t Thresholds) Classify(score float64) MatchStatus {
	switch {
	case score >= t.matched:
		return StatusMatched
	case score >= t.partial:
		return StatusPartialMatched
	default:
		return StatusUnmatched
	}
}
