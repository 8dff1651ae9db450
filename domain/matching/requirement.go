package matching

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind distinguishes how a requirement was submitted.
type SourceKind string

// SourceKind values.
const (
	SourceText SourceKind = "text"
	SourceFile SourceKind = "file"
)

// Requirement is a submitted set of capability-need statements. It owns its
// items and, transitively, the current generation of match records.
type Requirement struct {
	id         int64
	sessionID  uuid.UUID
	title      string
	sourceKind SourceKind
	sourceText string
	sourceFile string
	status     RequirementStatus
	createdBy  string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewRequirement creates a pending requirement from submitted text.
func NewRequirement(sessionID uuid.UUID, title, sourceText, createdBy string) Requirement {
	now := time.Now().UTC()
	return Requirement{
		sessionID:  sessionID,
		title:      title,
		sourceKind: SourceText,
		sourceText: sourceText,
		status:     StatusPending,
		createdBy:  createdBy,
		createdAt:  now,
		updatedAt:  now,
	}
}

// NewFileRequirement creates a pending requirement originating from an
// uploaded file. Parsing happens upstream; only the file name is recorded.
func NewFileRequirement(sessionID uuid.UUID, title, fileName, createdBy string) Requirement {
	r := NewRequirement(sessionID, title, "", createdBy)
	r.sourceKind = SourceFile
	r.sourceFile = fileName
	return r
}

// ReconstructRequirement rebuilds a requirement from persistence.
func ReconstructRequirement(
	id int64,
	sessionID uuid.UUID,
	title string,
	sourceKind SourceKind,
	sourceText, sourceFile string,
	status RequirementStatus,
	createdBy string,
	createdAt, updatedAt time.Time,
) Requirement {
	return Requirement{
		id:         id,
		sessionID:  sessionID,
		title:      title,
		sourceKind: sourceKind,
		sourceText: sourceText,
		sourceFile: sourceFile,
		status:     status,
		createdBy:  createdBy,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the requirement ID.
func (r Requirement) ID() int64 { return r.id }

// SessionID returns the submission session identifier.
func (r Requirement) SessionID() uuid.UUID { return r.sessionID }

// Title returns the optional title.
func (r Requirement) Title() string { return r.title }

// SourceKind returns how the requirement was submitted.
func (r Requirement) SourceKind() SourceKind { return r.sourceKind }

// SourceText returns the submitted text, empty for file submissions.
func (r Requirement) SourceText() string { return r.sourceText }

// SourceFile returns the originating file name, empty for text submissions.
func (r Requirement) SourceFile() string { return r.sourceFile }

// Status returns the processing status.
func (r Requirement) Status() RequirementStatus { return r.status }

// CreatedBy returns the creator identifier.
func (r Requirement) CreatedBy() string { return r.createdBy }

// CreatedAt returns the creation time.
func (r Requirement) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last update time.
func (r Requirement) UpdatedAt() time.Time { return r.updatedAt }

// MarkProcessing returns a copy in the processing state. Valid from any
// state — completed and failed requirements re-enter processing on re-run.
func (r Requirement) MarkProcessing() Requirement {
	r.status = StatusProcessing
	r.updatedAt = time.Now().UTC()
	return r
}

// MarkCompleted returns a copy in the completed state.
func (r Requirement) MarkCompleted() Requirement {
	r.status = StatusCompleted
	r.updatedAt = time.Now().UTC()
	return r
}

// MarkFailed returns a copy in the failed state.
func (r Requirement) MarkFailed() Requirement {
	r.status = StatusFailed
	r.updatedAt = time.Now().UTC()
	return r
}
