package matching

import "time"

// MatchRecord is the persisted outcome of scoring one item against one
// feature. Records are created only by the matching service; every run
// replaces the requirement's full record set (delete-then-insert), so stale
// records never coexist with a new run's output.
type MatchRecord struct {
	id            int64
	requirementID int64
	itemID        int64
	featureID     int64
	similarity    float64
	status        MatchStatus
	threshold     float64
	rank          int
	metadata      map[string]any
	createdAt     time.Time
}

// NewMatchRecord creates a record from a search candidate.
func NewMatchRecord(requirementID, itemID int64, candidate Candidate, threshold float64) MatchRecord {
	return MatchRecord{
		requirementID: requirementID,
		itemID:        itemID,
		featureID:     candidate.FeatureID(),
		similarity:    candidate.Similarity(),
		status:        candidate.Status(),
		threshold:     threshold,
		rank:          candidate.Rank(),
		metadata:      candidate.Metadata(),
		createdAt:     time.Now().UTC(),
	}
}

// ReconstructMatchRecord rebuilds a record from persistence.
func ReconstructMatchRecord(
	id, requirementID, itemID, featureID int64,
	similarity float64,
	status MatchStatus,
	threshold float64,
	rank int,
	metadata map[string]any,
	createdAt time.Time,
) MatchRecord {
	return MatchRecord{
		id:            id,
		requirementID: requirementID,
		itemID:        itemID,
		featureID:     featureID,
		similarity:    similarity,
		status:        status,
		threshold:     threshold,
		rank:          rank,
		metadata:      metadata,
		createdAt:     createdAt,
	}
}

// ID returns the record ID.
func (m MatchRecord) ID() int64 { return m.id }

// RequirementID returns the owning requirement's ID.
func (m MatchRecord) RequirementID() int64 { return m.requirementID }

// ItemID returns the scored item's ID.
func (m MatchRecord) ItemID() int64 { return m.itemID }

// FeatureID returns the matched feature's ID.
func (m MatchRecord) FeatureID() int64 { return m.featureID }

// Similarity returns the similarity score in [0,1].
func (m MatchRecord) Similarity() float64 { return m.similarity }

// Status returns the classification status.
func (m MatchRecord) Status() MatchStatus { return m.status }

// Threshold returns the partial threshold that was active for the run.
func (m MatchRecord) Threshold() float64 { return m.threshold }

// Rank returns the 1-based rank, unique per item.
func (m MatchRecord) Rank() int { return m.rank }

// Metadata returns the raw candidate payload captured at match time.
func (m MatchRecord) Metadata() map[string]any { return m.metadata }

// CreatedAt returns the creation time.
func (m MatchRecord) CreatedAt() time.Time { return m.createdAt }
