package matching

import "time"

// Item is one atomic requirement statement. Items are created in bulk when a
// requirement is created and keep their submission order.
//
// An item may carry a cached embedding vector from a previous run. Absence is
// explicit — Vector returns ok=false, never a zero-length slice — so callers
// cannot mistake a failed encode for a degenerate zero-norm vector.
type Item struct {
	id            int64
	requirementID int64
	text          string
	order         int
	vector        []float64
	vectorModel   string
	hasVector     bool
	createdAt     time.Time
	updatedAt     time.Time
}

// NewItem creates an item without an embedding.
func NewItem(requirementID int64, text string, order int) Item {
	now := time.Now().UTC()
	return Item{
		requirementID: requirementID,
		text:          text,
		order:         order,
		createdAt:     now,
		updatedAt:     now,
	}
}

// ReconstructItem rebuilds an item from persistence. A nil vector means no
// embedding is cached.
func ReconstructItem(id, requirementID int64, text string, order int, vector []float64, vectorModel string, createdAt, updatedAt time.Time) Item {
	item := Item{
		id:            id,
		requirementID: requirementID,
		text:          text,
		order:         order,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
	if len(vector) > 0 {
		item.vector = copyVector(vector)
		item.vectorModel = vectorModel
		item.hasVector = true
	}
	return item
}

// ID returns the item ID.
func (i Item) ID() int64 { return i.id }

// RequirementID returns the owning requirement's ID.
func (i Item) RequirementID() int64 { return i.requirementID }

// Text returns the item text.
func (i Item) Text() string { return i.text }

// Order returns the item's position within the requirement.
func (i Item) Order() int { return i.order }

// Vector returns the cached embedding and whether one exists.
func (i Item) Vector() ([]float64, bool) {
	if !i.hasVector {
		return nil, false
	}
	return copyVector(i.vector), true
}

// VectorModel returns the model name the cached vector was computed under,
// empty when no vector is cached.
func (i Item) VectorModel() string { return i.vectorModel }

// HasVectorFor reports whether the item carries a cached vector computed
// under the given model.
func (i Item) HasVectorFor(modelName string) bool {
	return i.hasVector && i.vectorModel == modelName
}

// WithVector returns a copy carrying the given embedding.
func (i Item) WithVector(vector []float64, modelName string) Item {
	i.vector = copyVector(vector)
	i.vectorModel = modelName
	i.hasVector = len(vector) > 0
	i.updatedAt = time.Now().UTC()
	return i
}

// CreatedAt returns the creation time.
func (i Item) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last update time.
func (i Item) UpdatedAt() time.Time { return i.updatedAt }

func copyVector(v []float64) []float64 {
	if v == nil {
		return nil
	}
	cp := make([]float64, len(v))
	copy(cp, v)
	return cp
}
