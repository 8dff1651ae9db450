package catalog

import "time"

// Feature is a single catalog capability owned by a product.
type Feature struct {
	id          int64
	productID   int64
	name        string
	description string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewFeature creates an active feature for a product.
func NewFeature(productID int64, name, description string) Feature {
	now := time.Now().UTC()
	return Feature{
		productID:   productID,
		name:        name,
		description: description,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}
}

// ReconstructFeature rebuilds a feature from persistence.
func ReconstructFeature(id, productID int64, name, description string, active bool, createdAt, updatedAt time.Time) Feature {
	return Feature{
		id:          id,
		productID:   productID,
		name:        name,
		description: description,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the feature ID.
func (f Feature) ID() int64 { return f.id }

// ProductID returns the owning product's ID.
func (f Feature) ProductID() int64 { return f.productID }

// Name returns the feature name.
func (f Feature) Name() string { return f.name }

// Description returns the feature description.
func (f Feature) Description() string { return f.description }

// Active reports whether the feature is active.
func (f Feature) Active() bool { return f.active }

// CreatedAt returns the creation time.
func (f Feature) CreatedAt() time.Time { return f.createdAt }

// UpdatedAt returns the last update time.
func (f Feature) UpdatedAt() time.Time { return f.updatedAt }

// EmbeddingText returns the text embedded for this feature: the name plus
// the description, which carries most of the semantic signal.
func (f Feature) EmbeddingText() string {
	if f.description == "" {
		return f.name
	}
	return f.name + "\n" + f.description
}

// Deactivate returns a copy with the active flag cleared. See
// Product.Deactivate for the embedding-cleanup contract.
func (f Feature) Deactivate() Feature {
	f.active = false
	f.updatedAt = time.Now().UTC()
	return f
}
