// Package catalog holds the product/feature catalog that requirements are
// matched against. The matching core reads the catalog; it owns only the
// feature-embedding lifecycle.
package catalog

import "time"

// Product is a catalog product owning a set of features.
type Product struct {
	id          int64
	name        string
	vendor      string
	category    string
	description string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewProduct creates an active product.
func NewProduct(name, vendor, category, description string) Product {
	now := time.Now().UTC()
	return Product{
		name:        name,
		vendor:      vendor,
		category:    category,
		description: description,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}
}

// ReconstructProduct rebuilds a product from persistence.
func ReconstructProduct(id int64, name, vendor, category, description string, active bool, createdAt, updatedAt time.Time) Product {
	return Product{
		id:          id,
		name:        name,
		vendor:      vendor,
		category:    category,
		description: description,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the product ID.
func (p Product) ID() int64 { return p.id }

// Name returns the product name.
func (p Product) Name() string { return p.name }

// Vendor returns the vendor name.
func (p Product) Vendor() string { return p.vendor }

// Category returns the product category.
func (p Product) Category() string { return p.category }

// Description returns the product description.
func (p Product) Description() string { return p.description }

// Active reports whether the product is active.
func (p Product) Active() bool { return p.active }

// CreatedAt returns the creation time.
func (p Product) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last update time.
func (p Product) UpdatedAt() time.Time { return p.updatedAt }

// Deactivate returns a copy with the active flag cleared. Embedding cleanup
// for the product's features is the caller's responsibility — the cascade is
// an explicit collaborator call, not a store hook.
func (p Product) Deactivate() Product {
	p.active = false
	p.updatedAt = time.Now().UTC()
	return p
}
