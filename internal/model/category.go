// Package model defines the data types shared across stockroom.
package model

import "time"

// CanonicalCategory is one of the fixed category codes used internally
// regardless of how a category was typed in or imported.
type CanonicalCategory string

const (
	// CategoryElectronics covers devices, gadgets and other hardware.
	CategoryElectronics CanonicalCategory = "electronics"
	// CategoryOfficeSupplies covers stationery and consumables.
	CategoryOfficeSupplies CanonicalCategory = "office-supplies"
	// CategoryCleaningMaterials covers cleaning products.
	CategoryCleaningMaterials CanonicalCategory = "cleaning-materials"
	// CategoryFurniture covers chairs, desks, tables and furnishings.
	CategoryFurniture CanonicalCategory = "furniture"
	// CategorySoftware covers programs, applications and licenses.
	CategorySoftware CanonicalCategory = "software"
	// CategoryOther is the fallback for anything unrecognized.
	CategoryOther CanonicalCategory = "other"
)

// CanonicalCategories lists every canonical category in display order.
func CanonicalCategories() []CanonicalCategory {
	return []CanonicalCategory{
		CategoryElectronics,
		CategoryOfficeSupplies,
		CategoryCleaningMaterials,
		CategoryFurniture,
		CategorySoftware,
		CategoryOther,
	}
}

// String implements fmt.Stringer.
func (c CanonicalCategory) String() string {
	return string(c)
}

// Category is a user-managed category entry. Its Canonical field is the
// normalized form of Name.
type Category struct {
	CreatedAt   time.Time
	Name        string
	Description string
	Canonical   CanonicalCategory
	ID          int
	IsActive    bool
}
