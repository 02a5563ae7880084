package model

import "time"

// Item is an inventory item. CategoryLabel keeps whatever the user or the
// import file supplied; Category is its canonical form.
type Item struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ID            string
	Name          string
	CategoryLabel string
	Category      CanonicalCategory
	Location      string
	Quantity      int
}
