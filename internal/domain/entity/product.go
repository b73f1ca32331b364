package entity

import "time"

// Product references exactly one category and one brand. The references are
// checked at creation time only; soft-deleting a collection later does not
// cascade.
type Product struct {
	ID                 int64
	Title              string
	Description        string
	Price              float64
	DiscountPercentage float64 // 0-100
	Rating             float64 // 0-5
	Stock              int
	BrandID            int64
	CategoryID         int64
	Images             []string // relative asset paths
	Deleted            bool
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined summaries, populated by list reads.
	Category *CollectionSummary
	Brand    *CollectionSummary
}
