package entity

import "time"

// Collection is the shared shape of categories and brands: a titled group of
// products carrying at most one image with a derived thumbnail. Records are
// soft-deleted, never physically removed.
type Collection struct {
	ID          int64
	Title       string
	Description string
	Image       string // relative asset path, "" when unset
	Thumbnail   string // relative asset path, "" when unset
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CollectionSummary is the subset of collection fields joined into product reads.
type CollectionSummary struct {
	ID          int64
	Title       string
	Description string
}
