package repository

import (
	"context"

	"go-commerce-api/internal/domain/entity"
)

// CollectionUpdate is a partial update: nil fields retain their prior value.
type CollectionUpdate struct {
	Title       *string
	Description *string
	Image       *string
	Thumbnail   *string
}

// CollectionRepository persists categories or brands; one implementation
// serves both, parameterized by table.
type CollectionRepository interface {
	// ListActive returns all records with deleted = false.
	ListActive(ctx context.Context) ([]entity.Collection, error)
	// GetByID resolves a record regardless of its deleted flag.
	GetByID(ctx context.Context, id int64) (*entity.Collection, error)
	Create(ctx context.Context, c *entity.Collection) error
	Update(ctx context.Context, id int64, in CollectionUpdate) (*entity.Collection, error)
	// SoftDelete marks the record deleted; false when absent or already deleted.
	SoftDelete(ctx context.Context, id int64) (bool, error)
}

// ProductFilter narrows active product listings.
type ProductFilter struct {
	CategoryID *int64
}

// ProductUpdate is a partial update: nil fields retain their prior value.
type ProductUpdate struct {
	Title              *string
	Description        *string
	Price              *float64
	DiscountPercentage *float64
	Rating             *float64
	Stock              *int
	BrandID            *int64
	CategoryID         *int64
	Images             *[]string
}

// ProductRepository persists products with paginated, joined reads.
type ProductRepository interface {
	// ListActive returns one page ordered by descending id together with the
	// total match count. page and limit are both 1-based/minimum 1.
	ListActive(ctx context.Context, f ProductFilter, page, limit int) ([]entity.Product, int, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, id int64, in ProductUpdate) (*entity.Product, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
}
