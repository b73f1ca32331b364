package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/domain/repository"
)

const productColumns = `p.id, p.title, p.description, p.price, p.discount_percentage,
	p.rating, p.stock, p.brand_id, p.category_id, p.images, p.deleted,
	p.created_at, p.updated_at`

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.DiscountPercentage,
		&p.Rating, &p.Stock, &p.BrandID, &p.CategoryID, &p.Images, &p.Deleted,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// ListActive pages through non-deleted products newest-first, joining the
// category and brand summaries into each row.
func (r *ProductRepository) ListActive(ctx context.Context, f repository.ProductFilter, page, limit int) ([]entity.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	where := "NOT p.deleted"
	args := []any{}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where += " AND p.category_id = $1"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM products p WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	offset := (page - 1) * limit
	args = append(args, offset, limit)
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`,
		       c.id, c.title, c.description,
		       b.id, b.title, b.description
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id
		WHERE `+where+`
		ORDER BY p.id DESC
		OFFSET $`+itoa(len(args)-1)+` LIMIT $`+itoa(len(args)), args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		p := entity.Product{Category: &entity.CollectionSummary{}, Brand: &entity.CollectionSummary{}}
		err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.DiscountPercentage,
			&p.Rating, &p.Stock, &p.BrandID, &p.CategoryID, &p.Images, &p.Deleted,
			&p.CreatedAt, &p.UpdatedAt,
			&p.Category.ID, &p.Category.Title, &p.Category.Description,
			&p.Brand.ID, &p.Brand.Title, &p.Brand.Description)
		if err != nil {
			return nil, 0, mapError(err)
		}
		out = append(out, p)
	}
	return out, total, mapError(rows.Err())
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p
		WHERE p.id = $1
	`, id))
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if p.Images == nil {
		p.Images = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (title, description, price, discount_percentage, rating,
			stock, brand_id, category_id, images, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Description, p.Price, p.DiscountPercentage, p.Rating,
		p.Stock, p.BrandID, p.CategoryID, p.Images)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, id int64, in repository.ProductUpdate) (*entity.Product, error) {
	var set setClause
	if in.Title != nil {
		set.add("title", *in.Title)
	}
	if in.Description != nil {
		set.add("description", *in.Description)
	}
	if in.Price != nil {
		set.add("price", *in.Price)
	}
	if in.DiscountPercentage != nil {
		set.add("discount_percentage", *in.DiscountPercentage)
	}
	if in.Rating != nil {
		set.add("rating", *in.Rating)
	}
	if in.Stock != nil {
		set.add("stock", *in.Stock)
	}
	if in.BrandID != nil {
		set.add("brand_id", *in.BrandID)
	}
	if in.CategoryID != nil {
		set.add("category_id", *in.CategoryID)
	}
	if in.Images != nil {
		set.add("images", *in.Images)
	}
	if set.empty() {
		return r.GetByID(ctx, id)
	}
	set.args = append(set.args, id)
	return scanProduct(r.pool.QueryRow(ctx, `
		UPDATE products p
		SET `+strings.Join(set.cols, ", ")+`, updated_at = now()
		WHERE id = $`+itoa(len(set.args))+`
		RETURNING `+productColumns, set.args...))
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE products
		SET deleted = TRUE, updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id)
	if err != nil {
		return false, mapError(err)
	}
	return res.RowsAffected() > 0, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
