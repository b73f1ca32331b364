package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/domain/repository"
)

const collectionColumns = `id, title, description, image, thumbnail, deleted, created_at, updated_at`

// CollectionRepository serves both the categories and brands tables; the
// table name is fixed at construction.
type CollectionRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewCategoryRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool, table: "categories"}
}

func NewBrandRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool, table: "brands"}
}

func scanCollection(row pgx.Row) (*entity.Collection, error) {
	c := &entity.Collection{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Image, &c.Thumbnail,
		&c.Deleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *CollectionRepository) ListActive(ctx context.Context) ([]entity.Collection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+collectionColumns+`
		FROM `+r.table+`
		WHERE NOT deleted
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []entity.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, mapError(rows.Err())
}

func (r *CollectionRepository) GetByID(ctx context.Context, id int64) (*entity.Collection, error) {
	return scanCollection(r.pool.QueryRow(ctx, `
		SELECT `+collectionColumns+`
		FROM `+r.table+`
		WHERE id = $1
	`, id))
}

func (r *CollectionRepository) Create(ctx context.Context, c *entity.Collection) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO `+r.table+` (title, description, image, thumbnail, deleted)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at, updated_at
	`, c.Title, c.Description, c.Image, c.Thumbnail)

	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *CollectionRepository) Update(ctx context.Context, id int64, in repository.CollectionUpdate) (*entity.Collection, error) {
	var set setClause
	if in.Title != nil {
		set.add("title", *in.Title)
	}
	if in.Description != nil {
		set.add("description", *in.Description)
	}
	if in.Image != nil {
		set.add("image", *in.Image)
	}
	if in.Thumbnail != nil {
		set.add("thumbnail", *in.Thumbnail)
	}
	if set.empty() {
		return r.GetByID(ctx, id)
	}
	set.args = append(set.args, id)
	return scanCollection(r.pool.QueryRow(ctx, `
		UPDATE `+r.table+`
		SET `+strings.Join(set.cols, ", ")+`, updated_at = now()
		WHERE id = $`+itoa(len(set.args))+`
		RETURNING `+collectionColumns, set.args...))
}

func (r *CollectionRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE `+r.table+`
		SET deleted = TRUE, updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id)
	if err != nil {
		return false, mapError(err)
	}
	return res.RowsAffected() > 0, nil
}

var _ repository.CollectionRepository = (*CollectionRepository)(nil)
