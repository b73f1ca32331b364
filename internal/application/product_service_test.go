package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/domain/repository"
)

type productFixture struct {
	svc        *ProductService
	repo       *fakeProductRepo
	categories *fakeCollectionRepo
	brands     *fakeCollectionRepo
	store      *fakeStore
	categoryID int64
	brandID    int64
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	f := &productFixture{
		repo:       newFakeProductRepo(),
		categories: newFakeCollectionRepo(),
		brands:     newFakeCollectionRepo(),
		store:      newFakeStore(),
	}
	f.svc = NewProductService(f.repo, f.categories, f.brands, f.store, testLogger(), nil, "")

	cat := &entity.Collection{Title: "Smartphones"}
	require.NoError(t, f.categories.Create(context.Background(), cat))
	f.categoryID = cat.ID

	brand := &entity.Collection{Title: "Acme"}
	require.NoError(t, f.brands.Create(context.Background(), brand))
	f.brandID = brand.ID
	return f
}

func (f *productFixture) input() ProductInput {
	return ProductInput{
		Title:      "Acme Phone",
		Price:      499.99,
		Stock:      10,
		BrandID:    f.brandID,
		CategoryID: f.categoryID,
	}
}

func TestProductCreate(t *testing.T) {
	f := newProductFixture(t)

	in := f.input()
	in.Images = []string{"payload-1", "payload-2"}
	p, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	require.Len(t, p.Images, 2)
	for _, img := range p.Images {
		assert.True(t, f.store.exists(img))
	}
}

func TestProductCreateSkipsUndecodableImages(t *testing.T) {
	f := newProductFixture(t)

	in := f.input()
	in.Images = []string{"payload-1", "bad", ""}
	p, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, p.Images, 1)
}

func TestProductCreateUnknownCategory(t *testing.T) {
	f := newProductFixture(t)

	in := f.input()
	in.CategoryID = 99
	_, err := f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestProductCreateDeletedBrand(t *testing.T) {
	f := newProductFixture(t)
	_, err := f.brands.SoftDelete(context.Background(), f.brandID)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.input())
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestProductListPagination(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := f.svc.Create(ctx, f.input())
		require.NoError(t, err)
	}

	items, meta, err := f.svc.List(ctx, repository.ProductFilter{}, 2, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, Pagination{Total: 7, Page: 2, Limit: 3, TotalPages: 3}, meta)

	// newest first: page 2 of size 3 holds ids 4..2
	assert.Equal(t, int64(4), items[0].ID)

	last, meta, err := f.svc.List(ctx, repository.ProductFilter{}, 3, 3)
	require.NoError(t, err)
	assert.Len(t, last, 1)
	assert.Equal(t, 3, meta.TotalPages)

	empty, _, err := f.svc.List(ctx, repository.ProductFilter{}, 4, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProductListClampsPageAndLimit(t *testing.T) {
	f := newProductFixture(t)
	_, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	items, meta, err := f.svc.List(context.Background(), repository.ProductFilter{}, 0, -5)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 1, meta.Limit)
}

func TestProductListCategoryFilter(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	other := &entity.Collection{Title: "Tablets"}
	require.NoError(t, f.categories.Create(ctx, other))

	_, err := f.svc.Create(ctx, f.input())
	require.NoError(t, err)
	in := f.input()
	in.CategoryID = other.ID
	_, err = f.svc.Create(ctx, in)
	require.NoError(t, err)

	items, meta, err := f.svc.List(ctx, repository.ProductFilter{CategoryID: &other.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, other.ID, items[0].CategoryID)
	assert.Equal(t, 1, meta.Total)
}

func TestProductGetNotFound(t *testing.T) {
	f := newProductFixture(t)
	_, err := f.svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductUpdatePartial(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.input())
	require.NoError(t, err)

	price := 399.99
	p, err := f.svc.Update(ctx, created.ID, ProductUpdateInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 399.99, p.Price)
	assert.Equal(t, created.Title, p.Title)
	assert.Equal(t, created.Stock, p.Stock)
}

func TestProductUpdateReplacesImages(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	in := f.input()
	in.Images = []string{"payload-1", "payload-2"}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	newImages := []string{"payload-3"}
	p, err := f.svc.Update(ctx, created.ID, ProductUpdateInput{Images: &newImages})
	require.NoError(t, err)
	require.Len(t, p.Images, 1)

	for _, old := range created.Images {
		assert.False(t, f.store.exists(old), "old image should be removed")
	}
	assert.True(t, f.store.exists(p.Images[0]))
}

func TestProductUpdateRejectsUnknownReference(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.input())
	require.NoError(t, err)

	bad := int64(99)
	_, err = f.svc.Update(ctx, created.ID, ProductUpdateInput{BrandID: &bad})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestProductUpdateNotFound(t *testing.T) {
	f := newProductFixture(t)
	title := "x"
	_, err := f.svc.Update(context.Background(), 42, ProductUpdateInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductDelete(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	in := f.input()
	in.Images = []string{"payload-1"}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	assert.False(t, f.store.exists(created.Images[0]))

	_, meta, err := f.svc.List(ctx, repository.ProductFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, meta.Total)

	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestProductSearchWithoutES(t *testing.T) {
	f := newProductFixture(t)

	hits, err := f.svc.Search(context.Background(), "phone", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
