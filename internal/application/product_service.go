package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/domain/repository"
	"go-commerce-api/pkg/assets"
)

const productImageNamespace = "product_images"

// ProductService runs the product lifecycle. Category and brand references are
// validated at creation and on re-assignment; Elasticsearch indexing is
// best-effort and never fails the parent operation.
type ProductService struct {
	Repo       repository.ProductRepository
	Categories repository.CollectionRepository
	Brands     repository.CollectionRepository
	Assets     assets.Store
	Logger     *logrus.Logger
	ES         *elasticsearch.Client
	ESIndex    string
}

func NewProductService(repo repository.ProductRepository, categories, brands repository.CollectionRepository, store assets.Store, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ProductService {
	return &ProductService{
		Repo:       repo,
		Categories: categories,
		Brands:     brands,
		Assets:     store,
		Logger:     logger,
		ES:         es,
		ESIndex:    esIndex,
	}
}

type ProductInput struct {
	Title              string
	Description        string
	Price              float64
	DiscountPercentage float64
	Rating             float64
	Stock              int
	BrandID            int64
	CategoryID         int64
	Images             []string // inline-encoded payloads
}

type ProductUpdateInput struct {
	Title              *string
	Description        *string
	Price              *float64
	DiscountPercentage *float64
	Rating             *float64
	Stock              *int
	BrandID            *int64
	CategoryID         *int64
	Images             *[]string // non-nil replaces all stored images
}

// Pagination is the listing metadata returned alongside a product page.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter, page, limit int) ([]entity.Product, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	items, total, err := s.Repo.ListActive(ctx, f, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	meta := Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
	return items, meta, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create validates the category/brand references, stores the image payloads
// (undecodable entries are skipped) and persists the product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if err := s.checkReference(ctx, s.Categories, in.CategoryID, "category"); err != nil {
		return nil, err
	}
	if err := s.checkReference(ctx, s.Brands, in.BrandID, "brand"); err != nil {
		return nil, err
	}

	p := &entity.Product{
		Title:              in.Title,
		Description:        in.Description,
		Price:              in.Price,
		DiscountPercentage: in.DiscountPercentage,
		Rating:             in.Rating,
		Stock:              in.Stock,
		BrandID:            in.BrandID,
		CategoryID:         in.CategoryID,
		Images:             s.storeImages(ctx, in.Images),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.index(ctx, p)
	return p, nil
}

// Update applies the provided fields. A non-nil image list replaces all stored
// image files; the previous files are removed best-effort first.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductUpdateInput) (*entity.Product, error) {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.CategoryID != nil {
		if err := s.checkReference(ctx, s.Categories, *in.CategoryID, "category"); err != nil {
			return nil, err
		}
	}
	if in.BrandID != nil {
		if err := s.checkReference(ctx, s.Brands, *in.BrandID, "brand"); err != nil {
			return nil, err
		}
	}

	upd := repository.ProductUpdate{
		Title:              in.Title,
		Description:        in.Description,
		Price:              in.Price,
		DiscountPercentage: in.DiscountPercentage,
		Rating:             in.Rating,
		Stock:              in.Stock,
		BrandID:            in.BrandID,
		CategoryID:         in.CategoryID,
	}
	if in.Images != nil {
		for _, old := range existing.Images {
			s.removeFile(ctx, old)
		}
		stored := s.storeImages(ctx, *in.Images)
		upd.Images = &stored
	}

	p, err := s.Repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.index(ctx, p)
	return p, nil
}

// Delete removes the product's image files best-effort and soft-deletes it.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if existing.Deleted {
		return ErrNotFound
	}

	for _, img := range existing.Images {
		s.removeFile(ctx, img)
	}

	ok, err := s.Repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.deindex(ctx, id)
	return nil
}

// Search queries the Elasticsearch index over title and description. Returns
// an empty result when search is not configured.
func (s *ProductService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *ProductService) checkReference(ctx context.Context, repo repository.CollectionRepository, id int64, kind string) error {
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s %d: %w", kind, id, ErrInvalidReference)
		}
		return err
	}
	if c.Deleted {
		return fmt.Errorf("%s %d: %w", kind, id, ErrInvalidReference)
	}
	return nil
}

// storeImages saves each payload independently; entries that fail to decode
// are skipped.
func (s *ProductService) storeImages(ctx context.Context, payloads []string) []string {
	stored := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		if strings.TrimSpace(payload) == "" {
			continue
		}
		path, err := s.Assets.SaveBase64(ctx, payload, productImageNamespace)
		if err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).Warn("skipping product image payload")
			}
			continue
		}
		stored = append(stored, path)
	}
	return stored
}

func (s *ProductService) removeFile(ctx context.Context, path string) {
	if err := s.Assets.Remove(ctx, path); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("path", path).Warn("asset cleanup failed")
	}
}

func (s *ProductService) index(ctx context.Context, p *entity.Product) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"rating":      p.Rating,
		"stock":       p.Stock,
		"category_id": p.CategoryID,
		"brand_id":    p.BrandID,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
}

func (s *ProductService) deindex(ctx context.Context, id int64) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}
