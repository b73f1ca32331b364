package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-commerce-api/internal/application"
	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/domain/repository"
	"go-commerce-api/pkg/assets"
	"go-commerce-api/pkg/response"
	"go-commerce-api/pkg/validation"
)

const (
	defaultProductPage  = 1
	defaultProductLimit = 3
)

type ProductHandler struct {
	Svc    *application.ProductService
	Assets assets.Store
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.ProductService, store assets.Store, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Assets: store, Logger: logger}
}

type createProductRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description" binding:"required"`
	Price              *float64 `json:"price" binding:"required,gte=0"`
	DiscountPercentage float64  `json:"discount_percentage" binding:"gte=0,lte=100"`
	Rating             float64  `json:"rating" binding:"gte=0,lte=5"`
	Stock              *int     `json:"stock" binding:"required,gte=0"`
	BrandID            int64    `json:"brand_id" binding:"required,gt=0"`
	CategoryID         int64    `json:"category_id" binding:"required,gt=0"`
	Images             []string `json:"images"`
}

type updateProductRequest struct {
	Title              *string   `json:"title"`
	Description        *string   `json:"description"`
	Price              *float64  `json:"price" binding:"omitempty,gte=0"`
	DiscountPercentage *float64  `json:"discount_percentage" binding:"omitempty,gte=0,lte=100"`
	Rating             *float64  `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Stock              *int      `json:"stock" binding:"omitempty,gte=0"`
	BrandID            *int64    `json:"brand_id" binding:"omitempty,gt=0"`
	CategoryID         *int64    `json:"category_id" binding:"omitempty,gt=0"`
	Images             *[]string `json:"images"`
}

type collectionSummaryView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type productView struct {
	ID                 int64                  `json:"id"`
	Title              string                 `json:"title"`
	Description        string                 `json:"description"`
	Price              float64                `json:"price"`
	DiscountPercentage float64                `json:"discount_percentage"`
	Rating             float64                `json:"rating"`
	Stock              int                    `json:"stock"`
	BrandID            int64                  `json:"brand_id"`
	CategoryID         int64                  `json:"category_id"`
	Images             []string               `json:"images"`
	Category           *collectionSummaryView `json:"category,omitempty"`
	Brand              *collectionSummaryView `json:"brand,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// view resolves stored image paths to public URLs, dropping entries whose
// backing file no longer exists.
func (h *ProductHandler) view(c *gin.Context, p *entity.Product) productView {
	images := make([]string, 0, len(p.Images))
	for _, path := range p.Images {
		if url := h.Assets.PublicURL(c.Request.Context(), path); url != "" {
			images = append(images, url)
		}
	}
	v := productView{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		BrandID:            p.BrandID,
		CategoryID:         p.CategoryID,
		Images:             images,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.Category != nil {
		v.Category = &collectionSummaryView{ID: p.Category.ID, Title: p.Category.Title, Description: p.Category.Description}
	}
	if p.Brand != nil {
		v.Brand = &collectionSummaryView{ID: p.Brand.ID, Title: p.Brand.Title, Description: p.Brand.Description}
	}
	return v
}

func (h *ProductHandler) List(c *gin.Context) {
	page := queryInt(c, "page", defaultProductPage)
	limit := queryInt(c, "limit", defaultProductLimit)

	var filter repository.ProductFilter
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			response.Error[any](c, http.StatusBadRequest, "invalid category filter", nil)
			return
		}
		filter.CategoryID = &id
	}

	items, meta, err := h.Svc.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		h.internal(c, err, "list products failed")
		return
	}
	views := make([]productView, 0, len(items))
	for i := range items {
		views = append(views, h.view(c, &items[i]))
	}
	response.Success(c, http.StatusOK, views, "product list retrieved", meta)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		h.internal(c, err, "get product failed")
		return
	}
	response.Success(c, http.StatusOK, h.view(c, p), "product retrieved", nil)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p, err := h.Svc.Create(c.Request.Context(), application.ProductInput{
		Title:              req.Title,
		Description:        req.Description,
		Price:              *req.Price,
		DiscountPercentage: req.DiscountPercentage,
		Rating:             req.Rating,
		Stock:              *req.Stock,
		BrandID:            req.BrandID,
		CategoryID:         req.CategoryID,
		Images:             req.Images,
	})
	if err != nil {
		if errors.Is(err, application.ErrInvalidReference) {
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.internal(c, err, "create product failed")
		return
	}
	response.Success(c, http.StatusCreated, h.view(c, p), "product created", nil)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p, err := h.Svc.Update(c.Request.Context(), id, application.ProductUpdateInput{
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		DiscountPercentage: req.DiscountPercentage,
		Rating:             req.Rating,
		Stock:              req.Stock,
		BrandID:            req.BrandID,
		CategoryID:         req.CategoryID,
		Images:             req.Images,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
		case errors.Is(err, application.ErrInvalidReference):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.internal(c, err, "update product failed")
		}
		return
	}
	response.Success(c, http.StatusOK, h.view(c, p), "product updated", nil)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		h.internal(c, err, "delete product failed")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "product deleted", nil)
}

func (h *ProductHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size := queryInt(c, "size", 0)

	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.internal(c, err, "search products failed")
		return
	}
	response.Success(c, http.StatusOK, hits, "search results retrieved", gin.H{"query": q})
}

func (h *ProductHandler) internal(c *gin.Context, err error, msg string) {
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(msg)
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
