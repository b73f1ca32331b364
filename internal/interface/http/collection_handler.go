package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-commerce-api/internal/application"
	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/pkg/assets"
	"go-commerce-api/pkg/response"
	"go-commerce-api/pkg/validation"
)

// CollectionHandler serves both category and brand routes; the wired service
// decides which table and asset namespace it operates on.
type CollectionHandler struct {
	Svc    *application.CollectionService
	Assets assets.Store
	Logger *logrus.Logger
}

func NewCollectionHandler(svc *application.CollectionService, store assets.Store, logger *logrus.Logger) *CollectionHandler {
	return &CollectionHandler{Svc: svc, Assets: store, Logger: logger}
}

type createCollectionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Image       string `json:"image"`
}

type updateCollectionRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type collectionView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	Thumbnail   *string   `json:"thumbnail"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *CollectionHandler) view(c *gin.Context, col *entity.Collection) collectionView {
	v := collectionView{
		ID:          col.ID,
		Title:       col.Title,
		Description: col.Description,
		CreatedAt:   col.CreatedAt,
		UpdatedAt:   col.UpdatedAt,
	}
	if col.Image != "" {
		if url := h.Assets.PublicURL(c.Request.Context(), col.Image); url != "" {
			v.Image = &url
		}
	}
	if col.Thumbnail != "" {
		if url := h.Assets.PublicURL(c.Request.Context(), col.Thumbnail); url != "" {
			v.Thumbnail = &url
		}
	}
	return v
}

func (h *CollectionHandler) List(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.internal(c, err, "list failed")
		return
	}
	views := make([]collectionView, 0, len(items))
	for i := range items {
		views = append(views, h.view(c, &items[i]))
	}
	response.Success(c, http.StatusOK, views, h.Svc.Kind.Name+" list retrieved", nil)
}

func (h *CollectionHandler) Create(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	col, err := h.Svc.Create(c.Request.Context(), application.CollectionInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, assets.ErrInvalidPayload) {
			response.Error[any](c, http.StatusBadRequest, "image payload is not a valid base64 image", nil)
			return
		}
		h.internal(c, err, "create failed")
		return
	}
	response.Success(c, http.StatusCreated, h.view(c, col), h.Svc.Kind.Name+" created", nil)
}

func (h *CollectionHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	col, err := h.Svc.Update(c.Request.Context(), id, application.CollectionUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			response.Error[any](c, http.StatusNotFound, h.Svc.Kind.Name+" not found", nil)
		case errors.Is(err, assets.ErrInvalidPayload):
			response.Error[any](c, http.StatusBadRequest, "image payload is not a valid base64 image", nil)
		default:
			h.internal(c, err, "update failed")
		}
		return
	}
	response.Success(c, http.StatusOK, h.view(c, col), h.Svc.Kind.Name+" updated", nil)
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, h.Svc.Kind.Name+" not found", nil)
			return
		}
		h.internal(c, err, "delete failed")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, h.Svc.Kind.Name+" deleted", nil)
}

func (h *CollectionHandler) internal(c *gin.Context, err error, msg string) {
	if h.Logger != nil {
		h.Logger.WithError(err).WithFields(logrus.Fields{
			"kind":       h.Svc.Kind.Name,
			"request_id": c.GetString("request_id"),
		}).Error(msg)
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

// pathID parses the :id path parameter, writing a 400 on failure.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error[any](c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
