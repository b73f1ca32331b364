package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/domain/repository"
	"go-commerce-api/pkg/assets"
)

// CollectionKind describes one catalog collection flavor; the same service
// logic serves categories and brands.
type CollectionKind struct {
	Name      string // log field / error context, e.g. "category"
	Namespace string // asset namespace, e.g. "category_images"
}

var (
	CategoryKind = CollectionKind{Name: "category", Namespace: "category_images"}
	BrandKind    = CollectionKind{Name: "brand", Namespace: "brand_images"}
)

// CollectionService runs the create/edit/delete lifecycle for categories and
// brands, keeping stored asset files consistent with the entity's references.
type CollectionService struct {
	Repo   repository.CollectionRepository
	Assets assets.Store
	Logger *logrus.Logger
	Kind   CollectionKind
}

func NewCollectionService(repo repository.CollectionRepository, store assets.Store, logger *logrus.Logger, kind CollectionKind) *CollectionService {
	return &CollectionService{Repo: repo, Assets: store, Logger: logger, Kind: kind}
}

type CollectionInput struct {
	Title       string
	Description string
	Image       string // optional inline-encoded payload
}

type CollectionUpdateInput struct {
	Title       *string
	Description *string
	Image       *string // non-nil non-empty payload replaces the stored image
}

func (s *CollectionService) List(ctx context.Context) ([]entity.Collection, error) {
	return s.Repo.ListActive(ctx)
}

// Create stores the optional image and its thumbnail before persisting.
// A thumbnail derivation failure is non-fatal: the record keeps the image and
// an empty thumbnail.
func (s *CollectionService) Create(ctx context.Context, in CollectionInput) (*entity.Collection, error) {
	image, thumb, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	c := &entity.Collection{
		Title:       in.Title,
		Description: in.Description,
		Image:       image,
		Thumbnail:   thumb,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies only the provided fields. A new image payload replaces the
// stored files: the old image and thumbnail are removed best-effort first.
func (s *CollectionService) Update(ctx context.Context, id int64, in CollectionUpdateInput) (*entity.Collection, error) {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	upd := repository.CollectionUpdate{Title: in.Title, Description: in.Description}
	if in.Image != nil && *in.Image != "" {
		s.removeFile(ctx, existing.Image)
		s.removeFile(ctx, existing.Thumbnail)
		image, thumb, err := s.storeImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		upd.Image = &image
		upd.Thumbnail = &thumb
	}

	c, err := s.Repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Delete removes the stored files best-effort and soft-deletes the record.
// An absent or already-deleted record is NotFound.
func (s *CollectionService) Delete(ctx context.Context, id int64) error {
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

	s.removeFile(ctx, existing.Image)
	s.removeFile(ctx, existing.Thumbnail)

	ok, err := s.Repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *CollectionService) storeImage(ctx context.Context, payload string) (image, thumb string, err error) {
	if payload == "" {
		return "", "", nil
	}
	image, err = s.Assets.SaveBase64(ctx, payload, s.Kind.Namespace)
	if err != nil {
		return "", "", err
	}
	thumb, err = s.Assets.Thumbnail(ctx, image, s.Kind.Namespace)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("kind", s.Kind.Name).Warn("thumbnail derivation failed")
		}
		return image, "", nil
	}
	return image, thumb, nil
}

func (s *CollectionService) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.Assets.Remove(ctx, path); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("path", path).Warn("asset cleanup failed")
	}
}
