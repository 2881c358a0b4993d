package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository"
	"syncfit/connect-api/internal/storage"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrStorageDisabled = fmt.Errorf("%w: image storage is not configured", ErrUnavailable)

const imageKeyPrefix = "images"

// ImageUpload is a newly created image record and where to PUT the file.
type ImageUpload struct {
	Image     *domain.Image `json:"image"`
	UploadURL string        `json:"uploadUrl"`
}

// GalleryService manages the exercise image gallery.
type GalleryService interface {
	ListImages(ctx context.Context) ([]domain.Image, error)
	CreateUpload(ctx context.Context, title, fileName, contentType, uploadedBy string) (*ImageUpload, error)
	DeleteImage(ctx context.Context, id primitive.ObjectID) error
}

type galleryService struct {
	imageRepo repository.RecordRepository[domain.Image]
	files     storage.FileStorage // nil when object storage is not configured
	now       func() time.Time
}

// NewGalleryService creates a new instance of galleryService. files may be nil,
// in which case only externally hosted images (with a URL) are served.
func NewGalleryService(imageRepo repository.RecordRepository[domain.Image], files storage.FileStorage) GalleryService {
	return &galleryService{imageRepo: imageRepo, files: files, now: time.Now}
}

// ListImages returns the gallery. Images kept in object storage get a
// fresh presigned download URL.
func (s *galleryService) ListImages(ctx context.Context) ([]domain.Image, error) {
	images, err := s.imageRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.files == nil {
		return images, nil
	}
	for i := range images {
		if images[i].ObjectKey == "" {
			continue
		}
		url, err := s.files.GeneratePresignedDownloadURL(ctx, images[i].ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, err
		}
		images[i].URL = url
	}
	return images, nil
}

func (s *galleryService) CreateUpload(ctx context.Context, title, fileName, contentType, uploadedBy string) (*ImageUpload, error) {
	if s.files == nil {
		return nil, ErrStorageDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalid("contentType must be an image type")
	}

	image := &domain.Image{
		Title:      title,
		ObjectKey:  storage.NewObjectKey(imageKeyPrefix, fileName),
		UploadedBy: uploadedBy,
		UploadedAt: s.now().UTC(),
	}
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, image.ObjectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	if _, err := s.imageRepo.Create(ctx, image); err != nil {
		return nil, err
	}
	return &ImageUpload{Image: image, UploadURL: uploadURL}, nil
}

// DeleteImage removes the record first; a leftover object is only logged.
func (s *galleryService) DeleteImage(ctx context.Context, id primitive.ObjectID) error {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrImageNotFound)
	}
	if err := s.imageRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrImageNotFound)
	}
	if image.ObjectKey != "" && s.files != nil {
		if err := s.files.DeleteObject(ctx, image.ObjectKey); err != nil {
			log.Printf("WARN: Image %s deleted but object %q remains: %v", id.Hex(), image.ObjectKey, err)
		}
	}
	return nil
}
